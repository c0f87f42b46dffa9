package usecase

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidToken     = goerr.New("invalid authentication token")
	ErrTokenExpired     = goerr.New("authentication token expired")
	ErrInvalidSocketKey = goerr.New("invalid socket key")
	ErrSocketKeyExpired = goerr.New("socket key expired")
)
