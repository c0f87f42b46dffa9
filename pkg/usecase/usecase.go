package usecase

import (
	"github.com/resq-lab/rollcall/pkg/domain/interfaces"
)

type UseCases struct {
	repo       interfaces.Repository
	Auth       AuthUseCaseInterface
	SocketAuth *SocketAuthUseCase
}

type Option func(*UseCases)

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.Auth == nil {
		uc.Auth = NewAuthUseCase(repo)
	}
	uc.SocketAuth = NewSocketAuthUseCase(repo)

	return uc
}
