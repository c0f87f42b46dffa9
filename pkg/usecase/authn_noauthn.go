package usecase

import (
	"context"

	"github.com/resq-lab/rollcall/pkg/domain/model/auth"
)

// NoAuthnUseCase skips authentication and runs every request as a fixed
// identity. Development only.
type NoAuthnUseCase struct {
	identity *auth.Token
}

var _ AuthUseCaseInterface = &NoAuthnUseCase{}

func NewNoAuthnUseCase(sub string) *NoAuthnUseCase {
	identity := auth.NewAnonymousUser()
	if sub != "" {
		identity.Sub = sub
		identity.Name = sub
	}
	return &NoAuthnUseCase{identity: identity}
}

func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}

func (uc *NoAuthnUseCase) IssueToken(ctx context.Context, sub, email, name string) (*auth.Token, error) {
	return uc.identity, nil
}

func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, secret auth.TokenSecret) (*auth.Token, error) {
	return uc.identity, nil
}

func (uc *NoAuthnUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	return nil
}
