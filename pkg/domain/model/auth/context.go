package auth

import "context"

type ctxTokenKey struct{}

// ContextWithToken embeds the authenticated session token into the context.
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext extracts the session token, or nil if unauthenticated.
func TokenFromContext(ctx context.Context) *Token {
	token, _ := ctx.Value(ctxTokenKey{}).(*Token)
	return token
}
