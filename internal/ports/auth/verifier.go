package auth

import "context"

// Verifier checks a bearer token and returns claims or an error.
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
