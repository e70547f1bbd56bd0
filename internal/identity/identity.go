// Package identity resolves bearer credentials into verified claims.
package identity

import (
	"context"
	"errors"
)

// ErrUnauthenticated hides the reason a credential was refused.
var ErrUnauthenticated = errors.New("invalid or expired credential")

// ErrUnknownIdentity means the provider has no record of the identity.
var ErrUnknownIdentity = errors.New("unknown identity")

// Claims is the verified subject of a credential.
type Claims struct {
	Subject string
	Email   string
	Name    string
}

type Verifier interface {
	// VerifyToken returns claims with a non-empty Subject or ErrUnauthenticated.
	VerifyToken(ctx context.Context, token string) (*Claims, error)
	// LookupIdentity returns nil when uid names a current identity and
	// ErrUnknownIdentity when it does not.
	LookupIdentity(ctx context.Context, uid string) error
}
