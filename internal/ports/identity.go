package ports

import "context"

// IdentityProvider creates accounts in whatever system owns credentials.
// The hosted adapter talks to the external backend's account API; the local
// adapter replicates that guarantee in-process for self-contained deployments.
// The returned account identifier is opaque to callers.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password string) (string, error)
}
