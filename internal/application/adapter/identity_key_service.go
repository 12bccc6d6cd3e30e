// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

// IdentityKeyService derives the cache namespace of a credential.
type IdentityKeyService interface {
	// IdentityKey returns a stable key for the credential, or "" when there is none.
	IdentityKey(credential string) string
}
