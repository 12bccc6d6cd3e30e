// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/blake2b"

	"github.com/finance-tracker/txcache/internal/application/adapter"
)

const (
	// fingerprintPrefix marks keys derived from the raw credential instead of a claim.
	fingerprintPrefix = "tok_"

	// fingerprintLength is the number of hex characters kept from the digest.
	fingerprintLength = 16
)

// identityKeyService implements the adapter.IdentityKeyService interface.
type identityKeyService struct {
	parser *jwt.Parser
}

// NewIdentityKeyService creates a new identity key service instance.
func NewIdentityKeyService() adapter.IdentityKeyService {
	return &identityKeyService{
		parser: jwt.NewParser(jwt.WithJSONNumber()),
	}
}

// IdentityKey derives the cache namespace of a credential.
func (s *identityKeyService) IdentityKey(credential string) string {
	return deriveIdentityKey(s.parser, credential)
}

// DeriveIdentityKey returns the subject claim of a JWT credential, else its email
// claim, else a fingerprint of the raw credential. A numeric subject is used in its
// decimal form. The signature is never verified: the key only namespaces local data.
// An empty credential has no identity.
func DeriveIdentityKey(credential string) string {
	return deriveIdentityKey(jwt.NewParser(jwt.WithJSONNumber()), credential)
}

func deriveIdentityKey(parser *jwt.Parser, credential string) string {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(credential, claims); err == nil {
		if sub := claimText(claims["sub"]); sub != "" {
			return sub
		}
		if email := claimText(claims["email"]); email != "" {
			return email
		}
	}

	return fingerprint(credential)
}

// claimText renders a string or numeric claim. Blank strings and other types yield "".
func claimText(value any) string {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return ""
		}
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func fingerprint(credential string) string {
	sum := blake2b.Sum256([]byte(credential))
	return fingerprintPrefix + hex.EncodeToString(sum[:])[:fingerprintLength]
}
