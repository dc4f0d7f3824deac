package credentials

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/sessionguard/internal/common"
)

// Credential is a stored bearer token and the expiry embedded in it.
type Credential struct {
	Token     string
	Subject   string
	ExpiresAt time.Time
}

// Decode extracts the expiry (and subject, when present) from token's JWT
// payload. The signature is not verified: the client cannot hold the
// backend's key and only needs the expiry to decide whether to refresh.
func Decode(token string) (Credential, error) {
	claims := &jwt.RegisteredClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Credential{}, fmt.Errorf("%w: %v", common.ErrMalformedCredential, err)
	}
	if claims.ExpiresAt == nil {
		return Credential{}, fmt.Errorf("%w: missing exp claim", common.ErrMalformedCredential)
	}

	return Credential{
		Token:     token,
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ExpiredAt reports whether the credential is expired at now. Both sides
// are compared in whole seconds; an expiry equal to now counts as expired.
func (c Credential) ExpiredAt(now time.Time) bool {
	return c.ExpiresAt.Unix() <= now.Unix()
}
