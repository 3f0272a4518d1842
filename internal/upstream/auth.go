package upstream

import (
	"github.com/golang-jwt/jwt/v5"
)

// AuthContext carries the caller's credentials to the back office. It is
// passed explicitly on every fetch; the client keeps no session of its own.
type AuthContext struct {
	Token   string
	Subject string
}

// NewAuthContext builds an AuthContext from a bearer token. The subject is
// read from the token claims without verifying the signature; it is only used
// to label logs, the back office does the real check.
func NewAuthContext(token string) AuthContext {
	auth := AuthContext{Token: token}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			auth.Subject = sub
		} else if userID, ok := claims["user_id"]; ok {
			if s, ok := userID.(string); ok {
				auth.Subject = s
			}
		}
	}

	return auth
}

// Anonymous reports whether no token is present.
func (a AuthContext) Anonymous() bool {
	return a.Token == ""
}
