package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims accepted by the service.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the claims include at least one of roles. An
// empty roles list is always satisfied.
func (c Claims) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

// Role constants
const (
	RoleAdmin  = "admin"
	RoleScorer = "scorer"
)

// ScoringRoles are the roles allowed to request predictions.
var ScoringRoles = []string{RoleScorer, RoleAdmin}
