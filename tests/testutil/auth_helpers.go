package testutil

import (
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/sokerihelmi/bakery-api/middleware"
)

// MockValidatedClaims creates a ValidatedClaims carrying the given role,
// shaped the way the real JWT middleware produces it.
func MockValidatedClaims(subject, role string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "https://test.eu.auth0.com/",
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Role: role,
		},
	}
}

// MockAuth returns a middleware that injects validated claims for the given
// subject and role, standing in for EnsureValidToken in tests.
func MockAuth(subject, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", subject)
		c.Set("validated_claims", MockValidatedClaims(subject, role))
		c.Next()
	}
}
