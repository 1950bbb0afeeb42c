package utilities

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// ExtractBearerToken pulls the bearer token out of the Authorization header.
func ExtractBearerToken(c *gin.Context) (string, error) {

	const BearerSchema = "Bearer "
	authHeader := c.GetHeader("Authorization")

	if len(authHeader) <= len(BearerSchema) {
		return "", fmt.Errorf("invalid authorization header")
	}

	return authHeader[len(BearerSchema):], nil
}
