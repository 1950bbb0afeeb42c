// Package middleware contain utilities middleware code
package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/auth"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/database"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/model"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/utilities"
)

// RequireAuth validates the Bearer token in the Authorization header and
// checks that the user associated with the token still exists before
// allowing access to the endpoint.
func RequireAuth(db *database.DBinstanceStruct, tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		user, errResp, code := resolveUser(db, tokens, tokenString)
		if code != http.StatusOK {
			ctx.AbortWithStatusJSON(code, errResp)
			return
		}

		ctx.Set("user", user)
		ctx.Next()
	}
}

// OptionalAuth attaches the user to the context when a valid Bearer
// token is present but lets anonymous requests through untouched. A
// malformed or expired token is still rejected: a caller who sent one
// meant to authenticate.
func OptionalAuth(db *database.DBinstanceStruct, tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetHeader("Authorization") == "" {
			ctx.Next()
			return
		}

		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		user, errResp, code := resolveUser(db, tokens, tokenString)
		if code != http.StatusOK {
			ctx.AbortWithStatusJSON(code, errResp)
			return
		}

		ctx.Set("user", user)
		ctx.Next()
	}
}

// resolveUser validates the token and loads the claimed user from DB.
func resolveUser(db *database.DBinstanceStruct, tokens *auth.TokenIssuer, tokenString string) (model.User, utilities.ErrorResponse, int) {
	token, claims, err := tokens.ValidateToken(tokenString)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.User{}, utilities.ErrorResponse{Error: "Access token expired"}, http.StatusUnauthorized
		}

		return model.User{}, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to validate token: %s", err.Error()),
		}, http.StatusUnauthorized
	}

	if !token.Valid {
		return model.User{}, utilities.ErrorResponse{Error: "Invalid access token"}, http.StatusUnauthorized
	}

	if claims.Issuer != auth.JwtIssuer {
		return model.User{}, utilities.ErrorResponse{Error: "Invalid token issuer"}, http.StatusUnauthorized
	}

	var foundUser model.User
	if err := db.Where("id = ?", claims.Subject).First(&foundUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, utilities.ErrorResponse{Error: "User not exist"}, http.StatusUnauthorized
		}

		return model.User{}, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user data: %s", err.Error()),
		}, http.StatusInternalServerError
	}

	return foundUser, utilities.ErrorResponse{}, http.StatusOK
}
