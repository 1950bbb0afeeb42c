// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/model"
)

// ErrorResponse type for swagger docs
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse type for swagger docs
type MessageResponse struct {
	Message string `json:"message"`
}

// ExtractUser extracts the user model from Gin context. It does not
// abort the request; callers decide whether a missing user is an error
// (guarded routes) or just means anonymous (catalog browsing).
func ExtractUser(c *gin.Context) (model.User, error) {
	u, _ := c.Get("user")
	if u == nil {
		return model.User{}, errors.New("user information not provided")
	}

	user, ok := u.(model.User)
	if !ok {
		return model.User{}, errors.New("failed to assert type")
	}
	return user, nil
}

// CreateAdmin creates an admin user with the given credentials in the provided database.
func CreateAdmin(password string, username string, db *gorm.DB) {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		log.Fatal("failed to hash password: ", err)
	}

	admin := model.User{
		FirstName: "System",
		LastName:  "Administrator",
		Username:  username,
		Password:  hashedPassword,
		Role:      model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("failed to create admin: ", err)
	}
}
