package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/database"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/model"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/utilities"
)

// LocalAuthHandler holds DB and token issuer references for handler methods.
type LocalAuthHandler struct {
	DB     *database.DBinstanceStruct
	Tokens *TokenIssuer
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler with the
// provided database connection and token issuer.
func NewLocalAuthHandler(db *database.DBinstanceStruct, tokens *TokenIssuer) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB:     db,
		Tokens: tokens,
	}
}

type registerInfo struct {
	FirstName  string `json:"first_name" binding:"required,max=50"`
	MiddleName string `json:"middle_name" binding:"max=50"`
	LastName   string `json:"last_name" binding:"required,max=50"`
	Username   string `json:"username" binding:"required,max=50"`
	Password   string `json:"password" binding:"required,min=6"`
}

type loginInfo struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
}

// RegisterHandler handles local registration.
// @Summary Register a new account with username and password
// @Description Username must not already exist and password must be at least 6 characters long. New accounts always get role USER.
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "Account information"
// @Success 201 {object} AuthResponse "Created account and access token"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition, or username taken"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register [post]
func (lh *LocalAuthHandler) RegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "First name, last name, username and password (at least 6 characters) must be provided",
		})
		return
	}

	var user model.User
	err := lh.DB.Where("username = ?", info.Username).First(&user).Error

	switch {
	case err == nil:
		LogAuthAttempt("info", "Local", "Fail", info.Username, "username already exists")
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username already exists",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	newUser := model.User{
		FirstName:  info.FirstName,
		MiddleName: info.MiddleName,
		LastName:   info.LastName,
		Username:   info.Username,
		Password:   hashedPassword,
		Role:       model.RoleUser,
	}
	if err := lh.DB.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	accessToken, err := lh.Tokens.IssueToken(newUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", "Local", "Success", newUser.Username, "registered")
	c.JSON(http.StatusCreated, AuthResponse{
		User:        newUser,
		AccessToken: accessToken,
	})
}

// LoginHandler handles local login.
// @Summary Log in with username and password
// @Description Username must exist and password match
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} AuthResponse "Account and access token"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 401 {object} utilities.ErrorResponse "Username not exist or password incorrect"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username or password is not provided",
		})
		return
	}

	var user model.User
	err := lh.DB.Where("username = ?", info.Username).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		LogAuthAttempt("info", "Local", "Fail", info.Username, "unknown username")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Username or password is incorrect",
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		LogAuthAttempt("info", "Local", "Fail", info.Username, "wrong password")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Username or password is incorrect",
		})
		return
	}

	accessToken, err := lh.Tokens.IssueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", "Local", "Success", user.Username, "")
	c.JSON(http.StatusOK, AuthResponse{
		User:        user,
		AccessToken: accessToken,
	})
}
