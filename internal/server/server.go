// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/auth"
	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/database"
)

// MyServer holds the dependencies shared by the route handlers.
type MyServer struct {
	DB     *database.DBinstanceStruct
	Tokens *auth.TokenIssuer
}

// NewServer constructs the configured http.Server, connecting to the
// database and wiring the token issuer along the way.
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	tokens, err := auth.IssuerFromEnv()
	if err != nil {
		log.Fatalf("Token issuer failed to initialize: %s", err)
	}

	s := &MyServer{
		DB:     db,
		Tokens: tokens,
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
