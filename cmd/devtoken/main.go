package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/platform/sessions"
)

// Dev-only session token minter.
//
// Prints a signed bearer token for an arbitrary user ID so local API
// calls can be made with curl without going through signup and login.
// The secret must match the running API's SESSION_SECRET.
func main() {
	_ = godotenv.Load()

	userID := flag.String("user", "", "user ID to mint a token for")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if strings.TrimSpace(*userID) == "" {
		flag.Usage()
		os.Exit(2)
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		log.Fatal("SESSION_SECRET is required")
	}

	mgr := sessions.NewManager(secret, *ttl)
	token, err := mgr.Issue(domain.UserID(*userID))
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
}
