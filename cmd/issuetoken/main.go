package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"supportraise/internal/middleware"
)

func main() {
	var (
		userFlag   string
		ttlFlag    time.Duration
		issuerFlag string
		localeFlag string
	)
	flag.StringVar(&userFlag, "user", "", "user ID to place in the token subject")
	flag.DurationVar(&ttlFlag, "ttl", 24*time.Hour, "token lifetime")
	flag.StringVar(&issuerFlag, "issuer", "", "token issuer (fallbacks to JWT_ISSUER)")
	flag.StringVar(&localeFlag, "locale", "", "preferred display locale claim, e.g. en-NZ")
	flag.Parse()

	_ = godotenv.Load()

	userID := strings.TrimSpace(userFlag)
	if userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(1)
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}

	issuer := strings.TrimSpace(issuerFlag)
	if issuer == "" {
		issuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	}
	if issuer == "" {
		issuer = "supportraise"
	}

	claims := middleware.NewClaims(issuer, userID, ttlFlag)
	claims.Locale = strings.TrimSpace(localeFlag)
	token, err := middleware.SignClaims(secret, claims)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
