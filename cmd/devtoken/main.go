package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/giftshop-backend/pkg/auth"
	"github.com/angelmondragon/giftshop-backend/pkg/config"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
)

// devtoken mints an access token signed with the local JWT secret so the
// admin API can be exercised without the identity provider.
func main() {
	userID := flag.String("user", "dev-admin", "token subject")
	email := flag.String("email", "admin@localhost", "email claim")
	role := flag.String("role", enums.RoleAdmin.String(), "role claim (admin|customer)")
	flag.Parse()

	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "devtoken", Output: os.Stderr})
	_ = godotenv.Load()

	var app config.AppConfig
	var jwtCfg config.JWTConfig
	if err := envconfig.Process(config.EnvPrefix, &app); err != nil {
		logg.Error(ctx, "failed to load app config", err)
		os.Exit(1)
	}
	if app.IsProd() {
		fmt.Fprintln(os.Stderr, "refusing to mint tokens in prod")
		os.Exit(1)
	}
	if err := envconfig.Process(config.EnvPrefix, &jwtCfg); err != nil {
		logg.Error(ctx, "failed to load jwt config", err)
		os.Exit(1)
	}

	parsedRole, err := enums.ParseRole(*role)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	token, err := auth.MintAccessToken(jwtCfg, time.Now(), auth.AccessTokenPayload{
		UserID: *userID,
		Email:  *email,
		Role:   parsedRole,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		logg.Error(ctx, "failed to mint token", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
