package main

import (
	"context"
	"flag"
	"time"

	"coursehub/internal/config"
	"coursehub/internal/database"
	"coursehub/internal/logger"
	"coursehub/internal/repository"
	"coursehub/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	email := flag.String("email", "", "Email address of the new account")
	name := flag.String("name", "", "Display name")
	password := flag.String("password", "", "Password")
	role := flag.String("role", "user", "Account kind: user|author|superuser")
	flag.Parse()

	envErr := godotenv.Load()
	logger := logger.New()
	if envErr != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Msgf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	users := service.NewUserService(repository.NewUserRepo(pool), logger)
	in := service.NewUser{Email: *email, Name: *name, Password: *password}

	create := users.CreateUser
	switch *role {
	case "user":
	case "author":
		create = users.CreateAuthor
	case "superuser":
		create = users.CreateSuperuser
	default:
		logger.Fatal().Str("role", *role).Msg("Unknown role, expected user, author or superuser")
	}

	u, err := create(ctx, in)
	if err != nil {
		logger.Fatal().Msgf("Failed to create %s: %v", *role, err)
	}
	logger.Info().Str("user_id", u.UserID).Str("email", u.Email).Str("role", *role).Msg("Account created")
}
