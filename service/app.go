package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"quill/app/auth"
	"quill/app/config"
	"quill/app/logging"
	"quill/app/routes"
)

// logOutput is where the server logs go - variable to allow testing.
var logOutput io.Writer = os.Stdout

// RunAppServer loads the configuration from args, opens the configured
// storage and serves the API until SIGINT or SIGTERM.
func RunAppServer(args []string) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	initSignalHandler(cancel)

	if err := run(ctx, args); err != nil {
		fmt.Printf("Error: %v\n", err)
		osExit(1)
		return 1
	}
	return 0
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	logger := logging.New(logOutput, logging.ParseLevel(cfg.LogLevel))

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error(context.Background(), "failed to close storage", "error", err)
		}
	}()

	passwords, err := auth.NewCredentialVerifier(cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("password hasher init error: %w", err)
	}
	tokens, err := auth.NewTokenService(cfg.SecretKey, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("token service init error: %w", err)
	}

	router := routes.SetupRoutes(routes.Dependencies{
		Users:     store.Users,
		Posts:     store.Posts,
		Passwords: passwords,
		Tokens:    tokens,
		Logger:    logger,
	})

	logger.Info(ctx, "Starting quill", "storage", cfg.Storage, "token_ttl", tokens.TTL().String())
	return routes.StartServer(ctx, cfg.Addr, router, logger)
}

func initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		cancelFunc()
	}()
}
