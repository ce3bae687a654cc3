package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/abarkov/coffeerun/internal/config"
	"github.com/abarkov/coffeerun/internal/server"
	"github.com/abarkov/coffeerun/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := config.NewConfig()
	storage, err := storage.NewPostgresStorage(ctx, config.DatabaseURI)
	if err != nil {
		config.Logger.Fatal(err)
	}

	srv := server.NewServer(storage, config)
	if err := srv.Run(ctx); err != nil {
		config.Logger.Fatal(err)
	}
}
