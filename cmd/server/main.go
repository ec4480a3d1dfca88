package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/ashenkeep/voxelserver/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, app.Config{}); err != nil {
		log.Fatalf("%v", err)
	}
}
