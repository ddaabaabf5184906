package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"shopstream/internal/app/bootstrap"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring, provision topics and the analytics store.
// 3) Run one consumption loop per enabled consumer until SIGINT/SIGTERM.
func main() {
	log.Println("shopstream worker starting")
	app, err := bootstrap.BuildWorker()
	if err != nil {
		log.Fatalf("bootstrap worker failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("worker shutdown close failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("shopstream worker stopped with error: %v", err)
	}
}
