package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/palemoky/maze-escape/internal/config"
	"github.com/palemoky/maze-escape/internal/server"
	"github.com/palemoky/maze-escape/internal/storage"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Failed to load config, using defaults: %v", err)
		cfg = config.Default()
	}

	var opts []server.Option
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := storage.NewRedisClient(ctx, cfg.Redis)
		cancel()
		if err != nil {
			log.Printf("⚠️ Escape records disabled: %v", err)
		} else {
			defer func() { _ = rdb.Close() }()
			opts = append(opts, server.WithRecords(storage.NewRecordStore(rdb)))
		}
	}

	srv, err := server.NewServer(cfg, opts...)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		<-quit
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Shutdown: %v", err)
		}
		close(done)
	}()

	log.Println("🧭 Maze server starting...")
	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	<-done
}
