package main

import (
	"context"
	"log"

	"staysure-portal-be/internal/bootstrap"
	"staysure-portal-be/internal/config"
	"staysure-portal-be/internal/server"
	"staysure-portal-be/internal/tracer"
	"staysure-portal-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)

	go func() {
		if err := container.NotifierService.Consume(context.Background()); err != nil {
			log.Printf("Notifier failed to start: %v", err)
		}
	}()

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
