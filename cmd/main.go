package main

import (
	"context"
	"log"

	"medlink.com/internal/api"
	"medlink.com/internal/config"
	"medlink.com/internal/infra"
)

func main() {
	cfg := config.LoadConfig()

	pg, err := infra.NewPostgresClient(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	rdb := infra.NewRedisClient(cfg.Redis)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	app := api.NewServer(cfg)

	router := api.NewRouter(app, cfg, pg.DB, rdb)
	if err := router.RegisterRoutes(); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := app.Listen(cfg.Server.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
