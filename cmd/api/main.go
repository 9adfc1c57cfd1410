package main

import (
	"log"

	"verified-ideas/internal/bootstrap"
	"verified-ideas/internal/shared/config"
	"verified-ideas/internal/shared/server"
)

func main() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s (store=%s)", addr, app.Store.Backend)

	if err := app.Router.Run(addr); err != nil {
		log.Printf("server error: %v", err)
	}
}
