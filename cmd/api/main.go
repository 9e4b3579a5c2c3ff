package main

import (
	"log"
	"net/http"

	"origincheck/internal/api"
	"origincheck/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	h := api.NewServer(cfg)
	log.Printf("origincheck api listening on %s search_providers=%q embed_providers=%q", cfg.APIAddr, cfg.SearchProviders, cfg.EmbedProviders)
	if err := http.ListenAndServe(cfg.APIAddr, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
