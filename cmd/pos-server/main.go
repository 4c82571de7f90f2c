package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"restaurant-pos/internal/app/pos"
	"restaurant-pos/internal/config"
	"restaurant-pos/internal/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	port := flag.Int("port", 0, "override http.port from the config")
	migrations := flag.String("migrations", "migrations", "path to the SQL migrations directory")
	flag.Parse()

	lg := logger.New("bootstrap")

	cfg, err := config.Load(*configPath)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": *configPath})
		os.Exit(1)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := pos.Run(ctx, cfg, *migrations); err != nil {
		lg.Error("fatal", err, nil)
		os.Exit(1)
	}
}
