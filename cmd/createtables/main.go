package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/rachitx/ai-news-digest/pkg/config"
	"github.com/rachitx/ai-news-digest/pkg/store"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			log.Printf("config: %v", e)
		}
		log.Fatal("invalid configuration")
	}

	s, err := store.NewWithConfig(store.StoreConfig{
		ConnString: cfg.DatabaseURL(),
		TableName:  cfg.Database.TableName,
		BatchSize:  cfg.Database.BatchSize,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.CreateTables(ctx); err != nil {
		log.Fatal(err)
	}

	color.Green("✓ Schema ready (table %s)", cfg.Database.TableName)
}
