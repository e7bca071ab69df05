package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/murmur-social/murmur/internal/config"
	"github.com/murmur-social/murmur/internal/logger"
	"github.com/murmur-social/murmur/internal/seed"
	"github.com/murmur-social/murmur/internal/store"
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}
	if err := logger.Initialize(config.Get("LOG_LEVEL", "info"), config.Get("LOG_FILE", "seed.log")); err != nil {
		panic(err)
	}
	defer logger.Close()
	log := logger.Log

	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	dsn := config.Get("DATABASE_URL", "")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required, seeding an in-memory store is pointless")
	}
	st, err := store.NewPostgresStore(dsn, false)
	if err != nil {
		log.Fatal("Failed to connect to postgres", zap.Error(err))
	}
	defer st.Close()

	seeder := seed.NewSeeder(st, log)
	ctx := context.Background()

	switch command {
	case "dev":
		err = seeder.SeedDev(ctx)
	case "test":
		err = seeder.SeedTest(ctx)
	default:
		fmt.Println("Usage: seed [dev|test]")
		fmt.Println("  dev  - Seed a development database with realistic data")
		fmt.Println("  test - Seed a minimal data set for integration testing")
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
}
