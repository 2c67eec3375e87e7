package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/idilsaglam/storelocator/internal/bootstrap"
	"github.com/idilsaglam/storelocator/internal/logger"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file with DB_* settings")
	flag.Parse()

	if err := run(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, "bootstrap:", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so the deferred close and sync happen.
func run(envFile string) error {
	cfg, err := bootstrap.InitConfig(envFile)
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: "text"})
	defer func() { _ = log.Sync() }()
	log.Infow("bootstrap starting", "config", cfg.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout*3)
	defer cancel()

	db, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		log.Errorw("connect", "err", err)
		return err
	}
	defer db.Close()

	seeded, err := bootstrap.EnsureSchema(ctx, db, log)
	if err != nil {
		log.Errorw("ensure schema", "err", err)
		return errors.Wrap(err, "ensure schema")
	}
	log.Infow("bootstrap done", "seeded", seeded)
	return nil
}
