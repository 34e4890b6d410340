package database

import (
	"context"
	"log"

	"go-bi/internal/config"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/fx"
)

// NewBadgerDB opens the embedded Badger store with lifecycle management.
func NewBadgerDB(lc fx.Lifecycle, cfg *config.Config) (*badger.DB, error) {
	opts := badger.DefaultOptions(cfg.BadgerPath)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	log.Printf("Opened Badger store at %s", cfg.BadgerPath)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Closing Badger store...")
			return db.Close()
		},
	})

	return db, nil
}
