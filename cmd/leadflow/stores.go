package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/config"
	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/database"
	"github.com/xavierca1/leadflow/internal/infra/http/handlers"
	"github.com/xavierca1/leadflow/internal/infra/memory"
	"github.com/xavierca1/leadflow/internal/infra/mongodb"
)

// stores bundles the repositories of the selected backend.
type stores struct {
	Leads      entity.LeadRepository
	Categories entity.CategoryRepository
	Users      entity.UserRepository
	Contacts   entity.ContactRepository
	// Ping is nil for the memory backend.
	Ping  handlers.Check
	Close func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case "mongodb":
		client, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			client.Disconnect(ctx)
			return nil, err
		}
		log.Info("store ready", zap.String("driver", "mongodb"), zap.String("database", cfg.Mongo.Database))
		return &stores{
			Leads:      mongodb.NewLeadRepository(db),
			Categories: mongodb.NewCategoryRepository(db),
			Users:      mongodb.NewUserRepository(db),
			Contacts:   mongodb.NewContactRepository(db),
			Ping:       func(ctx context.Context) error { return client.Ping(ctx, nil) },
			Close:      client.Disconnect,
		}, nil

	case "postgres":
		db, err := database.NewDBConnection(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("store ready", zap.String("driver", "postgres"))
		return &stores{
			Leads:      database.NewLeadRepository(db),
			Categories: database.NewCategoryRepository(db),
			Users:      database.NewUserRepository(db),
			Contacts:   database.NewContactRepository(db),
			Ping:       db.PingContext,
			Close:      closeSQL(db),
		}, nil

	case "memory":
		log.Warn("using in-memory store; data is lost on restart")
		return &stores{
			Leads:      memory.NewLeadRepository(),
			Categories: memory.NewCategoryRepository(),
			Users:      memory.NewUserRepository(),
			Contacts:   memory.NewContactRepository(),
			Close:      func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func closeSQL(db *sql.DB) func(context.Context) error {
	return func(context.Context) error { return db.Close() }
}
