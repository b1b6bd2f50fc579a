package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"tollgate/internal/api"
	"tollgate/internal/config"
	"tollgate/internal/database"
	"tollgate/internal/keys"
	"tollgate/internal/ledger"
	"tollgate/internal/store"
	"tollgate/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	authority, err := keys.FromPrivateKeyBase64(cfg.SigningPrivateKey)
	if err != nil {
		slog.Error("Failed to load signing key", "error", err)
		os.Exit(1)
	}
	slog.Info("Trust anchor for verifying applications", "public_key", authority.PublicKeyHex())

	var ldgr ledger.Ledger
	var revocationStore store.RevocationStore
	var eventStore store.EventStore

	if cfg.DatabaseURL != "" {
		if err := database.Migrate(cfg.DatabaseURL, "migrations"); err != nil {
			slog.Info("Migration error (may be safe if no changes)", "error", err)
		}

		ctx := context.Background()
		pool, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pgLedger := store.NewPostgresRevocationStore(pool)
		ldgr = pgLedger
		revocationStore = pgLedger
		eventStore = store.NewPostgresEventStore(pool)
	} else {
		slog.Warn("No database_url configured, revocations are held in memory and LOST ON RESTART")
		ldgr = ledger.NewMemory()
	}

	server := api.NewServer(cfg, authority, ldgr, revocationStore, eventStore)

	slog.Info("Tollgate ("+version.Version+") is open for business", "port", cfg.Port)
	if err := server.Router.Run(":" + cfg.Port); err != nil {
		slog.Error("Failed to run server", "error", err)
		os.Exit(1)
	}
}
