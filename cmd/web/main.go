// cmd/web/main.go
//
// Stanza – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Optional Vault client, then typed config (YAML + STANZA_ overrides,
//     vault: secrets resolved).
//
//  4. Open the control-plane DB and log active-site count.
//
//  5. Wire services: content store, version manager, publish pipeline,
//     live-deployment cache.
//
//  6. Build the router (admin API + public serving + /metrics) and wrap
//     it with ForceHTTPS middleware when configured.
//
//  7. Serve until SIGINT/SIGTERM, then drain with a 10 s grace period.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yanizio/stanza/internal/config"
	"github.com/yanizio/stanza/internal/content"
	"github.com/yanizio/stanza/internal/database"
	"github.com/yanizio/stanza/internal/httpapi"
	"github.com/yanizio/stanza/internal/logger"
	"github.com/yanizio/stanza/internal/middleware"
	"github.com/yanizio/stanza/internal/publish"
	"github.com/yanizio/stanza/internal/requestinfo"
	"github.com/yanizio/stanza/internal/server"
	"github.com/yanizio/stanza/internal/vault"
	"github.com/yanizio/stanza/internal/version"
)

const serverEnvPath = "/usr/local/etc/stanza/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Vault (optional) and config ────────────────────────────────
	//
	var vc *vault.Client
	if os.Getenv("VAULT_ADDR") != "" {
		vc, err = vault.New(ctx)
		if err != nil {
			logOut.Fatalf("vault client: %v", err)
		}
		logOut.Infow("vault client online")
	}

	cfg, err := config.Load(ctx, vc)
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Control-plane DB connect ───────────────────────────────────
	//
	dsn := fmt.Sprintf(cfg.Database.DSN, cfg.Database.Password)
	db, err := database.Open(dsn)
	if err != nil {
		logOut.Fatalf("connect db: %v", err)
	}
	defer db.Close()
	logOut.Infow("database online")

	// Log active-site count as an early sanity check.
	var active int
	_ = db.Get(&active, `
	    SELECT COUNT(*) FROM site
	    WHERE archived_at IS NULL`)
	logOut.Infow("sites loaded", "active", active)

	//
	// ── 3.  GeoIP (optional) ───────────────────────────────────────────
	//
	geoPath := filepath.Join(cfg.Paths.Root, "conf", "GeoLite2-City.mmdb")
	if err := requestinfo.InitGeo(geoPath); err != nil {
		logOut.Infow("geoip disabled", "err", err)
	}

	//
	// ── 4.  Service wiring ─────────────────────────────────────────────
	//
	store := content.NewStore(db)
	versions := version.NewManager(db, store)
	pipeline := publish.NewPipeline(db, store)
	liveTTL := time.Duration(cfg.Serve.LiveTTLSec) * time.Second
	live := publish.NewLiveCache(pipeline, liveTTL, cfg.Serve.LiveMaxSites)
	defer live.Close()

	api := httpapi.New(httpapi.Options{
		DB:            db,
		Store:         store,
		Versions:      versions,
		Pipeline:      pipeline,
		Live:          live,
		BaseDomain:    cfg.Serve.BaseDomain,
		RetainDefault: cfg.Versions.RetainDefault,
		PageCacheSize: cfg.Serve.PageCacheSize,
	})

	handler := api.Routes()
	if cfg.HTTP.ForceHTTPS {
		handler = middleware.ForceHTTPS(api.KnownHost, handler)
	}

	//
	// ── 5.  Serve and drain ────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, handler)
	go func() {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logOut.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logOut.Infow("shutting down")

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		logOut.Errorw("shutdown", "err", err)
	}
}
