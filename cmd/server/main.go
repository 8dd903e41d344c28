package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"blog/internal/auth"
	"blog/internal/blog"
	"blog/internal/config"
	"blog/internal/db"
	"blog/internal/handlers"
)

func main() {
	initDB := flag.Bool("init-db", false, "drop and recreate the database schema, then exit")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg := config.Load()
	ctx := context.Background()

	dbc, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		slog.Error("open database", "path", cfg.DBPath, "err", err)
		os.Exit(1)
	}
	defer dbc.Close()

	if *initDB {
		if err := db.Reset(ctx, dbc); err != nil {
			slog.Error("reset database", "err", err)
			os.Exit(1)
		}
		slog.Info("initialized the database", "path", cfg.DBPath)
		return
	}

	sessions := auth.NewManager(dbc, cfg.SessionTTL)
	creds := auth.NewCredentials(dbc)
	store := blog.NewStore(dbc)

	h := handlers.New(store, creds, sessions)

	slog.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h.Routes()); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
