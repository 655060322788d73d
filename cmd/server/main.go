package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/vecscene/internal/config"
	"github.com/inamate/vecscene/internal/markup"
	mw "github.com/inamate/vecscene/internal/middleware"
	"github.com/inamate/vecscene/internal/preview"
	"github.com/inamate/vecscene/internal/scenes"
	"github.com/inamate/vecscene/internal/snapshot"
	"github.com/inamate/vecscene/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	level, levelErr := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	if levelErr != nil {
		slog.Warn("invalid log level, using info", "level", cfg.LogLevel, "error", levelErr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("open store", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Viewers joining before the first edit are greeted with the stored scene.
	hub := preview.NewHub(func(ctx context.Context, sceneID string) (string, error) {
		scene, err := st.Load(ctx, sceneID)
		if err != nil {
			return "", err
		}
		out, err := markup.Bytes(scene)
		return string(out), err
	})
	hubCtx, stopHub := context.WithCancel(ctx)
	go hub.Run(hubCtx)

	sceneService := scenes.NewService(st, hub, scenes.Options{
		ExportMarkup: cfg.Store == config.StoreFile,
		Minify:       cfg.MinifyExport,
	})
	sceneHandler := scenes.NewHandler(sceneService)
	previewHandler := preview.NewHandler(hub, cfg.OriginPatterns(), func(r *http.Request, sceneID string) bool {
		_, err := sceneService.Get(r.Context(), sceneID)
		return err == nil
	})

	r := mux.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	sceneHandler.Routes(r)

	r.Handle("/ws/scenes/{sceneId}", previewHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Dropping the viewers first lets their handlers return.
		stopHub()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "store", cfg.Store)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := store.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgresStore(pool)
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, pool.Close, nil
	default:
		codec, err := snapshot.CodecFor(strings.TrimSpace(cfg.Format))
		if err != nil {
			return nil, nil, err
		}
		fs, err := store.NewFileStore(cfg.DataDir, codec)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("file store ready", "dir", fs.Dir(), "format", codec.Name())
		return fs, func() {}, nil
	}
}
