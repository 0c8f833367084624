package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/esimov/bhaidooj-wasm/config"
	"github.com/esimov/bhaidooj-wasm/wish"
	"github.com/esimov/bhaidooj-wasm/wish/gemini"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.ParseServer(args)
	if err != nil {
		return 2
	}
	setupLogging(cfg.Debug)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := initServer(ctx, cfg); err != nil {
		slog.Error("server failed",
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		return 1
	}
	return 0
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// initServer initializes the webserver and blocks until ctx is cancelled.
func initServer(ctx context.Context, p config.Server) error {
	var err error
	p.Root, err = filepath.Abs(p.Root)
	if err != nil {
		return err
	}
	_ = mime.AddExtensionType(".wasm", config.MimeWasm)

	var gen wish.Generator
	if g, err := gemini.New(ctx, p.APIKey); err != nil {
		// Without a key every request falls back on the client.
		slog.Warn("wish generation disabled",
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	} else {
		gen = g
	}

	httpServer := &http.Server{
		Addr:              p.Addr,
		Handler:           newRouter(p.Root, gen, rate.NewLimiter(rate.Limit(p.WishRate), config.WishBurst)),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      config.WishServerTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	slog.Info("serving",
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRoot, p.Root,
		config.LogKeyAddr, p.Addr,
		config.LogKeyVersion, config.Version,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// newRouter serves the static files under root and the wish endpoint.
func newRouter(root string, gen wish.Generator, limiter *rate.Limiter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.With(middleware.Timeout(config.WishServerTimeout)).Get(config.RouteWish, wishHandler(gen, limiter))
	r.Handle("/*", http.FileServer(http.Dir(root)))
	return r
}

// wishHandler answers with a freshly generated wish.
func wishHandler(gen wish.Generator, limiter *rate.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gen == nil {
			writeError(w, http.StatusServiceUnavailable, "wish generation is not configured")
			return
		}
		if limiter != nil && !limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "too many wishes, slow down")
			return
		}

		text, err := gen.Generate(r.Context())
		if err == nil {
			text = wish.Clean(text)
			if text == "" {
				err = wish.ErrEmpty
			}
		}
		if err != nil {
			slog.Error("wish generation failed",
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
			writeError(w, http.StatusBadGateway, "wish generation failed")
			return
		}

		w.Header().Set(config.HeaderContentType, config.MimeJSON)
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(wish.Response{Wish: text})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
