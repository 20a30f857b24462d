package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hireloop/backend/internal/config"
	"github.com/hireloop/backend/internal/handler"
	"github.com/hireloop/backend/internal/model/interview"
	"github.com/hireloop/backend/internal/service/agents"
	"github.com/hireloop/backend/internal/service/archive"
	interviewService "github.com/hireloop/backend/internal/service/interview"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	registry := interview.NewRegistry()

	// Initialize the reasoning capabilities
	var caps interviewService.Capabilities
	if cfg.AI.Enabled() {
		agentSvc, err := agents.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize agent service: %v", err)
			log.Println("continuing without AI functionality - sessions can be seeded but not started")
		} else {
			caps = agentSvc
			log.Println("agent service initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, skipping AI initialization")
	}

	// Initialize the transcript archive
	var archiver interviewService.Archiver
	if cfg.Archive.Enabled() {
		store := archive.New(cfg.Archive.Addr, cfg.Archive.Password, cfg.Archive.DB,
			archive.WithTTL(cfg.Archive.TTL))
		archiver = store
		log.Println("transcript archive enabled")
	} else {
		log.Println("Redis not configured, transcript archiving disabled")
	}

	interviews := interviewService.NewService(registry, caps, cfg.Interview, archiver)
	go interviews.StartReaper(ctx)

	router := handler.NewRouter(interviews, cfg.CORS)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Hireloop backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
