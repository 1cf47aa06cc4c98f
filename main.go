package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ai_page_builder/config"
	"ai_page_builder/generator"
	"ai_page_builder/logger"
	"ai_page_builder/server"
	"ai_page_builder/store"
)

func main() {
	configPath := flag.String("config", "config/config.json", "path to config.json")
	addr := flag.String("addr", "", "http listen address (overrides config.server_addr)")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	logger.Setup(*verbose)
	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.ServerAddr = *addr
	}

	st := store.New(cfg.BuildsDir, cfg.CounterPath, cfg.ErrorLogPath)

	var agent *generator.Agent
	if cfg.HasProviderKey() {
		llm, err := buildLLM(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		agent, err = generator.NewAgent(llm, generator.Contract(cfg.OutputContract))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "generation enabled", "provider", cfg.IAUsed, "model", cfg.Model(), "contract", cfg.OutputContract)
	} else {
		slog.WarnContext(ctx, "no api key for provider, serving existing builds only", "provider", cfg.IAUsed, "builds_dir", cfg.BuildsDir)
	}

	if !*verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	srv, err := server.New(cfg, agent, st)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout() + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "starting web server", "addr", cfg.ServerAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}
	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	settings := &generator.LLMSettings{
		Provider:  cfg.IAUsed,
		Model:     cfg.Model(),
		APIKey:    cfg.APIKey(),
		BaseURL:   cfg.BaseURL(),
		MaxTokens: cfg.MaxTokens,
	}
	switch cfg.IAUsed {
	case config.ProviderOpenAI:
		return generator.NewOpenAILLMFromConfig(settings)
	case config.ProviderGemini:
		return generator.NewGeminiLLMFromConfig(settings)
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.IAUsed)
	}
}
