package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/api"
	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/tutor"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tutoring service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			cfg.Addr = a
		}
		log := consoleLogger(cfg)

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := st.Close(); err != nil {
				log.Error().Err(err).Msg("close database")
			}
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		llmCfg := resolveLLMConfig()
		provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), log)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		tutorCfg := tutor.DefaultConfig()
		tutorCfg.Temperature = llmCfg.Temperature
		svc := tutor.NewService(provider, st.ConversationRepo(), tutorCfg, tutor.WithLogger(log))

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           api.NewRouter(svc, log),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().
				Str("addr", srv.Addr).
				Str("provider", llmCfg.Provider).
				Str("model", provider.ModelID()).
				Str("db", cfg.DBPath).
				Msg("server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
		case <-ctx.Done():
		}
		stop()

		log.Info().Int("open_sessions", svc.ActiveSessions()).Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides LINGUA_ADDR)")
}

// resolveLLMConfig honors an explicit LINGUA_LLM_PROVIDER, otherwise picks
// the first provider whose standard API key variable is set.
func resolveLLMConfig() llm.Config {
	if os.Getenv("LINGUA_LLM_PROVIDER") != "" {
		return llm.ConfigFromEnv()
	}
	if cfg, ok := llm.DiscoverConfig(); ok {
		return cfg
	}
	return llm.ConfigFromEnv()
}
