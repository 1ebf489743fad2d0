package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"zkcommit/internal/platform/config"
	"zkcommit/internal/platform/logger"
	phttp "zkcommit/internal/platform/net/http"
	"zkcommit/internal/services/api"
)

type serveFlags struct {
	clientFlags
	port        string
	corsOrigins string
}

func newServe() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workflow HTTP API.",
		Long: `Serve the workflow HTTP API under /api/v1.

Settings come from ZKCOMMIT_* environment variables; flags override them.
ZKCOMMIT_PROOF_BASE_URL (or --proof-url) is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.apply()
			setEnv("API_PORT", f.port)
			setEnv("API_CORS_ORIGINS", f.corsOrigins)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := serve(ctx, conf()); err != nil {
				return &ExitError{Code: 2, Err: err}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.port, "port", "", "listen port, e.g. 4000 or :4000 (ZKCOMMIT_API_PORT)")
	cmd.Flags().StringVar(&f.proofURL, "proof-url", "", "proof service base url (ZKCOMMIT_PROOF_BASE_URL)")
	cmd.Flags().StringVar(&f.githubURL, "github-url", "", "GitHub API base url (ZKCOMMIT_GH_BASE_URL)")
	cmd.Flags().StringVar(&f.ghTokens, "github-tokens", "", "comma separated GitHub tokens (ZKCOMMIT_GH_TOKENS)")
	cmd.Flags().StringVar(&f.corsOrigins, "cors-origins", "", "comma separated CORS origins (ZKCOMMIT_API_CORS_ORIGINS)")
	return cmd
}

// serve runs the API and the session sweeper until ctx is done
func serve(ctx context.Context, cfg config.Conf) error {
	log := logger.Named("serve")

	deps, err := buildDeps(cfg)
	if err != nil {
		return err
	}

	srv := phttp.NewServer(cfg)
	ports := api.Mount(srv.Router(), api.Options{
		Config:         cfg,
		Deps:           deps,
		EnableSwagger:  cfg.MayBool("API_SWAGGER", true),
		EnableProfiler: cfg.MayBool("API_PROFILER", false),
		CORSOrigins:    cfg.MayCSV("API_CORS_ORIGINS", nil),
		RequestTimeout: cfg.MayDuration("API_REQUEST_TIMEOUT", 5*time.Minute),
	})

	go func() {
		if err := ports.Sweeper.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("session sweeper stopped")
		}
	}()

	log.Info().Str("addr", srv.Addr()).Msg("zkcommit api starting")
	return srv.Run(ctx)
}
