package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/internal/server"
	"github.com/matzehuels/chartcore/pkg/buildinfo"
	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/observability"
	"github.com/matzehuels/chartcore/pkg/pipeline"
	"github.com/matzehuels/chartcore/pkg/session"
)

const redisCachePrefix = "chartcore:cache:"

// serveFlags holds flag values for the serve command.
type serveFlags struct {
	addr        string
	redisURL    string
	mongoURI    string
	mongoDB     string
	sessionsDir string
	sessionTTL  time.Duration
	noCache     bool
	metrics     bool
}

// serveCommand creates the serve command, which exposes rendering and
// chart instances over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart engine over HTTP",
		Long: `Serve the chart engine over HTTP.

Charts created with POST /v1/charts keep their state between requests so
updates animate from whatever is currently on screen. State lives in memory
unless --redis, --mongo or --sessions-dir selects a persistent store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runServe(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&f.redisURL, "redis", os.Getenv("CHARTCORE_REDIS_URL"), "Redis URL for the cache and chart sessions")
	cmd.Flags().StringVar(&f.mongoURI, "mongo", os.Getenv("CHARTCORE_MONGO_URI"), "MongoDB URI for chart sessions")
	cmd.Flags().StringVar(&f.mongoDB, "mongo-db", appName, "MongoDB database name")
	cmd.Flags().StringVar(&f.sessionsDir, "sessions-dir", "", "directory for file-backed chart sessions")
	cmd.Flags().DurationVar(&f.sessionTTL, "session-ttl", session.DefaultTTL, "idle lifetime of a chart session")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&f.metrics, "metrics", true, "expose Prometheus metrics on /metrics")
	cmd.MarkFlagsMutuallyExclusive("mongo", "sessions-dir")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, f serveFlags) error {
	runner, sessions, err := c.serveBackends(ctx, f)
	if err != nil {
		return err
	}

	cfg := server.Config{
		Runner:     runner,
		Sessions:   sessions,
		SessionTTL: f.sessionTTL,
		Logger:     c.Logger,
	}
	if f.metrics {
		hooks := observability.NewPrometheusHooks(prometheus.DefaultRegisterer)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	srv := server.New(cfg)
	defer srv.Close()

	printSuccess("Listening on %s", StyleHighlight.Render(f.addr))
	return srv.ListenAndServe(ctx, f.addr)
}

// serveBackends picks the cache and session store. A Redis URL backs both
// with one client unless another session store is requested.
func (c *CLI) serveBackends(ctx context.Context, f serveFlags) (*pipeline.Runner, session.Store, error) {
	var (
		cc    cache.Cache
		store session.Store
	)

	switch {
	case f.redisURL != "" && !f.noCache:
		rc, err := cache.NewRedisCache(ctx, f.redisURL, redisCachePrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		cc = rc
		if f.mongoURI == "" && f.sessionsDir == "" {
			store = session.NewRedisStore(rc.Client(), "")
		}
		c.Logger.Info("using redis cache", "url", f.redisURL)
	default:
		var err error
		if cc, err = newCache(f.noCache); err != nil {
			return nil, nil, fmt.Errorf("initialize cache: %w", err)
		}
	}

	if store == nil {
		var err error
		store, err = c.sessionStore(ctx, f)
		if err != nil {
			cc.Close()
			return nil, nil, err
		}
	}

	// Shared caches outlive a deploy; scope keys to the build.
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	return pipeline.NewRunner(cc, keyer, c.Logger), store, nil
}

func (c *CLI) sessionStore(ctx context.Context, f serveFlags) (session.Store, error) {
	switch {
	case f.mongoURI != "":
		store, err := session.NewMongoStore(ctx, f.mongoURI, f.mongoDB, session.DefaultMongoCollection)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		c.Logger.Info("using mongo sessions", "database", f.mongoDB)
		return store, nil
	case f.redisURL != "":
		rc, err := cache.NewRedisCache(ctx, f.redisURL, "")
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Info("using redis sessions", "url", f.redisURL)
		return session.NewRedisStore(rc.Client(), ""), nil
	case f.sessionsDir != "":
		store, err := session.NewFileStore(filepath.Clean(f.sessionsDir))
		if err != nil {
			return nil, fmt.Errorf("open sessions dir: %w", err)
		}
		c.Logger.Info("using file sessions", "dir", f.sessionsDir)
		return store, nil
	default:
		return session.NewMemoryStore(), nil
	}
}
