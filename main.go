package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jeomhps/touravels/api-go/internal/config"
	"github.com/Jeomhps/touravels/api-go/internal/db"
	"github.com/Jeomhps/touravels/api-go/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/send"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		grip.Emergency(err)
		cancel()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		port    string
		envFile string
	)
	cmd := &cobra.Command{
		Use:          "touravels-api",
		Short:        "HTTP API for TourAvels tourist spots and tour plans",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides PORT)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional KEY=VALUE file read as fallback for the environment")
	return cmd
}

func setupLogging(cfg config.Config) error {
	threshold := level.FromString(cfg.LogLevel)
	if !threshold.IsValid() {
		threshold = level.Info
	}
	sender, err := send.NewNativeLogger("touravels-api", send.LevelInfo{Default: level.Info, Threshold: threshold})
	if err != nil {
		return errors.Wrap(err, "creating logger")
	}
	return errors.Wrap(grip.SetSender(sender), "setting logger")
}

// openStore returns the configured store and its closer. With DB_FAIL_FAST a
// failed first connection aborts startup; otherwise the server starts anyway,
// resource requests answer 500 and /health keeps retrying the connection.
func openStore(ctx context.Context, cfg config.Config) (db.Store, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		grip.Warning("using in-memory store; data is lost on exit")
		return db.NewMemory(), func() {}, nil
	}

	m := db.NewManager(db.Options{
		URI:            cfg.URI(),
		Database:       cfg.DBName,
		StrictAPI:      cfg.DBStrictAPI,
		ConnectTimeout: cfg.DBConnectTimeout,
	})
	closer := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		grip.Warning(m.Close(ctx))
	}

	cctx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	defer cancel()
	if err := m.Connect(cctx); err != nil {
		if cfg.DBFailFast {
			return nil, nil, errors.Wrap(err, "startup aborted")
		}
		grip.Warning(message.WrapError(err, message.Fields{
			"message": "continuing without a database connection",
		}))
	}
	return m, closer, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	if err := setupLogging(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	gin.SetMode(gin.ReleaseMode)
	r, err := server.NewRouter(cfg, store)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		grip.Info(message.Fields{
			"message":      "TourAvels server is running",
			"addr":         srv.Addr,
			"store":        cfg.StoreDriver,
			"auth_enabled": cfg.AuthEnabled(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return errors.Wrap(err, "listening")
	case <-ctx.Done():
	}

	grip.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return errors.Wrap(srv.Shutdown(sctx), "shutting down server")
}
