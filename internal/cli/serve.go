package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/internal/metrics"
	"github.com/matzehuels/orbit/internal/server"
	"github.com/matzehuels/orbit/pkg/buildinfo"
	"github.com/matzehuels/orbit/pkg/session"
	"github.com/matzehuels/orbit/pkg/source"
)

const (
	shutdownTimeout = 5 * time.Second
	janitorInterval = time.Minute
)

type serveFlags struct {
	bind        string
	port        int
	idleTTL     time.Duration
	maxSessions int
	noCache     bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API hosting live layout sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("bind") {
				c.Config.Server.Bind = flags.bind
			}
			if cmd.Flags().Changed("port") {
				c.Config.Server.Port = flags.port
			}
			return c.runServe(cmd.Context(), &flags)
		},
	}

	cmd.Flags().StringVar(&flags.bind, "bind", "", "address to bind (default from config)")
	cmd.Flags().IntVarP(&flags.port, "port", "p", 0, "port to listen on (default from config)")
	cmd.Flags().DurationVar(&flags.idleTTL, "idle-ttl", session.DefaultIdleTTL, "drop sessions idle for longer than this")
	cmd.Flags().IntVar(&flags.maxSessions, "max-sessions", 0, "maximum live sessions (0 = unlimited)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the settle cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags *serveFlags) error {
	logger := loggerFromContext(ctx)
	logger.Debug("starting server", "build", buildinfo.String())

	reg := prometheus.NewRegistry()
	m := metrics.New()
	if err := m.Register(reg); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m.Install()

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	src, closeSrc, err := c.newSource(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()
	if src.Name() != "dir" {
		src = source.NewCached(src, runner.Cache, runner.Keyer, runner.TTL, logger)
	}

	sessions := session.NewRegistry(session.Options{
		IdleTTL:     flags.idleTTL,
		MaxSessions: flags.maxSessions,
		Params:      c.Config.Params(),
		Loop:        c.Config.LoopOptions(),
		Logger:      logger,
	})
	defer sessions.Close()

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go sessions.RunJanitor(janitorCtx, janitorInterval)

	srv := server.New(server.Options{
		Registry: sessions,
		Runner:   runner,
		Source:   src,
		Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Canvas:   c.Config.CanvasSize(),
		Version:  buildinfo.Version,
		Logger:   logger,
	})

	addr := c.Config.Addr()
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- httpServer.ListenAndServe()
	}()

	printSuccess("orbit serving on %s", StyleValue.Render("http://"+addr))
	printKeyValue("source", src.Name())
	printKeyValue("cache", c.Config.Cache.Backend)
	printKeyValue("tick rate", fmt.Sprintf("%g Hz", c.Config.LoopOptions().Rate))

	select {
	case err := <-errc:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "sessions", sessions.Len())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
