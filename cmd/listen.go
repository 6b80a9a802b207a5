package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/webitel/wlog"
	"golang.org/x/sync/errgroup"

	"github.com/kirychukyurii/checknotifier/config"
	"github.com/kirychukyurii/checknotifier/listener"
	"github.com/kirychukyurii/checknotifier/notifier"
	"github.com/kirychukyurii/checknotifier/server"
)

func listenCommand(log *wlog.Logger) *cobra.Command {
	var watch bool

	c := &cobra.Command{
		Use:          "listen",
		Short:        "Listen for incoming notifications",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(log)
			if err != nil {
				return err
			}

			app, err := New(cfg, log)
			if err != nil {
				return fmt.Errorf("app: %v", err)
			}

			if watch {
				app.configPath = configPath
			}

			// os.Interrupt to gracefully shutdown on Ctrl+C which is SIGINT
			// syscall.SIGTERM is the usual signal for termination and the default one (it can be modified)
			// for docker containers, which is also used by kubernetes.
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			// This blocks until the context is finished or until an error is produced
			if err = app.Run(ctx); err != nil {
				app.log.Error("run app", wlog.Err(err))
			}

			cancel()

			cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cleanupCancel()

			done := make(chan struct{}, 1)
			go func() {
				app.Cleanup(cleanupCtx)
				close(done)
			}()

			select {
			case <-done:
			case <-cleanupCtx.Done():
				app.log.Error("app failed to clean up in time")
			}

			return err
		},
	}

	c.Flags().BoolVarP(&watch, "watch", "w", true, "reload notifiers when the config file changes")

	return c
}

type App struct {
	cfg        *config.Config
	configPath string
	log        *wlog.Logger

	registry  *notifier.Registry
	server    *server.Server
	scheduler *listener.Scheduler
	listeners []listener.Listener

	// Closed once the App has finished starting
	startedCh chan struct{}
	errCh     chan error

	eg *errgroup.Group
}

func New(cfg *config.Config, log *wlog.Logger) (*App, error) {
	return &App{
		cfg:       cfg,
		log:       log,
		registry:  notifier.NewRegistry(log, notifier.NewNotifiers(log, cfg.BaseURL, cfg.Notifiers)),
		startedCh: make(chan struct{}),
		errCh:     make(chan error, 100),
		eg:        &errgroup.Group{},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	timezone, err := time.LoadLocation(a.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load default timezone: %v", err)
	}

	a.server, err = server.New(a.log.With(wlog.String("component", "http")), a.cfg.Server)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	a.listeners = listener.NewListeners(a.log, a.cfg.Listeners, a.registry, a.server)
	a.scheduler = listener.NewScheduler(timezone, a.log)
	if err := a.scheduler.ScheduleWindow(ctx, a.cfg.Listeners.Start, a.cfg.Listeners.Stop, a.listeners); err != nil {
		return err
	}

	a.eg.Go(func() error {
		if err := a.server.Start(); err != nil {
			a.errCh <- err
		}

		return nil
	})

	if a.configPath != "" {
		a.eg.Go(func() error {
			return config.Watch(ctx, a.configPath, a.log, a.reload)
		})
	}

	// Notify anyone who might be listening that the App has finished starting.
	// This can be used by, e.g., app tests.
	close(a.startedCh)
	a.log.Info("app started", wlog.String("addr", a.server.Addr()), wlog.Int("notifiers", len(a.registry.Notifiers())), wlog.Int("listeners", len(a.listeners)))

	// App blocks until it receives a signal to exit
	// this signal may come from the node or from sig-abort (ctrl-c)
	select {
	case <-ctx.Done():
		return nil
	case err := <-a.errCh:
		return err
	}
}

// reload rebuilds notifiers only, server and listener changes need a restart.
func (a *App) reload(cfg *config.Config) {
	a.log.SetConsoleLevel(cfg.Logger.Level)
	a.registry.Replace(notifier.NewNotifiers(a.log, cfg.BaseURL, cfg.Notifiers))
}

func (a *App) Started() <-chan struct{} {
	return a.startedCh
}

// Cleanup stops all App services.
func (a *App) Cleanup(ctx context.Context) {
	a.log.Debug("app cleanup starting...")
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	if err := listener.CloseAll(a.listeners); err != nil {
		a.log.Error("close listeners", wlog.Err(err))
	}

	if a.server != nil {
		if err := a.server.Stop(ctx); err != nil {
			a.log.Error("stop http server", wlog.Err(err))
		}
	}

	if err := a.eg.Wait(); err != nil {
		a.log.Error("cleanup resources", wlog.Err(err))
	}

	a.log.Info("app cleanup completed")
}
