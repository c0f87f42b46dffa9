package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/resq-lab/rollcall/pkg/cli/config"
	httpctrl "github.com/resq-lab/rollcall/pkg/controller/http"
	"github.com/resq-lab/rollcall/pkg/sync/manager"
	"github.com/resq-lab/rollcall/pkg/usecase"
	"github.com/resq-lab/rollcall/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var noAuthSub string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("ROLLCALL_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run every request as the given subject (development only). Example: --no-auth=dev-user",
			Category:    "Authentication",
			Sources:     cli.EnvVars("ROLLCALL_NO_AUTH"),
			Destination: &noAuthSub,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the state manager and HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			var authUC usecase.AuthUseCaseInterface
			if noAuthSub != "" {
				logging.Default().Warn("Running in no-auth mode (development only)", "sub", noAuthSub)
				authUC = usecase.NewNoAuthnUseCase(noAuthSub)
			} else {
				authUC = usecase.NewAuthUseCase(repo)
			}

			uc := usecase.New(repo, usecase.WithAuth(authUC))
			mgr := manager.New(repo)

			httpHandler, err := httpctrl.New(mgr, uc, httpctrl.WithAuth(authUC))
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			eg, egCtx := errgroup.WithContext(runCtx)

			eg.Go(func() error {
				return mgr.Run(egCtx)
			})

			eg.Go(func() error {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return goerr.Wrap(err, "failed to start server")
				}
				return nil
			})

			eg.Go(func() error {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
				defer signal.Stop(sigCh)

				select {
				case <-egCtx.Done():
					return nil
				case sig := <-sigCh:
					logging.Default().Info("Received shutdown signal", "signal", sig)
				}

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					cancel()
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				// Stop the state manager after in-flight requests drain.
				cancel()
				logging.Default().Info("Server shutdown completed")
				return nil
			})

			return eg.Wait()
		},
	}
}
