package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/resq-lab/rollcall/pkg/domain/model"
	"github.com/resq-lab/rollcall/pkg/domain/model/auth"
	"github.com/resq-lab/rollcall/pkg/sync/agent"
	"github.com/resq-lab/rollcall/pkg/utils/logging"
)

// cmdWatch runs a headless sync agent against a rollcall server and
// logs every state change. Useful for smoke-testing a deployment and as
// a reference client.
func cmdWatch() *cli.Command {
	var serverURL string
	var tokenID string
	var tokenSecret string
	var cachePath string
	var retryInterval time.Duration

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "server",
			Usage:       "Base URL of the rollcall server (e.g. https://rollcall.example.com)",
			Required:    true,
			Sources:     cli.EnvVars("ROLLCALL_SERVER"),
			Destination: &serverURL,
		},
		&cli.StringFlag{
			Name:        "token-id",
			Usage:       "Session token ID",
			Sources:     cli.EnvVars("ROLLCALL_TOKEN_ID"),
			Destination: &tokenID,
		},
		&cli.StringFlag{
			Name:        "token-secret",
			Usage:       "Session token secret",
			Sources:     cli.EnvVars("ROLLCALL_TOKEN_SECRET"),
			Destination: &tokenSecret,
		},
		&cli.StringFlag{
			Name:        "cache-path",
			Usage:       "Path of the durable state cache file (defaults to the user cache directory)",
			Sources:     cli.EnvVars("ROLLCALL_CACHE_PATH"),
			Destination: &cachePath,
		},
		&cli.DurationFlag{
			Name:        "retry-interval",
			Usage:       "Delay between reconnect attempts",
			Value:       3 * time.Second,
			Sources:     cli.EnvVars("ROLLCALL_RETRY_INTERVAL"),
			Destination: &retryInterval,
		},
	}

	return &cli.Command{
		Name:  "watch",
		Usage: "Connect to a server as a sync agent and log state changes",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if cachePath == "" {
				dir, err := os.UserCacheDir()
				if err != nil {
					return goerr.Wrap(err, "failed to resolve user cache directory")
				}
				cachePath = filepath.Join(dir, "rollcall", "state.json")
			}

			token := &auth.Token{
				ID:     auth.TokenID(tokenID),
				Secret: auth.TokenSecret(tokenSecret),
			}
			transport := agent.NewHTTPTransport(serverURL, token)
			cache := agent.NewFileCache(cachePath)

			logger := logging.Default()
			ag := agent.New(transport, cache,
				agent.WithRetryInterval(retryInterval),
				agent.WithStateListener(func(state *model.ActivityState) {
					active := 0
					for _, a := range state.Activities {
						if !a.Completed() {
							active++
						}
					}
					logger.Info("state updated",
						"activities", len(state.Activities),
						"active", active,
					)
				}),
				agent.WithConnectionListener(func(connected bool) {
					logger.Info("connection state changed", "connected", connected)
				}),
			)

			if err := ag.Start(ctx); err != nil {
				return err
			}

			eg, egCtx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				return ag.Run(egCtx)
			})
			return eg.Wait()
		},
	}
}
