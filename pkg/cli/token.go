package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/resq-lab/rollcall/pkg/cli/config"
	"github.com/resq-lab/rollcall/pkg/usecase"
	"github.com/resq-lab/rollcall/pkg/utils/logging"
)

// cmdToken mints a session token directly into the repository. Identity
// verification happens outside this tool; the operator vouches for the
// subject they name.
func cmdToken() *cli.Command {
	var sub string
	var email string
	var name string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "sub",
			Usage:       "Subject identifier for the session",
			Required:    true,
			Destination: &sub,
		},
		&cli.StringFlag{
			Name:        "email",
			Usage:       "Email address recorded on the session",
			Destination: &email,
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Display name recorded on the session",
			Destination: &name,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "token",
		Usage: "Mint a session token for a verified identity",
		Flags: flags,
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

			authUC := usecase.NewAuthUseCase(repo)
			token, err := authUC.IssueToken(ctx, sub, email, name)
			if err != nil {
				return goerr.Wrap(err, "failed to issue session token")
			}

			fmt.Fprintf(os.Stdout, "token_id:     %s\n", token.ID)
			fmt.Fprintf(os.Stdout, "token_secret: %s\n", token.Secret)
			fmt.Fprintf(os.Stdout, "expires_at:   %s\n", token.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"))
			return nil
		},
	}
}
