package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/cli/config"
	"github.com/secmon-lab/riskaccept/pkg/usecase"
	"github.com/secmon-lab/riskaccept/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdSweep() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:  "sweep",
		Usage: "Expire approved acceptances whose review date has passed",
		Flags: repoCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			uc := usecase.New(repo)

			started := time.Now()
			result, err := uc.Acceptance.Sweep(ctx, started)
			if err != nil {
				return goerr.Wrap(err, "expiry sweep failed")
			}

			bold := color.New(color.Bold)
			green := color.New(color.FgGreen)
			yellow := color.New(color.FgYellow)
			red := color.New(color.FgRed)

			bold.Fprintf(os.Stdout, "Expiry sweep completed in %s\n", time.Since(started).Round(time.Millisecond))
			fmt.Fprintf(os.Stdout, "  Scanned: %d\n", result.Scanned)
			green.Fprintf(os.Stdout, "  Expired: %d\n", result.Expired)
			if result.Skipped > 0 {
				yellow.Fprintf(os.Stdout, "  Skipped: %d (changed concurrently)\n", result.Skipped)
			}
			if result.Failed > 0 {
				red.Fprintf(os.Stdout, "  Failed:  %d\n", result.Failed)
				return goerr.New("some acceptances could not be expired",
					goerr.V("failed", result.Failed))
			}

			return nil
		},
	}
}
