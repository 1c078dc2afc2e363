package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/neilk17/twenty-capture/internal/capture"
	"github.com/neilk17/twenty-capture/internal/model"
	"github.com/neilk17/twenty-capture/internal/resolve"
	"github.com/neilk17/twenty-capture/internal/scrape"
)

var checkCmd = &cobra.Command{
	Use:   "check <url-or-domain>",
	Short: "Check whether a profile or domain already has a CRM record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		target := args[0]

		svc, st, err := initService(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		var match model.MatchResult

		if scrape.DetectKind(target) != scrape.PageOther {
			entity, err := scrape.NewScraper(nil).ScrapeURL(ctx, target)
			if err != nil {
				return eris.Wrap(err, "scrape")
			}
			match, err = svc.CheckDuplicate(ctx, entity)
			if err != nil {
				return err
			}
		} else {
			domain := resolve.ExtractRootDomain(target)
			if domain == "" {
				return eris.Errorf("not a profile URL or domain: %s", target)
			}
			match, err = svc.CheckDuplicateByDomain(ctx, domain)
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if !match.Found {
			fmt.Fprintln(out, "no existing record")
			return nil
		}
		fmt.Fprintf(out, "found %s %s (matched by %s)\n",
			match.RecordKind, match.RecordID, match.MatchedBy)
		return nil
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test connectivity and authentication against the CRM",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		svc, st, err := initService(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		return runPing(ctx, cmd.OutOrStdout(), svc)
	},
}

func runPing(ctx context.Context, out io.Writer, svc *capture.Service) error {
	if err := svc.TestConnection(ctx); err != nil {
		return err
	}
	base, err := svc.GetSettings(ctx)
	if err != nil {
		return eris.Wrap(err, "read settings")
	}
	fmt.Fprintf(out, "connected to %s\n", strings.TrimSuffix(base.CRMBaseURL, "/"))
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(pingCmd)
}
