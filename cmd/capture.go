package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/neilk17/twenty-capture/internal/capture"
	"github.com/neilk17/twenty-capture/internal/scrape"
)

var (
	captureFile   string
	captureUpdate bool
)

var captureCmd = &cobra.Command{
	Use:   "capture [url]",
	Short: "Scrape a profile page and push it into the CRM",
	Long:  "Scrapes a person or company profile page, checks for an existing record, and creates one when none is found. With --update, an existing record is updated in place.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if captureFile == "" && len(args) == 0 {
			return eris.New("either a URL argument or --file is required")
		}

		svc, st, err := initService(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		scraper := scrape.NewScraper(nil)
		out := cmd.OutOrStdout()

		if captureFile == "" {
			return captureOne(ctx, out, svc, scraper, args[0])
		}

		urls, err := readURLFile(captureFile)
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			zap.L().Info("no urls to capture")
			return nil
		}

		zap.L().Info("capturing batch",
			zap.Int("urls", len(urls)),
			zap.Int("concurrency", cfg.Batch.MaxConcurrent),
		)

		var failed atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Batch.MaxConcurrent)

		for _, url := range urls {
			url := url
			g.Go(func() error {
				if err := captureOne(gctx, out, svc, scraper, url); err != nil {
					failed.Add(1)
					zap.L().Error("capture failed",
						zap.String("url", url),
						zap.Error(err),
					)
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		if n := failed.Load(); n > 0 {
			return eris.Errorf("%d of %d captures failed", n, len(urls))
		}
		return nil
	},
}

func captureOne(ctx context.Context, out io.Writer, svc *capture.Service, scraper *scrape.Scraper, url string) error {
	entity, err := scraper.ScrapeURL(ctx, url)
	if err != nil {
		return eris.Wrap(err, "scrape")
	}

	match, err := svc.CheckDuplicate(ctx, entity)
	if err != nil {
		return eris.Wrap(err, "check duplicate")
	}

	if match.Found {
		if !captureUpdate {
			fmt.Fprintf(out, "%s: already in CRM as %s %s (matched by %s)\n",
				entity.DisplayName(), match.RecordKind, match.RecordID, match.MatchedBy)
			return nil
		}
		if err := svc.UpdateRecord(ctx, match.RecordID, entity); err != nil {
			return eris.Wrap(err, "update record")
		}
		fmt.Fprintf(out, "%s: updated %s %s\n",
			entity.DisplayName(), match.RecordKind, match.RecordID)
		return nil
	}

	result, err := svc.CreateRecord(ctx, entity)
	if err != nil {
		return eris.Wrap(err, "create record")
	}
	fmt.Fprintf(out, "%s: created %s %s\n",
		entity.DisplayName(), result.Kind, result.ID)
	return nil
}

func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open url file")
	}
	defer f.Close() //nolint:errcheck

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "read url file")
	}
	return urls, nil
}

func init() {
	captureCmd.Flags().StringVar(&captureFile, "file", "", "file with one profile URL per line")
	captureCmd.Flags().BoolVar(&captureUpdate, "update", false, "update the existing record when a duplicate is found")
	rootCmd.AddCommand(captureCmd)
}
