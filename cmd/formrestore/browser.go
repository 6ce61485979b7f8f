package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chromedp/chromedp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formrestore/pkg/dom/browserdom"
)

func (a *app) browserCmd() *cobra.Command {
	var (
		url          string
		snapshotPath string
		outputPath   string
		source       registrySource
	)

	cmd := &cobra.Command{
		Use:   "browser",
		Short: "Restore a snapshot onto a live page in headless Chrome.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if url == "" {
				return fmt.Errorf("--url is required")
			}
			snap, err := loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}
			reg, err := source.load(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := a.browserContext(cmd.Context())
			defer cancel()

			doc, err := browserdom.Open(ctx, url)
			if err != nil {
				return err
			}
			report := a.engine().Repopulate(doc, snap, reg)
			if err := doc.Err(); err != nil {
				return fmt.Errorf("restore %s: %w", url, err)
			}
			a.logger.Info("live page restored",
				zap.String("url", url),
				zap.Int("applied", len(report.Applied)),
				zap.Int("skipped", len(report.Skipped)),
			)

			if outputPath != "" {
				markup, err := doc.OuterHTML()
				if err != nil {
					return err
				}
				if err := os.WriteFile(outputPath, []byte(markup), 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}

			writeReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "page holding the form")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "snapshot JSON file ([[key, [values...]], ...])")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the restored page markup to this file")
	cmd.Flags().Bool("headless", true, "run Chrome without a window")
	cmd.Flags().Duration("timeout", 0, "overall deadline for the browser session")
	_ = a.v.BindPFlag("browser.headless", cmd.Flags().Lookup("headless"))
	_ = a.v.BindPFlag("browser.timeout", cmd.Flags().Lookup("timeout"))
	source.bind(cmd)
	return cmd
}

// browserContext starts Chrome with the configured options and bounds the
// session by browser.timeout.
func (a *app) browserContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", a.cfg.Browser.Headless),
	)
	if path := os.Getenv("FORMRESTORE_CHROME"); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(a.logger.Sugar().Debugf))
	ctx, cancelTimeout := context.WithTimeout(tabCtx, a.cfg.Browser.Timeout)

	return ctx, func() {
		cancelTimeout()
		cancelTab()
		cancelAlloc()
	}
}
