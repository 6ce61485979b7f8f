package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formrestore/pkg/page"
)

func (a *app) applyCmd() *cobra.Command {
	var (
		htmlPath     string
		snapshotPath string
		outputPath   string
		source       registrySource
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Restore a snapshot onto a saved HTML page.",
		Example: "  formrestore apply --html form.html --snapshot snapshot.json --registry registry.yaml\n" +
			"  formrestore apply --html form.html --snapshot snapshot.json --openapi api.yaml --operation createNomination",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if htmlPath == "" {
				return fmt.Errorf("--html is required")
			}
			markup, err := os.ReadFile(htmlPath)
			if err != nil {
				return fmt.Errorf("read html: %w", err)
			}
			snap, err := loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}
			reg, err := source.load(cmd)
			if err != nil {
				return err
			}

			restored, report, err := page.Restore(markup, snap, reg, a.engine())
			if err != nil {
				return err
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, restored, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				a.logger.Info("restored page written", zap.String("path", outputPath))
			} else if _, err := cmd.OutOrStdout().Write(restored); err != nil {
				return err
			}

			writeReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&htmlPath, "html", "", "HTML page holding the form")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "snapshot JSON file ([[key, [values...]], ...])")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (stdout if empty)")
	source.bind(cmd)
	return cmd
}
