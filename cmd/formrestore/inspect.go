package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) inspectCmd() *cobra.Command {
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the entries of a snapshot file.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tVALUES\tSTATE")
			for _, entry := range snap {
				quoted := make([]string, len(entry.Values))
				for i, value := range entry.Values {
					quoted[i] = strconv.Quote(value)
				}
				state := "set"
				if entry.Unset() {
					state = "unset"
				}
				fmt.Fprintf(w, "%s\t[%s]\t%s\n", entry.Key, strings.Join(quoted, ", "), state)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "snapshot JSON file ([[key, [values...]], ...])")
	return cmd
}
