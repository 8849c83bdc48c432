package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tasnim.dev/vpcsync/internal/config"
	"tasnim.dev/vpcsync/internal/journal"
)

func NewHistoryCmd() *cobra.Command {
	var (
		limit       int
		journalPath string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent reconciliation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			j, err := journal.Open(cfg.JournalPath(journalPath))
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.Recent(limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tNAME\tCIDR\tSTATE\tCHECK\tCHANGED\tVPC\tERROR")
			for _, e := range entries {
				check := ""
				if e.DryRun {
					check = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\t%s\t%s\n",
					e.Time.Local().Format(time.RFC3339), e.Name, e.CIDRBlock,
					e.State, check, e.Changed, e.VPCID, e.Error)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	cmd.Flags().StringVar(&journalPath, "journal", "", "journal database path")

	return cmd
}
