package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/store"
)

var (
	leadsStatus string
	leadsLimit  int
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List stored prospects",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		leads, err := st.ListProspects(ctx, store.ProspectFilter{
			Status: model.Status(leadsStatus),
			Limit:  leadsLimit,
		})
		if err != nil {
			return err
		}

		if len(leads) == 0 {
			fmt.Println("no prospects found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "HANDLE\tNAME\tPLATFORM\tEMAIL\tSTATUS\tVIBE\tMETHOD")
		for _, l := range leads {
			vibe := ""
			if l.VibeCheckScore > 0 {
				vibe = fmt.Sprintf("%d", model.DisplayScore(l.VibeCheckScore))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				l.Handle, l.Name, l.Platform, l.Email, l.Status, vibe, l.OutreachMethod)
		}
		return w.Flush()
	},
}

func init() {
	leadsCmd.Flags().StringVar(&leadsStatus, "status", "", "filter by status (pending, completed, failed, skipped)")
	leadsCmd.Flags().IntVar(&leadsLimit, "limit", 50, "max prospects to list")
	rootCmd.AddCommand(leadsCmd)
}
