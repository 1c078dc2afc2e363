package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/neilk17/twenty-capture/internal/model"
)

var searchType string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search CRM people or companies by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var kind model.EntityKind
		switch searchType {
		case "person":
			kind = model.KindPerson
		case "company":
			kind = model.KindOrganization
		default:
			return eris.Errorf("unknown type %q (want person or company)", searchType)
		}

		svc, st, err := initService(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		results, err := svc.Search(ctx, args[0], kind)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Fprintln(os.Stderr, "No matches.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDETAIL")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Name, r.Subtitle)
		}
		return w.Flush()
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchType, "type", "person", "record type to search (person or company)")
	rootCmd.AddCommand(searchCmd)
}
