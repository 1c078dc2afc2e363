package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/neilk17/twenty-capture/internal/model"
	"github.com/neilk17/twenty-capture/internal/resolve"
)

var domainCompanyName string

var domainCmd = &cobra.Command{
	Use:   "domain <domain>",
	Short: "Create a company record from a bare web domain",
	Long:  "Creates a company in the CRM keyed by its web domain, without a profile page. Skips creation when a company with that domain already exists.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		domain := resolve.ExtractRootDomain(args[0])
		if domain == "" {
			return eris.Errorf("not a usable domain: %s", args[0])
		}

		svc, st, err := initService(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		match, err := svc.CheckDuplicateByDomain(ctx, domain)
		if err != nil {
			return err
		}
		if match.Found {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: already in CRM as company %s\n", domain, match.RecordID)
			return nil
		}

		entity := model.ScrapedEntity{ByDomain: &model.DomainOrganization{
			Domain: domain,
			Name:   domainCompanyName,
		}}
		result, err := svc.CreateRecord(ctx, entity)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: created company %s\n", domain, result.ID)
		return nil
	},
}

func init() {
	domainCmd.Flags().StringVar(&domainCompanyName, "name", "", "company name (defaults to the domain)")
	rootCmd.AddCommand(domainCmd)
}
