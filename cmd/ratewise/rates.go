package main

import (
	"fmt"
	"strings"

	"github.com/iwvelando/ratewise/internal/catalog"
	"github.com/iwvelando/ratewise/pkg/output"
	"github.com/iwvelando/ratewise/pkg/tax"
	"github.com/spf13/cobra"
)

func (a *app) ratesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "List the rates in the catalog",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "vat [country-code]",
			Short: "List EU VAT rates",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rates := a.service.Catalog().VATRates()
				if len(args) == 1 {
					rate, err := a.service.Catalog().VATRate(args[0])
					if err != nil {
						return err
					}
					rates = []catalog.VATRate{rate}
				}
				return a.render(cmd.OutOrStdout(), vatRatesReport(rates))
			},
		},
		&cobra.Command{
			Use:   "sales-tax [state-code]",
			Short: "List US state sales tax rates",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rates := a.service.Catalog().SalesTaxRates()
				if len(args) == 1 {
					rate, err := a.service.Catalog().SalesTaxRate(args[0])
					if err != nil {
						return err
					}
					rates = []catalog.SalesTaxRate{rate}
				}
				return a.render(cmd.OutOrStdout(), salesTaxRatesReport(rates))
			},
		},
		&cobra.Command{
			Use:   "salary [country-code]",
			Short: "List salary jurisdictions, or the brackets of one",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 1 {
					j, err := a.service.Catalog().Jurisdiction(args[0])
					if err != nil {
						return err
					}
					return a.render(cmd.OutOrStdout(), jurisdictionReport(j))
				}
				return a.render(cmd.OutOrStdout(), jurisdictionsReport(a.service.Catalog().Jurisdictions()))
			},
		},
	)
	return cmd
}

func rateField(rate *float64) output.Field {
	if rate == nil {
		return output.Field{Kind: output.Text, Text: "-"}
	}
	return output.Field{Kind: output.Percent, Value: *rate}
}

func vatRatesReport(rates []catalog.VATRate) output.Report {
	rows := make([][]output.Field, 0, len(rates))
	for _, r := range rates {
		rows = append(rows, []output.Field{
			{Kind: output.Text, Text: r.CountryCode},
			{Kind: output.Text, Text: r.CountryName},
			{Kind: output.Percent, Value: r.StandardRate},
			rateField(r.ReducedRate),
			rateField(r.SuperReducedRate),
			rateField(r.ParkingRate),
		})
	}
	return output.Report{
		Title: "VAT rates",
		Table: &output.Table{
			Columns: []string{"Code", "Country", "Standard", "Reduced", "Super-reduced", "Parking"},
			Rows:    rows,
		},
		Data: rates,
	}
}

func salesTaxRatesReport(rates []catalog.SalesTaxRate) output.Report {
	rows := make([][]output.Field, 0, len(rates))
	for _, r := range rates {
		rows = append(rows, []output.Field{
			{Kind: output.Text, Text: r.StateCode},
			{Kind: output.Text, Text: r.StateName},
			{Kind: output.Percent, Value: r.StateRate},
			{Kind: output.Percent, Value: r.AvgLocalRate},
			{Kind: output.Percent, Value: r.CombinedRate},
		})
	}
	return output.Report{
		Title: "Sales tax rates",
		Table: &output.Table{
			Columns: []string{"Code", "State", "State rate", "Avg. local", "Combined"},
			Rows:    rows,
		},
		Data: rates,
	}
}

func jurisdictionsReport(list []catalog.SalaryJurisdiction) output.Report {
	rows := make([][]output.Field, 0, len(list))
	for _, j := range list {
		rows = append(rows, []output.Field{
			{Kind: output.Text, Text: j.CountryCode},
			{Kind: output.Text, Text: j.CountryName},
			{Kind: output.Text, Text: j.Currency},
			{Kind: output.Text, Text: j.Kind},
			{Kind: output.Count, Value: float64(len(j.Brackets))},
		})
	}
	return output.Report{
		Title: "Salary jurisdictions",
		Table: &output.Table{
			Columns: []string{"Code", "Country", "Currency", "Kind", "Brackets"},
			Rows:    rows,
		},
		Data: list,
	}
}

func jurisdictionReport(j catalog.SalaryJurisdiction) output.Report {
	rows := make([][]output.Field, 0, len(j.Brackets))
	for _, b := range j.Brackets {
		rows = append(rows, []output.Field{
			{Kind: output.Money, Value: b.Min},
			bracketMax(b),
			{Kind: output.Percent, Value: b.Rate},
		})
	}
	fields := []output.Field{
		{Label: "Country", Kind: output.Text, Text: fmt.Sprintf("%s (%s)", j.CountryName, j.CountryCode)},
		{Label: "Currency", Kind: output.Text, Text: j.Currency},
		{Label: "Kind", Kind: output.Text, Text: strings.ToUpper(j.Kind)},
	}
	if j.SocialRate > 0 {
		fields = append(fields, output.Field{Label: "Social contributions", Kind: output.Percent, Value: j.SocialRate})
	}
	return output.Report{
		Title:    "Income tax brackets",
		Currency: j.Currency,
		Fields:   fields,
		Table: &output.Table{
			Columns: []string{"From", "To", "Rate"},
			Rows:    rows,
		},
		Data: j,
	}
}

func bracketMax(b tax.Bracket) output.Field {
	if b.Unbounded() {
		return output.Field{Kind: output.Text, Text: "and above"}
	}
	return output.Field{Kind: output.Money, Value: b.Max}
}
