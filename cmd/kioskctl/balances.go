package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	"github.com/SscSPs/exchange_kiosk_app/internal/utils"
)

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Print the cash balance of every active currency",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		currencies, err := a.services.Currency.ListCurrencies(cmd.Context())
		if err != nil {
			return err
		}
		return writeBalances(cmd.OutOrStdout(), currencies, cfg.BaseCurrencyName)
	},
}

// writeBalances prints one aligned row per currency. The base currency is bold, empty drawers are red.
func writeBalances(out io.Writer, currencies []domain.Currency, baseName string) error {
	if len(currencies) == 0 {
		_, err := fmt.Fprintln(out, "no currencies")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	for _, c := range currencies {
		name := c.Name
		amount := utils.FormatMoney(c.Balance, c.Name)
		switch {
		case c.IsBase(baseName):
			name, amount = bold(name), bold(amount)
		case !c.Balance.IsPositive():
			amount = red(amount)
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", name, amount)
	}
	return tw.Flush()
}
