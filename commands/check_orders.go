package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/models"
	"github.com/americanbox/americanbox-api/services"
	"github.com/spf13/cobra"
)

var checkOrdersCmd = &cobra.Command{
	Use:   "check-orders",
	Short: "Check order data against the business rules",
	Long: `Verify that per-status order counts add up to the total, that every
order points at an existing address, that every customer has an address and
that priced orders store weight times rate as their total.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := bootstrap(); err != nil {
			return err
		}

		report, err := services.NewIntegrityService(config.GetDB()).CheckOrders(cmd.Context())
		if err != nil {
			return err
		}
		printIntegrityReport(cmd.OutOrStdout(), report)

		if !report.OK() {
			return errors.New("order check found problems")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkOrdersCmd)
}

func printIntegrityReport(w io.Writer, report *services.IntegrityReport) {
	fmt.Fprintln(w, "Orders per status:")
	for _, status := range models.OrderStatuses {
		fmt.Fprintf(w, "  %-20s %d\n", status, report.Summary.Counts[status])
	}
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "  %-20s %d (counted %d)\n", "Total", report.Summary.Total, report.CountedTotal)

	if report.CountsMatch {
		fmt.Fprintln(w, "OK   status counts add up to the total")
	} else {
		fmt.Fprintln(w, "FAIL status counts do not add up to the total")
	}

	if len(report.WithoutAddress) == 0 {
		fmt.Fprintln(w, "OK   every order has an address")
	} else {
		fmt.Fprintf(w, "FAIL %d orders without address: %s\n", len(report.WithoutAddress), strings.Join(report.WithoutAddress, ", "))
	}

	if len(report.UsersWithoutAddrs) == 0 {
		fmt.Fprintln(w, "OK   every customer has an address")
	} else {
		fmt.Fprintf(w, "FAIL %d customers without address: %s\n", len(report.UsersWithoutAddrs), strings.Join(report.UsersWithoutAddrs, ", "))
	}

	if len(report.PriceMismatches) == 0 {
		fmt.Fprintln(w, "OK   priced orders match weight x rate")
		return
	}
	fmt.Fprintf(w, "FAIL %d orders with a total that disagrees with weight x rate:\n", len(report.PriceMismatches))
	for _, m := range report.PriceMismatches {
		fmt.Fprintf(w, "  %s stored %.2f expected %.2f\n", m.Guide, m.Stored, m.Expected)
	}
}
