package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/credited/internal/ledger"
	"github.com/cleared-dev/credited/internal/model"
)

func newClassifyCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Show how an alert would be classified without storing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := alertText(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			svc, st, err := a.openService()
			if err != nil {
				return err
			}
			defer closeStore(st)

			d, err := svc.Classify(cmd.Context(), text)
			if err != nil {
				return err
			}
			a.log.Debug().Str("verdict", string(d.Verdict)).Str("rule", d.Rule).Msg("classified")

			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(d)
			}
			fmt.Fprintf(out, "%s (rule: %s)\n", d.Verdict, d.Rule)
			if d.Reason != "" {
				fmt.Fprintf(out, "reason: %s\n", d.Reason)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the decision as JSON")
	return cmd
}

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add [text...]",
		Short: "Add a credit alert to the ledger",
		Long:  "Add a credit alert to the ledger. With no arguments, or \"-\", the alert is read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := alertText(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			svc, st, err := a.openService()
			if err != nil {
				return err
			}
			defer closeStore(st)

			txn, err := svc.Submit(cmd.Context(), text)
			if err != nil {
				if rej, ok := ledger.AsRejection(err); ok {
					a.log.Debug().Str("kind", string(rej.Kind)).Str("rule", rej.Rule).Msg("alert rejected")
					return fmt.Errorf("alert rejected (%s): %s", rej.Kind, rej.Reason)
				}
				return err
			}

			a.log.Info().Str("id", txn.ID).Str("amount", txn.Amount.StringFixed(2)).Msg("transaction added")
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s %s from %s (%s)\n",
				txn.ID, txn.Date.Format(model.DateFormat), txn.Amount.StringFixed(2), txn.Bank, txn.Description)
			return nil
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := a.openService()
			if err != nil {
				return err
			}
			defer closeStore(st)

			txns, err := svc.Transactions(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if txns == nil {
					txns = []model.Transaction{}
				}
				return json.NewEncoder(out).Encode(txns)
			}
			if len(txns) == 0 {
				fmt.Fprintln(out, "No transactions.")
				return nil
			}
			return printTransactions(out, txns)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print transactions as JSON")
	return cmd
}

func printTransactions(w io.Writer, txns []model.Transaction) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tBANK\tDESCRIPTION")
	for _, txn := range txns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			txn.ID, txn.Date.Format(model.DateFormat), txn.Amount.StringFixed(2), txn.Bank, txn.Description)
	}
	return tw.Flush()
}

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a transaction from the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := a.openService()
			if err != nil {
				return err
			}
			defer closeStore(st)

			if err := svc.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.log.Info().Str("id", args[0]).Msg("transaction removed")
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newTaxCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Estimate income tax over the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := a.openService()
			if err != nil {
				return err
			}
			defer closeStore(st)

			summary, err := svc.Summary(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(summary)
			}
			return printSummary(out, summary)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func printSummary(w io.Writer, s model.TaxSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BRACKET\tRATE\tTAXABLE\tTAX")
	lower := "0"
	for _, b := range s.Breakdown {
		upper := "and above"
		if !b.Bracket.Unbounded {
			upper = b.Bracket.UpperBound.StringFixed(0)
		}
		fmt.Fprintf(tw, "%s - %s\t%s%%\t%s\t%s\n",
			lower, upper, b.Bracket.Rate.Shift(2).String(), b.TaxableAmount.StringFixed(2), b.TaxAmount.StringFixed(2))
		lower = upper
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal income:   %s\n", s.TotalIncome.StringFixed(2))
	fmt.Fprintf(w, "Total tax:      %s\n", s.TotalTax.StringFixed(2))
	fmt.Fprintf(w, "Net income:     %s\n", s.NetIncome.StringFixed(2))
	fmt.Fprintf(w, "Effective rate: %s%%\n", s.EffectiveRatePercent.StringFixed(2))
	return nil
}

func newExportCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := a.openService()
			if err != nil {
				return err
			}
			defer closeStore(st)

			txns, err := svc.Transactions(cmd.Context())
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return ledger.WriteCSV(cmd.OutOrStdout(), txns)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := ledger.WriteCSV(f, txns); err != nil {
				f.Close()
				return fmt.Errorf("writing %s: %w", output, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", output, err)
			}
			a.log.Info().Str("file", output).Int("rows", len(txns)).Msg("ledger exported")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
