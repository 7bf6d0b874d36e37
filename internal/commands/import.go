package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/credited/internal/importer"
	"github.com/cleared-dev/credited/internal/ledger"
)

func newScanCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List alert files waiting in import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := importer.Scan(a.root, importer.DefaultRegistry(a.recognizer()))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintf(out, "No alert files in %s\n", importer.Dir(a.root))
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tSIZE")
			for _, f := range files {
				fmt.Fprintf(tw, "%s\t%d\n", f.Name, f.Size)
			}
			return tw.Flush()
		},
	}
}

func newImportCommand(a *app) *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Add every alert file in import/ to the ledger",
		Long: "Reads .txt, .pdf and (when tesseract is installed) image files from import/. " +
			"Files are moved to import/processed/ once handled, whether the alert was added or rejected.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := importer.DefaultRegistry(a.recognizer())
			files, err := importer.Scan(a.root, reg)
			if err != nil {
				return err
			}

			svc, st, err := a.openService()
			if err != nil {
				return err
			}
			defer closeStore(st)

			out := cmd.OutOrStdout()
			var added, rejected, failed int
			for _, f := range files {
				log := a.log.With().Str("file", f.Name).Logger()

				text, err := reg.Read(cmd.Context(), f.Path)
				if err != nil {
					failed++
					log.Warn().Err(err).Msg("could not read alert file")
					fmt.Fprintf(out, "%s: error: %v\n", f.Name, err)
					continue
				}

				txn, err := svc.Submit(cmd.Context(), text)
				switch rej, isRej := ledger.AsRejection(err); {
				case err == nil:
					added++
					log.Info().Str("id", txn.ID).Str("amount", txn.Amount.StringFixed(2)).Msg("transaction added")
					fmt.Fprintf(out, "%s: added %s (%s)\n", f.Name, txn.Amount.StringFixed(2), txn.Bank)
				case isRej:
					rejected++
					log.Debug().Str("kind", string(rej.Kind)).Str("reason", rej.Reason).Msg("alert rejected")
					fmt.Fprintf(out, "%s: rejected (%s): %s\n", f.Name, rej.Kind, rej.Reason)
				default:
					return fmt.Errorf("importing %s: %w", f.Name, err)
				}

				if keep {
					continue
				}
				if err := importer.MarkProcessed(a.root, f.Name); err != nil {
					return err
				}
			}

			fmt.Fprintf(out, "Imported %d file(s): %d added, %d rejected, %d failed\n", len(files), added, rejected, failed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "leave files in import/ after handling them")
	return cmd
}
