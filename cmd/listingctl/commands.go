package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"listings_admin/internal/adapters/feed"
	"listings_admin/internal/adapters/observability"
	"listings_admin/internal/app"
	"listings_admin/internal/seed"
)

func migrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: e.withStore(func(cmd *cobra.Command, args []string) error {
			applied, err := e.store.Migrations(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Schema up to date (%s):\n", e.store.Driver())
			for _, m := range applied {
				fmt.Fprintf(out, "- %s applied %s\n", m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		}),
	}
}

func seedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo property and enquiry if absent",
		RunE: e.withStore(func(cmd *cobra.Command, args []string) error {
			res, err := seed.Seed(cmd.Context(), e.svcs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "property created: %t, enquiry created: %t\n",
				res.PropertyCreated, res.EnquiryCreated)
			return nil
		}),
	}
}

func importCmd(e *env) *cobra.Command {
	var url string
	var workers int
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import properties from the XML feed",
		RunE: e.withStore(func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = e.cfg.FeedURL
			}
			if workers <= 0 {
				workers = e.cfg.Workers
			}
			fc, err := feed.New(url, e.cfg.FeedRPS)
			if err != nil {
				return err
			}
			imp := app.NewImportService(fc, e.svcs.Properties, workers)
			imp.OnItem = observability.ObserveImportItem

			rep, err := imp.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}),
	}
	cmd.Flags().StringVar(&url, "url", "", "feed URL (defaults to FEED_URL)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent references (defaults to INGEST_WORKERS)")
	return cmd
}

func exportCmd(e *env) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <entity>",
		Short: "Write one entity as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: e.withStore(func(cmd *cobra.Command, args []string) error {
			ent, ok := e.svcs.Entity(args[0])
			if !ok {
				return fmt.Errorf("unknown entity %q (want one of %s)", args[0], entityNames(e.svcs))
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			n, err := ent.ExportCSV(cmd.Context(), w)
			if err != nil {
				return fmt.Errorf("export %s: %w", ent.Kind().Export, err)
			}
			if output != "" && output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d %s to %s\n", n, ent.Kind().Plural, output)
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func entityNames(s *app.Services) string {
	var names []string
	for _, e := range s.Entities() {
		names = append(names, e.Kind().Export)
	}
	return strings.Join(names, ", ")
}
