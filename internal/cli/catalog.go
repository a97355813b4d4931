package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/rshade/ecoscore/internal/api"
	"github.com/rshade/ecoscore/internal/greenops"
	"github.com/rshade/ecoscore/internal/ingest"
	"github.com/rshade/ecoscore/internal/logging"
	"github.com/rshade/ecoscore/internal/pagination"
	"github.com/rshade/ecoscore/internal/store"
)

// ErrNoCatalogPath is returned when neither --db nor catalog.path is set.
var ErrNoCatalogPath = errors.New("no catalog path: pass --db or set catalog.path")

// errNoMaterialsInFile is returned when an import file has no materials array.
var errNoMaterialsInFile = errors.New("input file has no materials array")

// NewCatalogCmd creates the catalog command group.
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "catalog", Short: "Manage the material footprint catalog"}
	cmd.PersistentFlags().String("db", "", "SQLite catalog path (defaults to catalog.path)")
	cmd.AddCommand(newCatalogImportCmd(), newCatalogListCmd())
	return cmd
}

// catalogPath resolves --db against the configured catalog path.
func catalogPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = configFromContext(cmd.Context()).Catalog.Path
	}
	if path == "" {
		return "", ErrNoCatalogPath
	}
	return path, nil
}

func newCatalogImportCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:     "import",
		Short:   "Import materials from a JSON or YAML payload file",
		Example: `  ecoscore catalog import --db catalog.db --input materials.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := catalogPath(cmd)
			if err != nil {
				return err
			}
			return runCatalogImport(cmd.Context(), cmd.OutOrStdout(), path, input)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "file with a top-level materials array")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runCatalogImport(ctx context.Context, w io.Writer, dbPath, input string) error {
	payload, err := ingest.LoadPayload(ctx, input)
	if err != nil {
		return err
	}
	if !payload.HasMaterials {
		return fmt.Errorf("%s: %w", input, errNoMaterialsInFile)
	}

	catalog, err := store.Open(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer func() { _ = catalog.Close() }()

	n, err := catalog.ImportMaterials(ctx, payload.Materials)
	if err != nil {
		return err
	}
	total, err := catalog.Count(ctx)
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Debug().
		Str("component", "cli").
		Str("catalog", dbPath).
		Int("imported", n).
		Msg("catalog import complete")

	_, err = fmt.Fprintf(w, "Imported %s materials into %s (%s total)\n",
		greenops.FormatNumber(int64(n)), dbPath, greenops.FormatNumber(int64(total)))
	return err
}

func newCatalogListCmd() *cobra.Command {
	var sortSpec string
	params := pagination.NewParams()

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List catalog materials",
		Example: `  ecoscore catalog list --db catalog.db --sort embodiedCarbon:desc --page 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := catalogPath(cmd)
			if err != nil {
				return err
			}
			if sortSpec != "" {
				params.SortField, params.SortOrder, err = pagination.ParseSort(sortSpec)
				if err != nil {
					return err
				}
			}
			if err := params.Validate(); err != nil {
				return err
			}
			return runCatalogList(cmd.Context(), cmd.OutOrStdout(), path, params)
		},
	}
	cmd.Flags().IntVar(&params.Page, "page", pagination.DefaultPage, "page number (1-based)")
	cmd.Flags().IntVar(&params.PageSize, "page-size", pagination.DefaultPageSize, "materials per page")
	cmd.Flags().StringVar(&sortSpec, "sort", "", "sort as field or field:order, e.g. embodiedCarbon:desc")
	return cmd
}

func runCatalogList(ctx context.Context, w io.Writer, dbPath string, params pagination.Params) error {
	catalog, err := store.Open(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer func() { _ = catalog.Close() }()

	materials, err := catalog.ListMaterials(ctx)
	if err != nil {
		return err
	}
	sorted, err := api.MaterialSorter.Sort(materials, params.SortField, params.SortOrder)
	if err != nil {
		return err
	}
	page := pagination.Apply(sorted, params)
	meta := pagination.NewMeta(params, len(sorted))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(boxBorderColor())).
		Headers("NAME", "TYPE", "EMBODIED CARBON", "RECYCLED", "LOCAL", "SUPPLIER")
	for _, m := range page {
		t.Row(m.Name, optString(m.Type), optFloat(m.EmbodiedCarbon), optPercent(m.RecycledContent),
			optBool(m.LocallySourced), optString(m.Supplier))
	}

	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Page %d of %d (%s materials)\n",
		meta.Page, meta.TotalPages, greenops.FormatNumber(int64(meta.Total)))
	return err
}

func optString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func optFloat(f *float64) string {
	if f == nil {
		return "-"
	}
	return greenops.FormatFloat(*f, 2)
}

// optPercent formats a 0-100 percentage.
func optPercent(f *float64) string {
	if f == nil {
		return "-"
	}
	return greenops.FormatFloat(*f, 0) + "%"
}

func optBool(b *bool) string {
	switch {
	case b == nil:
		return "-"
	case *b:
		return "yes"
	default:
		return "no"
	}
}
