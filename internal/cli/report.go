package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoscore/internal/config"
	"github.com/rshade/ecoscore/internal/engine"
	"github.com/rshade/ecoscore/internal/ingest"
	"github.com/rshade/ecoscore/internal/logging"
	"github.com/rshade/ecoscore/internal/store"
)

// Output formats of the report command.
const (
	outputJSON = "json"
	outputText = "text"
)

// reportFlags holds the report command flags.
type reportFlags struct {
	input       string
	format      string
	output      string
	catalogPath string

	lifecycle  bool
	circular   bool
	cost       bool
	benchmark  bool
	regulatory bool
	details    bool
	noRecs     bool
}

// options converts the flags into engine options.
func (f reportFlags) options() (engine.Options, error) {
	format, err := engine.ParseFormat(f.format)
	if err != nil {
		return engine.Options{}, err
	}
	opts := engine.Options{
		Format:                        format,
		IncludeLifecycleAssessment:    f.lifecycle,
		IncludeCircularEconomyMetrics: f.circular,
		IncludeLifecycleCost:          f.cost,
		IncludeBenchmarking:           f.benchmark,
		IncludeRegulatoryCompliance:   f.regulatory,
		IncludeImplementationDetails:  f.details,
		IncludeRecommendations:        !f.noRecs,
	}
	return opts.Normalize(), nil
}

// NewReportCmd creates the report command, which generates a report from a
// JSON or YAML payload file.
func NewReportCmd() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a sustainability report from a project file",
		Example: `  ecoscore report --input project.json
  ecoscore report --input project.yaml --format detailed --lifecycle --circular --cost --output text`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFromContext(cmd.Context())
			if cmd.Flags().Changed("catalog") {
				cfg.Catalog.Path = flags.catalogPath
			}
			return runReport(cmd.Context(), cmd.OutOrStdout(), cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "payload file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&flags.format, "format", string(engine.FormatBasic), "report format: basic, detailed, executive, technical")
	cmd.Flags().StringVarP(&flags.output, "output", "o", outputJSON, "output format: json or text")
	cmd.Flags().StringVar(&flags.catalogPath, "catalog", "", "SQLite footprint catalog used to fill missing embodied carbon")
	cmd.Flags().BoolVar(&flags.lifecycle, "lifecycle", false, "include the lifecycle assessment (detailed formats)")
	cmd.Flags().BoolVar(&flags.circular, "circular", false, "include circular economy metrics (detailed formats)")
	cmd.Flags().BoolVar(&flags.cost, "cost", false, "include the lifecycle cost analysis (detailed formats)")
	cmd.Flags().BoolVar(&flags.benchmark, "benchmark", false, "include industry benchmarks")
	cmd.Flags().BoolVar(&flags.regulatory, "regulatory", false, "include regulatory compliance")
	cmd.Flags().BoolVar(&flags.details, "details", false, "include implementation details for suggestions")
	cmd.Flags().BoolVar(&flags.noRecs, "no-recommendations", false, "omit suggestions")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runReport(ctx context.Context, w io.Writer, cfg *config.Config, flags reportFlags) error {
	log := logging.FromContext(ctx)

	if flags.output != outputJSON && flags.output != outputText {
		return fmt.Errorf("output must be %q or %q, got %q", outputJSON, outputText, flags.output)
	}
	opts, err := flags.options()
	if err != nil {
		return err
	}

	payload, err := ingest.LoadPayload(ctx, flags.input)
	if err != nil {
		return err
	}

	engineOpts := []engine.Option{engine.WithBatchSize(cfg.Engine.BatchSize)}
	if cfg.Catalog.Path != "" {
		catalog, openErr := store.Open(ctx, cfg.Catalog.Path)
		if openErr != nil {
			return fmt.Errorf("opening catalog: %w", openErr)
		}
		defer func() { _ = catalog.Close() }()
		engineOpts = append(engineOpts, engine.WithFactorSource(catalog))
	}

	report, stats, err := engine.New(engineOpts...).Generate(ctx, payload, opts)
	if err != nil {
		return err
	}

	log.Debug().
		Str("component", "cli").
		Str("report_id", report.ReportID).
		Int("batches", stats.Batches).
		Int("factors_applied", stats.FactorsApplied).
		Msg("report generated")

	if flags.output == outputText {
		return RenderReport(w, report)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
