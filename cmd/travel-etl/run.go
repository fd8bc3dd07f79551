package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"travel-etl/internal/config"
	"travel-etl/internal/logging"
	"travel-etl/internal/pipeline"
	"travel-etl/internal/table"
)

const (
	runShort   = "Run the join, transform and optional export"
	runExample = `# English names from ./travel.sqlite, result printed only
	travel-etl run --source travel.sqlite

	# Russian names, exported into a fresh SQLite file
	travel-etl run --locale ru --export-kind sqlite --export-dsn out.sqlite --auto-create

	# Pipeline file with metrics pushed to a Pushgateway
	travel-etl run -c pipeline.yaml --metrics-backend pushgateway --pushgateway-url http://localhost:9091`
)

// runFlags override the pipeline file for a single run.
type runFlags struct {
	source         string
	locale         string
	metricsBackend string
	pushgatewayURL string
	datadogAddr    string
	exportKind     string
	exportDSN      string
	exportTable    string
	autoCreate     bool
	batchSize      int
	preview        int
	printConfig    string
}

func (f *runFlags) addFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.source, "source", "", "SQLite source file or URI (overrides source.dsn)")
	flags.StringVar(&f.locale, "locale", "", "locale for localized names, e.g. en or ru (default en)")
	flags.StringVar(&f.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog (overrides metrics.backend)")
	flags.StringVar(&f.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides PUSHGATEWAY_URL)")
	flags.StringVar(&f.datadogAddr, "datadog-addr", "", "DogStatsD address (overrides DD_DOGSTATSD_ADDR)")
	flags.StringVar(&f.exportKind, "export-kind", "", "export backend: sqlite, postgres or mssql (overrides storage.kind)")
	flags.StringVar(&f.exportDSN, "export-dsn", "", "export connection string (overrides storage.db.dsn)")
	flags.StringVar(&f.exportTable, "export-table", "", "export table (overrides storage.db.table)")
	flags.BoolVar(&f.autoCreate, "auto-create", false, "create the export table from the output columns when missing")
	flags.IntVar(&f.batchSize, "batch-size", 0, "rows per export batch (overrides storage.db.batch_size)")
	flags.IntVar(&f.preview, "preview", 5, "number of output rows to print")
	flags.StringVar(&f.printConfig, "print-config", "", "print the effective pipeline before running: json or yaml")
}

func (f *runFlags) apply(p *config.Pipeline) {
	if f.source != "" {
		p.Source.DSN = f.source
	}
	if f.metricsBackend != "" {
		p.Metrics.Backend = f.metricsBackend
	}
	if f.pushgatewayURL != "" {
		p.Metrics.PushgatewayURL = f.pushgatewayURL
	}
	if f.datadogAddr != "" {
		p.Metrics.DatadogAddr = f.datadogAddr
	}
	if f.exportKind != "" {
		p.Storage.Kind = f.exportKind
	}
	if f.exportDSN != "" {
		p.Storage.DB.DSN = f.exportDSN
	}
	if f.exportTable != "" {
		p.Storage.DB.Table = f.exportTable
	}
	if f.autoCreate {
		p.Storage.DB.AutoCreateTable = true
	}
	if f.batchSize > 0 {
		p.Storage.DB.BatchSize = f.batchSize
	}
}

func runCmd(root *rootFlags) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:     "run",
		Short:   runShort,
		Example: heredoc.Doc(runExample),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := root.load()
			if err != nil {
				return err
			}
			flags.apply(&p)

			if flags.printConfig != "" {
				b, err := marshalConfig(p, flags.printConfig)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(b), "\n"))
			}

			issues := config.ValidatePipeline(p)
			printIssues(cmd.ErrOrStderr(), issues)
			if config.HasErrors(issues) {
				return fmt.Errorf("configuration is invalid")
			}

			log, err := logging.New(p.Log)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			flush := setupMetrics(p, log)
			defer flush()

			start := time.Now()
			res, err := pipeline.Run(cmd.Context(), p, pipeline.Options{Locale: flags.locale}, log)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), res, flags.preview)
			log.Debug("completed", zap.Duration("took", time.Since(start).Truncate(time.Millisecond)))
			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

func marshalConfig(p config.Pipeline, format string) ([]byte, error) {
	switch format {
	case "json":
		return config.MarshalJSON(p)
	case "yaml":
		return config.MarshalYAML(p)
	default:
		return nil, fmt.Errorf("unsupported --print-config format %q (json, yaml)", format)
	}
}

func printIssues(w io.Writer, issues []config.Issue) {
	for _, iss := range issues {
		fmt.Fprintf(w, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
}

// printSummary writes per-stage counts followed by up to preview output rows.
func printSummary(w io.Writer, res *pipeline.Result, preview int) {
	fmt.Fprintf(w, "run %s\n", res.RunID)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tROWS\tCOLUMNS\tDURATION")
	for _, s := range res.Stages {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", s.Name, s.Rows, s.Columns, s.Duration.Truncate(time.Microsecond))
	}
	_ = tw.Flush()

	if res.Exported.Rows > 0 {
		fmt.Fprintf(w, "exported %d rows in %d batches\n", res.Exported.Rows, res.Exported.Batches)
	}
	if preview > 0 && res.Table != nil && res.Table.Len() > 0 {
		fmt.Fprintln(w)
		printRows(w, res.Table, preview)
	}
}

func printRows(w io.Writer, t *table.Table, n int) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.ColumnNames(), "\t"))
	for i, row := range t.Rows {
		if i == n {
			break
		}
		cells := make([]string, len(row))
		for j, v := range row {
			if v == nil {
				cells[j] = "NULL"
				continue
			}
			cells[j] = fmt.Sprint(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
	if t.Len() > n {
		fmt.Fprintf(w, "... %d more rows\n", t.Len()-n)
	}
}
