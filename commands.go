package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"github.com/Paldeepak079/AadharIQ/analytics"
	"github.com/Paldeepak079/AadharIQ/config"
	"github.com/Paldeepak079/AadharIQ/ingest"
	"github.com/Paldeepak079/AadharIQ/models"
	"github.com/Paldeepak079/AadharIQ/report"
	"github.com/Paldeepak079/AadharIQ/store"
)

var (
	processOutput string
	analyzeOutput string
	exportOutput  string
	chartPath     string
	granFlag      string
	stateFlag     string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Build the dataset from the raw CSV extracts",
	Long: `Reads the enrolment, demographic and biometric extracts plus the optional
pincode, district coordinate and saturation files, aggregates them and stores
the dataset in the configured source (JSON file or PostgreSQL).`,
	RunE: runProcess,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print the comprehensive analytics report as JSON",
	RunE:  runAnalyze,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the XLSX workbook and optionally the forecast chart",
	RunE:  runExport,
}

func init() {
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "write the dataset JSON here instead of the configured source")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the report to a file instead of stdout")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "aadhaariq_export.xlsx", "workbook path")
	exportCmd.Flags().StringVar(&chartPath, "chart", "", "also write the forecast chart PNG here")
	exportCmd.Flags().StringVar(&granFlag, "granularity", string(models.Daily), "forecast granularity for --chart (daily or monthly)")
	exportCmd.Flags().StringVar(&stateFlag, "state", "", "forecast region for --chart (default All India)")
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openSource returns the configured dataset source. Postgres connections are
// registered in checks for the health endpoint.
func openSource(ctx context.Context, checks map[string]config.Pinger) (store.Source, func(), error) {
	switch cfg.Dataset.Source {
	case config.SourcePostgres:
		db, err := config.OpenPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		if checks != nil {
			checks["postgres"] = config.PostgresPinger(db)
		}
		src := store.NewPostgresSource(db)
		if err := src.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return src, func() { db.Close() }, nil
	default:
		return store.NewFileSource(cfg.Dataset.Path), func() {}, nil
	}
}

func loadDataset(ctx context.Context) (*models.Dataset, error) {
	src, closeSource, err := openSource(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer closeSource()
	return src.Load(ctx)
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	raw := cfg.Dataset.Raw
	proc := ingest.NewProcessor(ingest.Options{
		EnrolmentDir:   raw.EnrolmentDir,
		DemographicDir: raw.DemographicDir,
		BiometricDir:   raw.BiometricDir,
		LatLongCSV:     raw.LatLongCSV,
		PincodeCSV:     raw.PincodeCSV,
		SaturationCSV:  raw.SaturationCSV,
		MaxDistricts:   raw.MaxDistricts,
		SeriesDays:     raw.SeriesDays,
	}, nil, logger)

	ds, err := proc.Run(ctx)
	if err != nil {
		return err
	}

	var sink store.Sink
	closeSink := func() {}
	if processOutput != "" {
		sink = store.NewFileSource(processOutput)
	} else {
		src, closeSource, err := openSource(ctx, nil)
		if err != nil {
			return err
		}
		closeSink = closeSource
		s, ok := src.(store.Sink)
		if !ok {
			closeSource()
			return fmt.Errorf("dataset source %q cannot be written", cfg.Dataset.Source)
		}
		sink = s
	}
	defer closeSink()

	if err := sink.Save(ctx, ds); err != nil {
		return err
	}
	logger.Info("Dataset saved",
		zap.Int("states", len(ds.States)),
		zap.Int("districts", len(ds.Districts)),
		zap.Int64("enrolments", ds.Summary.TotalEnrolments),
		zap.Int64("updates", ds.Summary.TotalUpdates))
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(commandContext(cmd))
	if err != nil {
		return err
	}
	rep := analytics.Analyze(ds, time.Now())

	var out io.Writer = os.Stdout
	if analyzeOutput != "" {
		f, err := os.Create(analyzeOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", analyzeOutput, err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(commandContext(cmd))
	if err != nil {
		return err
	}
	rep := analytics.Analyze(ds, time.Now())

	if err := writeTo(exportOutput, func(w io.Writer) error { return report.Workbook(w, ds, rep) }); err != nil {
		return err
	}
	logger.Info("Workbook written", zap.String("path", exportOutput))

	if chartPath == "" {
		return nil
	}
	gran, ok := models.ParseGranularity(granFlag)
	if !ok {
		return fmt.Errorf("unknown granularity %q", granFlag)
	}
	series, found := ds.SeriesFor(stateFlag)
	if !found {
		return fmt.Errorf("no time series for %q: %w", stateFlag, store.ErrNotFound)
	}
	fc, err := analytics.Forecast(series, stateFlag, gran)
	if err != nil {
		return err
	}
	if err := writeTo(chartPath, func(w io.Writer) error {
		return report.ForecastChart(w, fc, 10*vg.Inch, 5*vg.Inch)
	}); err != nil {
		return err
	}
	logger.Info("Forecast chart written", zap.String("path", chartPath))
	return nil
}

func writeTo(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
