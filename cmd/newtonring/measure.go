package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go-newton-rings/internal/analyzer"
	"go-newton-rings/internal/config"
	"go-newton-rings/internal/figures"
	"go-newton-rings/internal/history"
	"go-newton-rings/internal/logger"
	"go-newton-rings/internal/report"
	"go-newton-rings/internal/storage"
	"go-newton-rings/internal/strategy"
	"go-newton-rings/pkg/models"
)

// NewMeasureCmd creates the measure command.
func NewMeasureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "measure [image]",
		Short: "Measure a Newton rings interferogram",
		Long: `Measure runs the full pipeline on one interferogram.

The image may be a local file path or an http(s) URL. Results are written
into the output directory: result.json, report.md and the diagnostic
figures (radial profile, fit and residuals).

Examples:
  # Measure a local capture with the default sodium-lamp calibration
  newtonring measure rings.png

  # Use a calibrated bench config and keep the run in a history database
  newtonring measure -c bench.yaml --db runs.db rings.png

  # Compare against a known radius of curvature
  newtonring measure --reference-r 1200 rings.png

Configuration file (YAML) example:
  pixel_to_mm: 0.0082
  wavelength: 589.3
  center_detection_method: gradient
  min_rings: 5`,
		Args: cobra.ExactArgs(1),
		RunE: runMeasureCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Measurement config file path (YAML; defaults apply when omitted)")
	cmd.Flags().StringP("outdir", "o", "output",
		"Directory for result.json, report.md and figures")
	cmd.Flags().StringP("center-method", "m", "",
		"Override the center detection method (hough or gradient)")
	cmd.Flags().Float64P("reference-r", "r", 0,
		"Known radius of curvature in mm for error analysis")
	cmd.Flags().Bool("fast", false,
		"Reduced-resolution preview measurement (skips error analysis)")
	cmd.Flags().Bool("no-report", false, "Skip the Markdown report")
	cmd.Flags().Bool("no-figures", false, "Skip the diagnostic figures")
	cmd.Flags().String("db", "", "SQLite history database path (disabled when empty)")
	cmd.Flags().DurationP("timeout", "t", 60*time.Second, "Overall measurement timeout")

	return cmd
}

// measureRun holds the resolved settings for one CLI measurement.
type measureRun struct {
	source      string
	outDir      string
	fast        bool
	noReport    bool
	noFigures   bool
	historyPath string
	timeout     time.Duration
	options     analyzer.MeasurementOptions
}

// runMeasureCmd executes the measure command.
func runMeasureCmd(cmd *cobra.Command, args []string) error {
	run, err := buildMeasureRun(cmd, args)
	if err != nil {
		return err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.Logger.SetLevel(logrus.DebugLevel)
	}

	if err := os.MkdirAll(run.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	closeLog, err := logger.TeeToFile(filepath.Join(run.outDir, "run.log"))
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer closeLog() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), run.timeout)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("received shutdown signal, cancelling...")
		cancel()
	}()

	return measure(ctx, run)
}

// buildMeasureRun resolves flags and config into a measureRun.
func buildMeasureRun(cmd *cobra.Command, args []string) (*measureRun, error) {
	run := &measureRun{source: args[0]}

	var err error
	if run.outDir, err = cmd.Flags().GetString("outdir"); err != nil {
		return nil, err
	}
	if run.fast, err = cmd.Flags().GetBool("fast"); err != nil {
		return nil, err
	}
	if run.noReport, err = cmd.Flags().GetBool("no-report"); err != nil {
		return nil, err
	}
	if run.noFigures, err = cmd.Flags().GetBool("no-figures"); err != nil {
		return nil, err
	}
	if run.historyPath, err = cmd.Flags().GetString("db"); err != nil {
		return nil, err
	}
	if run.timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg := config.NewConfig()
	if configPath != "" {
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	run.options = analyzer.OptionsFromConfig(cfg)

	method, err := cmd.Flags().GetString("center-method")
	if err != nil {
		return nil, err
	}
	if method != "" {
		if method != config.MethodHough && method != config.MethodGradient {
			return nil, fmt.Errorf("unknown center method %q (want %s or %s)",
				method, config.MethodHough, config.MethodGradient)
		}
		run.options = run.options.WithCenterMethod(method)
	}

	referenceR, err := cmd.Flags().GetFloat64("reference-r")
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("reference-r") {
		if referenceR <= 0 {
			return nil, fmt.Errorf("--reference-r must be positive (got %g)", referenceR)
		}
		run.options = run.options.WithReferenceRadius(referenceR)
	}

	return run, nil
}

// measure fetches the image, runs the pipeline and writes all outputs.
func measure(ctx context.Context, run *measureRun) error {
	fetcher := newFetcher(run.source)
	img, err := fetcher.FetchImage(ctx, run.source)
	if err != nil {
		return fmt.Errorf("load image %s: %w", run.source, err)
	}

	ringAnalyzer := analyzer.NewRingAnalyzer(analyzer.DefaultWorkers)
	defer ringAnalyzer.Close() //nolint:errcheck

	measurement := strategy.NewMeasurementContext(strategyFor(run, ringAnalyzer))
	fmt.Printf("Measuring %s (%s)...\n", run.source, measurement.GetCurrentStrategy())
	result, err := measurement.ExecuteMeasurement(img, run.options)
	if err != nil {
		return fmt.Errorf("measurement failed: %w", err)
	}

	fmt.Printf("R = %.2f mm from %d fringes (R² of fit %.5f) in %.3f s\n",
		result.Fit.RadiusMM, len(result.Fringes.Fringes), result.Fit.RSquared,
		result.ProcessingTimeSec)
	if result.ErrorReport != nil && !result.ErrorReport.Passed {
		for _, issue := range result.ErrorReport.Issues {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", issue)
		}
	}

	if err := writeOutputs(ctx, run, result); err != nil {
		return err
	}

	fmt.Printf("Results written to %s\n", run.outDir)
	return nil
}

// strategyFor maps the resolved settings onto a measurement strategy.
func strategyFor(run *measureRun, ringAnalyzer analyzer.RingAnalyzer) strategy.MeasurementStrategy {
	if run.fast {
		return strategy.NewFastMeasurementStrategy(ringAnalyzer)
	}
	if run.options.CenterMethod == config.MethodHough {
		return strategy.NewHoughMeasurementStrategy(ringAnalyzer)
	}
	return strategy.NewGradientMeasurementStrategy(ringAnalyzer)
}

// newFetcher picks the HTTP fetcher for URLs and the local reader otherwise.
func newFetcher(source string) storage.ImageFetcher {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return storage.NewHTTPImageFetcher()
	}
	return storage.NewLocalImageReader()
}

// writeOutputs writes result.json plus the optional report, figures and
// history record.
func writeOutputs(ctx context.Context, run *measureRun, result *models.MeasurementResult) error {
	jsonPath := filepath.Join(run.outDir, "result.json")
	f, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", jsonPath, err)
	}
	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", jsonPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	if !run.noReport {
		reportPath := filepath.Join(run.outDir, "report.md")
		rf, err := os.Create(reportPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", reportPath, err)
		}
		writer := report.NewMarkdownWriter(rf)
		if err := writer.Write(run.source, result); err != nil {
			rf.Close()
			return fmt.Errorf("write report: %w", err)
		}
		if err := rf.Close(); err != nil {
			return err
		}
	}

	if !run.noFigures {
		plotter, err := figures.NewPlotter(run.outDir)
		if err != nil {
			return err
		}
		files, err := plotter.GenerateFigures(result)
		if err != nil {
			return fmt.Errorf("generate figures: %w", err)
		}
		logger.WithField("files", files).Debug("figures written")
	}

	if run.historyPath != "" {
		if err := saveHistory(ctx, run, result); err != nil {
			// History is an archive, not part of the measurement.
			logger.WithError(err).Warn("Failed to record measurement history")
		}
	}

	return nil
}

// saveHistory appends the run to the SQLite history database.
func saveHistory(ctx context.Context, run *measureRun, result *models.MeasurementResult) error {
	store, err := history.NewSQLiteStore(run.historyPath)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	response := &models.MeasurementResponse{
		ImageURL:          run.source,
		Timestamp:         result.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		ProcessingTimeSec: result.ProcessingTimeSec,
		Center:            result.Center,
		FringeCount:       len(result.Fringes.Fringes),
		Fringes:           result.Fringes,
		Fit:               result.Fit,
		ErrorReport:       result.ErrorReport,
	}
	return store.SaveMeasurement(ctx, response)
}
