package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/gaitsim/internal/analysis"
	"github.com/san-kum/gaitsim/internal/attr"
	"github.com/san-kum/gaitsim/internal/automation"
	"github.com/san-kum/gaitsim/internal/config"
	"github.com/san-kum/gaitsim/internal/experiment"
	"github.com/san-kum/gaitsim/internal/export"
	"github.com/san-kum/gaitsim/internal/logging"
	"github.com/san-kum/gaitsim/internal/scene"
	"github.com/san-kum/gaitsim/internal/sim"
	"github.com/san-kum/gaitsim/internal/storage"
	"github.com/san-kum/gaitsim/internal/strap"
	"github.com/san-kum/gaitsim/internal/viz"
	"github.com/san-kum/gaitsim/internal/wrap"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	dt         float64
	duration   float64
	integrator string
	parallel   bool
	abortWrap  bool
	every      int
	seed       int64
	exportDir  string
	column     []string
	liveTheme  string
	checkTheme string
	xColumn    string
	yColumn    string
	sanityAxis string
	leftToken  string
	rightToken string

	svgFile       string
	svgPlane      string
	svgWidth      int
	svgHeight     int
	sweepAttr     string
	sweepMin      float64
	sweepMax      float64
	sweepSteps    int
	sweepMetric   string
	sweepTime     float64
	mcTime        float64
	mcSeed        int64
	mcTrials      int
	mcPerturb     float64
	mcMarkers     []string
	analyzeColumn string

	wrapOrigin    string
	wrapInsertion string
	wrapC1        string
	wrapC2        string
	wrapR1        float64
	wrapR2        float64
	wrapTension   float64
	wrapPoints    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gaitsim",
		Short: "musculoskeletal strap and joint simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.SetLevel(logLevel)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gaitsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [model...]",
		Short: "run one or more models and store the results",
		Args:  cobra.ArbitraryArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (yaml or toml)")
	runCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset configuration")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "time step (0 uses the model step size)")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated duration in seconds")
	runCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (euler, rk4)")
	runCmd.Flags().BoolVar(&parallel, "parallel", false, "calculate straps concurrently")
	runCmd.Flags().BoolVar(&abortWrap, "abort-on-wrap-failure", false, "stop the run on the first failed wrap")
	runCmd.Flags().IntVar(&every, "record-every", 10, "record one frame every n steps (0 disables)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "seed stored with the run")
	runCmd.Flags().StringVar(&exportDir, "export-dir", "", "also write each full result as json into this directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded channels of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&column, "column", nil, "columns to plot (default: every strap length)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot one recorded channel against another",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xColumn, "x", "", "column on the horizontal axis")
	phaseCmd.Flags().StringVar(&yColumn, "y", "", "column on the vertical axis")
	phaseCmd.Flags().StringVar(&svgFile, "svg", "", "also write the plot as svg")
	_ = phaseCmd.MarkFlagRequired("x")
	_ = phaseCmd.MarkFlagRequired("y")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print recorded samples as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run a model with a live terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", 0, "time step (0 uses the model step size)")
	liveCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated duration in seconds")
	liveCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (euler, rk4)")
	liveCmd.Flags().StringVar(&liveTheme, "theme", "cyberpunk", "color theme")

	checkCmd := &cobra.Command{
		Use:   "check [model]",
		Short: "check left/right strap pairs for mirror symmetry",
		Args:  cobra.ExactArgs(1),
		RunE:  checkModel,
	}
	checkCmd.Flags().StringVar(&sanityAxis, "axis", "x", "mirror axis")
	checkCmd.Flags().StringVar(&leftToken, "left", "left", "name token of left straps and bodies")
	checkCmd.Flags().StringVar(&rightToken, "right", "right", "name token of right straps and bodies")
	checkCmd.Flags().StringVarP(&configFile, "config", "c", "", "take axis and tokens from a config file")
	checkCmd.Flags().StringVar(&checkTheme, "theme", "minimal", "color theme")

	wrapCmd := &cobra.Command{
		Use:   "wrap",
		Short: "solve a two-cylinder wrap in the cylinder frame",
		RunE:  solveWrap,
	}
	wrapCmd.Flags().StringVar(&wrapOrigin, "origin", "", "origin point \"x y z\"")
	wrapCmd.Flags().StringVar(&wrapInsertion, "insertion", "", "insertion point \"x y z\"")
	wrapCmd.Flags().StringVar(&wrapC1, "c1", "", "cylinder 1 centre \"x y z\"")
	wrapCmd.Flags().StringVar(&wrapC2, "c2", "", "cylinder 2 centre \"x y z\"")
	wrapCmd.Flags().Float64Var(&wrapR1, "r1", 0, "cylinder 1 radius")
	wrapCmd.Flags().Float64Var(&wrapR2, "r2", 0, "cylinder 2 radius")
	wrapCmd.Flags().Float64Var(&wrapTension, "tension", 1, "strap tension")
	wrapCmd.Flags().IntVar(&wrapPoints, "points", 0, "path points per arc")
	for _, f := range []string{"origin", "insertion", "c1", "c2", "r1", "r2"} {
		_ = wrapCmd.MarkFlagRequired(f)
	}

	dumpCmd := &cobra.Command{
		Use:   "dump [model]",
		Short: "build a model and print it back as a document",
		Args:  cobra.ExactArgs(1),
		RunE:  dumpModel,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list builtin models, integrators and metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := experiment.NewRegistry()
			fmt.Println("models:")
			for _, m := range registry.ListModels() {
				fmt.Printf("  %s\n", m)
			}
			fmt.Println("integrators:")
			for _, i := range registry.ListIntegrators() {
				fmt.Printf("  %s\n", i)
			}
			fmt.Println("metrics:")
			for _, m := range registry.ListMetrics() {
				fmt.Printf("  %s\n", m)
			}
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum and statistics of a recorded channel",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeColumn, "column", "", "column to analyze (default: first strap length)")

	svgCmd := &cobra.Command{
		Use:   "svg [model]",
		Short: "draw a model's strap paths as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  drawModel,
	}
	svgCmd.Flags().StringVarP(&svgFile, "output", "o", "", "output file (default stdout)")
	svgCmd.Flags().StringVar(&svgPlane, "plane", "yz", "projection plane (yz, xz, xy)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 400, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of runs and store them",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "run a model across a range of one attribute",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepAttr, "attr", "", "attribute path, e.g. MUSCLE/biceps/MaxIsometricForce")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "activation_effort", "metric to report")
	sweepCmd.Flags().Float64Var(&sweepTime, "time", 1, "simulated duration in seconds")
	sweepCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (euler, rk4)")
	_ = sweepCmd.MarkFlagRequired("attr")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "perturb marker positions and count failed wraps",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&mcTrials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&mcPerturb, "perturb", 0.005, "maximum offset per axis in metres")
	monteCarloCmd.Flags().StringSliceVar(&mcMarkers, "marker", nil, "markers to perturb (default: all)")
	monteCarloCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 is time based)")
	monteCarloCmd.Flags().Float64Var(&mcTime, "time", 0.5, "simulated duration in seconds")
	monteCarloCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (euler, rk4)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, analyzeCmd, exportCmd, exportCSVCmd, liveCmd, checkCmd, wrapCmd, dumpCmd, svgCmd,
		scenarioCmd, sweepCmd, monteCarloCmd, modelsCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		presetModel := model
		if presetModel == "" {
			presetModel = cfg.Model
		}
		p := config.GetPreset(presetModel, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(presetModel))
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if model != "" {
		cfg.Model = model
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("parallel") {
		cfg.ParallelStraps = parallel
	}
	if flags.Changed("abort-on-wrap-failure") {
		cfg.AbortOnWrapFailure = abortWrap
	}
	if flags.Changed("record-every") {
		cfg.RecordEvery = every
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !flags.Changed("log-level") && cfg.LogLevel != "" {
		if err := logging.SetLevel(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func experimentConfig(cfg *config.Config) experiment.Config {
	return experiment.Config{
		Model:              cfg.Model,
		Integrator:         cfg.Integrator,
		Dt:                 cfg.Dt,
		Duration:           cfg.Duration,
		Seed:               cfg.Seed,
		ParallelStraps:     cfg.ParallelStraps,
		AbortOnWrapFailure: cfg.AbortOnWrapFailure,
		RecordEvery:        cfg.RecordEvery,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	models := args
	if len(models) == 0 {
		models = []string{""}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	exps := make([]*experiment.Experiment, 0, len(models))
	jobs := make([]sim.Job, 0, len(models))
	for _, name := range models {
		cfg, err := resolveConfig(cmd, name)
		if err != nil {
			return err
		}
		exp := experiment.New(experimentConfig(cfg))
		if err := exp.Setup(registry); err != nil {
			return err
		}
		job, err := exp.Job()
		if err != nil {
			return err
		}
		exps = append(exps, exp)
		jobs = append(jobs, job)
	}

	fmt.Printf("running %s...\n", strings.Join(jobNames(jobs), ", "))
	start := time.Now()
	results, err := sim.NewBatch(jobs, 0).Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	fmt.Printf("completed in %v\n", elapsed)

	for i, exp := range exps {
		info, err := runInfo(exp)
		if err != nil {
			return err
		}
		runID, err := st.Save(info, results[i])
		if err != nil {
			return err
		}
		if exportDir != "" {
			if err := exportResult(filepath.Join(exportDir, runID+".json"), info, results[i]); err != nil {
				return err
			}
		}
		printResult(runID, results[i])
	}
	return nil
}

func jobNames(jobs []sim.Job) []string {
	names := make([]string, len(jobs))
	for i, j := range jobs {
		names[i] = j.Name
	}
	return names
}

func runInfo(exp *experiment.Experiment) (storage.RunInfo, error) {
	doc, err := scene.Marshal(exp.Document())
	if err != nil {
		return storage.RunInfo{}, err
	}
	cfg := exp.Config()
	return storage.RunInfo{
		Model:      cfg.Model,
		Integrator: cfg.Integrator,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Seed:       cfg.Seed,
		Document:   doc,
	}, nil
}

func exportResult(path string, info storage.RunInfo, result *sim.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return storage.ExportJSON(f, info, result)
}

func printResult(runID string, result *sim.Result) {
	fmt.Printf("\nrun id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("wrap failures: %d\n", result.WrapFailures)
	fmt.Println("metrics:")
	for _, name := range slices.Sorted(maps.Keys(result.Metrics)) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tHASH\tTIME\tDURATION\tDT\tINTEG\tSTEPS\tFAILURES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\t%d\n",
			run.ID,
			run.Model,
			run.ModelHash[:8],
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Steps,
			run.WrapFailures,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Samples, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples.Rows) == 0 {
		return nil, nil, fmt.Errorf("no data to plot")
	}
	return meta, samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	cols := column
	if len(cols) == 0 {
		for _, c := range samples.Columns {
			if strings.HasSuffix(c, ".length") {
				cols = append(cols, c)
			}
		}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(samples.Rows))

	for _, c := range cols {
		data, err := samples.Series(c)
		if err != nil {
			return err
		}
		fmt.Println(viz.PlotSeries(data, c, 80, 10))
		fmt.Println()
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	xs, err := samples.Series(xColumn)
	if err != nil {
		return err
	}
	ys, err := samples.Series(yColumn)
	if err != nil {
		return err
	}

	fmt.Printf("phase plot: %s\n", meta.ID)
	fmt.Printf("x: %s, y: %s\n\n", xColumn, yColumn)

	vp := viz.NewViewport()
	pts := make([][2]float64, len(xs))
	for i := range xs {
		pts[i] = [2]float64{xs[i], ys[i]}
		vp.Fit(xs[i], ys[i])
	}
	vp.Pad(0.05)
	canvas := viz.NewCanvas(70, 20)
	canvas.Polyline(vp, pts)
	fmt.Println(canvas.String())
	fmt.Printf("x: [%.4g, %.4g]  y: [%.4g, %.4g]\n", vp.MinX, vp.MaxX, vp.MinY, vp.MaxY)
	if svgFile != "" {
		out := export.SeriesSVG(xs, ys, 600, 400, string(viz.GetTheme("").Accent))
		if err := os.WriteFile(svgFile, []byte(out), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgFile)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	col := analyzeColumn
	if col == "" {
		for _, c := range samples.Columns {
			if strings.HasSuffix(c, ".length") {
				col = c
				break
			}
		}
	}
	data, err := samples.Series(col)
	if err != nil {
		return err
	}
	if len(samples.Times) < 2 {
		return fmt.Errorf("need at least two samples")
	}
	interval := samples.Times[1] - samples.Times[0]

	spec, err := analysis.PowerSpectrum(data, interval)
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("column: %s\n\n", col)
	fmt.Println(viz.PlotSeries(spec.Power, "amplitude spectrum ("+col+")", 80, 12))
	fmt.Println()

	st := analysis.Describe(data)
	fmt.Printf("min %.6f  max %.6f  range %.6f\n", st.Min, st.Max, st.Range())
	fmt.Printf("mean %.6f  std %.6f  rms %.6f\n", st.Mean, st.Std, st.RMS)
	freq, _ := spec.Dominant()
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1/freq)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	if err := w.Write(append([]string{"time"}, samples.Columns...)); err != nil {
		return err
	}
	for i, row := range samples.Rows {
		record := make([]string, 0, len(row)+1)
		record = append(record, strconv.FormatFloat(samples.Times[i], 'g', 10, 64))
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'g', 10, 64))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	exp := experiment.New(experimentConfig(cfg))
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}
	// The terminal belongs to the monitor while it runs.
	logging.SetOutput(io.Discard)
	defer logging.SetOutput(os.Stderr)
	return viz.RunMonitor(cmd.Context(), exp.GetSimulator(), exp.SimConfig(), args[0], viz.GetTheme(liveTheme))
}

func checkModel(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		flags := cmd.Flags()
		if !flags.Changed("axis") {
			sanityAxis = cfg.Sanity.Axis
		}
		if !flags.Changed("left") {
			leftToken = cfg.Sanity.Left
		}
		if !flags.Changed("right") {
			rightToken = cfg.Sanity.Right
		}
	}
	axis, err := strap.ParseAxis(sanityAxis)
	if err != nil {
		return err
	}

	doc, err := scene.Resolve(args[0])
	if err != nil {
		return err
	}
	m, err := scene.Build(doc, scene.Options{})
	if err != nil {
		return err
	}

	pairs, unpaired := strap.MirrorPairs(m.Straps, leftToken, rightToken)
	lines := make([]viz.CheckLine, 0, len(pairs)+len(unpaired))
	failed := 0
	for _, p := range pairs {
		err := p.Left.SanityCheck(p.Right, axis, leftToken, rightToken)
		if err == nil {
			err = p.Right.SanityCheck(p.Left, axis, leftToken, rightToken)
		}
		if err != nil {
			failed++
		}
		lines = append(lines, viz.CheckLine{Left: p.Left.Name(), Right: p.Right.Name(), Err: err})
	}
	for _, name := range unpaired {
		failed++
		lines = append(lines, viz.CheckLine{Left: name, Right: "?", Err: fmt.Errorf("no %s counterpart", rightToken)})
	}

	fmt.Print(viz.CheckReport(viz.GetTheme(checkTheme), lines))
	if failed > 0 {
		return fmt.Errorf("%d of %d strap pairs failed", failed, len(lines))
	}
	return nil
}

func solveWrap(cmd *cobra.Command, args []string) error {
	src := attr.Map{
		"Origin":    wrapOrigin,
		"Insertion": wrapInsertion,
		"Cylinder1": wrapC1,
		"Cylinder2": wrapC2,
	}
	r := attr.NewUnnamedReader(src, "wrap")
	in := wrap.TwoCylinderInput{
		Origin:       r.Vector3("Origin"),
		Insertion:    r.Vector3("Insertion"),
		Cylinder1:    r.Vector3("Cylinder1"),
		Radius1:      wrapR1,
		Cylinder2:    r.Vector3("Cylinder2"),
		Radius2:      wrapR2,
		Tension:      wrapTension,
		PointsPerArc: wrapPoints,
	}
	if err := r.Err(); err != nil {
		return err
	}

	res := wrap.TwoCylinderWrap(in)
	fmt.Printf("status: %s (%d)\n", res.Status, int(res.Status))
	if res.Status == wrap.StatusFailed {
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "length\t%.6f\n", res.Length)
	fmt.Fprintf(w, "origin force\t%s\n", attr.FormatVector3(res.OriginForce))
	fmt.Fprintf(w, "insertion force\t%s\n", attr.FormatVector3(res.InsertionForce))
	fmt.Fprintf(w, "cylinder 1 force\t%s at %s\n", attr.FormatVector3(res.Cylinder1Force), attr.FormatVector3(res.Cylinder1ForcePosition))
	fmt.Fprintf(w, "cylinder 2 force\t%s at %s\n", attr.FormatVector3(res.Cylinder2Force), attr.FormatVector3(res.Cylinder2ForcePosition))
	if err := w.Flush(); err != nil {
		return err
	}
	for i, p := range res.Path {
		fmt.Printf("  %3d  %s\n", i, attr.FormatVector3(p))
	}
	return nil
}

func drawModel(cmd *cobra.Command, args []string) error {
	plane, err := viz.ParsePlane(svgPlane)
	if err != nil {
		return err
	}
	doc, err := scene.Resolve(args[0])
	if err != nil {
		return err
	}
	m, err := scene.Build(doc, scene.Options{})
	if err != nil {
		return err
	}
	out := export.ModelSVG(m, plane, svgWidth, svgHeight, viz.GetTheme(""))
	if svgFile == "" {
		_, err = io.WriteString(os.Stdout, out)
		return err
	}
	return os.WriteFile(svgFile, []byte(out), 0644)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry())
	for _, r := range results {
		doc, merr := scene.Marshal(r.Document)
		if merr != nil {
			return merr
		}
		name := r.Config.Model
		if r.Step.SaveAs != "" {
			name = r.Step.SaveAs
		}
		runID, serr := st.Save(storage.RunInfo{
			Model:      name,
			Integrator: r.Config.Integrator,
			Dt:         r.Config.Dt,
			Duration:   r.Config.Duration,
			Document:   doc,
		}, r.Result)
		if serr != nil {
			return serr
		}
		printResult(runID, r.Result)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	sweep := &automation.ParameterSweep{
		Model:      args[0],
		Integrator: integrator,
		Attribute:  sweepAttr,
		Min:        sweepMin,
		Max:        sweepMax,
		NumSteps:   sweepSteps,
		Duration:   sweepTime,
	}
	results, err := automation.RunSweep(cmd.Context(), sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "VALUE\tSTEPS\tFAILURES\t%s\n", strings.ToUpper(sweepMetric))
	values := make([]float64, len(results))
	for i, r := range results {
		values[i] = r.Metrics[sweepMetric]
		fmt.Fprintf(w, "%g\t%d\t%d\t%.6f\n", r.Value, r.Steps, r.WrapFailures, values[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(values) > 1 {
		fmt.Println()
		fmt.Println(viz.PlotSeries(values, sweepMetric+" vs "+sweepAttr, 60, 10))
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg := &automation.MonteCarloConfig{
		Model:        args[0],
		Integrator:   integrator,
		Markers:      mcMarkers,
		Perturbation: mcPerturb,
		NumTrials:    mcTrials,
		Duration:     mcTime,
		Seed:         mcSeed,
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	robust, failing := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d  robust: %d  failing: %d\n", len(results), robust, failing)
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Printf("  trial %d: %v\n", r.TrialID, r.Err)
		case r.WrapFailures > 0:
			fmt.Printf("  trial %d: %d failed wraps\n", r.TrialID, r.WrapFailures)
		}
	}
	return nil
}

func dumpModel(cmd *cobra.Command, args []string) error {
	doc, err := scene.Resolve(args[0])
	if err != nil {
		return err
	}
	m, err := scene.Build(doc, scene.Options{})
	if err != nil {
		return err
	}
	out, err := scene.Marshal(scene.Dump(doc.Name, m))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
