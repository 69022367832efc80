package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/andersnelson/SSCP-2018/internal/analysis"
	"github.com/andersnelson/SSCP-2018/internal/config"
	"github.com/andersnelson/SSCP-2018/internal/dynamo"
	"github.com/andersnelson/SSCP-2018/internal/integrators"
	"github.com/andersnelson/SSCP-2018/internal/metrics"
	"github.com/andersnelson/SSCP-2018/internal/models"
	"github.com/andersnelson/SSCP-2018/internal/stimulus"
	"github.com/andersnelson/SSCP-2018/internal/storage"
	"github.com/andersnelson/SSCP-2018/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	integrator string
	configFile string
	preset     string
	// crossbridge rate constants
	rt, kon, koff, f, fprime, h, hprime, g float64
	// sweep bounds
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sscp",
		Short: "crossbridge kinetics and excitable membrane simulation lab",
		Run: func(cmd *cobra.Command, args []string) {
			if err := viz.RunInteractive(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sscp", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a simulation and store the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addRateFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	kdevCmd := &cobra.Command{
		Use:   "kdev [run_id]",
		Short: "rate of force development from a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  kdevRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep a crossbridge rate constant and report k_dev",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepParam,
	}
	addRateFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1.0, "lowest parameter value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 100.0, "highest parameter value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 20, "number of sweep points")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().Float64Var(&dt, "dt", 0.001, "timestep")
	compareCmd.Flags().Float64Var(&duration, "time", 1.0, "duration")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive parameter explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, kdevCmd, sweepCmd, compareCmd, presetsCmd, exportCSVCmd, exportJSONCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRateFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, rk4, rk45)")
	cmd.Flags().Float64Var(&rt, "rt", config.DefaultRT, "total site count")
	cmd.Flags().Float64Var(&kon, "kon", config.DefaultKOn, "non-permissive to permissive rate")
	cmd.Flags().Float64Var(&koff, "koff", config.DefaultKOff, "permissive to non-permissive rate")
	cmd.Flags().Float64Var(&f, "f", config.DefaultF, "attachment rate")
	cmd.Flags().Float64Var(&fprime, "fprime", config.DefaultFPrime, "detachment rate from A1")
	cmd.Flags().Float64Var(&h, "h", config.DefaultH, "power stroke rate")
	cmd.Flags().Float64Var(&hprime, "hprime", config.DefaultHPrime, "reverse stroke rate")
	cmd.Flags().Float64Var(&g, "g", config.DefaultG, "detachment rate from A2")
}

func getIntegrator(name string) (dynamo.Integrator, error) {
	switch name {
	case "euler":
		return integrators.NewEuler(), nil
	case "rk4":
		return integrators.NewRK4(), nil
	case "rk45":
		return integrators.NewRK45(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

// buildRun turns a config into a ready-to-run system with its initial
// state, stimulus, and the state column labels for storage.
func buildRun(cfg *config.Config) (dynamo.System, dynamo.State, dynamo.Stimulus, []string, error) {
	switch cfg.Model {
	case "crossbridge":
		cb := &models.CrossBridge{
			RT: cfg.Rates.RT, KOn: cfg.Rates.KOn, KOff: cfg.Rates.KOff,
			F: cfg.Rates.F, FPrime: cfg.Rates.FPrime,
			H: cfg.Rates.H, HPrime: cfg.Rates.HPrime, G: cfg.Rates.G,
		}
		x0 := dynamo.State(cfg.GetInitState())
		return cb, x0, stimulus.NewNone(0), []string{"d", "a1", "a2"}, nil
	case "fhn":
		fhn := &models.FitzHughNagumo{
			Eps: cfg.Rates.Eps, Beta: cfg.Rates.Beta, Gamma: cfg.Rates.Gamma,
		}
		x0 := dynamo.State(cfg.GetInitState())
		var stim dynamo.Stimulus = stimulus.NewNone(1)
		if cfg.Stimulus.Kind == "pulse" {
			stim = stimulus.NewPulse(cfg.Stimulus.Amplitude, cfg.Stimulus.Start, cfg.Stimulus.Width)
		}
		return fhn, x0, stim, []string{"v", "w"}, nil
	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown model: %s", cfg.Model)
	}
}

func runConfig(cmd *cobra.Command, modelName string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = modelName

	if preset != "" {
		p := config.GetPreset(modelName, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(modelName))
		}
		*cfg = *p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		cfg.Model = modelName
	}

	// CLI flags override presets and config file.
	if cmd.Flags().Changed("dt") || cfg.Dt == 0 {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") || cfg.Duration == 0 {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") || cfg.Integrator == "" {
		cfg.Integrator = integrator
	}
	overrides := map[string]struct {
		dst *float64
		val float64
	}{
		"rt":     {&cfg.Rates.RT, rt},
		"kon":    {&cfg.Rates.KOn, kon},
		"koff":   {&cfg.Rates.KOff, koff},
		"f":      {&cfg.Rates.F, f},
		"fprime": {&cfg.Rates.FPrime, fprime},
		"h":      {&cfg.Rates.H, h},
		"hprime": {&cfg.Rates.HPrime, hprime},
		"g":      {&cfg.Rates.G, g},
	}
	for flag, o := range overrides {
		if cmd.Flags().Changed(flag) {
			*o.dst = o.val
		}
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := runConfig(cmd, args[0])
	if err != nil {
		return err
	}

	dyn, x0, stim, labels, err := buildRun(cfg)
	if err != nil {
		return err
	}

	integ, err := getIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sim := dynamo.New(dyn, integ, stim)
	if cfg.Model == "crossbridge" {
		sim.AddMetric(metrics.NewConservation(cfg.Rates.RT))
		sim.AddMetric(metrics.NewPeakTension(2))
		sim.AddMetric(metrics.NewSettlingTime(1e-6))
	}

	simCfg := dynamo.DefaultConfig()
	simCfg.Dt = cfg.Dt
	simCfg.Duration = cfg.Duration

	fmt.Printf("running %s simulation...\n", cfg.Model)
	start := time.Now()

	result, err := sim.Run(context.Background(), x0, simCfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	params := map[string]float64{}
	if tunable, ok := dyn.(dynamo.Configurable); ok {
		params = tunable.GetParams()
	}

	runID, err := st.Save(cfg.Model, cfg.Dt, cfg.Duration, cfg.Integrator, labels, params, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if len(result.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		for name, val := range result.Metrics {
			fmt.Printf("  %s: %.6f\n", name, val)
		}
	}

	if cfg.Model == "crossbridge" {
		dev, err := analysis.RateOfDevelopment(result.Times, result.Series(2))
		if err != nil {
			fmt.Printf("\nk_dev: not available (%v)\n", err)
			return nil
		}
		fmt.Printf("\nk_dev: %.2f /s (t_half=%.4fs, f_max=%.4f)\n", dev.KDev, dev.THalf, dev.FMax)
	}

	return nil
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tINTEG")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\n",
			run.ID, run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration, run.Dt, run.Integrator)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(states))

	for varIdx := range states[0] {
		data := make([]float64, len(states))
		for i := range states {
			if varIdx < len(states[i]) {
				data[i] = states[i][varIdx]
			}
		}

		caption := fmt.Sprintf("x%d vs time", varIdx)
		if varIdx < len(meta.Labels) {
			caption = meta.Labels[varIdx] + " vs time"
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func kdevRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	if meta.Model != "crossbridge" {
		return fmt.Errorf("k_dev is defined for crossbridge runs, run is %s", meta.Model)
	}

	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	tension := make([]float64, len(states))
	for i, s := range states {
		if len(s) > 2 {
			tension[i] = s[2]
		}
	}

	dev, err := analysis.RateOfDevelopment(times, tension)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("f_max:  %.4f\n", dev.FMax)
	fmt.Printf("f_half: %.4f\n", dev.FHalf)
	fmt.Printf("t_half: %.4f s\n", dev.THalf)
	fmt.Printf("k_dev:  %.2f /s\n", dev.KDev)
	return nil
}

func sweepParam(cmd *cobra.Command, args []string) error {
	paramName := args[0]

	cfg, err := runConfig(cmd, "crossbridge")
	if err != nil {
		return err
	}

	newSystem := func() dynamo.System {
		return &models.CrossBridge{
			RT: cfg.Rates.RT, KOn: cfg.Rates.KOn, KOff: cfg.Rates.KOff,
			F: cfg.Rates.F, FPrime: cfg.Rates.FPrime,
			H: cfg.Rates.H, HPrime: cfg.Rates.HPrime, G: cfg.Rates.G,
		}
	}
	newIntegrator := func() dynamo.Integrator {
		integ, _ := getIntegrator(cfg.Integrator)
		return integ
	}
	if _, err := getIntegrator(cfg.Integrator); err != nil {
		return err
	}

	simCfg := dynamo.DefaultConfig()
	simCfg.Dt = cfg.Dt
	simCfg.Duration = cfg.Duration

	fmt.Printf("sweeping %s over [%.2f, %.2f] in %d steps (dt=%.4f, t=%.2fs)\n\n",
		paramName, sweepMin, sweepMax, sweepSteps, cfg.Dt, cfg.Duration)

	points, err := analysis.SweepRate(context.Background(), newSystem, newIntegrator,
		paramName, sweepMin, sweepMax, sweepSteps, 2,
		dynamo.State{0, 0, 0}, simCfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tK_DEV\tT_HALF\tF_MAX\n", strings.ToUpper(paramName))
	kdevs := make([]float64, 0, len(points))
	for _, p := range points {
		if p.Err != nil {
			fmt.Fprintf(w, "%.3f\t-\t-\t-\n", p.Param)
			continue
		}
		fmt.Fprintf(w, "%.3f\t%.2f\t%.4f\t%.4f\n", p.Param, p.Dev.KDev, p.Dev.THalf, p.Dev.FMax)
		kdevs = append(kdevs, p.Dev.KDev)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(kdevs) > 1 {
		fmt.Println()
		graph := asciigraph.Plot(kdevs,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption(fmt.Sprintf("k_dev vs %s", paramName)),
		)
		fmt.Println(graph)
	}

	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.Model = args[0]
	cfg.Dt = dt
	cfg.Duration = duration
	integratorNames := args[1:]

	fmt.Printf("comparing integrators for %s (dt=%.4f, duration=%.2fs)\n\n", cfg.Model, dt, duration)
	fmt.Printf("%-12s  %-14s  %-14s  %-10s\n", "integrator", "final_tension", "ss_residual", "time_ms")
	fmt.Println(strings.Repeat("-", 56))

	for _, name := range integratorNames {
		integ, err := getIntegrator(name)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		dyn, x0, stim, _, err := buildRun(cfg)
		if err != nil {
			return err
		}

		simCfg := dynamo.DefaultConfig()
		simCfg.Dt = dt
		simCfg.Duration = duration

		s := dynamo.New(dyn, integ, stim)
		start := time.Now()
		result, err := s.Run(context.Background(), x0, simCfg)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		final := result.Final()
		lastIdx := len(final) - 1
		residual := analysis.SteadyStateResidual(dyn, final, result.Times[len(result.Times)-1])

		fmt.Printf("%-12s  %14.6f  %14.2e  %10.2f\n",
			name, final[lastIdx], residual, float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for i := range states[0] {
		if i < len(meta.Labels) {
			header = append(header, meta.Labels[i])
		} else {
			header = append(header, fmt.Sprintf("x%d", i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	result := &dynamo.Result{
		States:  make([]dynamo.State, len(states)),
		Times:   times,
		Metrics: meta.Metrics,
	}
	for i, s := range states {
		result.States[i] = s
	}

	return storage.ExportJSON(os.Stdout, meta, result)
}
