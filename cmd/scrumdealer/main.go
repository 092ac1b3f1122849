package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/alammarimalak/scrumDealer/internal/config"
	"github.com/alammarimalak/scrumDealer/internal/cpm"
	"github.com/alammarimalak/scrumDealer/internal/logging"
	"github.com/alammarimalak/scrumDealer/internal/planner"
	"github.com/alammarimalak/scrumDealer/internal/reporter"
	"github.com/alammarimalak/scrumDealer/internal/taskfile"
	"github.com/alammarimalak/scrumDealer/internal/ui"
	"github.com/alammarimalak/scrumDealer/internal/viewer"
)

var (
	flagConfig   string
	flagLogLevel string
	flagNoColor  bool
	flagFormat   string
	flagJSON     bool
	flagOutput   string
	flagTemplate string
	flagAddr     string

	cfg    *config.Config
	logger *logging.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scrumdealer",
		Short: "Critical path scheduling for project task lists",
		Long: `scrumdealer reads a project's tasks, durations and predecessors from
JSON or YAML, checks the dependency network, and computes earliest and
latest dates, total and free float, and the critical path.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Close()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default ./.scrumdealer.yaml or $HOME/.config/scrumdealer/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(vizCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.BoldRed("Error:"), err)
		}
		os.Exit(1)
	}
}

// setup loads configuration and the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Init(flagConfig); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if flagLogLevel != "" {
		viper.Set("logging.level", flagLogLevel)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	ui.SetColor(cfg.Output.Color && !flagNoColor && os.Getenv("NO_COLOR") == "")

	logger, err = logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	logger = logger.With("command", cmd.Name())
	return nil
}

func planConfig() planner.PlanConfig {
	return planner.PlanConfig{
		Checks: cpm.Options{
			MultipleStarts:      cfg.Checks.MultipleStarts,
			Isolated:            cfg.Checks.Isolated,
			DanglingEnds:        cfg.Checks.DanglingEnd,
			DummyOnCriticalPath: cfg.Checks.DummyCritical,
		},
		ReadableDuration:   cfg.Output.ReadableDuration,
		ReportTemplatePath: cfg.Output.Template,
	}
}

// outcome is the result of scheduling one task file.
type outcome struct {
	Path string
	Plan *planner.ProjectPlan
	Err  error
}

// scheduleFiles loads and schedules every path concurrently. Outcomes keep
// the order of paths; a failing file never stops the others.
func scheduleFiles(ctx context.Context, paths []string, pc planner.PlanConfig, log *logging.Logger) []outcome {
	outcomes := make([]outcome, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			outcomes[i] = scheduleFile(ctx, path, pc, log)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func scheduleFile(ctx context.Context, path string, pc planner.PlanConfig, log *logging.Logger) outcome {
	log = log.WithProject(path)
	if err := ctx.Err(); err != nil {
		return outcome{Path: path, Err: err}
	}

	project, err := taskfile.Load(path)
	if err != nil {
		log.WithPhase("load").Warn("load failed", "error", err)
		return outcome{Path: path, Err: err}
	}

	plan, _, err := planner.Build(project, pc)
	if err != nil {
		log.WithPhase("schedule").Info("schedule rejected", "kind", cpm.KindName(err), "messages", cpm.Messages(err))
		return outcome{Path: path, Err: err}
	}

	log.WithPhase("schedule").Info("scheduled",
		"tasks", plan.TotalTasks,
		"duration", plan.Duration,
		"critical_path", plan.CriticalPath)
	return outcome{Path: path, Plan: plan}
}

// scheduleOne schedules a single file and prints its errors on failure.
func scheduleOne(ctx context.Context, path string) (*planner.ProjectPlan, error) {
	o := scheduleFile(ctx, path, planConfig(), logger)
	if o.Err != nil {
		reporter.PrintErrors(os.Stderr, path, o.Err)
		return nil, errSilent
	}
	return o.Plan, nil
}

// errSilent marks failures whose details were already printed.
var errSilent = errors.New("scheduling failed")

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule FILE...",
		Short: "Compute the CPM schedule of one or more task files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := cfg.Output.Format
			if cmd.Flags().Changed("format") {
				format = flagFormat
			}
			if flagJSON {
				format = "json"
			}
			if flagOutput != "" && len(args) > 1 {
				return fmt.Errorf("--output accepts a single task file")
			}

			outcomes := scheduleFiles(cmd.Context(), args, planConfig(), logger)

			out := io.Writer(os.Stdout)
			if flagOutput != "" {
				f, err := os.Create(flagOutput)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				out = f
			}

			failed := 0
			for _, o := range outcomes {
				if o.Err != nil {
					failed++
					reporter.PrintErrors(os.Stderr, o.Path, o.Err)
					continue
				}
				if len(outcomes) > 1 && format != "json" {
					fmt.Fprintf(out, "%s\n", ui.Prefix(o.Path))
				}
				if err := render(out, o.Plan, format); err != nil {
					return err
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d task files failed to schedule", failed, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "table", "Output format (table, json, markdown, dot, ascii)")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write output to a file")

	return cmd
}

func render(w io.Writer, plan *planner.ProjectPlan, format string) error {
	rpt := reporter.New(plan)
	switch format {
	case "json":
		data, err := rpt.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	case "markdown":
		md, err := planner.RenderReport(plan, plan.Config.ReportTemplatePath)
		if err != nil {
			return err
		}
		fmt.Fprint(w, md)
	case "dot":
		rpt.PrintDOT(w)
	case "ascii":
		rpt.PrintASCII(w)
	case "table":
		rpt.PrintSummary(w)
		rpt.PrintTable(w)
		rpt.PrintCriticalPath(w)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate task files without printing schedules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcomes := scheduleFiles(cmd.Context(), args, planConfig(), logger)

			failed := 0
			for _, o := range outcomes {
				if o.Err != nil {
					failed++
					reporter.PrintErrors(os.Stdout, o.Path, o.Err)
					continue
				}
				fmt.Printf("%s %s %s\n", ui.StatusIcon("ok"), ui.Bold(o.Path),
					ui.Dim(fmt.Sprintf("(%d tasks, %d days)", o.Plan.TotalTasks, o.Plan.Duration)))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d task files have problems", failed, len(outcomes))
			}
			return nil
		},
	}
}

func vizCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "viz FILE",
		Short: "Print the task network as an ASCII DAG or Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := scheduleOne(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if format != "ascii" && format != "dot" {
				return fmt.Errorf("unknown format %q (ascii, dot)", format)
			}
			return render(os.Stdout, plan, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "ascii", "Output format (ascii, dot)")
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Render a markdown project report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := scheduleOne(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tmpl := plan.Config.ReportTemplatePath
			if flagTemplate != "" {
				tmpl = flagTemplate
			}
			md, err := planner.RenderReport(plan, tmpl)
			if err != nil {
				return err
			}

			if flagOutput != "" {
				return os.WriteFile(flagOutput, []byte(md), 0644)
			}
			fmt.Print(md)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagTemplate, "template", "", "Custom report template path")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write the report to a file")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scheduler over HTTP",
		Long: `Starts an HTTP server. POST a project JSON to /schedule to get its plan;
GET /graph returns the PERT graph of the last successful schedule.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := cfg.Server.Addr
			if flagAddr != "" {
				addr = flagAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ui.PrintLogo()
			srv := viewer.NewServer(planConfig(), cfg.Server.MaxBodyBytes, logger)
			return srv.ListenAndServe(ctx, addr, func(bound string) {
				fmt.Fprintf(os.Stderr, "🌐 %s http://%s\n", ui.BoldCyan("Listening on"), bound)
			})
		},
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config, :7171)")
	return cmd
}
