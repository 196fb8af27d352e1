package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"sakura/internal/config"
	"sakura/internal/logging"
	"sakura/internal/source"
	"sakura/internal/store"
	"sakura/internal/task"
	"sakura/internal/ui"
)

var version = "dev"

type options struct {
	configPath string
	source     string
	endpoint   string
	limit      int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "sakura",
		Short:         "A calm terminal task list",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML (default $SAKURA_CONFIG or ./config.toml)")
	flags.StringVar(&opts.source, "source", "", "task source: http, seed or sqlite")
	flags.StringVar(&opts.endpoint, "endpoint", "", "endpoint for the http source")
	flags.IntVar(&opts.limit, "limit", 0, "maximum number of tasks to load")

	root.AddCommand(newListCmd(opts), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sakura %s\n", version)
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	var (
		filter string
		search string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Load the tasks once and print the filtered view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := task.ParseFilter(filter)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger, err := logging.NewConsole(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return fmt.Errorf("configure logger: %w", err)
			}
			st, err := newStore(cfg, logger)
			if err != nil {
				return err
			}
			if err := st.Initialize(cmd.Context()); err != nil {
				return fmt.Errorf("load tasks: %w", err)
			}
			st.SetFilter(f)
			st.SetSearchQuery(search)
			printView(cmd.OutOrStdout(), st.DerivedView())
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "all, pending or completed")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive title substring")
	return cmd
}

func runTUI(ctx context.Context, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, err := logging.NewFile(cfg.Log)
	if err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	defer logger.Close()
	logger.Info("configuration loaded", "source", cfg.Source.Kind, "limit", cfg.Source.Limit)

	st, err := newStore(cfg, logger)
	if err != nil {
		return err
	}
	if f, err := task.ParseFilter(cfg.DefaultFilter); err == nil {
		st.SetFilter(f)
	}
	if err := ui.Run(ctx, st, cfg, logger.Logger); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func loadConfig(opts *options) (config.Config, error) {
	if err := config.LoadDotEnv(""); err != nil {
		return config.Config{}, fmt.Errorf("load .env: %w", err)
	}
	path := opts.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, fmt.Errorf("load config %q: %w", path, err)
	}
	env, err := config.LoadEnv()
	if err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}
	cfg = env.Apply(cfg)
	if opts.source != "" {
		cfg.Source.Kind = opts.source
	}
	if opts.endpoint != "" {
		cfg.Source.Endpoint = opts.endpoint
	}
	if opts.limit != 0 {
		cfg.Source.Limit = opts.limit
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newStore(cfg config.Config, logger *logging.Logger) (*store.Store, error) {
	src, err := source.New(cfg.Source, logger.Logger)
	if err != nil {
		return nil, err
	}
	st := store.New(src, store.WithLogger(logger.Logger))
	st.Subscribe(func(ev store.Event) {
		logger.Debug("store changed", "event", ev.Kind, "id", ev.ID, "status", st.Status())
	})
	return st, nil
}

func printView(w io.Writer, view task.View) {
	for _, t := range view.Tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s] %s\n", mark, t.Title)
	}
	fmt.Fprintf(w, "progress: %d%%\n", view.Progress)
}
