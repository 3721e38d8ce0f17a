package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/a1s/ntable/internal/aws"
	"github.com/a1s/ntable/internal/config"
	"github.com/a1s/ntable/internal/config/data"
	"github.com/a1s/ntable/internal/dao"
	"github.com/a1s/ntable/internal/model"
	"github.com/a1s/ntable/internal/render"
	"github.com/a1s/ntable/internal/view"
)

const (
	appName    = "ntable"
	appVersion = "0.1.0"
)

var (
	ntFlags *data.Flags
	rootCmd = &cobra.Command{
		Use:   appName + " [config]",
		Short: "A terminal table over paged, sorted and filtered datasets",
		Long: `ntable binds a params preset to a column set and browses the result,
reloading whenever paging, sorting or filtering changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: run,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
)

func init() {
	ntFlags = config.NewFlags()
	initNtableFlags()
	rootCmd.AddCommand(versionCmd)
}

func initNtableFlags() {
	rootCmd.Flags().StringVarP(ntFlags.LogLevel, "logLevel", "l", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(ntFlags.LogFile, "logFile", "", "Log file path")
	rootCmd.Flags().BoolVar(ntFlags.Headless, "headless", false, "Print the loaded page instead of running the UI")
	rootCmd.Flags().StringVarP(ntFlags.Format, "format", "o", "table", "Headless output format (table, csv, markdown)")
	rootCmd.Flags().StringVarP(ntFlags.Binding, "binding", "b", "", "Binding expression or alias, e.g. 'users with userCols'")
	rootCmd.Flags().IntVar(ntFlags.Page, "page", 0, "Initial page")
	rootCmd.Flags().IntVar(ntFlags.Count, "count", 0, "Initial page size")

	rootCmd.Flags().StringVar(ntFlags.Profile, "profile", "", "AWS profile for s3 sources")
	rootCmd.Flags().StringVar(ntFlags.Region, "region", "", "AWS region for s3 sources")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := config.InitLocs(); err != nil {
		return fmt.Errorf("failed to initialize locations: %w", err)
	}

	cfgFile := config.AppConfigFile
	if len(args) == 1 {
		cfgFile = args[0]
	}
	cfg := config.NewConfig()
	if err := cfg.Load(cfgFile, len(args) == 1); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	aliases := config.NewAliases()
	if err := aliases.Load(); err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}
	hotKeys := config.NewHotKeys()
	if err := hotKeys.Load(); err != nil {
		return fmt.Errorf("failed to load hotkeys: %w", err)
	}

	table, err := cfg.Refine(ntFlags, aliases, aws.DefaultProfileFiles())
	if err != nil {
		return fmt.Errorf("failed to refine configuration: %w", err)
	}

	logger, closeLog, err := newLogger(cfg.Ntable.Logger)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ctrl, p, err := buildTable(ctx, cfg.Ntable, table, logger)
	if err != nil {
		return fmt.Errorf("failed to build table %s: %w", table.Binding, err)
	}
	defer ctrl.Close()

	if cfg.Ntable.IsHeadless() {
		ctrl.SetColumns(table.Columns)
		ctrl.Bind(p)
		return printPage(ctx, cmd.OutOrStdout(), ctrl, *ntFlags.Format)
	}

	app := view.NewApp(table.Binding.String(), ctrl, cfg.Ntable.UI, logger)
	if err := app.Init(hotKeys); err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	if src, _ := table.Preset.SourceSpec(); src.Kind == dao.S3Source {
		app.Table().SetColorer(render.S3ObjectColorer)
	}
	ctrl.SetColumns(table.Columns)
	ctrl.Bind(p)

	return app.Run()
}

func newLogger(settings data.Logger) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(settings.Level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", settings.Level, err)
	}

	path := settings.File
	if path == "" {
		path = config.AppLogFile
	}
	if err := config.InitLogLoc(path); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize log location: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	l := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return l, func() { _ = f.Close() }, nil
}

func printPage(ctx context.Context, w io.Writer, ctrl *model.Controller, format string) error {
	if err := ctrl.Wait(ctx); err != nil {
		return err
	}
	td := render.NewTable().Render(ctrl.Columns(), ctrl.Params(), ctrl.Params().Data())
	return render.WriteText(w, td, format)
}
