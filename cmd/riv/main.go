package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	apppkg "github.com/kk-code-lab/riv/internal/app"
	"github.com/kk-code-lab/riv/internal/config"
	fsutil "github.com/kk-code-lab/riv/internal/fs"
	"github.com/kk-code-lab/riv/internal/logging"
	"github.com/kk-code-lab/riv/internal/sorting"
	statepkg "github.com/kk-code-lab/riv/internal/state"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var version = "dev"

type cliFlags struct {
	configPath string
	destFolder string
	sort       string
	reverse    bool
	max        int
	watch      bool
	logFile    string
	logLevel   string
	saveConfig bool
}

// runApp opens the terminal and blocks until the user quits.
var runApp = func(opts apppkg.Options) error {
	app, err := apppkg.NewApplication(opts)
	if err != nil {
		return fmt.Errorf("error initializing application: %w", err)
	}
	defer func() {
		_ = app.Close()
	}()
	app.Run()
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &cliFlags{}
	cmd := &cobra.Command{
		Use:   "riv [pattern...]",
		Short: "Terminal image browser",
		Long: `riv shows the images matched by the given glob patterns one at a time
and lets you move, copy or delete them with a single key.

Patterns may use *, ?, [...], {a,b} and ** for any depth. Without a
pattern every image in the current directory is shown.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, f, args)
		},
	}

	methods := make([]string, 0, len(sorting.Methods()))
	for _, m := range sorting.Methods() {
		methods = append(methods, m.String())
	}

	def := config.Default()
	flags := cmd.Flags()
	flags.StringVarP(&f.destFolder, "destfolder", "f", def.DestFolder, "destination folder for move and copy")
	flags.StringVarP(&f.sort, "sort", "s", def.Sort, "sort method: "+strings.Join(methods, ", "))
	flags.BoolVarP(&f.reverse, "reverse", "r", false, "reverse the sort order")
	flags.IntVarP(&f.max, "max", "m", 0, "keep at most this many images after sorting (0 for all)")
	flags.BoolVarP(&f.watch, "watch", "w", false, "follow files added, changed or removed outside riv")
	flags.StringVar(&f.configPath, "config", "", "config file (default <config dir>/riv/config.toml)")
	flags.StringVar(&f.logFile, "log-file", "", "log file (default <cache dir>/riv/riv.log)")
	flags.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&f.saveConfig, "save-config", false, "write the effective settings to the config file and exit")
	return cmd
}

func execute(cmd *cobra.Command, f *cliFlags, args []string) error {
	// --save-config may create the file it is asked to write.
	cfgPath, optional := f.configPath, f.saveConfig
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		cfgPath, optional = p, true
	}
	cfgPath = fsutil.ExpandPath(cfgPath)

	cfg, err := config.Load(cfgPath, optional)
	if err != nil {
		return err
	}
	applyFlags(cmd.Flags(), f, &cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if f.saveConfig {
		if err := config.Save(cfg, cfgPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfgPath)
		return nil
	}

	dest, err := fsutil.AbsPath(cfg.DestFolder)
	if err != nil {
		return fmt.Errorf("failed to resolve destination folder: %w", err)
	}

	logPath := cfg.LogFile
	if logPath == "" {
		if logPath, err = logging.DefaultPath(); err != nil {
			return err
		}
	}
	logger, closer, err := logging.Open(fsutil.ExpandPath(logPath), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	opts := apppkg.Options{
		Patterns:    args,
		DestFolder:  dest,
		Method:      cfg.Method(),
		Reverse:     cfg.Reverse,
		Max:         cfg.Max,
		View:        viewOptions(cfg),
		ShowInfoBar: cfg.ShowInfoBar,
		Watch:       cfg.Watch,
		Logger:      logger,
	}
	logger.WithFields(logrus.Fields{
		"version": version,
		"config":  cfgPath,
		"dest":    dest,
		"sort":    opts.Method.String(),
		"reverse": opts.Reverse,
		"max":     opts.Max,
		"watch":   opts.Watch,
	}).Info("starting")

	// UTF-8 fallback keeps non-ASCII file names readable on odd locales.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	if err := runApp(opts); err != nil {
		logger.WithError(err).Error("application failed")
		return err
	}
	logger.Info("exiting")
	return nil
}

// applyFlags overrides cfg with the flags given on the command line.
func applyFlags(flags *pflag.FlagSet, f *cliFlags, cfg *config.Config) {
	if flags.Changed("destfolder") {
		cfg.DestFolder = f.destFolder
	}
	if flags.Changed("sort") {
		cfg.Sort = f.sort
	}
	if flags.Changed("reverse") {
		cfg.Reverse = f.reverse
	}
	if flags.Changed("max") {
		cfg.Max = f.max
	}
	if flags.Changed("watch") {
		cfg.Watch = f.watch
	}
	if flags.Changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}

func viewOptions(cfg config.Config) statepkg.ViewOptions {
	opts := statepkg.DefaultViewOptions()
	opts.ZoomStep = cfg.ZoomStep
	opts.PanStep = cfg.PanStep
	opts.MinVisible = cfg.MinVisible
	opts.Persist = cfg.PersistView
	return opts
}
