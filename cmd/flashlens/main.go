package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/flashlens/flashlens/internal/log"
	"github.com/flashlens/flashlens/internal/model"
)

var (
	configPath string // config file used (if loaded)
	config     model.Config

	flagConfigFilePath string // value of --config flag
	flagVerbose        bool   // value of --verbose flag
	flagNoColor        bool
	flagJSON           bool

	// scan knobs, applied over the config when changed
	flagRAMBases  []string
	flagMinString int
	flagFillByte  string
	flagMinFill   int
)

func main() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFilePath, "config", "", "Config file to load - default is flashlens.yaml in current directory")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "machine readable JSON output")
	rootCmd.PersistentFlags().StringArrayVar(&flagRAMBases, "ram-base", nil, "RAM base pattern for vector candidates, repeatable (eg 0x20000000)")
	rootCmd.PersistentFlags().IntVar(&flagMinString, "min-string-length", 0, "minimum length of a reported ASCII string")
	rootCmd.PersistentFlags().StringVar(&flagFillByte, "fill-byte", "", "fill byte of erased flash (eg 0xff)")
	rootCmd.PersistentFlags().IntVar(&flagMinFill, "min-fill-run", 0, "minimum length of a reported fill region")

	// never print messages
	rootCmd.SilenceErrors = true

	// parse config, setup logging
	rootCmd.PersistentPreRunE = initFlashlens

	layoutCmd.Flags().StringVar(&flagPMStatic, "pm-static", "", "write a pm_static.yml to the given path")
	layoutCmd.Flags().StringVar(&flagOverlay, "overlay", "", "write a devicetree overlay to the given path")
	watchCmd.Flags().StringVar(&flagEvery, "every", "@every 30s", "rescan schedule, 5-field cron or @every expression")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("flashlens failed", "err", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "flashlens",
	Short:        "Inspect raw firmware flash images",
	SilenceUsage: true,
}

var scanCmd = &cobra.Command{
	Use:   "scan PATH...",
	Short: "scan flash images for vector tables, strings and fill regions",
	Args:  cobra.MinimumNArgs(1),
	RunE:  doScan,
}

var diffCmd = &cobra.Command{
	Use:   "diff IMAGE IMAGE",
	Short: "scan two images and report the findings unique to each",
	Args:  cobra.ExactArgs(2),
	RunE:  doDiff,
}

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "print the configured flash partition layout",
	Args:  cobra.NoArgs,
	RunE:  doLayout,
}

var usageCmd = &cobra.Command{
	Use:   "usage IMAGE",
	Short: "report per-partition usage of a flash image",
	Args:  cobra.ExactArgs(1),
	RunE:  doUsage,
}

var watchCmd = &cobra.Command{
	Use:   "watch IMAGE",
	Short: "rescan an image on a schedule and report changes",
	Args:  cobra.ExactArgs(1),
	RunE:  doWatch,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "version provides the version of flashlens",
	Run: func(cmd *cobra.Command, args []string) {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			fmt.Println("flashlens: version info not available")
			return
		}

		if configPath != "" {
			fmt.Printf("config:    %s\n", configPath)
		}
		fmt.Printf("flashlens: %s\n", info.Main.Version)
		fmt.Printf("go:        %s\n", info.GoVersion)
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				fmt.Printf("commit:    %s\n", s.Value)
			case "vcs.time":
				fmt.Printf("date:      %s\n", s.Value)
			case "vcs.modified":
				fmt.Printf("dirty:     %s\n", s.Value)
			}
		}
	},
}

func initFlashlens(cmd *cobra.Command, _ []string) error {
	if flagConfigFilePath != "" {
		configPath = flagConfigFilePath
	} else if exists("flashlens.yaml") {
		configPath = "flashlens.yaml"
	}

	if configPath == "" {
		config = model.DefaultConfig()
	} else {
		f, err := os.Open(configPath)
		if err != nil {
			return fmt.Errorf("opening config file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		config, err = model.LoadConfig(f)
		if err != nil {
			for _, ce := range model.ConfigErrors(err) {
				slog.Error(ce.Error())
			}
			return fmt.Errorf("parsing config %s: %w", configPath, err)
		}
	}

	// --verbose has a precedence over config file
	if flagVerbose {
		config.Service.Verbose = true
	}
	if flagNoColor {
		color.NoColor = true
	}

	slog.SetDefault(log.New(config.Service.Verbose))

	slog.Debug("flashlens run", "configPath", configPath)
	return nil
}

// scanOptions resolves the effective scan options: config file values
// overridden by any knob flag set on the command line.
func scanOptions(cmd *cobra.Command) (model.ScanOptions, error) {
	cfg := config.Scan
	flags := cmd.Flags()
	if flags.Changed("ram-base") {
		cfg.RAMBases = flagRAMBases
	}
	if flags.Changed("min-string-length") {
		cfg.MinStringLength = flagMinString
	}
	if flags.Changed("min-fill-run") {
		cfg.MinFillRun = flagMinFill
	}
	if flags.Changed("fill-byte") {
		v, err := model.ParseWord(flagFillByte)
		if err != nil || v > 0xFF {
			return model.ScanOptions{}, model.ConfigError{Path: "scan.fill_byte", Message: fmt.Sprintf("%q is not a byte", flagFillByte)}
		}
		cfg.FillByte = int(v)
	}
	return cfg.Options()
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
