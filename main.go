package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/sampler/internal/library"
	"github.com/dgnsrekt/sampler/internal/synth"
	"github.com/dgnsrekt/sampler/reader"
	"github.com/dgnsrekt/sampler/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	mouse      bool
	maxLength  int

	rootCmd = &cobra.Command{
		Use:   "sampler FILE",
		Short: "Read long documents page by page and turn passages into audio clips",
		Long: paragraph(
			fmt.Sprintf("\nRead long documents %s and turn selected passages into audio clips.", keyword("page by page")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			exts := library.Extensions()
			for i, ext := range exts {
				exts[i] = strings.TrimPrefix(ext, ".")
			}
			return exts, cobra.ShellCompDirectiveFilterFileExt
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if f := cmd.Flags().Lookup("config"); f != nil && f.Changed {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file %q: %w", configFile, err)
		}
		log.Debug("Using configuration file", "path", configFile)
	}

	log.SetLevel(logLevel())
	mouse = viper.GetBool("mouse")
	maxLength = viper.GetInt("selection.max_length")
	if maxLength < 1 {
		return fmt.Errorf("selection.max_length must be positive, got %d", maxLength)
	}

	switch m := viper.GetString("layout.measurer"); m {
	case measurerTerminal, measurerFont:
	default:
		return fmt.Errorf("invalid layout.measurer %q: must be %q or %q", m, measurerTerminal, measurerFont)
	}
	return nil
}

func execute(_ *cobra.Command, args []string) error {
	path := args[0]
	if !library.Supported(path) {
		return fmt.Errorf("%w: %q (supported: %s)",
			library.ErrUnsupportedFormat, filepath.Ext(path), strings.Join(library.Extensions(), " "))
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("unable to open file: %w", err)
	}
	return runTUI(path)
}

func runTUI(path string) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.Path = path
	cfg.MaxLength = maxLength
	cfg.Width = viper.GetInt("width")
	cfg.Height = viper.GetInt("height")
	cfg.EnableMouse = cfg.EnableMouse || mouse

	gen, closeGen, err := newGenerator()
	if err != nil {
		return err
	}
	defer closeGen()

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg, library.Load, gen).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

// newGenerator starts the clip generator from the synth.* keys. Generation
// being switched off is not an error: the reader works without it.
func newGenerator() (reader.Generator, func(), error) {
	nop := func() {}

	synthCfg, err := synth.LoadConfigFromViper()
	if err != nil {
		return nil, nop, err
	}
	svc, err := synth.New(synthCfg)
	if errors.Is(err, synth.ErrDisabled) {
		log.Info("audio generation disabled")
		return nil, nop, nil
	}
	if err != nil {
		return nil, nop, fmt.Errorf("unable to start audio generation: %w", err)
	}

	log.Info("audio generation enabled", "engine", svc.Engine(), "output", synthCfg.OutputDir)
	return svc, func() {
		if err := svc.Close(); err != nil {
			log.Warn("closing clip cache", "error", err)
		}
	}, nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = rootCmd.ExecuteContext(ctx)
	stop()
	_ = closer()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().IntP("width", "w", 0, "page width in cells (0 uses the terminal width)")
	rootCmd.PersistentFlags().Int("height", 0, "page height in rows (0 uses the terminal height)")
	rootCmd.Flags().IntP("max-length", "l", reader.DefaultMaxLength, "longest selection, in characters, that can become a clip")
	rootCmd.Flags().StringP("engine", "e", "", "speech engine (piper or gtts)")
	rootCmd.Flags().String("voice", "", "engine voice: a piper speaker id or a gtts language")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse selection")
	rootCmd.PersistentFlags().Bool("debug", false, "write debug logs")

	// Config bindings
	_ = viper.BindPFlag("width", rootCmd.PersistentFlags().Lookup("width"))
	_ = viper.BindPFlag("height", rootCmd.PersistentFlags().Lookup("height"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))
	_ = viper.BindPFlag("selection.max_length", rootCmd.Flags().Lookup("max-length"))
	_ = viper.BindPFlag("synth.engine", rootCmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("synth.voice", rootCmd.Flags().Lookup("voice"))

	setDefaults()

	rootCmd.AddCommand(configCmd, manCmd, pagesCmd)
}

func setDefaults() {
	viper.SetDefault("width", 0)
	viper.SetDefault("height", 0)
	viper.SetDefault("selection.max_length", reader.DefaultMaxLength)
	viper.SetDefault("layout.measurer", measurerTerminal)
	viper.SetDefault("layout.font.size", 16)
	viper.SetDefault("layout.font.line_height", 0)
	viper.SetDefault("layout.font.width", 600)
	viper.SetDefault("layout.font.height", 800)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "sampler")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "sampler")}, dirs...)
	}

	if c := os.Getenv("SAMPLER_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("sampler")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("sampler")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "sampler.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
