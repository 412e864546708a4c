package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jsvensson/oklchpicker"
	"github.com/jsvensson/oklchpicker/internal/color"
	"github.com/jsvensson/oklchpicker/internal/config"
	"github.com/jsvensson/oklchpicker/internal/format"
	"github.com/jsvensson/oklchpicker/internal/picker"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var (
	flagConfig    string
	flagDelta     float64
	flagVerbose   int
	flagLightness float64
	flagChroma    float64
	flagHue       float64
	flagCSS       string
	flagNotation  string
	flagChannel   string
	flagSteps     int
	flagOut       string
	flagTemplates string
	flagApp       []string
	flagCheck     bool
	version       = "dev" // Injected at build time via ldflags

	// env holds the OKLCHPICK_* defaults read at startup.
	env config.Env
)

var log = commonlog.GetLogger("oklchpick.cli")

var rootCmd = &cobra.Command{
	Use:           "oklchpick",
	Short:         "Pick Oklch colors that stay inside the sRGB gamut",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(flagVerbose, nil)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the picker color in every notation",
	Long: "Resolve the picker's lightness, chroma ratio and hue to a color and print it in every notation. " +
		"Values start from the config file's picker block; flags override them.",
	Args: cobra.NoArgs,
	RunE: runResolve,
}

var convertCmd = &cobra.Command{
	Use:   "convert <css>",
	Short: "Convert a CSS color to every notation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var maxChromaCmd = &cobra.Command{
	Use:   "max-chroma",
	Short: "Print the largest sRGB chroma at a lightness and hue",
	Args:  cobra.NoArgs,
	RunE:  runMaxChroma,
}

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Print the colors along one picker slider",
	Args:  cobra.NoArgs,
	RunE:  runTrack,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render templates with the configured swatches",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format picker configuration files",
	Long: "Format one or more configuration files in-place. Prints the name of each file that was modified. " +
		"With --notation, swatch colors written as string literals are rewritten to that notation.",
	Args: cobra.MinimumNArgs(1),
	RunE: runFmt,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	var err error
	if env, err = config.EnvDefaults(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", env.ConfigPath, "path to picker HCL file (env "+config.EnvConfig+")")
	rootCmd.PersistentFlags().Float64Var(&flagDelta, "delta", env.Delta, "chroma search precision (env "+config.EnvDelta+")")
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "log verbosity, repeat for more (env "+config.EnvVerbose+")")
	rootCmd.PersistentFlags().Lookup("verbose").DefValue = strconv.Itoa(env.Verbosity)
	flagVerbose = env.Verbosity

	for _, cmd := range []*cobra.Command{resolveCmd, trackCmd} {
		cmd.Flags().Float64Var(&flagLightness, "lightness", picker.DefaultLightness, "lightness control value in [0, 1]")
		cmd.Flags().Float64Var(&flagChroma, "chroma", picker.DefaultChromaRatio, "chroma ratio in [0, 1]")
		cmd.Flags().Float64Var(&flagHue, "hue", picker.DefaultHue, "hue in degrees")
		cmd.Flags().StringVar(&flagCSS, "css", "", "start from this CSS color instead")
	}
	resolveCmd.Flags().StringVarP(&flagNotation, "notation", "n", "", "print only this notation")
	convertCmd.Flags().StringVarP(&flagNotation, "notation", "n", "", "print only this notation")
	fmtCmd.Flags().StringVarP(&flagNotation, "notation", "n", "", "rewrite literal swatch colors to this notation")

	maxChromaCmd.Flags().Float64Var(&flagLightness, "lightness", picker.DefaultLightness, "Oklch lightness in [0, 1]")
	maxChromaCmd.Flags().Float64Var(&flagHue, "hue", picker.DefaultHue, "hue in degrees")

	trackCmd.Flags().StringVar(&flagChannel, "channel", "hue", "slider to sample: lightness, chroma or hue")
	trackCmd.Flags().IntVar(&flagSteps, "steps", 12, "number of samples")

	generateCmd.Flags().StringVar(&flagOut, "out", "output", "output directory")
	generateCmd.Flags().StringVar(&flagTemplates, "templates", "templates", "templates directory")
	generateCmd.Flags().StringArrayVar(&flagApp, "app", nil, "generate only for specific apps (can be repeated)")

	fmtCmd.Flags().BoolVarP(&flagCheck, "check", "c", false, "check if files are formatted (do not write changes)")

	rootCmd.AddCommand(resolveCmd, convertCmd, maxChromaCmd, trackCmd, generateCmd, fmtCmd, versionCmd)
}

// loadConfig reads --config, or returns the defaults when it is empty. An
// explicit --delta overrides the file; without a file the environment's delta
// and cache size apply.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		var err error
		if cfg, err = config.Load(flagConfig); err != nil {
			return nil, err
		}
		log.Debugf("loaded %s with %d swatches", flagConfig, len(cfg.Swatches))
	}

	if flagConfig == "" || cmd.Flags().Changed("delta") {
		if !(flagDelta > 0) || flagDelta >= color.SRGBChromaCeiling {
			return nil, fmt.Errorf("--delta must be within (0, %v), got %v", color.SRGBChromaCeiling, flagDelta)
		}
		cacheSize := cfg.Gamut.CacheSize
		if flagConfig == "" {
			cacheSize = env.CacheSize
		}
		cfg.SetGamut(config.Gamut{Delta: flagDelta, CacheSize: cacheSize})
	}
	return cfg, nil
}

// pickerFromFlags starts from the configured picker values and applies any
// picker flags given on the command line.
func pickerFromFlags(cmd *cobra.Command, cfg *config.Config) (*picker.State, error) {
	s := cfg.NewPicker()
	if flagCSS != "" && !s.ApplyCSS(flagCSS) {
		return nil, fmt.Errorf("%w: %q", color.ErrInvalidColor, flagCSS)
	}
	if cmd.Flags().Changed("lightness") {
		s.SetLightness(flagLightness)
	}
	if cmd.Flags().Changed("chroma") {
		s.SetChromaRatio(flagChroma)
	}
	if cmd.Flags().Changed("hue") {
		s.SetHue(flagHue)
	}
	return s, nil
}

// printColor writes o in every notation, or only in the one named by
// --notation.
func printColor(w io.Writer, o color.Oklch) error {
	if flagNotation != "" {
		n, err := color.ParseNotation(flagNotation)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, o.Format(n))
		return nil
	}
	for _, n := range color.Notations() {
		fmt.Fprintf(w, "%-6s %s\n", n, o.Format(n))
	}
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := pickerFromFlags(cmd, cfg)
	if err != nil {
		return err
	}
	return printColor(cmd.OutOrStdout(), s.Color())
}

func runConvert(cmd *cobra.Command, args []string) error {
	o, err := color.Parse(args[0])
	if err != nil {
		return err
	}
	return printColor(cmd.OutOrStdout(), o)
}

func runMaxChroma(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(cfg.Resolver().MaxChroma(flagLightness, flagHue), 'f', -1, 64))
	return nil
}

func runTrack(cmd *cobra.Command, args []string) error {
	channel, err := picker.ParseChannel(flagChannel)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := pickerFromFlags(cmd, cfg)
	if err != nil {
		return err
	}
	for _, sample := range s.Track(channel, flagSteps) {
		fmt.Fprintln(cmd.OutOrStdout(), sample)
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading palette: %w", err)
	}

	e := &oklchpicker.Engine{
		TemplatesDir: flagTemplates,
		OutputDir:    flagOut,
		Apps:         flagApp,
	}

	if err := e.Run(oklchpicker.FromConfig(cfg)); err != nil {
		return fmt.Errorf("generating: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated files in %s\n", flagOut)
	return nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	rewrite := func(content string) (string, error) {
		return format.Format(content)
	}
	if flagNotation != "" {
		n, err := color.ParseNotation(flagNotation)
		if err != nil {
			return err
		}
		rewrite = func(content string) (string, error) {
			return format.Rewrite(content, n)
		}
	}

	hasErrors := false
	needsFormatting := false

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error reading %s: %v\n", path, err)
			hasErrors = true
			continue
		}

		content := string(data)
		formatted, err := rewrite(content)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error formatting %s: %v\n", path, err)
			hasErrors = true
			continue
		}

		if formatted == content {
			continue
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		needsFormatting = true

		if !flagCheck {
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error writing %s: %v\n", path, err)
				hasErrors = true
			}
		}
	}

	if hasErrors || (flagCheck && needsFormatting) {
		os.Exit(1)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
