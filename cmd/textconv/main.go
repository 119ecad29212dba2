package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/textconv/charset"
	"github.com/wippyai/textconv/config"
	"github.com/wippyai/textconv/convert"
)

type globalFlags struct {
	configPath string
	logLevel   string
	codePage   string
}

// app is the state shared by subcommands after the root PersistentPreRunE.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	conv  *convert.Converter
	flags globalFlags
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "textconv",
		Short:         "Convert strings between a narrow code page and UTF-16",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configPath, "config", "", "TOML config file")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "Log level (overrides config)")
	root.PersistentFlags().StringVar(&a.flags.codePage, "code-page", "", "Code page id or IANA name (overrides config)")

	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newMeasureCmd(a))
	root.AddCommand(newCodePagesCmd(a))
	root.AddCommand(newInteractiveCmd(a))
	return root
}

func (a *app) setup() error {
	cfg := config.Default()
	if a.flags.configPath != "" {
		loaded, err := config.Load(a.flags.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.flags.logLevel != "" {
		cfg.Log.Level = a.flags.logLevel
	}
	if a.flags.codePage != "" {
		cfg.CodePage = a.flags.codePage
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := cfg.Logger()
	if err != nil {
		return err
	}
	conv, err := cfg.Converter()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.conv = conv
	log.Debug("configured",
		zap.String("code_page", cfg.CodePage),
		zap.Stringer("default_encoding", cfg.Encoding()),
		zap.Int("max_scan", conv.MaxScan()))
	return nil
}

// encoding parses an encoding flag and resolves the default alias.
func (a *app) encoding(name string) (charset.Encoding, error) {
	enc, err := charset.Parse(name)
	if err != nil {
		return 0, err
	}
	return enc.Resolve(a.cfg.Encoding()), nil
}
