// Command typedembed validates binary files against Go types and writes them
// out as Go declarations. It is meant to be run from go:generate:
//
//	//go:generate go run github.com/invakid404/typedembed/cmd/typedembed slice data/sine.bin --name Sine --type int16
//	//go:generate go run github.com/invakid404/typedembed/cmd/typedembed generate
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/invakid404/typedembed/diag"
	"github.com/invakid404/typedembed/internal/codegen"
	"github.com/invakid404/typedembed/internal/endian"
	"github.com/invakid404/typedembed/internal/manifest"
)

// errReported is returned by commands that already printed their failure.
var errReported = errors.New("failure already reported")

type app struct {
	stdout io.Writer
	stderr io.Writer

	// conf resolves settings that may come from flags or the environment.
	conf *viper.Viper

	logLevel        string
	pretty          bool
	noColor         bool
	jsonDiagnostics bool

	logger zerolog.Logger
}

func newApp(stdout, stderr io.Writer) *app {
	conf := viper.New()
	conf.SetEnvPrefix(manifest.EnvPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()

	// go generate exports GOARCH and GOPACKAGE for the package being built.
	_ = conf.BindEnv("goarch", manifest.EnvPrefix+"_GOARCH", "GOARCH")
	_ = conf.BindEnv("package", manifest.EnvPrefix+"_PACKAGE", "GOPACKAGE")
	conf.SetDefault("goarch", runtime.GOARCH)
	conf.SetDefault("emit", string(codegen.ModeLiteral))
	conf.SetDefault("log_level", zerolog.WarnLevel.String())

	return &app{
		stdout: stdout,
		stderr: stderr,
		conf:   conf,
		logger: zerolog.Nop(),
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "typedembed",
		Short:         "Embed binary files as validated Go values",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogger()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", zerolog.WarnLevel.String(), "Log level (trace, debug, info, warn, error)")
	flags.BoolVar(&a.pretty, "pretty", false, "Use pretty console logging instead of structured JSON")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored diagnostics")
	flags.BoolVar(&a.jsonDiagnostics, "json-diagnostics", false, "Write failures to stderr as a JSON report")
	_ = a.conf.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(
		a.embedCmd("value", "Embed a file as a single value of a plain data type", false, true),
		a.embedCmd("slice", "Embed a file as a slice of a plain data type", true, true),
		a.embedCmd("unchecked-value", "Embed a file as a single value without the plain data check", false, false),
		a.embedCmd("unchecked-slice", "Embed a file as a slice without the plain data check", true, false),
		a.generateCmd(),
		a.inspectCmd(),
		a.initCmd(),
	)
	return root
}

func (a *app) setupLogger() error {
	level, err := zerolog.ParseLevel(a.conf.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	var output io.Writer = a.stderr
	if a.pretty {
		output = zerolog.ConsoleWriter{Out: a.stderr, NoColor: a.noColor}
	}
	a.logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	return nil
}

// goarch picks the target architecture: the flag, then $TYPEDEMBED_GOARCH,
// then $GOARCH, then the running one.
func (a *app) goarch(flag string) string {
	if flag != "" {
		return flag
	}
	return a.conf.GetString("goarch")
}

// noteByteOrder logs when goarch stores numbers in the other byte order
// from the machine running the command.
func (a *app) noteByteOrder(goarch string) {
	order, err := endian.Order(goarch)
	if err != nil {
		return
	}
	if native := endian.Native(); order != native {
		a.logger.Info().
			Str("goarch", goarch).
			Str("byte_order", endian.Name(order)).
			Str("native_byte_order", endian.Name(native)).
			Msg("Target byte order differs from this machine")
	}
}

// execute runs the command line and renders any failure to stderr.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := newApp(stdout, stderr)
	root := a.rootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil || errors.Is(err, errReported) {
		return err
	}

	var renderErr error
	if a.jsonDiagnostics {
		renderErr = diag.JSON(stderr, err)
	} else {
		_, renderErr = diag.Render(stderr, err, diag.Options{NoColor: a.noColor})
	}
	if renderErr != nil {
		a.logger.Error().Err(renderErr).Msg("Failed to render diagnostics")
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		os.Exit(1)
	}
}
