package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tbxmanager/tbx"
	"github.com/tbxmanager/tbx/cli"
	"github.com/tbxmanager/tbx/clientcli"
	"github.com/tbxmanager/tbx/config"
	"github.com/tbxmanager/tbx/defaults"
	"github.com/tbxmanager/tbx/prompt"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "tbx [--option=value]... command [subcommand] [arguments]",
	Version: version,
	Short:   "Command-line client for tbxmanager.com",
	Long:    cli.Usage,
	// Options use the --name=value form only and may appear anywhere,
	// so argument parsing is left to the cli package.
	DisableFlagParsing: true,
	Args:               cobra.ArbitraryArgs,
	SilenceUsage:       true,
	SilenceErrors:      true,
	CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
	RunE:               runRoot,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(os.Stderr, err))
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		switch args[0] {
		case "--version":
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", cmd.Name(), version)
			return nil
		case "--help", "-h":
			args = []string{cli.CmdHelp}
		}
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	setupLogging(cmd.ErrOrStderr(), cfg.Env, cfg.Log.Level)

	ctx := config.WithContext(cmd.Context(), cfg)
	return run(ctx, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// run executes the command line with the config stored in ctx. The
// defaults store is opened only when the command uses it.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	store := defaults.NewLazyStore(cfg.Store)
	defer store.Close()

	app := &cli.App{
		Config: cfg,
		Store:  store,
		Prompt: prompt.Terminal{}.Prompt,
		Out:    stdout,
		Err:    stderr,
	}

	err = app.Run(ctx, args)
	if err != nil && cfg.Output.JSON {
		_ = clientcli.NewFormatter(true, false).FormatError(stdout, err)
	}
	return err
}

// loadConfig applies the tool options found in args on top of the config
// file, environment and defaults.
func loadConfig(args []string) (*config.Config, error) {
	fs := config.FlagSet()
	if res, _ := tbx.ParseArgs(args); res != nil {
		if err := config.ApplyOptions(fs, res.Options); err != nil {
			return nil, fmt.Errorf("%w: %w", tbx.ErrUnknownInput, err)
		}
	}

	cfg, err := config.Load(config.ConfigFiles(fs), fs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tbx.ErrUnknownInput, err)
	}
	return cfg, nil
}

// exitCode reports err on w and returns the process exit status.
// Recognized errors get a short message, anything else its full chain.
func exitCode(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, prompt.ErrCancelled), errors.Is(err, context.Canceled):
		_, _ = fmt.Fprintln(w, "\nCancelled.")
		return 1
	case tbx.IsUserError(err):
		_, _ = fmt.Fprintf(w, "Error: %v\nCannot continue.\n", err)
		return 1
	default:
		_, _ = fmt.Fprintf(w, "Unexpected error: %v\n", err)
		printChain(w, err, 1)
		_, _ = fmt.Fprintln(w, "Cannot continue.")
		return 2
	}
}

func printChain(w io.Writer, err error, depth int) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "%*s%T: %v\n", depth*2, "", err, err)

	switch e := err.(type) { //nolint:errorlint // walking the chain by hand
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			printChain(w, inner, depth+1)
		}
	case interface{ Unwrap() error }:
		printChain(w, e.Unwrap(), depth+1)
	}
}
