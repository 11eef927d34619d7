// Package cli routes a tbx command line to the command that handles it.
//
// App.Run parses the arguments, expands the (possibly abbreviated) command
// names and runs one of version, link, setup, prepare, upload or help.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/tbxmanager/tbx"
	"github.com/tbxmanager/tbx/archive"
	"github.com/tbxmanager/tbx/clientcli"
	"github.com/tbxmanager/tbx/config"
	"github.com/tbxmanager/tbx/defaults"
	"github.com/tbxmanager/tbx/upload"
)

// Top-level commands.
const (
	CmdVersion = "version"
	CmdLink    = "link"
	CmdSetup   = "setup"
	CmdPrepare = "prepare"
	CmdUpload  = "upload"
	CmdHelp    = "help"
)

// Commands lists the top-level commands in the order help shows them.
var Commands = []string{CmdVersion, CmdLink, CmdSetup, CmdPrepare, CmdUpload, CmdHelp}

var (
	apiActions   = []string{"create", "delete"}
	setupActions = []string{"show", "delete"}
)

// endpoint is one REST call and the options it needs besides credentials.
type endpoint struct {
	path     string
	required []string
}

var endpoints = map[string]map[string]endpoint{
	CmdVersion: {
		"create": {path: "versions/create", required: []string{tbx.OptPackage, tbx.OptVersion}},
		"delete": {path: "versions/delete", required: []string{tbx.OptPackage, tbx.OptVersion}},
	},
	CmdLink: {
		"create": {path: "links/create", required: []string{tbx.OptPackage, tbx.OptVersion, tbx.OptPlatform, tbx.OptURL}},
		"delete": {path: "links/delete", required: []string{tbx.OptPackage, tbx.OptVersion, tbx.OptPlatform}},
	},
}

// App holds everything a command needs. Config and Store are required.
type App struct {
	Config *config.Config
	Store  defaults.Store
	// Prompt asks the user for missing values. Nil makes missing
	// required options an error.
	Prompt tbx.PromptFunc
	// Runner runs the upload command. Nil uses upload.ExecRunner.
	Runner upload.Runner
	// HTTPClient overrides the REST client transport.
	HTTPClient *http.Client
	// Dir is where archives are written and looked up. Empty means the
	// working directory.
	Dir string

	Out io.Writer
	Err io.Writer
}

// Run executes the command line args.
func (a *App) Run(ctx context.Context, args []string) error {
	if a.Config == nil {
		return errors.New("cli: config is required")
	}
	if a.Store == nil {
		return errors.New("cli: defaults store is required")
	}

	res, err := tbx.ParseArgs(args)
	if res != nil {
		for _, token := range res.Invalid {
			slog.Debug("discarding invalid option", "token", token)
			_, _ = fmt.Fprintf(a.stderr(), "Warning: ignoring invalid option %q (expected --name=value)\n", token)
		}
	}
	if err != nil {
		return err
	}

	cmd, err := tbx.Expand(res.Commands[0], Commands)
	if err != nil {
		return err
	}
	slog.Debug("running command", "command", cmd, "args", res.Commands[1:])

	opts := res.Options.Without(config.ToolOptions()...)
	rest := res.Commands[1:]

	switch cmd {
	case CmdVersion, CmdLink:
		return a.runAPI(ctx, cmd, rest, opts)
	case CmdSetup:
		return a.runSetup(ctx, rest)
	case CmdPrepare:
		return a.runPrepare(ctx, opts)
	case CmdUpload:
		return a.runUpload(ctx, rest, opts)
	default:
		_, _ = fmt.Fprint(a.stdout(), Usage)
		return nil
	}
}

func (a *App) runAPI(ctx context.Context, cmd string, rest []string, opts *tbx.Options) error {
	if len(rest) == 0 {
		return fmt.Errorf("%s needs a subcommand (%s): %w", cmd, strings.Join(apiActions, " or "), tbx.ErrBadCommand)
	}
	action, err := tbx.Expand(rest[0], apiActions)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}
	ep := endpoints[cmd][action]

	repository, err := a.Store.Get(ctx, tbx.OptRepository)
	if err != nil {
		return fmt.Errorf("read default repository: %w", err)
	}

	required := append([]string{}, ep.required...)
	required = append(required, tbx.OptLogin, tbx.OptPassword)

	resolved, err := a.resolver().Resolve(ctx, opts, required, []tbx.Default{
		{Name: tbx.OptRepository, Value: repository},
	})
	if err != nil {
		return err
	}

	var clientOpts []clientcli.Option
	if a.HTTPClient != nil {
		clientOpts = append(clientOpts, clientcli.WithHTTPClient(a.HTTPClient))
	}
	client, err := clientcli.New(clientcli.ConfigFromOptions(a.Config.Server, a.Config.API.Timeout, resolved), clientOpts...)
	if err != nil {
		return err
	}

	resp, err := client.Call(ctx, ep.path, resolved)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", cmd, action, ctxErr)
		}
		slog.Warn("request failed", "path", ep.path, "err", err)
		resp = clientcli.ErrorResponse(err)
	}
	return a.formatter().FormatResponse(a.stdout(), resp)
}

func (a *App) runSetup(ctx context.Context, rest []string) error {
	if len(rest) == 0 {
		return a.setDefaults(ctx)
	}

	action, err := tbx.Expand(rest[0], setupActions)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	switch action {
	case "show":
		rec, err := a.Store.All(ctx)
		if err != nil {
			return err
		}
		return a.formatter().FormatDefaults(a.stdout(), rec, a.Config.Output.ShowSecrets)
	default:
		if err := a.Store.DeleteAll(ctx); err != nil {
			return err
		}
		a.info("Defaults deleted.")
		return nil
	}
}

// setDefaults asks for every default field. An empty answer leaves the
// field unset.
func (a *App) setDefaults(ctx context.Context) error {
	if a.Prompt == nil {
		return fmt.Errorf("setup needs an interactive terminal: %w", tbx.ErrMissingOption)
	}

	a.info("Enter default values. Leave a value empty to not store it.")

	var rec defaults.Record
	for _, name := range defaults.Fields {
		value, err := a.Prompt(name, name == tbx.OptPassword)
		if err != nil {
			return fmt.Errorf("prompt %s: %w", name, err)
		}
		rec.SetField(name, value)
	}

	if err := a.Store.SetAll(ctx, rec); err != nil {
		return err
	}
	a.info("Defaults saved.")
	return nil
}

func (a *App) runPrepare(ctx context.Context, opts *tbx.Options) error {
	resolved, err := a.resolver().Resolve(ctx, opts,
		[]string{tbx.OptPackage, tbx.OptVersion, tbx.OptPlatform, tbx.OptDir},
		[]tbx.Default{{Name: tbx.OptFormat, Value: tbx.DefaultFormat}},
	)
	if err != nil {
		return err
	}

	b := &archive.Builder{Prompt: a.Prompt}
	result, err := b.Build(ctx, resolved.Value(tbx.OptDir), a.archivePath(resolved), resolved.Value(tbx.OptFormat))
	if err != nil {
		return err
	}
	return a.formatter().FormatArchive(a.stdout(), result)
}

func (a *App) runUpload(ctx context.Context, rest []string, opts *tbx.Options) error {
	if len(rest) == 0 {
		return fmt.Errorf("upload needs a method (%s): %w", upload.MethodSCP, tbx.ErrBadCommand)
	}
	method := rest[0]

	resolved, err := a.resolver().Resolve(ctx, opts,
		[]string{tbx.OptPackage, tbx.OptVersion, tbx.OptPlatform, tbx.OptDest},
		[]tbx.Default{{Name: tbx.OptFormat, Value: tbx.DefaultFormat}},
	)
	if err != nil {
		return err
	}

	runner := a.Runner
	if runner == nil {
		runner = upload.ExecRunner{Stdout: a.stdout(), Stderr: a.stderr()}
	}
	u := &upload.Uploader{
		SCPCommand: a.Config.Upload.SCPCommand,
		Runner:     runner,
		Out:        a.progress(),
	}

	archivePath := a.archivePath(resolved)
	dest := resolved.Value(tbx.OptDest)
	if err := u.Upload(ctx, method, archivePath, dest); err != nil {
		return err
	}
	a.info(fmt.Sprintf("Uploaded %s to %s", archivePath, dest))
	return nil
}

func (a *App) archivePath(opts *tbx.Options) string {
	name := tbx.ArchiveName(
		opts.Value(tbx.OptPackage),
		opts.Value(tbx.OptVersion),
		opts.Value(tbx.OptPlatform),
		opts.Value(tbx.OptFormat),
	)
	return filepath.Join(a.Dir, name)
}

func (a *App) resolver() *tbx.Resolver {
	return &tbx.Resolver{Store: a.Store, Prompt: a.Prompt, Out: a.progress()}
}

func (a *App) formatter() clientcli.Formatter {
	return clientcli.NewFormatter(a.Config.Output.JSON, a.Config.Output.Quiet)
}

// progress receives informational lines. They go to stderr in JSON mode
// and nowhere in quiet mode.
func (a *App) progress() io.Writer {
	switch {
	case a.Config.Output.Quiet:
		return io.Discard
	case a.Config.Output.JSON:
		return a.stderr()
	default:
		return a.stdout()
	}
}

func (a *App) info(msg string) {
	_, _ = fmt.Fprintln(a.progress(), msg)
}

func (a *App) stdout() io.Writer {
	if a.Out == nil {
		return io.Discard
	}
	return a.Out
}

func (a *App) stderr() io.Writer {
	if a.Err == nil {
		return io.Discard
	}
	return a.Err
}
