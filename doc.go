// Package tbx holds the command model of the tbxmanager.com client: option
// parsing, command expansion and option resolution.
//
// # Key Components
//
//   - ParseArgs: splits "--name=value" options from positional commands
//   - Expand: unambiguous, case-insensitive prefix matching of command names
//   - Resolver: fills missing options from stored defaults or the user
//   - ArchiveName: the file name shared by the prepare and upload commands
//
// # Example Usage
//
//	res, err := tbx.ParseArgs(os.Args[1:])
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cmd, err := tbx.Expand(res.Commands[0], []string{"version", "link"})
//
//	r := &tbx.Resolver{Store: store, Prompt: prompt.Terminal{}.Prompt, Out: os.Stdout}
//	opts, err := r.Resolve(ctx, res.Options, []string{"package", "version"}, nil)
//
// See the cli package for command routing and the defaults, archive, upload
// and clientcli packages for the individual commands.
package tbx
