package cli

// Usage is printed by the help command.
const Usage = `tbx - command-line client for tbxmanager.com

Usage:
  tbx [--option=value]... command [subcommand] [arguments]

Commands may be abbreviated to any unambiguous prefix, e.g. "tbx ve cr".

Commands:
  version create     create a package version
                       requires: package, version
  version delete     delete a package version
                       requires: package, version
  link create        create a download link for a platform
                       requires: package, version, platform, url
  link delete        delete a download link
                       requires: package, version, platform
  setup              store default values for login, password, package,
                     repository and platform
  setup show         print the stored defaults
  setup delete       delete the stored defaults
  prepare            zip a directory into <package>_<version>_<platform>.zip
                       requires: package, version, platform, dir
  upload scp         copy the prepared archive with scp
                       requires: package, version, platform, dest
  help               print this text

Version and link commands also need login and password. Missing options
are taken from the stored defaults, then asked for interactively.
The repository option is filled from the defaults when it is stored.

Options:
  --login=<name>         tbxmanager.com account
  --password=<secret>    account password
  --package=<name>       package name
  --version=<version>    package version
  --platform=<platform>  target platform, e.g. all, maci64, glnxa64, win64
  --repository=<name>    repository the package belongs to
  --url=<url>            download location of the archive
  --dir=<path>           directory to archive
  --format=zip           archive format (only zip is supported)
  --dest=<target>        scp destination, e.g. user@host:/path/

Tool options:
  --config=<file>        config file (default: ~/.tbx/config.yaml)
  --server=<host>        API server (default: tbxmanager.com)
  --timeout=<duration>   API request timeout, e.g. 30s (default: none)
  --store=<type>         defaults store: file, sqlite, memory (default: file)
  --scp-command=<cmd>    upload command line (default: scp)
  --log-level=<level>    debug, info, warn, error (default: warn)
  --json=true            print results as JSON
  --quiet=true           print results only
  --show-secrets=true    show the password in "setup show"

Every option must be written as --name=value. Other tokens starting
with "-" are ignored with a warning.

Environment:
  TBX_SERVER, TBX_API_TIMEOUT, TBX_STORE_TYPE, TBX_STORE_PATH,
  TBX_UPLOAD_SCP_COMMAND, TBX_LOG_LEVEL, TBX_ENV=prod for JSON logs.

Examples:
  tbx --package=mpt --version=3.1.0 version create
  tbx --package=mpt --version=3.1.0 --platform=all --url=https://example.org/mpt.zip link create
  tbx --package=mpt --version=3.1.0 --platform=all --dir=./mpt prepare
  tbx --package=mpt --version=3.1.0 --platform=all --dest=me@host:/srv/tbx/ upload scp
`
