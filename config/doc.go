// Package config provides configuration loading and validation for tbx.
//
// The package handles a YAML configuration file, environment variables and
// tool options with automatic merging and validation using
// go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s), ~/.tbx/config.yaml when none is given
//  3. Environment variables (TBX_ prefix)
//  4. Tool options (--server=..., --log-level=..., etc.)
//
// # Usage
//
//	fs := config.FlagSet()
//	if err := config.ApplyOptions(fs, parsed.Options); err != nil {
//	    return err
//	}
//
//	cfg, err := config.Load(config.ConfigFiles(fs), fs)
//	if err != nil {
//	    return err
//	}
//
//	ctx = config.WithContext(ctx, cfg)
//
// # Environment Variables
//
// All config keys map to environment variables with the TBX_ prefix:
//
//	server             -> TBX_SERVER
//	api.timeout        -> TBX_API_TIMEOUT
//	store.type         -> TBX_STORE_TYPE
//	store.path         -> TBX_STORE_PATH
//	store.namespace    -> TBX_STORE_NAMESPACE
//	upload.scp_command -> TBX_UPLOAD_SCP_COMMAND
//	log.level          -> TBX_LOG_LEVEL
//
// # Configuration Structure
//
//	server: tbxmanager.com
//	api:
//	  timeout: 30s
//	store:
//	  type: file           # file, sqlite, memory
//	  path: ~/.tbx/defaults.yaml
//	  namespace: tbxmanager
//	upload:
//	  scp_command: scp -q
//	output:
//	  json: false
//	  quiet: false
//	log:
//	  level: warn          # debug, info, warn, error
//
// # Validation
//
// The configuration is validated after loading. Store type must be one of
// file, sqlite or memory, and log level one of debug, info, warn or error.
package config
