package tbx

import (
	"fmt"
	"strings"
)

// Option names understood by the tbxmanager API and the local commands.
const (
	OptLogin      = "login"
	OptPassword   = "password"
	OptPackage    = "package"
	OptVersion    = "version"
	OptPlatform   = "platform"
	OptRepository = "repository"
	OptURL        = "url"
	OptDir        = "dir"
	OptFormat     = "format"
	OptDest       = "dest"
)

// Options is a set of named option values. Keys are unique and keep
// the order in which they were first set.
type Options struct {
	keys   []string
	values map[string]string
}

// NewOptions creates an empty option set.
func NewOptions() *Options {
	return &Options{values: make(map[string]string)}
}

// Set stores value under name, overwriting any earlier value.
func (o *Options) Set(name, value string) {
	if _, exists := o.values[name]; !exists {
		o.keys = append(o.keys, name)
	}
	o.values[name] = value
}

// Get returns the value for name and whether it was set.
func (o *Options) Get(name string) (string, bool) {
	v, ok := o.values[name]
	return v, ok
}

// Value returns the value for name, or "" if it is not set.
func (o *Options) Value(name string) string {
	return o.values[name]
}

// Has reports whether name is set to a non-empty value.
func (o *Options) Has(name string) bool {
	return o.values[name] != ""
}

// Keys returns option names in insertion order.
func (o *Options) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Len returns the number of options.
func (o *Options) Len() int {
	return len(o.keys)
}

// Clone returns an independent copy.
func (o *Options) Clone() *Options {
	c := NewOptions()
	for _, k := range o.keys {
		c.Set(k, o.values[k])
	}
	return c
}

// Without returns a copy with the given names removed.
func (o *Options) Without(names ...string) *Options {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}

	c := NewOptions()
	for _, k := range o.keys {
		if !skip[k] {
			c.Set(k, o.values[k])
		}
	}
	return c
}

// ParseOption splits a "--name=value" token. ok is false unless the token
// starts with exactly two dashes, holds exactly one "=", and both name and
// value are non-empty.
func ParseOption(token string) (name, value string, ok bool) {
	if !strings.HasPrefix(token, "--") || strings.HasPrefix(token, "---") {
		return "", "", false
	}

	body := token[2:]
	if strings.Count(body, "=") != 1 {
		return "", "", false
	}

	name, value, _ = strings.Cut(body, "=")
	if name == "" || value == "" {
		return "", "", false
	}

	return name, value, true
}

// ParseResult holds the outcome of ParseArgs.
type ParseResult struct {
	Options  *Options
	Commands []string
	// Invalid lists option-looking tokens that were discarded.
	Invalid []string
}

// ParseArgs separates option tokens from commands. Tokens starting with "-"
// are options; malformed ones are collected in Invalid and otherwise ignored.
// Command order is preserved. It fails only when no command is given.
func ParseArgs(args []string) (*ParseResult, error) {
	res := &ParseResult{Options: NewOptions()}

	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			res.Commands = append(res.Commands, arg)
			continue
		}

		name, value, ok := ParseOption(arg)
		if !ok {
			res.Invalid = append(res.Invalid, arg)
			continue
		}
		res.Options.Set(name, value)
	}

	if len(res.Commands) == 0 {
		return res, fmt.Errorf("no command given: %w", ErrBadCommand)
	}

	return res, nil
}
