package tbx

import (
	"context"
	"fmt"
	"io"
)

// DefaultsGetter looks up a stored default value by option name.
// An unknown or unset name yields "".
type DefaultsGetter interface {
	Get(ctx context.Context, name string) (string, error)
}

// PromptFunc asks the user for a value. secret hides the input.
type PromptFunc func(label string, secret bool) (string, error)

// Default is an optional option with the value applied when it is not set.
type Default struct {
	Name  string
	Value string
}

// Resolver fills in missing options from stored defaults and, failing that,
// from the user.
type Resolver struct {
	Store  DefaultsGetter
	Prompt PromptFunc
	// Out receives the already known values. Nil discards them.
	Out io.Writer
}

// Resolve returns a copy of provided in which every required name is set.
// Missing required names are looked up in the store, then prompted for;
// an empty answer is asked again. Optional defaults are applied last to
// names that are still missing.
func (r *Resolver) Resolve(ctx context.Context, provided *Options, required []string, optional []Default) (*Options, error) {
	opts := provided.Clone()

	var missing []string
	for _, name := range required {
		if opts.Has(name) {
			continue
		}

		if r.Store != nil {
			v, err := r.Store.Get(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("resolve %s: %w", name, err)
			}
			if v != "" {
				opts.Set(name, v)
				continue
			}
		}

		missing = append(missing, name)
	}

	out := r.Out
	if out == nil {
		out = io.Discard
	}

	for _, name := range opts.Keys() {
		if name == OptLogin || name == OptPassword || !opts.Has(name) {
			continue
		}
		_, _ = fmt.Fprintf(out, "%s: %s\n", name, opts.Value(name))
	}

	for _, name := range missing {
		v, err := r.ask(out, name)
		if err != nil {
			return nil, err
		}
		opts.Set(name, v)
	}

	for _, d := range optional {
		if opts.Has(d.Name) || d.Value == "" {
			continue
		}
		opts.Set(d.Name, d.Value)
	}

	return opts, nil
}

func (r *Resolver) ask(out io.Writer, name string) (string, error) {
	if r.Prompt == nil {
		return "", fmt.Errorf("%s is required: %w", name, ErrMissingOption)
	}

	for {
		v, err := r.Prompt(name, name == OptPassword)
		if err != nil {
			return "", fmt.Errorf("prompt %s: %w", name, err)
		}
		if v != "" {
			return v, nil
		}
		_, _ = fmt.Fprintf(out, "%s cannot be empty\n", name)
	}
}
