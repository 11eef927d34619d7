package clientcli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tbxmanager/tbx"
	"github.com/tbxmanager/tbx/archive"
	"github.com/tbxmanager/tbx/defaults"
)

// Formatter formats results for output.
type Formatter interface {
	FormatResponse(w io.Writer, resp *Response) error
	FormatDefaults(w io.Writer, rec defaults.Record, showSecrets bool) error
	FormatArchive(w io.Writer, result archive.Result) error
	FormatError(w io.Writer, err error) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatResponse prints "<status> (<code>): <body>".
func (f *HumanFormatter) FormatResponse(w io.Writer, resp *Response) error {
	_, _ = fmt.Fprintln(w, resp.String())
	return nil
}

// FormatDefaults prints one line per stored field.
func (f *HumanFormatter) FormatDefaults(w io.Writer, rec defaults.Record, showSecrets bool) error {
	if rec.IsEmpty() {
		_, _ = fmt.Fprintln(w, "No defaults stored.")
		return nil
	}

	for _, name := range defaults.Fields {
		value := rec.Field(name)
		if name == tbx.OptPassword {
			value = maskSecret(value, showSecrets)
		} else if value == "" {
			value = "(not set)"
		}
		_, _ = fmt.Fprintf(w, "%-11s %s\n", name+":", value)
	}
	return nil
}

// FormatArchive reports a created or skipped archive.
func (f *HumanFormatter) FormatArchive(w io.Writer, result archive.Result) error {
	if result.Skipped {
		_, _ = fmt.Fprintln(w, "Aborted.")
		return nil
	}
	_, _ = fmt.Fprintf(w, "Created: %s (%d files, %s)\n", result.Path, result.Files, formatSize(result.Size))
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "  SHA256: %s\n", result.Checksum)
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatResponse formats the response as JSON.
func (f *JSONFormatter) FormatResponse(w io.Writer, resp *Response) error {
	return writeJSON(w, resp)
}

// FormatDefaults formats the stored defaults as JSON.
func (f *JSONFormatter) FormatDefaults(w io.Writer, rec defaults.Record, showSecrets bool) error {
	output := make(map[string]string, len(defaults.Fields))
	for _, name := range defaults.Fields {
		value := rec.Field(name)
		if name == tbx.OptPassword && value != "" && !showSecrets {
			value = maskSecret(value, false)
		}
		output[name] = value
	}
	return writeJSON(w, output)
}

// FormatArchive formats the archive result as JSON.
func (f *JSONFormatter) FormatArchive(w io.Writer, result archive.Result) error {
	output := struct {
		Path     string `json:"path"`
		Files    int    `json:"files,omitempty"`
		Size     int64  `json:"size_bytes,omitempty"`
		Checksum string `json:"sha256,omitempty"`
		Skipped  bool   `json:"skipped,omitempty"`
	}{
		Path:     result.Path,
		Files:    result.Files,
		Size:     result.Size,
		Checksum: result.Checksum,
		Skipped:  result.Skipped,
	}
	return writeJSON(w, output)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// maskSecret hides a secret unless showSecrets is set.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	return "********"
}
