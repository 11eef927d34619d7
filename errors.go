package tbx

import "errors"

var (
	// ErrBadCommand is returned when the command or subcommand is missing,
	// unrecognized or ambiguous
	ErrBadCommand = errors.New("bad command")
	// ErrUnknownInput is returned for an unsupported archive format or upload method
	ErrUnknownInput = errors.New("unknown input")
	// ErrFileNotFound is returned when an archive or source directory does not exist
	ErrFileNotFound = errors.New("file not found")
	// ErrMissingOption is returned when a required option is still empty after resolution
	ErrMissingOption = errors.New("missing option")
	// ErrUploadFailed is returned when the upload command exits with a non-zero status
	ErrUploadFailed = errors.New("upload failed")
)

// IsUserError reports whether err is one of the recognized, user-facing errors.
// Anything else is unexpected and should be reported with full detail.
func IsUserError(err error) bool {
	for _, known := range []error{ErrBadCommand, ErrUnknownInput, ErrFileNotFound, ErrMissingOption, ErrUploadFailed} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
