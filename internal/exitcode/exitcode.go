// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, nothing selected,
	// not found).
	UserError = 1

	// AuthError indicates an auth or credential configuration error.
	AuthError = 2

	// BackendError indicates a remote API or network error.
	BackendError = 3
)
