package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"mstodo/internal/exitcode"
	"mstodo/internal/service"
)

// fail prints an error and maps it onto an exit code by its place in
// the error taxonomy.
func fail(errOut io.Writer, err error) int {
	var (
		configErr *service.ConfigError
		oauthErr  *service.OAuthError
		remoteErr *service.RemoteError
	)
	switch {
	case errors.As(err, &configErr):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, service.ErrNoTokenCache), errors.Is(err, service.ErrNoRefreshToken):
		fmt.Fprintf(errOut, "error: %v (run: mstodo login)\n", err)
		return exitcode.AuthError
	case errors.As(err, &oauthErr):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, service.ErrNoTaskListSelected):
		fmt.Fprintln(errOut, "error: no task list selected (run: mstodo use <list>)")
		return exitcode.UserError
	case errors.Is(err, service.ErrNoTasksFound), errors.Is(err, service.ErrNoActiveNote):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case strings.Contains(err.Error(), "not found"):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.As(err, &remoteErr):
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}
