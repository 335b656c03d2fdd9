package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/odysseus0/feedsync/internal/remote"
	"github.com/odysseus0/feedsync/internal/store"
)

const (
	exitInternal     = 1
	exitInvalidInput = 2
	exitNotFound     = 3
	exitRemote       = 4
)

func ErrorExitCode(err error) int {
	switch errorClass(err) {
	case "":
		return 0
	case "invalid-input":
		return exitInvalidInput
	case "not-found":
		return exitNotFound
	case "remote":
		return exitRemote
	default:
		return exitInternal
	}
}

func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error [%s]: %v", errorClass(err), err)
}

func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err))
}

func errorClass(err error) string {
	var apiErr *remote.APIError
	var transportErr *remote.TransportError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, store.ErrInvalidInput):
		return "invalid-input"
	case errors.Is(err, store.ErrNotFound):
		return "not-found"
	case errors.As(err, &apiErr), errors.As(err, &transportErr):
		return "remote"
	default:
		return "internal"
	}
}
