package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rshade/ecoscore/internal/apperr"
	"github.com/rshade/ecoscore/internal/cli"
	"github.com/rshade/ecoscore/pkg/version"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitBadInput = 2
)

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.ExecuteContext(context.Background())
}

// exitCode maps an error to a process exit code. Input problems the user
// can fix get a distinct code from operational failures.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperr.KindMalformedRequest, apperr.KindValidation:
			return exitBadInput
		}
	}
	return exitFailure
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
