package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"reel/internal/faults"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", faults.Kind(err), err)
		}
		os.Exit(1)
	}
}
