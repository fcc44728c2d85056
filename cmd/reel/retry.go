package main

import (
	"errors"
	"log/slog"

	"reel/internal/logging"
	"reel/internal/numbering"
)

const createAttempts = 3

// retryDuplicate calls create until it stops reporting a duplicate version
// number or the attempts run out. Every attempt recomputes the number.
func retryDuplicate[T any](logger *slog.Logger, create func() (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	for attempt := 1; attempt <= createAttempts; attempt++ {
		result, err = create()
		var dup *numbering.DuplicateVersionError
		if !errors.As(err, &dup) {
			return result, err
		}
		logger.Debug("retrying after duplicate version",
			logging.Int("attempt", attempt),
			logging.String("key", dup.Key.String()),
			logging.Int("version", dup.Version),
		)
	}
	return result, err
}
