//go:build !linux

package legacy

import "time"

func birthTime(_ string, fallback time.Time) time.Time {
	return fallback
}
