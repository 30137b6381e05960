package types

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// TimeWindow is the statistics aggregation period in minutes
type TimeWindow int

// DefaultTimeWindow is used when no window is requested
const DefaultTimeWindow TimeWindow = 60

// TimeWindows lists the windows offered by the dashboard selector
var TimeWindows = []TimeWindow{5, 15, 30, 60, 360, 1440}

// Minutes returns the window length in minutes
func (w TimeWindow) Minutes() int {
	return int(w)
}

// Duration returns the window as time.Duration
func (w TimeWindow) Duration() time.Duration {
	return time.Duration(w) * time.Minute
}

// Validate checks that the window is positive
func (w TimeWindow) Validate() error {
	if w <= 0 {
		return goerr.New("time window must be positive", goerr.V("time_window", int(w)))
	}
	return nil
}

// Next returns the selector entry following w, wrapping around.
// A window that is not in the selector moves to the first entry.
func (w TimeWindow) Next() TimeWindow {
	for i, tw := range TimeWindows {
		if tw == w {
			return TimeWindows[(i+1)%len(TimeWindows)]
		}
	}
	return TimeWindows[0]
}

// String returns a compact label such as "15m" or "6h"
func (w TimeWindow) String() string {
	if w >= 60 && w%60 == 0 {
		return fmt.Sprintf("%dh", int(w)/60)
	}
	return fmt.Sprintf("%dm", int(w))
}
