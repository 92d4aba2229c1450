package main

import (
	"fmt"
	"io"
	"time"

	"soyc/internal/driver"
)

func printProgress(w io.Writer, e driver.Event) {
	switch e.Status {
	case driver.StatusDone, driver.StatusError:
		fmt.Fprintf(w, "%-8s %-6s %-5s %.1f ms\n", e.Backend, e.Stage, e.Status, toMillis(e.Elapsed))
	default:
		fmt.Fprintf(w, "%-8s %-6s %s\n", e.Backend, e.Stage, e.Status)
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
