package main

import (
	"fmt"
	"io"
	"time"

	"exprc/internal/buildpipeline"
)

// printStageTimings writes one "<stage> N ms" line per finished stage.
// check never writes, so the write stage is shown only for build.
func printStageTimings(out io.Writer, timings buildpipeline.Timings, includeWrite bool) {
	if out == nil {
		return
	}
	timings.Each(func(stage buildpipeline.Stage, d time.Duration) {
		if stage == buildpipeline.StageWrite && !includeWrite {
			return
		}
		fmt.Fprintf(out, "%s %.1f ms\n", stage.Done(), toMillis(d))
	})
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
