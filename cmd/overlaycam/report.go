package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"

	"github.com/soocke/shape-overlay-go/filter"
)

// scoreWindow bounds the score series kept for the end-of-run graph.
const scoreWindow = 60

// runReport accumulates one score per template search and renders the
// end-of-run summary.
type runReport struct {
	scores []float64
	seen   uint64
}

// observe records the latest detection score. It reports whether st carries
// a search pass that has not been seen before.
func (r *runReport) observe(st filter.Stats) bool {
	if st.Detections == r.seen {
		return false
	}
	r.seen = st.Detections
	if len(r.scores) >= scoreWindow {
		r.scores = append(r.scores[1:], st.LastScore)
	} else {
		r.scores = append(r.scores, st.LastScore)
	}
	return true
}

// render writes the final stats table and, when enough searches ran, an
// ascii graph of recent scores.
func (r *runReport) render(w io.Writer, st filter.Stats) {
	buf := &bytes.Buffer{}
	table := tablewriter.NewWriter(buf)
	table.SetBorder(false)
	table.SetAutoFormatHeaders(false)
	table.SetCenterSeparator("-")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("")
	table.SetHeader([]string{"Frames", "Passed", "Searches", "Matches", "Avg ms", "Last score"})
	table.Append([]string{
		fmt.Sprintf("%d", st.Frames),
		fmt.Sprintf("%d", st.PassedThrough),
		fmt.Sprintf("%d", st.Detections),
		fmt.Sprintf("%d", st.Matches),
		fmt.Sprintf("%.2f", float64(st.AvgDetect)/float64(time.Millisecond)),
		fmt.Sprintf("%.3f", st.LastScore),
	})
	table.Render()
	fmt.Fprint(w, buf.String())

	if len(r.scores) > 1 {
		fmt.Fprintln(w, asciigraph.Plot(r.scores, []asciigraph.Option{
			asciigraph.Height(5),
			asciigraph.Width(scoreWindow),
			asciigraph.Precision(2),
			asciigraph.Caption("detection score"),
		}...))
	}
}

func logStats(logger *slog.Logger, st filter.Stats) {
	logger.Info("run.stats",
		"frames", st.Frames,
		"passed_through", st.PassedThrough,
		"detections", st.Detections,
		"matches", st.Matches,
		"avg_detect", st.AvgDetect,
		"last_score", st.LastScore,
		"last_valid", st.LastValid,
	)
}
