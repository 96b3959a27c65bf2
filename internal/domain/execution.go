package domain

import (
	"math"
	"time"
)

type CellResult struct {
	Outputs  []Output
	Terminal bool
}

type ExecutionRecord struct {
	Name           string
	Duration       float64
	OutputNotebook string
	Notebook       *Notebook
}

// RoundDuration converts to seconds rounded to the millisecond.
func RoundDuration(d time.Duration) float64 {
	return RoundSeconds(d.Seconds())
}

func RoundSeconds(seconds float64) float64 {
	return math.Round(seconds*1000) / 1000
}

func (r ExecutionRecord) OutputCount() int {
	if r.Notebook == nil {
		return 0
	}
	count := 0
	for _, cell := range r.Notebook.Cells {
		count += len(cell.Outputs)
	}
	return count
}
