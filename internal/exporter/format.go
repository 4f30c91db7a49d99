package exporter

import (
	"math"
	"strconv"
	"time"
)

// formatFloat renders a value for CSV output, leaving unknown (NaN) cells
// empty the way the source files mark missing data.
func formatFloat(v float64, decimals int) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

// formatMonth renders a month bucket as YYYY-MM.
func formatMonth(t time.Time) string {
	return t.Format("2006-01")
}

// formatQuarter renders a quarter bucket as YYYY-Qn.
func formatQuarter(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return t.Format("2006") + "-Q" + strconv.Itoa(q)
}
