package trajectory

import (
	"fmt"
	"strings"

	"github.com/OCAP2/globe/pkg/core"
)

// NoDataLine is shown in place of the stats when no trajectory is loaded.
const NoDataLine = "Trajectory Stats: no data"

// FormatLines renders the four stat lines with two decimals and a km suffix.
func FormatLines(s core.TrajectoryStats) []string {
	return []string{
		fmt.Sprintf("Max Height: %.2f km", s.MaxHeight),
		fmt.Sprintf("Min Height: %.2f km", s.MinHeight),
		fmt.Sprintf("End-End LoS Distance: %.2f km", s.LineOfSightDistance),
		fmt.Sprintf("Total Distance: %.2f km", s.TotalDistance),
	}
}

// FormatHTML renders the stats panel fragment.
func FormatHTML(s core.TrajectoryStats) string {
	var b strings.Builder
	b.WriteString("<strong>Trajectory Stats:</strong><br>\n")
	lines := FormatLines(s)
	for i, l := range lines {
		b.WriteString(l)
		if i < len(lines)-1 {
			b.WriteString("<br>")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Summary computes and formats in one step. The no-data case yields a
// single NoDataLine.
func Summary(samples []core.RawSample) []string {
	stats, err := Compute(samples)
	if err != nil {
		return []string{NoDataLine}
	}
	return append([]string{"Trajectory Stats:"}, FormatLines(stats)...)
}
