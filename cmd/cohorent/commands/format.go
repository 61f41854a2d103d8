package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/cohorent/backend/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// out is where command output goes (테스트에서 교체)
var out io.Writer = os.Stdout

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
}

// PrintHeader prints a titled block header
func PrintHeader(title string) {
	fmt.Fprintln(out)
	PrintDoubleSeparator()
	fmt.Fprintf(out, "  %s\n", title)
	PrintSeparator()
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintf(out, "⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintf(out, "✅ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Fprintf(out, "ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(out, strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Fprintf(out, "%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Fprint(out, "  ")
		}
	}
	fmt.Fprintln(out)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Fprintf(out, "   %-*s : %s\n", keyWidth, key, value)
}

// statusIcon maps a label to a console marker
func statusIcon(label contracts.StatusLabel) string {
	switch label {
	case contracts.StatusScale:
		return "🚀"
	case contracts.StatusOptimize:
		return "🔧"
	case contracts.StatusTest:
		return "🧪"
	case contracts.StatusRetire:
		return "🪦"
	default:
		return "•"
	}
}

// formatPercent renders a 0~1 factor as a percentage with one decimal
func formatPercent(v float64) string {
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

// PrintSnapshot prints a rating breakdown
func PrintSnapshot(title string, snap contracts.RatingSnapshot) {
	PrintHeader(title)
	PrintKeyValue("Rating", fmt.Sprintf("%d %s %s", snap.Rating, statusIcon(snap.StatusLabel), snap.StatusLabel), 12)
	PrintKeyValue("Confidence", decimal.NewFromFloat(snap.ConfidenceIndex).StringFixed(2), 12)
	PrintKeyValue("Coverage", formatPercent(snap.CoverageFactor), 12)
	PrintKeyValue("Sample", formatPercent(snap.SampleFactor), 12)
	PrintKeyValue("Phase", snap.Phase.Description(), 12)
	PrintKeyValue("Algorithm", snap.AlgoVersion, 12)
	PrintSeparator()

	widths := []int{20, 6, 8, 10}
	PrintTableHeader([]string{"PILLAR", "SCORE", "Z", "COVERAGE"}, widths)
	row := func(name string, p contracts.PillarScore) {
		PrintTableRow([]string{
			name,
			fmt.Sprintf("%d", p.Score),
			decimal.NewFromFloat(p.ZScore).StringFixed(2),
			formatPercent(p.Coverage),
		}, widths)
	}
	row("Demand Velocity", snap.DemandVelocity)
	row("Red Ocean Pressure", snap.RedOceanPressure)
	row("Unit Economics", snap.UnitEconomics)
	if snap.LivePerformance != nil {
		row("Live Performance", *snap.LivePerformance)
	}
	PrintDoubleSeparator()
}
