package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var blocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as a single row of block characters.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	peak := peakOf(values)

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		b.WriteRune(blocks[min(max(idx, 1), len(blocks)-1)])
	}

	return lipgloss.NewStyle().Foreground(ColorAccent).Render(b.String())
}

// BarChart renders one vertical bar per value with a y axis on the left and
// the first and last labels under the x axis. Values that do not fit the
// width are sampled evenly.
func BarChart(values []float64, labels []string, width, height int) string {
	if len(values) == 0 {
		return ""
	}

	if width < 15 || height < 3 {
		return Sparkline(values)
	}

	peak := peakOf(values)
	step := tickStep(peak)
	ceiling := math.Ceil(peak/step) * step

	labelW := max(len(FormatShort(ceiling))+1, 4)
	chartW := max(width-labelW-1, 5)

	if len(values) > chartW {
		values, labels = sample(values, labels, chartW)
	}

	axis := MutedStyle
	bar := lipgloss.NewStyle().Foreground(ColorAccent)

	var b strings.Builder

	for row := height; row >= 1; row-- {
		top := ceiling * float64(row) / float64(height)
		bottom := ceiling * float64(row-1) / float64(height)

		label := ""
		if row == height {
			label = FormatShort(ceiling)
		}

		b.WriteString(axis.Render(fmt.Sprintf("%*s│", labelW, label)))

		var line strings.Builder

		for _, v := range values {
			switch {
			case v >= top:
				line.WriteRune(blocks[len(blocks)-1])
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * 8)
				line.WriteRune(blocks[min(max(idx, 1), 8)])
			default:
				line.WriteRune(' ')
			}
		}

		b.WriteString(bar.Render(line.String()))
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", labelW, "0", strings.Repeat("─", len(values)))))

	if len(labels) == len(values) && len(labels) > 1 {
		first, last := labels[0], labels[len(labels)-1]
		gap := max(len(values)-len(first)-len(last), 1)

		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", labelW+1))
		b.WriteString(axis.Render(first + strings.Repeat(" ", gap) + last))
	}

	return b.String()
}

func peakOf(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}

	if peak == 0 {
		return 1
	}

	return peak
}

func sample(values []float64, labels []string, n int) ([]float64, []string) {
	outV := make([]float64, n)

	var outL []string
	if len(labels) == len(values) {
		outL = make([]string, n)
	}

	for i := range n {
		src := i * (len(values) - 1) / max(n-1, 1)
		outV[i] = values[src]

		if outL != nil {
			outL[i] = labels[src]
		}
	}

	return outV, outL
}

// tickStep picks a round axis interval for roughly five ticks.
func tickStep(peak float64) float64 {
	rough := peak / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))

	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}
