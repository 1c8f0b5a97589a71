package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rplan/internal/tui/tuistyles"
)

// DataSeries is one line on the chart. NaN points are gaps.
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
	Char   rune
}

// ChartMarker is a vertical line at an X index, e.g. a phase boundary age.
type ChartMarker struct {
	Index int
	Label string
	Color lipgloss.Color
}

// ASCIIChart draws line series over a shared X axis with vertical markers.
type ASCIIChart struct {
	Title   string
	Series  []*DataSeries
	Markers []ChartMarker
	Labels  []string // one per X index
	Width   int
	Height  int
}

const yAxisWidth = 10

// NewASCIIChart creates a new ASCII chart
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:  title,
		Width:  72,
		Height: 14,
	}
}

// AddSeries adds a line. The first series uses '●', later ones '■', '▲', '♦'.
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	chars := []rune{'●', '■', '▲', '♦'}
	c.Series = append(c.Series, &DataSeries{
		Name:   name,
		Points: points,
		Color:  color,
		Char:   chars[len(c.Series)%len(chars)],
	})
	return c
}

// AddMarker adds a vertical marker at X index.
func (c *ASCIIChart) AddMarker(index int, label string, color lipgloss.Color) *ASCIIChart {
	c.Markers = append(c.Markers, ChartMarker{Index: index, Label: label, Color: color})
	return c
}

// WithLabels sets the X-axis labels
func (c *ASCIIChart) WithLabels(labels []string) *ASCIIChart {
	c.Labels = labels
	return c
}

// WithSize sets the chart dimensions
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	return c
}

// Render returns the styled chart
func (c *ASCIIChart) Render() string {
	n := c.pointCount()
	if n == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var out strings.Builder
	if c.Title != "" {
		out.WriteString(tuistyles.TitleStyle.Render(c.Title))
		out.WriteString("\n\n")
	}

	plotWidth := c.Width - yAxisWidth - 3
	if plotWidth < 10 {
		plotWidth = 10
	}
	height := c.Height
	if height < 3 {
		height = 3
	}

	lo, hi := c.bounds()
	grid := newGrid(height, plotWidth)

	for _, m := range c.Markers {
		x := c.column(m.Index, n, plotWidth)
		if x < 0 || x >= plotWidth {
			continue
		}
		for y := 0; y < height; y++ {
			grid[y][x] = cell{ch: '┊', color: m.Color}
		}
	}

	for _, s := range c.Series {
		prevX, prevY := -1, -1
		for i, v := range s.Points {
			if math.IsNaN(v) {
				prevX, prevY = -1, -1
				continue
			}
			x := c.column(i, n, plotWidth)
			y := row(v, lo, hi, height)
			if prevX >= 0 {
				drawLine(grid, prevX, prevY, x, y, cell{ch: '·', color: s.Color})
			}
			grid[y][x] = cell{ch: s.Char, color: s.Color}
			prevX, prevY = x, y
		}
	}

	axisStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(yAxisWidth).Align(lipgloss.Right)
	for y, line := range grid {
		v := hi - (hi-lo)*float64(y)/float64(height-1)
		label := ""
		if y == 0 || y == height-1 || y == height/2 {
			label = formatChartValue(v)
		}
		out.WriteString(axisStyle.Render(label))
		out.WriteString(" │ ")
		for _, cl := range line {
			if cl.ch == 0 {
				out.WriteByte(' ')
				continue
			}
			out.WriteString(lipgloss.NewStyle().Foreground(cl.color).Render(string(cl.ch)))
		}
		out.WriteString("\n")
	}
	out.WriteString(strings.Repeat(" ", yAxisWidth))
	out.WriteString(" └─")
	out.WriteString(strings.Repeat("─", plotWidth))
	out.WriteString("\n")
	out.WriteString(c.renderXAxisLabels(n, plotWidth))
	out.WriteString("\n")
	out.WriteString(c.renderLegend())

	return out.String()
}

type cell struct {
	ch    rune
	color lipgloss.Color
}

func newGrid(height, width int) [][]cell {
	grid := make([][]cell, height)
	for y := range grid {
		grid[y] = make([]cell, width)
	}
	return grid
}

func (c *ASCIIChart) pointCount() int {
	n := len(c.Labels)
	for _, s := range c.Series {
		if len(s.Points) > n {
			n = len(s.Points)
		}
	}
	return n
}

// bounds returns the Y range over every non-NaN point, always including zero.
func (c *ASCIIChart) bounds() (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, s := range c.Series {
		for _, v := range s.Points {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

func (c *ASCIIChart) column(i, n, width int) int {
	if n <= 1 {
		return 0
	}
	return int(math.Round(float64(i) * float64(width-1) / float64(n-1)))
}

func row(v, lo, hi float64, height int) int {
	y := height - 1 - int(math.Round((v-lo)/(hi-lo)*float64(height-1)))
	if y < 0 {
		return 0
	}
	if y > height-1 {
		return height - 1
	}
	return y
}

// drawLine fills the cells between two points (Bresenham), leaving set cells alone.
func drawLine(grid [][]cell, x0, y0, x1, y1 int, c cell) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if grid[y0][x0].ch == 0 || grid[y0][x0].ch == '┊' {
			grid[y0][x0] = c
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// renderXAxisLabels prints the first, last and marker labels at their columns.
func (c *ASCIIChart) renderXAxisLabels(n, width int) string {
	line := []rune(strings.Repeat(" ", width+3))
	place := func(i int, text string) {
		x := c.column(i, n, width) + 3
		if x+len(text) > len(line) {
			x = len(line) - len(text)
		}
		if x < 0 {
			x = 0
		}
		for j, r := range text {
			line[x+j] = r
		}
	}
	if len(c.Labels) > 0 {
		place(0, c.Labels[0])
		place(len(c.Labels)-1, c.Labels[len(c.Labels)-1])
		for _, m := range c.Markers {
			if m.Index > 0 && m.Index < len(c.Labels)-1 {
				place(m.Index, c.Labels[m.Index])
			}
		}
	}
	return strings.Repeat(" ", yAxisWidth) + lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(string(line))
}

func (c *ASCIIChart) renderLegend() string {
	var items []string
	for _, s := range c.Series {
		items = append(items, lipgloss.NewStyle().Foreground(s.Color).Render(string(s.Char))+" "+s.Name)
	}
	for _, m := range c.Markers {
		items = append(items, lipgloss.NewStyle().Foreground(m.Color).Render("┊")+" "+m.Label)
	}
	return tuistyles.HelpDescStyle.Render(strings.Join(items, "  "))
}

// formatChartValue formats a value for display on Y-axis
func formatChartValue(value float64) string {
	switch {
	case math.Abs(value) >= 1_000_000:
		return fmt.Sprintf("$%.1fM", value/1_000_000)
	case math.Abs(value) >= 1000:
		return fmt.Sprintf("$%.0fK", value/1000)
	default:
		return fmt.Sprintf("$%.0f", value)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
