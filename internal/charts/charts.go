// Package charts renders interactive HTML charts with go-echarts.
package charts

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string   // Chart title
	Subtitle   string   // Chart subtitle
	YAxisLabel string   // Y-axis label
	XAxisLabel string   // X-axis label
	Width      string   // Chart width (e.g., "900px")
	Height     string   // Chart height (e.g., "500px")
	Theme      string   // Chart theme
	ShowLegend bool     // Show legend
	Colors     []string // Custom colors
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
		Colors:     []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE"},
	}
}

// DataPoint represents a single bar.
type DataPoint struct {
	Label string
	Value float64
}

// RenderBarChart writes an interactive bar chart page to w.
func RenderBarChart(w io.Writer, series string, data []DataPoint, config ChartConfig) error {
	if len(data) == 0 {
		return fmt.Errorf("no data points provided")
	}
	if len(config.Colors) == 0 {
		config.Colors = DefaultChartConfig().Colors
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: config.XAxisLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: config.YAxisLabel}),
		charts.WithColorsOpts(opts.Colors{config.Colors[0]}),
	)

	xLabels := make([]string, len(data))
	yData := make([]opts.BarData, len(data))
	for i, point := range data {
		xLabels[i] = point.Label
		yData[i] = opts.BarData{Value: point.Value}
	}

	bar.SetXAxis(xLabels).
		AddSeries(series, yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// FrequencyPoints orders per-number counts by number.
func FrequencyPoints(counts map[int]int) []DataPoint {
	nums := make([]int, 0, len(counts))
	for n := range counts {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	points := make([]DataPoint, len(nums))
	for i, n := range nums {
		points[i] = DataPoint{Label: strconv.Itoa(n), Value: float64(counts[n])}
	}
	return points
}

// ExpectedFrequency is how often each number is drawn on average when
// samples combinations pick uniformly from poolSize numbers.
func ExpectedFrequency(samples, pick, poolSize int) float64 {
	if poolSize == 0 {
		return 0
	}
	return float64(samples*pick) / float64(poolSize)
}

// RenderFrequencyChart charts how often each viable primary number was drawn
// across samples combinations. Under a uniform sampler every bar sits near
// ExpectedFrequency.
func RenderFrequencyChart(w io.Writer, game lottery.Game, counts map[int]int, samples int) error {
	config := DefaultChartConfig()
	config.Title = fmt.Sprintf("%s number frequency", game.Name)
	config.Subtitle = fmt.Sprintf("%d combinations over %d viable numbers, expected %.1f draws each",
		samples, len(counts), ExpectedFrequency(samples, game.PickCount, len(counts)))
	config.XAxisLabel = "Number"
	config.YAxisLabel = "Draws"

	return RenderBarChart(w, "Draws", FrequencyPoints(counts), config)
}

// WriteFile renders into path via render, creating parent directories.
func WriteFile(path string, render func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
