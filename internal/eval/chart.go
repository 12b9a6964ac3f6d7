package eval

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	colorCorrect = "#2e7d32"
	colorWrong   = "#c62828"
)

// RenderChart writes an HTML bar chart of per-question F1 scores, green for
// questions above the threshold and red for those below it.
func RenderChart(results []Result, threshold float64, path string) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Answer quality per question",
			Subtitle: fmt.Sprintf("semantic F1, correct above %.2f", threshold),
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "F1"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, 0, len(results))
	values := make([]opts.BarData, 0, len(results))
	for i, r := range results {
		labels = append(labels, fmt.Sprintf("Q%d", i+1))
		color := colorWrong
		if r.Correct {
			color = colorCorrect
		}
		values = append(values, opts.BarData{
			Value:     r.Score.F1,
			ItemStyle: &opts.ItemStyle{Color: color},
		})
	}

	bar.SetXAxis(labels).
		AddSeries("F1", values,
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
				Name:  "threshold",
				YAxis: threshold,
			}),
		)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()
	if err := bar.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
