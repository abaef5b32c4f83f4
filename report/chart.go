package report

import (
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ezoic/gdlinear/pkg/errors"
)

// LossChart generates an echart line chart of loss against epoch. Non-finite
// losses are skipped.
func LossChart(history []float64, title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithXAxisOpts(opts.XAxis{Name: "epoch"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "MSE"}),
	)

	epochs := make([]int, 0, len(history))
	lineData := make([]opts.LineData, 0, len(history))
	for i, loss := range history {
		if !errors.IsFinite(loss) {
			continue
		}
		epochs = append(epochs, i+1)
		lineData = append(lineData, opts.LineData{Value: loss})
	}

	line.SetXAxis(epochs).AddSeries("loss", lineData)
	return line
}

// WriteLossChartHTML renders LossChart(history) as a standalone HTML page.
func WriteLossChartHTML(w io.Writer, history []float64, title string) error {
	if len(history) == 0 {
		return errors.NewModelError("WriteLossChartHTML", "empty history", errors.ErrEmptyData)
	}
	page := components.NewPage()
	page.AddCharts(LossChart(history, title))
	return page.Render(w)
}

// SaveLossChartHTML writes WriteLossChartHTML to filename.
func SaveLossChartHTML(history []float64, title, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create file: %s", filename)
	}
	if err := WriteLossChartHTML(file, history, title); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.Wrapf(err, "failed to close file: %s", filename)
	}
	return nil
}
