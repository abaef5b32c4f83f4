package report

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ezoic/gdlinear/pkg/errors"
)

// LossCurve builds a line plot of loss against epoch. A loss history spanning
// more than three orders of magnitude is drawn on a log scale.
func LossCurve(history []float64, title string) (*plot.Plot, error) {
	if len(history) == 0 {
		return nil, errors.NewModelError("LossCurve", "empty history", errors.ErrEmptyData)
	}

	pts := make(plotter.XYs, len(history))
	lo, hi := history[0], history[0]
	for i, loss := range history {
		if !errors.IsFinite(loss) {
			return nil, errors.NewValueError("LossCurve", "history contains non-finite values")
		}
		pts[i].X = float64(i + 1)
		pts[i].Y = loss
		lo, hi = min(lo, loss), max(hi, loss)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = "MSE"

	if lo > 0 && hi/lo > 1e3 {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create loss line")
	}
	line.Width = vg.Points(2)
	p.Add(line, plotter.NewGrid())
	return p, nil
}

// SaveLossCurve writes LossCurve(history) to filename. The image format
// follows the extension (.png, .svg, .pdf, ...).
func SaveLossCurve(history []float64, title, filename string) error {
	p, err := LossCurve(history, title)
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 6*vg.Inch, filename); err != nil {
		return errors.Wrap(err, "failed to save plot")
	}
	return nil
}
