package chart

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"bundesrat/internal/config"
	"bundesrat/internal/errors"
	"bundesrat/internal/infrastructure"
	"bundesrat/pkg/contracts/domain"
)

// Output file names
const (
	AgeChartFile    = "Durchschnittsalter.png"
	CantonChartFile = "kantone.png"
)

const (
	// PNGs are rendered at 96 dpi, so one pixel is 0.75pt
	pixelsPerInch   = 96
	defaultWidthPx  = 1000
	defaultHeightPx = 500
)

var (
	colorMax  = color.RGBA{R: 99, G: 110, B: 250, A: 255}
	colorMean = color.RGBA{R: 239, G: 85, B: 59, A: 255}
	colorMin  = color.RGBA{R: 0, G: 204, B: 150, A: 255}
)

// Renderer draws the bar charts of a run into the plots directory
type Renderer struct {
	logger   *slog.Logger
	paths    *config.Paths
	widthPx  int
	heightPx int
}

// NewRenderer creates a renderer writing PNGs of widthPx pixels into the
// plots directory
func NewRenderer(logger *slog.Logger, paths *config.Paths, widthPx int) *Renderer {
	if widthPx <= 0 {
		widthPx = defaultWidthPx
	}
	return &Renderer{
		logger:   infrastructure.WithComponent(logger, "chart"),
		paths:    paths,
		widthPx:  widthPx,
		heightPx: defaultHeightPx,
	}
}

// AgeChart draws maximum, mean and minimum age per year as overlaid bars.
// Years without members stay empty.
func (r *Renderer) AgeChart(ages []domain.AgeByYear) (string, error) {
	if len(ages) == 0 {
		return "", errors.NewValidationError("no age data to plot")
	}

	first, last := ages[0].Year, ages[0].Year
	for _, a := range ages {
		first = min(first, a.Year)
		last = max(last, a.Year)
	}
	n := last - first + 1
	maxV := make(plotter.Values, n)
	meanV := make(plotter.Values, n)
	minV := make(plotter.Values, n)
	for _, a := range ages {
		i := a.Year - first
		maxV[i], meanV[i], minV[i] = a.Max, a.Mean, a.Min
	}

	p := plot.New()
	p.Title.Text = "Durchschnittsalter pro Jahr"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Jahr"
	p.Y.Label.Text = "Alter"
	p.Legend.Top = true

	barWidth := r.barWidth(n)
	for _, s := range []struct {
		label  string
		values plotter.Values
		color  color.Color
	}{
		{"MaxAlter", maxV, colorMax},
		{"DurchschnittsAlter", meanV, colorMean},
		{"MinAlter", minV, colorMin},
	} {
		bars, err := plotter.NewBarChart(s.values, barWidth)
		if err != nil {
			return "", errors.NewAppError(errors.ErrTypeValidation, "failed to build age chart", err)
		}
		bars.Color = s.color
		bars.LineStyle.Width = vg.Length(0)
		bars.XMin = float64(first)
		p.Add(bars)
		p.Legend.Add(s.label, bars)
	}
	p.X.Min = float64(first) - 1
	p.X.Max = float64(last) + 1

	return r.save(p, AgeChartFile)
}

// CantonChart draws the number of members per canton
func (r *Renderer) CantonChart(counts []domain.GroupCount) (string, error) {
	if len(counts) == 0 {
		return "", errors.NewValidationError("no canton data to plot")
	}

	values := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Count)
		labels[i] = c.Key
	}

	p := plot.New()
	p.Title.Text = "Members of the federal council per canton"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Canton"
	p.Y.Label.Text = "#members"

	bars, err := plotter.NewBarChart(values, r.barWidth(len(counts)))
	if err != nil {
		return "", errors.NewAppError(errors.ErrTypeValidation, "failed to build canton chart", err)
	}
	bars.Color = colorMax
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XCenter
	p.Y.Min = 0

	return r.save(p, CantonChartFile)
}

// barWidth spreads n bars over most of the drawing width
func (r *Renderer) barWidth(n int) vg.Length {
	w := pixels(r.widthPx) * 0.8 / vg.Length(max(n, 1))
	if w < vg.Points(0.5) {
		return vg.Points(0.5)
	}
	return w
}

func (r *Renderer) save(p *plot.Plot, name string) (string, error) {
	if err := os.MkdirAll(r.paths.PlotsDir, 0755); err != nil {
		return "", errors.NewStorageError("failed to create plots directory", err)
	}
	path := r.paths.GetPlotPath(name)
	if err := p.Save(pixels(r.widthPx), pixels(r.heightPx), path); err != nil {
		return "", errors.NewStorageError(fmt.Sprintf("failed to save chart %s", name), err)
	}
	r.logger.Info("Chart written", slog.String("path", path))
	return path, nil
}

func pixels(px int) vg.Length {
	return vg.Length(px) * vg.Inch / pixelsPerInch
}
