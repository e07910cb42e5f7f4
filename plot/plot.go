// Package plot renders optimal-transport matrices and sample couplings with
// gonum/plot. It covers the two standard visualizations: the coupling (or
// cost) matrix as a heatmap, and lines between coupled 2D sample pairs.
package plot

import (
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"

	"github.com/HelenLiGit/POT/pkg/errors"
)

// matGrid adapts a gonum matrix to plotter.GridXYZ. Row i of the matrix maps
// to grid Y(i) and column j to X(j).
type matGrid struct {
	m mat.Matrix
}

func (g matGrid) Dims() (c, r int) {
	rows, cols := g.m.Dims()
	return cols, rows
}

func (g matGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g matGrid) X(c int) float64    { return float64(c) }
func (g matGrid) Y(r int) float64    { return float64(r) }

// CouplingHeatmap renders a coupling or cost matrix as a heatmap.
func CouplingHeatmap(G mat.Matrix, title string) (*plot.Plot, error) {
	if G == nil {
		return nil, errors.NewValueError("CouplingHeatmap", "G must not be nil")
	}
	r, c := G.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError("CouplingHeatmap", "empty matrix")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "target"
	p.Y.Label.Text = "source"

	hm := plotter.NewHeatMap(matGrid{m: G}, palette.Heat(12, 1))
	p.Add(hm)
	return p, nil
}

// SamplesCoupling2D draws 2D source and target samples and a line segment
// for every pair (i, j) whose coupling weight exceeds threshold times the
// largest weight in G. xs and xt must have exactly two columns; G must be
// (rows(xs), rows(xt)).
func SamplesCoupling2D(xs, xt, G mat.Matrix, threshold float64) (*plot.Plot, error) {
	if xs == nil || xt == nil || G == nil {
		return nil, errors.NewValueError("SamplesCoupling2D", "xs, xt and G must not be nil")
	}
	ns, ds := xs.Dims()
	nt, dt := xt.Dims()
	if ds != 2 {
		return nil, errors.NewDimensionError("SamplesCoupling2D", 2, ds, 1)
	}
	if dt != 2 {
		return nil, errors.NewDimensionError("SamplesCoupling2D", 2, dt, 1)
	}
	gr, gc := G.Dims()
	if gr != ns {
		return nil, errors.NewDimensionError("SamplesCoupling2D", ns, gr, 0)
	}
	if gc != nt {
		return nil, errors.NewDimensionError("SamplesCoupling2D", nt, gc, 1)
	}
	if threshold < 0 || threshold > 1 {
		return nil, errors.NewValidationError("threshold", "must be in [0, 1]", threshold)
	}

	p := plot.New()
	p.Title.Text = "OT coupling between samples"

	maxWeight := mat.Max(G)
	if maxWeight > 0 {
		for i := 0; i < ns; i++ {
			for j := 0; j < nt; j++ {
				if G.At(i, j) <= threshold*maxWeight {
					continue
				}
				line, err := plotter.NewLine(plotter.XYs{
					{X: xs.At(i, 0), Y: xs.At(i, 1)},
					{X: xt.At(j, 0), Y: xt.At(j, 1)},
				})
				if err != nil {
					return nil, errors.Wrap(err, "coupling line")
				}
				// Weight-proportional alpha, as faint as the coupling is weak.
				alpha := uint8(255 * G.At(i, j) / maxWeight)
				line.Color = color.NRGBA{G: 128, A: alpha}
				p.Add(line)
			}
		}
	}

	src, err := scatterOf(xs, color.NRGBA{R: 31, G: 119, B: 180, A: 255})
	if err != nil {
		return nil, err
	}
	dst, err := scatterOf(xt, color.NRGBA{R: 214, G: 39, B: 40, A: 255})
	if err != nil {
		return nil, err
	}
	p.Add(src, dst)
	p.Legend.Add("source", src)
	p.Legend.Add("target", dst)
	return p, nil
}

func scatterOf(x mat.Matrix, c color.Color) (*plotter.Scatter, error) {
	n, _ := x.Dims()
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i] = plotter.XY{X: x.At(i, 0), Y: x.At(i, 1)}
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "samples scatter")
	}
	s.GlyphStyle.Color = c
	return s, nil
}
