// Package metrics は最適輸送問題で用いるコスト行列・カーネル行列の計算を提供する
package metrics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/HelenLiGit/POT/core/parallel"
	"github.com/HelenLiGit/POT/pkg/errors"
)

// Metric は距離行列の計算に使う距離の種類を表す
type Metric string

const (
	// SqEuclidean はユークリッド距離の二乗
	SqEuclidean Metric = "sqeuclidean"
	// Euclidean はユークリッド距離
	Euclidean Metric = "euclidean"
	// Cityblock はL1距離（マンハッタン距離）
	Cityblock Metric = "cityblock"
	// Cosine はコサイン距離（1 - コサイン類似度）
	Cosine Metric = "cosine"
)

// MetricFunc は2つのサンプル行間の距離を計算する関数
type MetricFunc func(a, b []float64) float64

// Provider は指定された距離に対応する距離関数を返す
func Provider(m Metric) (MetricFunc, error) {
	switch m {
	case SqEuclidean:
		return sqEuclidean, nil
	case Euclidean:
		return euclidean, nil
	case Cityblock:
		return cityblock, nil
	case Cosine:
		return cosine, nil
	default:
		return nil, errors.NewValueError("Provider", fmt.Sprintf("unknown metric %q", m))
	}
}

func sqEuclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func euclidean(a, b []float64) float64 {
	return math.Sqrt(sqEuclidean(a, b))
}

func cityblock(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

func cosine(a, b []float64) float64 {
	dot := floats.Dot(a, b)
	na := math.Sqrt(floats.Dot(a, a))
	nb := math.Sqrt(floats.Dot(b, b))
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(na*nb)
}

// 行数がこの値を超えると距離行列の計算を行単位で並列化する
const parallelRowThreshold = 64

// Dist はx1とx2のサンプル間の距離行列を計算する
//
// パラメータ:
//   - x1: (n1, d) のサンプル行列
//   - x2: (n2, d) のサンプル行列（nilの場合はx1を使う）
//   - metric: 距離の種類
//
// 戻り値:
//   - *mat.Dense: (n1, n2) の距離行列 M[i][j] = metric(x1[i], x2[j])
//   - error: エラーが発生した場合
func Dist(x1, x2 mat.Matrix, metric Metric) (*mat.Dense, error) {
	if x1 == nil {
		return nil, errors.NewValueError("Dist", "x1 must not be nil")
	}
	if x2 == nil {
		x2 = x1
	}

	n1, d1 := x1.Dims()
	n2, d2 := x2.Dims()
	if n1 == 0 || n2 == 0 {
		return nil, errors.NewValueError("Dist", "empty matrix")
	}
	if d1 != d2 {
		return nil, errors.NewDimensionError("Dist", d1, d2, 1)
	}

	fn, err := Provider(metric)
	if err != nil {
		return nil, err
	}

	rows1 := denseRows(x1)
	rows2 := denseRows(x2)

	M := mat.NewDense(n1, n2, nil)
	parallel.ParallelizeWithThreshold(n1, parallelRowThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < n2; j++ {
				M.Set(i, j, fn(rows1[i], rows2[j]))
			}
		}
	})
	return M, nil
}

// DistFunc は呼び出し側が与えた距離関数で距離行列を計算する。
// 距離関数はエラーを返してよく、最初のエラーで計算全体が中断される。
// 行のチャンク単位で並列化され、ctxのキャンセルで中断できる。
func DistFunc(ctx context.Context, x1, x2 mat.Matrix, fn func(a, b []float64) (float64, error)) (*mat.Dense, error) {
	if x1 == nil {
		return nil, errors.NewValueError("DistFunc", "x1 must not be nil")
	}
	if fn == nil {
		return nil, errors.NewValidationError("fn", "must not be nil", nil)
	}
	if x2 == nil {
		x2 = x1
	}

	n1, d1 := x1.Dims()
	n2, d2 := x2.Dims()
	if n1 == 0 || n2 == 0 {
		return nil, errors.NewValueError("DistFunc", "empty matrix")
	}
	if d1 != d2 {
		return nil, errors.NewDimensionError("DistFunc", d1, d2, 1)
	}

	rows1 := denseRows(x1)
	rows2 := denseRows(x2)

	M := mat.NewDense(n1, n2, nil)
	err := parallel.ForEachChunk(ctx, n1, 0, func(start, end int) error {
		for i := start; i < end; i++ {
			for j := 0; j < n2; j++ {
				v, err := fn(rows1[i], rows2[j])
				if err != nil {
					return errors.Wrapf(err, "distance for pair (%d, %d)", i, j)
				}
				M.Set(i, j, v)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return M, nil
}

// Dist0 は最適輸送問題用の標準的な (n, n) コスト行列を計算する。
// 0からn-1を等間隔にサンプリングした点の二乗誤差: M[i][j] = (i-j)^2
func Dist0(n int) (*mat.Dense, error) {
	if n < 1 {
		return nil, errors.NewValueError("Dist0", "n must be >= 1")
	}
	x := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, float64(i))
	}
	return Dist(x, x, SqEuclidean)
}

// Kernel はガウシアンカーネル行列を計算する
//
// K[i][j] = exp(-||x1[i]-x2[j]||^2 / (2*sigma^2))
func Kernel(x1, x2 mat.Matrix, sigma float64) (*mat.Dense, error) {
	if sigma <= 0 {
		return nil, errors.NewValidationError("sigma", "must be > 0", sigma)
	}
	M, err := Dist(x1, x2, SqEuclidean)
	if err != nil {
		return nil, err
	}
	denom := 2 * sigma * sigma
	r, c := M.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			M.Set(i, j, math.Exp(-M.At(i, j)/denom))
		}
	}
	return M, nil
}

// Norm はコスト行列の正規化方法を表す
type Norm string

const (
	// NormMedian は中央値で割る
	NormMedian Norm = "median"
	// NormMax は最大値で割る
	NormMax Norm = "max"
	// NormLog は log(1 + C) に変換する
	NormLog Norm = "log"
	// NormLogLog は log(1 + log(1 + C)) に変換する
	NormLogLog Norm = "loglog"
	// NormNone は正規化しない
	NormNone Norm = ""
)

// CostNormalization はコスト行列Cを指定の方法でインプレースに正規化し、
// Cを返す。NormNone（またはリストにない値）は何もしない。
func CostNormalization(C *mat.Dense, norm Norm) (*mat.Dense, error) {
	if C == nil {
		return nil, errors.NewValueError("CostNormalization", "C must not be nil")
	}
	data := C.RawMatrix().Data

	switch norm {
	case NormMedian:
		med := median(data)
		if med == 0 {
			return nil, errors.NewValueError("CostNormalization", "median of cost matrix is zero")
		}
		floats.Scale(1/med, data)
	case NormMax:
		max := floats.Max(data)
		if max == 0 {
			return nil, errors.NewValueError("CostNormalization", "max of cost matrix is zero")
		}
		floats.Scale(1/max, data)
	case NormLog:
		for i, v := range data {
			data[i] = math.Log1p(v)
		}
	case NormLogLog:
		for i, v := range data {
			data[i] = math.Log1p(math.Log1p(v))
		}
	}
	return C, nil
}

// Unif は長さnの一様ヒストグラム（単体上の一様分布）を返す: h[i] = 1/n
func Unif(n int) []float64 {
	if n < 1 {
		return nil
	}
	h := make([]float64, n)
	for i := range h {
		h[i] = 1 / float64(n)
	}
	return h
}

// CleanZeros は重みが0の成分をa, bとコスト行列Mから取り除く。
// a2[i] > 0, b2[j] > 0 となる行・列だけが残る。
func CleanZeros(a, b []float64, M mat.Matrix) ([]float64, []float64, *mat.Dense, error) {
	if M == nil {
		return nil, nil, nil, errors.NewValueError("CleanZeros", "M must not be nil")
	}
	r, c := M.Dims()
	if len(a) != r {
		return nil, nil, nil, errors.NewDimensionError("CleanZeros", r, len(a), 0)
	}
	if len(b) != c {
		return nil, nil, nil, errors.NewDimensionError("CleanZeros", c, len(b), 1)
	}

	var rowIdx, colIdx []int
	var a2, b2 []float64
	for i, w := range a {
		if w > 0 {
			rowIdx = append(rowIdx, i)
			a2 = append(a2, w)
		}
	}
	for j, w := range b {
		if w > 0 {
			colIdx = append(colIdx, j)
			b2 = append(b2, w)
		}
	}

	if len(rowIdx) == 0 || len(colIdx) == 0 {
		return nil, nil, nil, errors.NewValueError("CleanZeros", "all weights are zero")
	}

	M2 := mat.NewDense(len(rowIdx), len(colIdx), nil)
	for i, ri := range rowIdx {
		for j, cj := range colIdx {
			M2.Set(i, j, M.At(ri, cj))
		}
	}
	return a2, b2, M2, nil
}

// Dots は複数の行列の連鎖積を左から順に計算する
func Dots(ms ...mat.Matrix) (*mat.Dense, error) {
	if len(ms) == 0 {
		return nil, errors.NewValueError("Dots", "at least one matrix is required")
	}
	for i, m := range ms {
		if m == nil {
			return nil, errors.NewValueError("Dots", fmt.Sprintf("matrix %d must not be nil", i))
		}
	}

	result := mat.DenseCopyOf(ms[0])
	for i := 1; i < len(ms); i++ {
		_, k1 := result.Dims()
		k2, _ := ms[i].Dims()
		if k1 != k2 {
			return nil, errors.NewDimensionError("Dots", k1, k2, 0)
		}
		var next mat.Dense
		next.Mul(result, ms[i])
		result = &next
	}
	return result, nil
}

// denseRows は行列の各行をfloat64スライスとして取り出す
func denseRows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = m.At(i, j)
		}
		rows[i] = row
	}
	return rows
}

// median はnumpy互換の中央値（偶数個なら中央2値の平均）を返す
func median(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
