package mesh

import (
	"math"

	"gonum.org/v1/gonum/floats"

	m "github.com/Faultbox/morphospace/pkg/math"
)

// GridUV parameterizes a row-major grid of rows x cols points by cumulative
// arc length. U runs along each row (ring), V along each column. Rows or
// columns of zero length fall back to even spacing; a single sample maps to 0.
func GridUV(points []m.Vec3, rows, cols int) []m.Vec2 {
	uvs := make([]m.Vec2, rows*cols)
	if rows == 0 || cols == 0 {
		return uvs
	}

	row := make([]m.Vec3, cols)
	for i := range rows {
		copy(row, points[i*cols:(i+1)*cols])
		for j, u := range arcParams(row) {
			uvs[i*cols+j].X = u
		}
	}

	col := make([]m.Vec3, rows)
	for j := range cols {
		for i := range rows {
			col[i] = points[i*cols+j]
		}
		for i, v := range arcParams(col) {
			uvs[i*cols+j].Y = v
		}
	}
	return uvs
}

// arcParams maps a polyline to [0,1] by normalized cumulative length.
func arcParams(line []m.Vec3) []float64 {
	n := len(line)
	params := make([]float64, n)
	if n < 2 {
		return params
	}

	steps := make([]float64, n)
	for k := 1; k < n; k++ {
		steps[k] = line[k].Distance(line[k-1])
	}
	floats.CumSum(params, steps)

	total := params[n-1]
	if total == 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		for k := range params {
			params[k] = float64(k) / float64(n-1)
		}
		return params
	}
	for k := range params {
		params[k] /= total
	}
	return params
}
