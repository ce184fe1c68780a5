package tbc

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

var ErrNotPositiveDefinite = errors.New("kernel matrix is not positive definite")

var (
	// 超参数候选, 按对数边际似然选取
	amplitudeGrid   = []float64{0.1, 1, 10}
	lengthScaleGrid = []float64{0.25, 0.5, 1, 2, 4}
)

const (
	initialNoise = 1e-8
	maxNoise     = 1e-2
)

// gaussianProcess 常数核 × RBF 核的高斯过程回归, 先验均值为 0
type gaussianProcess struct {
	amplitude   float64
	lengthScale float64
	noise       float64

	x     [][]float64
	chol  mat.Cholesky
	alpha *mat.VecDense
	lml   float64
}

func (gp *gaussianProcess) kernel(a, b []float64) float64 {
	var d2 float64
	for i := range a {
		d := (a[i] - b[i]) / gp.lengthScale
		d2 += d * d
	}
	return gp.amplitude * math.Exp(-0.5*d2)
}

func (gp *gaussianProcess) fit(x [][]float64, y []float64) error {
	n := len(x)
	if n == 0 {
		return ErrEmptyDataset
	}
	for noise := initialNoise; noise <= maxNoise; noise *= 10 {
		k := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				v := gp.kernel(x[i], x[j])
				if i == j {
					v += noise
				}
				k.SetSym(i, j, v)
			}
		}
		var chol mat.Cholesky
		if ok := chol.Factorize(k); !ok {
			continue
		}
		yv := mat.NewVecDense(n, append([]float64(nil), y...))
		alpha := mat.NewVecDense(n, nil)
		if err := chol.SolveVecTo(alpha, yv); err != nil {
			continue
		}
		gp.noise = noise
		gp.x = x
		gp.chol = chol
		gp.alpha = alpha
		gp.lml = -0.5*mat.Dot(yv, alpha) - 0.5*chol.LogDet() - float64(n)/2*math.Log(2*math.Pi)
		return nil
	}
	return ErrNotPositiveDefinite
}

// predict 返回后验均值和标准差
func (gp *gaussianProcess) predict(row []float64) (mean, std float64) {
	n := len(gp.x)
	ks := mat.NewVecDense(n, nil)
	for i, xi := range gp.x {
		ks.SetVec(i, gp.kernel(row, xi))
	}
	mean = mat.Dot(ks, gp.alpha)
	v := mat.NewVecDense(n, nil)
	if err := gp.chol.SolveVecTo(v, ks); err != nil {
		return mean, 0
	}
	variance := gp.amplitude - mat.Dot(ks, v)
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

// fitGP 在超参数网格上拟合, 取对数边际似然最大的模型
func fitGP(x [][]float64, y []float64) (*gaussianProcess, error) {
	var best *gaussianProcess
	for _, amplitude := range amplitudeGrid {
		for _, lengthScale := range lengthScaleGrid {
			gp := &gaussianProcess{amplitude: amplitude, lengthScale: lengthScale}
			if err := gp.fit(x, y); err != nil {
				continue
			}
			if best == nil || gp.lml > best.lml {
				best = gp
			}
		}
	}
	if best == nil {
		return nil, ErrNotPositiveDefinite
	}
	return best, nil
}
