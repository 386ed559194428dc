package fields

import (
	"fmt"
	"math"

	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/utils"
)

// NormType selects the cellwise error functional of IntegrateDifference and
// the matching global aggregation of ComputeGlobalError.
type NormType int

const (
	Mean NormType = iota
	L1Norm
	L2Norm
	LpNorm
	LinftyNorm
	H1Seminorm
	HdivSeminorm
	H1Norm
	W1pSeminorm
	W1pNorm
	W1inftySeminorm
	W1inftyNorm
)

func (nt NormType) String() string {
	switch nt {
	case Mean:
		return "Mean"
	case L1Norm:
		return "L1"
	case L2Norm:
		return "L2"
	case LpNorm:
		return "Lp"
	case LinftyNorm:
		return "Linfty"
	case H1Seminorm:
		return "H1Seminorm"
	case HdivSeminorm:
		return "HdivSeminorm"
	case H1Norm:
		return "H1"
	case W1pSeminorm:
		return "W1pSeminorm"
	case W1pNorm:
		return "W1p"
	case W1inftySeminorm:
		return "W1inftySeminorm"
	case W1inftyNorm:
		return "W1infty"
	}
	return fmt.Sprintf("NormType(%d)", int(nt))
}

// NormOptions carries the optional knobs of the norm computation: the
// exponent of the Lp and W1p families (default 2) and a nonnegative weight,
// either one component applied to all of the space's components or one per
// component.
type NormOptions struct {
	Exponent float64
	Weight   Function
}

func (nt NormType) needsGradient() bool {
	switch nt {
	case H1Seminorm, HdivSeminorm, H1Norm, W1pSeminorm, W1pNorm,
		W1inftySeminorm, W1inftyNorm:
		return true
	}
	return false
}

// IntegrateDifference computes, cell by cell, the requested norm of the
// difference between the analytic field and the discrete field. The returned
// vector has one entry per cell; non-owned cells stay zero. Derivative-based
// norms require a GradientFunction.
func IntegrateDifference(sp *fespace.LagrangeSpace, u utils.Vector,
	exact Function, quadOrder int, nt NormType, opts ...NormOptions) (cellwise utils.Vector) {
	checkComponents(exact, sp.NComp)
	var o NormOptions
	if len(opts) != 0 {
		o = opts[0]
	}
	if o.Exponent == 0 {
		o.Exponent = 2
	}
	var grad GradientFunction
	if nt.needsGradient() {
		g, ok := exact.(GradientFunction)
		if !ok {
			panic(fmt.Errorf("%v norm needs the analytic gradient of the exact field", nt))
		}
		grad = g
	}
	var (
		m   = sp.M
		nc  = sp.NComp
		dim = m.Dim
		p   = o.Exponent
		cv  = fespace.NewCellValues(sp, quadOrder)
	)
	if nt == HdivSeminorm && nc < dim {
		panic(fmt.Errorf("Hdiv seminorm needs at least %d components, have %d", dim, nc))
	}
	if o.Weight != nil {
		if nw := o.Weight.NumComponents(); nw != 1 && nw != nc {
			panic(fmt.Errorf("weight has %d components, need 1 or %d", nw, nc))
		}
	}
	cellwise = utils.NewVector(m.K)
	var (
		e  = make([]float64, nc)
		ge = make([][]float64, nc)
		wc = make([]float64, nc)
	)
	for c := range ge {
		ge[c] = make([]float64, dim)
	}
	for k := 0; k < m.K; k++ {
		if !m.Owned(k) {
			continue
		}
		cv.SetCell(k)
		nodes := sp.CellNodes[k]
		var valSum, gradSum, maxVal, maxGrad float64
		for q := 0; q < cv.Cub.Nq(); q++ {
			var (
				x   = cv.Points[q]
				jxw = cv.JxW[q]
				ev  = exact.Value(x)
			)
			for c := 0; c < nc; c++ {
				e[c] = ev[c]
				wc[c] = 1
			}
			if o.Weight != nil {
				wv := o.Weight.Value(x)
				for c := 0; c < nc; c++ {
					if len(wv) == 1 {
						wc[c] = wv[0]
					} else {
						wc[c] = wv[c]
					}
				}
			}
			var gv [][]float64
			if grad != nil {
				gv = grad.Gradient(x)
				for c := 0; c < nc; c++ {
					copy(ge[c], gv[c])
				}
			}
			for n, node := range nodes {
				phi := cv.Phi.At(q, n)
				for c := 0; c < nc; c++ {
					dof := sp.DoF(node, c)
					e[c] -= phi * u.AtVec(dof)
					if grad != nil {
						for d := 0; d < dim; d++ {
							ge[c][d] -= cv.GradPhi[q][n][d] * u.AtVec(dof)
						}
					}
				}
			}
			switch nt {
			case Mean:
				for c := 0; c < nc; c++ {
					valSum += e[c] * wc[c] * jxw
				}
			case L1Norm:
				for c := 0; c < nc; c++ {
					valSum += math.Abs(e[c]) * wc[c] * jxw
				}
			case L2Norm, H1Norm:
				for c := 0; c < nc; c++ {
					valSum += e[c] * e[c] * wc[c] * jxw
				}
			case LpNorm, W1pNorm:
				for c := 0; c < nc; c++ {
					valSum += math.Pow(math.Abs(e[c]), p) * wc[c] * jxw
				}
			case LinftyNorm, W1inftyNorm:
				for c := 0; c < nc; c++ {
					maxVal = math.Max(maxVal, math.Abs(e[c])*wc[c])
				}
			case HdivSeminorm:
				var div float64
				for c := 0; c < dim; c++ {
					div += ge[c][c] * math.Sqrt(wc[c])
				}
				gradSum += div * div * jxw
			}
			switch nt {
			case H1Seminorm, H1Norm:
				for c := 0; c < nc; c++ {
					gradSum += gradNormSq(ge[c]) * wc[c] * jxw
				}
			case W1pSeminorm, W1pNorm:
				for c := 0; c < nc; c++ {
					gradSum += math.Pow(math.Sqrt(gradNormSq(ge[c])), p) * wc[c] * jxw
				}
			case W1inftySeminorm, W1inftyNorm:
				for c := 0; c < nc; c++ {
					maxGrad = math.Max(maxGrad, math.Sqrt(gradNormSq(ge[c]))*wc[c])
				}
			}
		}
		var eK float64
		switch nt {
		case Mean, L1Norm:
			eK = valSum
		case L2Norm:
			eK = math.Sqrt(valSum)
		case LpNorm:
			eK = math.Pow(valSum, 1/p)
		case LinftyNorm:
			eK = maxVal
		case H1Seminorm, HdivSeminorm:
			eK = math.Sqrt(gradSum)
		case H1Norm:
			eK = math.Sqrt(valSum + gradSum)
		case W1pSeminorm:
			eK = math.Pow(gradSum, 1/p)
		case W1pNorm:
			eK = math.Pow(valSum+gradSum, 1/p)
		case W1inftySeminorm:
			eK = maxGrad
		case W1inftyNorm:
			eK = maxVal + maxGrad
		default:
			panic(fmt.Errorf("unknown norm type %d", int(nt)))
		}
		cellwise.Set(k, eK)
	}
	return
}

func gradNormSq(g []float64) (s float64) {
	for _, v := range g {
		s += v * v
	}
	return
}

// ComputeGlobalError aggregates cellwise norm contributions into the global
// norm: plain sums for Mean and L1, root-sum-of-squares for the L2 family,
// p-th root of the p-th power sum for the Lp family, the maximum for the
// infinity seminorms. The cellwise W1infty norm mixes a maximum with a sum
// and has no consistent global aggregation.
func ComputeGlobalError(cellwise utils.Vector, nt NormType, opts ...NormOptions) (E float64) {
	var o NormOptions
	if len(opts) != 0 {
		o = opts[0]
	}
	if o.Exponent == 0 {
		o.Exponent = 2
	}
	switch nt {
	case Mean, L1Norm:
		for _, v := range cellwise.DataP {
			E += v
		}
	case L2Norm, H1Seminorm, HdivSeminorm, H1Norm:
		for _, v := range cellwise.DataP {
			E += v * v
		}
		E = math.Sqrt(E)
	case LpNorm, W1pSeminorm, W1pNorm:
		for _, v := range cellwise.DataP {
			E += math.Pow(math.Abs(v), o.Exponent)
		}
		E = math.Pow(E, 1/o.Exponent)
	case LinftyNorm, W1inftySeminorm:
		for _, v := range cellwise.DataP {
			E = math.Max(E, v)
		}
	case W1inftyNorm:
		panic("the cellwise W1infty norm does not aggregate globally; " +
			"aggregate LinftyNorm and W1inftySeminorm separately")
	default:
		panic(fmt.Errorf("unknown norm type %d", int(nt)))
	}
	return
}
