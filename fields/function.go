package fields

import "fmt"

// Function is the capability every engine accepts for an analytic field:
// point evaluation plus the component count. Any type carrying these two
// methods can drive interpolation, projection, boundary constraints and error
// integration.
type Function interface {
	Value(x []float64) []float64
	NumComponents() int
}

// GradientFunction extends Function with an analytic gradient, one Dim-length
// slice per component. Required by the derivative-based norms.
type GradientFunction interface {
	Function
	Gradient(x []float64) [][]float64
}

type scalarFunc struct {
	f func(x []float64) float64
	g func(x []float64) []float64
}

func (sf scalarFunc) Value(x []float64) []float64 { return []float64{sf.f(x)} }
func (sf scalarFunc) NumComponents() int          { return 1 }
func (sf scalarFunc) Gradient(x []float64) [][]float64 {
	if sf.g == nil {
		panic("scalar function was built without a gradient")
	}
	return [][]float64{sf.g(x)}
}

// Scalar wraps a plain evaluation closure as a one-component Function.
func Scalar(f func(x []float64) float64) Function {
	return scalarFunc{f: f}
}

// ScalarWithGradient additionally carries the analytic gradient, enabling the
// derivative-based norms.
func ScalarWithGradient(f func(x []float64) float64,
	g func(x []float64) []float64) GradientFunction {
	return scalarFunc{f: f, g: g}
}

type vectorFunc struct {
	nc int
	f  func(x []float64) []float64
	g  func(x []float64) [][]float64
}

func (vf vectorFunc) Value(x []float64) []float64 { return vf.f(x) }
func (vf vectorFunc) NumComponents() int          { return vf.nc }
func (vf vectorFunc) Gradient(x []float64) [][]float64 {
	if vf.g == nil {
		panic("vector function was built without a gradient")
	}
	return vf.g(x)
}

// VectorValued wraps an evaluation closure returning nc components.
func VectorValued(nc int, f func(x []float64) []float64) Function {
	return vectorFunc{nc: nc, f: f}
}

func VectorWithGradient(nc int, f func(x []float64) []float64,
	g func(x []float64) [][]float64) GradientFunction {
	return vectorFunc{nc: nc, f: f, g: g}
}

type constantFunc []float64

func (cf constantFunc) Value(x []float64) []float64 {
	return append([]float64(nil), cf...)
}
func (cf constantFunc) NumComponents() int { return len(cf) }
func (cf constantFunc) Gradient(x []float64) (g [][]float64) {
	g = make([][]float64, len(cf))
	for c := range g {
		g[c] = make([]float64, len(x))
	}
	return
}

// Constant builds a constant field from its component values.
func Constant(vals ...float64) GradientFunction {
	return constantFunc(append([]float64(nil), vals...))
}

// ComponentMask selects a subset of a space's components; nil selects all.
type ComponentMask []bool

func (cm ComponentMask) Selected(c int) bool { return cm == nil || cm[c] }

func checkComponents(f Function, want int) {
	if have := f.NumComponents(); have != want {
		panic(fmt.Errorf("function has %d components, space needs %d", have, want))
	}
}
