package utils

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

func (I Index) Contains(val int) bool {
	for _, ind := range I {
		if ind == val {
			return true
		}
	}
	return false
}

func POW(x float64, p int) (y float64) {
	y = 1
	for i := 0; i < p; i++ {
		y *= x
	}
	return
}
