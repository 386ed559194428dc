package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type ProjectionParameters struct {
	Title           string                                `yaml:"Title"`
	Mesh            string                                `yaml:"Mesh"` // unitsquare, lshape or unitcube
	MeshSize        int                                   `yaml:"MeshSize"`
	PolynomialOrder int                                   `yaml:"PolynomialOrder"`
	Components      int                                   `yaml:"Components"`
	QuadratureOrder int                                   `yaml:"QuadratureOrder"`
	Refinements     int                                   `yaml:"Refinements"`
	Norm            string                                `yaml:"Norm"`
	Exponent        float64                               `yaml:"Exponent"`
	BCs             map[string]map[int]map[string]float64 `yaml:"BCs"` // First key is BC name/type, second is the boundary tag
}

func (pp *ProjectionParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, pp)
}

func (pp *ProjectionParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", pp.Title)
	fmt.Printf("[%s]\t\t= Mesh\n", pp.Mesh)
	fmt.Printf("[%d]\t\t\t\t= Mesh Size\n", pp.MeshSize)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", pp.PolynomialOrder)
	fmt.Printf("[%d]\t\t\t\t= Components\n", pp.Components)
	fmt.Printf("[%d]\t\t\t\t= Refinements\n", pp.Refinements)
	fmt.Printf("[%s]\t\t\t= Norm\n", pp.Norm)
	keys := make([]string, len(pp.BCs))
	i := 0
	for k := range pp.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, pp.BCs[key])
	}
}
