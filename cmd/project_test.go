package cmd

import (
	"testing"

	"github.com/magiconair/properties/assert"
	"github.com/notargets/gofea/InputParameters"
	"github.com/notargets/gofea/fields"
)

func TestProjectInput(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Title: Test Case
Mesh: lshape
MeshSize: 4
PolynomialOrder: 2
Components: 1
Refinements: 2
Norm: H1
BCs:
  Dirichlet:
      7:
         Value: 0.5
`)
	var input InputParameters.ProjectionParameters
	if err = input.Parse(fileInput); err != nil {
		panic(err)
	}
	// Check Dirichlet BC on the reentrant corner tag
	assert.Equal(t, input.BCs["Dirichlet"][7]["Value"], 0.5)
	input.Print()
	assert.Equal(t, input.PolynomialOrder, 2)
	assert.Equal(t, ParseNormType(input.Norm), fields.H1Norm)
}
