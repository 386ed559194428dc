/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"math"
	"os"

	"github.com/notargets/gofea/InputParameters"
	"github.com/notargets/gofea/constraint"
	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/fields"
	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/utils"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

type ModelProject struct {
	ICFile  string
	Profile bool
}

// ProjectCmd represents the project command
var ProjectCmd = &cobra.Command{
	Use:   "project",
	Short: "L2 projection convergence study on a refined mesh sequence",
	Long: `
Projects a manufactured smooth field onto a Lagrange space over a sequence of
uniformly refined meshes and reports the error norm and observed convergence
rate per refinement level,

gofea project -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("project called")
		mp := &ModelProject{}
		if mp.ICFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
			panic(err)
		}
		mp.Profile, _ = cmd.Flags().GetBool("profile")
		pp := processProjectInput(mp)
		if mp.Profile {
			defer profile.Start(profile.CPUProfile).Stop()
		}
		RunProject(pp)
	},
}

func processProjectInput(mp *ModelProject) (pp *InputParameters.ProjectionParameters) {
	var (
		err error
	)
	if len(mp.ICFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputParametersFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Convergence Study"
Mesh: unitsquare # Can be "lshape" or "unitcube"
MeshSize: 4
PolynomialOrder: 2
Components: 1
Refinements: 3
Norm: L2
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(mp.ICFile); err != nil {
		panic(err)
	}
	pp = &InputParameters.ProjectionParameters{}
	if err = pp.Parse(data); err != nil {
		panic(err)
	}
	return
}

func init() {
	rootCmd.AddCommand(ProjectCmd)
	ProjectCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for input parameters like:\n\t- Mesh\n\t- PolynomialOrder\n\t- Norm")
	ProjectCmd.Flags().BoolP("profile", "p", false, "write a CPU profile of the run")
}

func RunProject(pp *InputParameters.ProjectionParameters) {
	pp.Print()
	var (
		nc = pp.Components
		nt = ParseNormType(pp.Norm)
	)
	if nc == 0 {
		nc = 1
	}
	var (
		f     = manufacturedField(meshDim(pp.Mesh), nc)
		prevE float64
	)
	for level := 0; level <= pp.Refinements; level++ {
		var (
			n  = pp.MeshSize << uint(level)
			m  = buildMesh(pp.Mesh, n)
			sp = fespace.NewLagrangeSpace(m, pp.PolynomialOrder, nc)
			qo = pp.QuadratureOrder
		)
		if qo == 0 {
			qo = 2*pp.PolynomialOrder + 2
		}
		v := fields.Project(sp, f, fields.ProjectOptions{QuadOrder: qo})
		applyDirichlet(sp, pp, v)
		cellwise := fields.IntegrateDifference(sp, v, f, qo, nt,
			fields.NormOptions{Exponent: pp.Exponent})
		E := fields.ComputeGlobalError(cellwise, nt,
			fields.NormOptions{Exponent: pp.Exponent})
		if level == 0 {
			fmt.Printf("level %d: cells %8d, DoFs %8d, error %12.6e\n",
				level, m.K, sp.NumDoFs(), E)
		} else {
			fmt.Printf("level %d: cells %8d, DoFs %8d, error %12.6e, rate %5.2f\n",
				level, m.K, sp.NumDoFs(), E, math.Log2(prevE/E))
		}
		prevE = E
	}
}

// applyDirichlet overrides the projected boundary values with the Dirichlet
// data from the input file, if any, exercising the shared constraint set the
// way a solver driving this library would.
func applyDirichlet(sp *fespace.LagrangeSpace, pp *InputParameters.ProjectionParameters, v utils.Vector) {
	dir, ok := pp.BCs["Dirichlet"]
	if !ok {
		return
	}
	var (
		cs   = constraint.New()
		bmap = make(map[int]fields.Function)
	)
	for tag, params := range dir {
		vals := make([]float64, sp.NComp)
		for c := range vals {
			vals[c] = params["Value"]
		}
		bmap[tag] = fields.Constant(vals...)
	}
	fields.InterpolateBoundaryValues(sp, bmap, nil, cs)
	cs.Close()
	cs.Distribute(v)
}

func ParseNormType(name string) fields.NormType {
	switch name {
	case "Mean":
		return fields.Mean
	case "L1":
		return fields.L1Norm
	case "L2", "":
		return fields.L2Norm
	case "Lp":
		return fields.LpNorm
	case "Linfty":
		return fields.LinftyNorm
	case "H1Seminorm":
		return fields.H1Seminorm
	case "HdivSeminorm":
		return fields.HdivSeminorm
	case "H1":
		return fields.H1Norm
	case "W1pSeminorm":
		return fields.W1pSeminorm
	case "W1p":
		return fields.W1pNorm
	case "W1inftySeminorm":
		return fields.W1inftySeminorm
	}
	panic(fmt.Errorf("unknown norm %q", name))
}

func meshDim(name string) int {
	if name == "unitcube" {
		return 3
	}
	return 2
}

func buildMesh(name string, n int) *mesh.Mesh {
	switch name {
	case "unitsquare", "":
		return mesh.UnitSquare(n)
	case "lshape":
		return mesh.LShape(n)
	case "unitcube":
		return mesh.UnitCube(n)
	}
	panic(fmt.Errorf("unknown mesh %q", name))
}

// manufacturedField is a smooth product-of-sines field with its analytic
// gradient, component c scaled by c+1.
func manufacturedField(dim, nc int) fields.GradientFunction {
	val := func(x []float64) (v []float64) {
		prod := 1.0
		for d := 0; d < dim; d++ {
			prod *= math.Sin(math.Pi * x[d])
		}
		v = make([]float64, nc)
		for c := range v {
			v[c] = float64(c+1) * prod
		}
		return
	}
	grad := func(x []float64) (g [][]float64) {
		g = make([][]float64, nc)
		for c := range g {
			g[c] = make([]float64, dim)
			for d := 0; d < dim; d++ {
				gd := float64(c+1) * math.Pi
				for e := 0; e < dim; e++ {
					if e == d {
						gd *= math.Cos(math.Pi * x[e])
					} else {
						gd *= math.Sin(math.Pi * x[e])
					}
				}
				g[c][d] = gd
			}
		}
		return
	}
	return fields.VectorWithGradient(nc, val, grad)
}
