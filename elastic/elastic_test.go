/*
 * elastic_test.go, part of matprop.
 *
 *
 * Copyright 2026 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 * matprop is developed at the Universidad de Santiago de Chile
 * (USACH).
 *
 */

package elastic

import (
	"math"
	"testing"

	"github.com/rmera/matprop"
	"gonum.org/v1/gonum/mat"
)

const latA = 4.0

func testStructure(Te *testing.T) *matprop.Structure {
	cell := mat.NewDense(3, 3, []float64{latA, 0, 0, 0, latA, 0, 0, 0, latA})
	coords := mat.NewDense(1, 3, []float64{0, 0, 0})
	s, err := matprop.NewStructure(cell, coords, []string{"Cu"})
	if err != nil {
		Te.Fatal(err)
	}
	return s
}

//linearElastic is a synthetic PES obeying Hooke's law exactly for a known
//isotropic elastic tensor. It recovers the applied strain from the cell of
//the structure it is given, so it only works on deformations of the cubic
//reference cell. quad, if nonzero, adds a quadratic term to the stress to
//give the linear fits a residual.
type linearElastic struct {
	c    *mat.Dense //6x6
	quad float64
}

func (L *linearElastic) Evaluate(s *matprop.Structure) (*matprop.EnergyForcesStress, error) {
	cell := s.Cell()
	//cell = ref * (I+eps)^T with ref = latA*I, so eps = cell^T/latA - I
	eps := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := cell.At(j, i) / latA
			if i == j {
				v--
			}
			eps.Set(i, j, v)
		}
	}
	ev := matprop.StrainVoigt(eps)
	var sv [6]float64
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			sv[i] += L.c.At(i, j) * ev[j]
		}
		sv[i] += L.quad * ev[i] * ev[i]
	}
	stress := mat.NewDense(3, 3, nil)
	pairs := [6][2]int{{0, 0}, {1, 1}, {2, 2}, {1, 2}, {0, 2}, {0, 1}}
	for k, p := range pairs {
		stress.Set(p[0], p[1], sv[k])
		stress.Set(p[1], p[0], sv[k])
	}
	forces := mat.NewDense(s.Len(), 3, nil)
	return matprop.MakeEFS(0, forces, stress, s.Len())
}

//isotropicC returns an isotropic elastic tensor with C11=100, C12=60 and
//the consequent C44=20.
func isotropicC() *mat.Dense {
	c := mat.NewDense(6, 6, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				c.Set(i, j, 100)
			} else {
				c.Set(i, j, 60)
			}
		}
	}
	for i := 3; i < 6; i++ {
		c.Set(i, i, 20)
	}
	return c
}

//TestRecoversElasticTensor checks that the regression recovers a known
//elastic tensor from synthetic stress-strain samples, along with the
//closed-form moduli. For an isotropic medium the Voigt and Reuss bounds
//coincide, so the Hill averages are exact.
func TestRecoversElasticTensor(Te *testing.T) {
	s := testStructure(Te)
	o := DefaultOptions()
	o.RelaxFirst = false
	c, err := New(&linearElastic{c: isotropicC()}, nil, o)
	if err != nil {
		Te.Fatal(err)
	}
	res, err := c.Calc(s)
	if err != nil {
		Te.Fatal(err)
	}
	ct, ok := res.Tensor("elastic_tensor")
	if !ok {
		Te.Fatal("no elastic_tensor in the result")
	}
	want := isotropicC()
	if !mat.EqualApprox(ct, want, 1e-6) {
		Te.Errorf("recovered tensor differs from the input:\n%v", mat.Formatted(ct))
	}
	checks := map[string]float64{
		"bulk_modulus_vrh":  220.0 / 3,
		"shear_modulus_vrh": 20,
		"youngs_modulus":    55,
		"poisson_ratio":     0.375,
	}
	for name, want := range checks {
		got, ok := res.Scalar(name)
		if !ok {
			Te.Fatalf("no %s in the result", name)
		}
		if math.Abs(got-want) > 1e-6 {
			Te.Errorf("%s: wanted %g, got %g", name, want, got)
		}
	}
	if !res.Reliable() {
		Te.Error("an exact linear medium should give a reliable fit")
	}
	if res.Samples() != 8*6 {
		Te.Errorf("wanted %d samples, got %d", 8*6, res.Samples())
	}
}

//TestResidualFlag checks that a stress response with a nonlinear term
//lowers the Reliable flag without failing the calculation.
func TestResidualFlag(Te *testing.T) {
	s := testStructure(Te)
	o := DefaultOptions()
	o.RelaxFirst = false
	o.ResidualTol = 1e-12
	c, err := New(&linearElastic{c: isotropicC(), quad: 1000}, nil, o)
	if err != nil {
		Te.Fatal(err)
	}
	res, err := c.Calc(s)
	if err != nil {
		Te.Fatal(err)
	}
	if res.Reliable() {
		Te.Error("a visibly nonlinear response was flagged reliable")
	}
	if _, ok := res.Scalar("residuals_sum"); !ok {
		Te.Error("no residuals_sum in the result")
	}
	//keys must be present regardless of fit quality
	if _, ok := res.Tensor("elastic_tensor"); !ok {
		Te.Error("no elastic_tensor in the low-confidence result")
	}
}

func TestNewRejectsBadOptions(Te *testing.T) {
	o := DefaultOptions()
	o.RelaxFirst = false
	o.Strains = nil
	if _, err := New(&linearElastic{c: isotropicC()}, nil, o); err == nil {
		Te.Error("empty strain list was accepted")
	}
	if _, err := New(nil, nil); err == nil {
		Te.Error("nil evaluator was accepted")
	}
	o2 := DefaultOptions()
	if _, err := New(&linearElastic{c: isotropicC()}, nil, o2); err == nil {
		Te.Error("pre-relaxation without a relaxer was accepted")
	}
}
