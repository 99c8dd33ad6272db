/*
 * relax_test.go, part of matprop.
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

package relax

import (
	"testing"

	"github.com/rmera/matprop"
	"gonum.org/v1/gonum/mat"
)

func testStructure(Te *testing.T) *matprop.Structure {
	cell := mat.NewDense(3, 3, []float64{5, 0, 0, 0, 5, 0, 0, 0, 5})
	coords := mat.NewDense(1, 3, []float64{0, 0, 0})
	s, err := matprop.NewStructure(cell, coords, []string{"Fe"})
	if err != nil {
		Te.Fatal(err)
	}
	return s
}

type flatEval struct{}

func (f flatEval) Evaluate(s *matprop.Structure) (*matprop.EnergyForcesStress, error) {
	forces := mat.NewDense(s.Len(), 3, nil)
	stress := mat.NewDense(3, 3, nil)
	return matprop.MakeEFS(-2.5, forces, stress, s.Len())
}

//identityRelaxer reports convergence immediately, without moving anything.
type identityRelaxer struct{}

func (r identityRelaxer) Relax(s *matprop.Structure, ev matprop.Evaluator, ftol, stol float64, maxSteps int) (*matprop.Structure, bool, int, error) {
	return s, true, 1, nil
}

//stubbornRelaxer burns its whole step budget and never converges.
type stubbornRelaxer struct{}

func (r stubbornRelaxer) Relax(s *matprop.Structure, ev matprop.Evaluator, ftol, stol float64, maxSteps int) (*matprop.Structure, bool, int, error) {
	return s, false, maxSteps, nil
}

func TestCalc(Te *testing.T) {
	s := testStructure(Te)
	c, err := New(flatEval{}, identityRelaxer{})
	if err != nil {
		Te.Fatal(err)
	}
	res, err := c.Calc(s)
	if err != nil {
		Te.Fatal(err)
	}
	if e, _ := res.Scalar("energy"); e != -2.5 {
		Te.Errorf("wanted energy -2.5, got %g", e)
	}
	if mf, _ := res.Scalar("max_force"); mf != 0 {
		Te.Errorf("wanted zero max force, got %g", mf)
	}
	if !res.Converged() {
		Te.Error("an immediately-converged relaxation was flagged non-converged")
	}
	if res.Structure() == nil {
		Te.Error("no final structure for chaining")
	}
}

//TestNonConvergence checks the best-effort policy: a relaxer that never
//converges gives a result with Converged() == false, not an error.
func TestNonConvergence(Te *testing.T) {
	s := testStructure(Te)
	c, err := New(flatEval{}, stubbornRelaxer{})
	if err != nil {
		Te.Fatal(err)
	}
	res, err := c.Calc(s)
	if err != nil {
		Te.Fatalf("non-convergence should not be an error, got: %s", err.Error())
	}
	if res.Converged() {
		Te.Error("a stubborn relaxer was flagged converged")
	}
	if res.Steps() != DefaultOptions().MaxSteps {
		Te.Errorf("wanted the full step budget spent, got %d", res.Steps())
	}
	//the keys are there regardless of convergence
	for _, k := range []string{"energy", "max_force"} {
		if _, ok := res.Scalar(k); !ok {
			Te.Errorf("no %s in the non-converged result", k)
		}
	}
}

func TestEquilibrate(Te *testing.T) {
	s := testStructure(Te)
	if _, _, _, err := Equilibrate(s, flatEval{}, nil, 0.1, 0, 100); err == nil {
		Te.Error("a nil relaxer was accepted")
	}
	final, converged, steps, err := Equilibrate(s, flatEval{}, stubbornRelaxer{}, 0.1, 0, 100)
	if err != nil {
		Te.Fatal(err)
	}
	if converged || steps != 100 {
		Te.Errorf("wanted non-converged after 100 steps, got converged=%v steps=%d", converged, steps)
	}
	if final == nil {
		Te.Error("no best-effort structure returned")
	}
}
