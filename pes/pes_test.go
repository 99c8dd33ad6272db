/*
 * pes_test.go, part of matprop.
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

package pes

import (
	"math"
	"testing"

	"github.com/rmera/matprop"
	"gonum.org/v1/gonum/mat"
)

//dimer puts two sites a distance d apart along x in a box big enough that
//no periodic image interacts under the default cutoff.
func dimer(d float64, Te *testing.T) *matprop.Structure {
	cell := mat.NewDense(3, 3, []float64{50, 0, 0, 0, 50, 0, 0, 0, 50})
	coords := mat.NewDense(2, 3, []float64{0, 0, 0, d, 0, 0})
	s, err := matprop.NewStructure(cell, coords, []string{"Ar", "Ar"})
	if err != nil {
		Te.Fatal(err)
	}
	return s
}

//TestDimer checks the Lennard-Jones energy and forces against the known
//minimum: at r = 2^(1/6) sigma the pair energy is -epsilon and the forces
//vanish.
func TestDimer(Te *testing.T) {
	const eps, sigma = 1.0, 1.0
	lj, err := NewLennardJones(eps, sigma, 0)
	if err != nil {
		Te.Fatal(err)
	}
	rmin := math.Pow(2, 1.0/6.0) * sigma
	out, err := lj.Evaluate(dimer(rmin, Te))
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(out.Energy()+eps) > 1e-10 {
		Te.Errorf("wanted the minimum energy -%g, got %g", eps, out.Energy())
	}
	if out.MaxForce() > 1e-9 {
		Te.Errorf("forces at the minimum should vanish, got %g", out.MaxForce())
	}
	//closer in, the pair repels: equal and opposite forces along x
	out, err = lj.Evaluate(dimer(0.9*rmin, Te))
	if err != nil {
		Te.Fatal(err)
	}
	x0, y0, z0 := out.Force(0)
	x1, y1, z1 := out.Force(1)
	if x0 >= 0 || x1 <= 0 {
		Te.Errorf("compressed dimer should push its sites apart, got %g and %g", x0, x1)
	}
	if math.Abs(x0+x1) > 1e-10 || y0 != 0 || z0 != 0 || y1 != 0 || z1 != 0 {
		Te.Error("dimer forces are not equal and opposite along the axis")
	}
	if p := out.Pressure(); p <= 0 {
		Te.Errorf("a compressed dimer should be under positive pressure, got %g", p)
	}
}

//TestForcesMatchGradient checks the analytic forces against a numerical
//derivative of the energy.
func TestForcesMatchGradient(Te *testing.T) {
	lj, err := NewLennardJones(0.8, 1.1, 0)
	if err != nil {
		Te.Fatal(err)
	}
	s := dimer(1.3, Te)
	out, err := lj.Evaluate(s)
	if err != nil {
		Te.Fatal(err)
	}
	const h = 1e-6
	for axis := 0; axis < 3; axis++ {
		var d [3]float64
		d[axis] = h
		plus, err := s.Displaced(1, d)
		if err != nil {
			Te.Fatal(err)
		}
		d[axis] = -h
		minus, err := s.Displaced(1, d)
		if err != nil {
			Te.Fatal(err)
		}
		ep, err := lj.Evaluate(plus)
		if err != nil {
			Te.Fatal(err)
		}
		em, err := lj.Evaluate(minus)
		if err != nil {
			Te.Fatal(err)
		}
		numeric := -(ep.Energy() - em.Energy()) / (2 * h)
		fx, fy, fz := out.Force(1)
		analytic := [3]float64{fx, fy, fz}[axis]
		if math.Abs(numeric-analytic) > 1e-5 {
			Te.Errorf("axis %d: numeric force %g vs analytic %g", axis, numeric, analytic)
		}
	}
}

//TestPeriodicImages checks that a site interacts with images across the
//boundary: one atom near a cell wall must feel its own images' partner.
func TestPeriodicImages(Te *testing.T) {
	lj, err := NewLennardJones(1, 1, 0)
	if err != nil {
		Te.Fatal(err)
	}
	//a 2.0 box with one atom: the atom sees its own images at distance 2.0,
	//within the 2.5 cutoff, so the energy is nonzero
	cell := mat.NewDense(3, 3, []float64{2, 0, 0, 0, 2, 0, 0, 0, 2})
	coords := mat.NewDense(1, 3, []float64{0, 0, 0})
	s, err := matprop.NewStructure(cell, coords, []string{"Ar"})
	if err != nil {
		Te.Fatal(err)
	}
	out, err := lj.Evaluate(s)
	if err != nil {
		Te.Fatal(err)
	}
	if out.Energy() == 0 {
		Te.Error("periodic self-images were ignored")
	}
	//by symmetry the net force on the single site vanishes
	if out.MaxForce() > 1e-10 {
		Te.Errorf("symmetric image shell should give zero net force, got %g", out.MaxForce())
	}
}

//TestFunc checks the function adapter.
func TestFunc(Te *testing.T) {
	called := false
	var f Func = func(s *matprop.Structure) (*matprop.EnergyForcesStress, error) {
		called = true
		forces := mat.NewDense(s.Len(), 3, nil)
		stress := mat.NewDense(3, 3, nil)
		return matprop.MakeEFS(1.0, forces, stress, s.Len())
	}
	var ev matprop.Evaluator = f
	out, err := ev.Evaluate(dimer(2, Te))
	if err != nil {
		Te.Fatal(err)
	}
	if !called || out.Energy() != 1 {
		Te.Error("the adapter did not call the wrapped function")
	}
}
