/*
 * efs.go, part of matprop.
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

package matprop

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//StressSymTol is the largest asymmetry |s_ij - s_ji| accepted when building
//an EnergyForcesStress. Larger asymmetries mean the evaluator is broken.
const StressSymTol = 1e-5

//EnergyForcesStress is the result of one PES evaluation: a scalar energy,
//one force vector per site and the symmetric 3x3 stress tensor. Units are
//whatever the evaluator uses; matprop only requires that they be consistent
//across evaluations.
type EnergyForcesStress struct {
	energy float64
	forces *mat.Dense
	stress *mat.SymDense
}

//MakeEFS builds an EnergyForcesStress, copying forces and stress. The
//stress may arrive slightly asymmetric from numerical noise; it is
//symmetrized, but an asymmetry above StressSymTol is an error. The number
//of force rows must match nsites.
func MakeEFS(energy float64, forces mat.Matrix, stress mat.Matrix, nsites int) (*EnergyForcesStress, error) {
	if forces == nil || stress == nil {
		return nil, Error{"nil forces or stress given", []string{"MakeEFS"}, true}
	}
	fr, fc := forces.Dims()
	if fc != 3 {
		return nil, Error{fmt.Sprintf("forces must have 3 columns, got %d", fc), []string{"MakeEFS"}, true}
	}
	if fr != nsites {
		return nil, Error{fmt.Sprintf("%d force rows for %d sites", fr, nsites), []string{"MakeEFS"}, true}
	}
	sr, sc := stress.Dims()
	if sr != 3 || sc != 3 {
		return nil, Error{fmt.Sprintf("stress must be 3x3, got %dx%d", sr, sc), []string{"MakeEFS"}, true}
	}
	sym := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			if d := math.Abs(stress.At(i, j) - stress.At(j, i)); d > StressSymTol {
				return nil, Error{fmt.Sprintf("stress tensor asymmetric: |s%d%d-s%d%d| = %g", i, j, j, i, d), []string{"MakeEFS"}, true}
			}
			sym.SetSym(i, j, 0.5*(stress.At(i, j)+stress.At(j, i)))
		}
	}
	efs := new(EnergyForcesStress)
	efs.energy = energy
	efs.forces = mat.DenseCopyOf(forces)
	efs.stress = sym
	return efs, nil
}

//Energy returns the total energy.
func (E *EnergyForcesStress) Energy() float64 {
	return E.energy
}

//Forces returns a copy of the Nx3 per-site forces.
func (E *EnergyForcesStress) Forces() *mat.Dense {
	return mat.DenseCopyOf(E.forces)
}

//Force returns the force vector on the ith site.
//Panics if out of range.
func (E *EnergyForcesStress) Force(i int) (x, y, z float64) {
	r, _ := E.forces.Dims()
	if i < 0 || i >= r {
		panic(ErrSiteOutOfRange)
	}
	return E.forces.At(i, 0), E.forces.At(i, 1), E.forces.At(i, 2)
}

//Sites returns the number of per-site force vectors.
func (E *EnergyForcesStress) Sites() int {
	r, _ := E.forces.Dims()
	return r
}

//MaxForce returns the largest force norm over all sites, the usual
//convergence measure for relaxations.
func (E *EnergyForcesStress) MaxForce() float64 {
	r, _ := E.forces.Dims()
	var ret float64
	for i := 0; i < r; i++ {
		x, y, z := E.Force(i)
		if n := math.Sqrt(x*x + y*y + z*z); n > ret {
			ret = n
		}
	}
	return ret
}

//Stress returns a copy of the symmetric stress tensor.
func (E *EnergyForcesStress) Stress() *mat.SymDense {
	ret := mat.NewSymDense(3, nil)
	ret.CopySym(E.stress)
	return ret
}

//StressVoigt returns the stress tensor as a Voigt 6-vector,
//in the order xx, yy, zz, yz, xz, xy.
func (E *EnergyForcesStress) StressVoigt() [6]float64 {
	return StressVoigt(E.stress)
}

//Pressure returns minus one third of the stress trace, i.e. the hydrostatic
//pressure under the tension-positive sign convention.
func (E *EnergyForcesStress) Pressure() float64 {
	return -(E.stress.At(0, 0) + E.stress.At(1, 1) + E.stress.At(2, 2)) / 3
}

//String returns a short human readable description.
func (E *EnergyForcesStress) String() string {
	return fmt.Sprintf("E: %8.5f, max|F|: %8.5f, p: %8.5f", E.Energy(), E.MaxForce(), E.Pressure())
}
