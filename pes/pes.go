/*
 * pes.go, part of matprop.
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

//Package pes provides adapters and reference implementations of the
//potential-energy-surface contract. The Lennard-Jones potential here is
//not meant for production property calculations; it exists so calculators
//can be exercised and tested against an analytic, periodic PES without an
//external code.
package pes

import (
	"fmt"
	"math"

	"github.com/rmera/matprop"
	"gonum.org/v1/gonum/mat"
)

//Func adapts a plain function to the matprop.Evaluator interface, in the
//manner of http.HandlerFunc.
type Func func(*matprop.Structure) (*matprop.EnergyForcesStress, error)

//Evaluate calls the wrapped function.
func (f Func) Evaluate(s *matprop.Structure) (*matprop.EnergyForcesStress, error) {
	return f(s)
}

//LennardJones is a periodic 12-6 Lennard-Jones potential with a sharp
//cutoff. All sites interact with the same parameters regardless of their
//chemical symbol. The zero value is not usable; get one from NewLennardJones.
type LennardJones struct {
	epsilon float64
	sigma   float64
	cutoff  float64
}

//NewLennardJones returns a Lennard-Jones PES with the given well depth and
//size parameter. A non-positive cutoff gets the customary 2.5*sigma.
func NewLennardJones(epsilon, sigma, cutoff float64) (*LennardJones, error) {
	if epsilon <= 0 || sigma <= 0 {
		return nil, Error{fmt.Sprintf("epsilon and sigma must be positive, got %g and %g", epsilon, sigma), []string{"NewLennardJones"}, true}
	}
	if cutoff <= 0 {
		cutoff = 2.5 * sigma
	}
	return &LennardJones{epsilon: epsilon, sigma: sigma, cutoff: cutoff}, nil
}

//Evaluate computes the energy, per-site forces and virial stress of the
//structure under periodic boundary conditions. The stress follows the
//tension-positive convention. LennardJones keeps no state, so Evaluate is
//safe for concurrent use.
func (L *LennardJones) Evaluate(s *matprop.Structure) (*matprop.EnergyForcesStress, error) {
	if s == nil {
		return nil, Error{"nil structure given", []string{"Evaluate"}, true}
	}
	n := s.Len()
	cell := s.Cell()
	vol := s.Volume()
	//enough periodic images to cover the cutoff in any direction
	shifts := imageShifts(cell, L.cutoff)
	var energy float64
	forces := mat.NewDense(n, 3, nil)
	stress := mat.NewDense(3, 3, nil)
	cut2 := L.cutoff * L.cutoff
	for i := 0; i < n; i++ {
		xi, yi, zi := s.Coord(i)
		for j := 0; j < n; j++ {
			xj, yj, zj := s.Coord(j)
			for _, sh := range shifts {
				if i == j && sh == [3]float64{} {
					continue
				}
				dx := xj + sh[0] - xi
				dy := yj + sh[1] - yi
				dz := zj + sh[2] - zi
				r2 := dx*dx + dy*dy + dz*dz
				if r2 > cut2 || r2 == 0 {
					continue
				}
				sr2 := L.sigma * L.sigma / r2
				sr6 := sr2 * sr2 * sr2
				sr12 := sr6 * sr6
				//half of everything, each pair is visited from both ends
				energy += 2 * L.epsilon * (sr12 - sr6)
				//dU/dr * 1/r
				dudrOverR := 24 * L.epsilon * (sr6 - 2*sr12) / r2
				forces.Set(i, 0, forces.At(i, 0)+dudrOverR*dx)
				forces.Set(i, 1, forces.At(i, 1)+dudrOverR*dy)
				forces.Set(i, 2, forces.At(i, 2)+dudrOverR*dz)
				d := [3]float64{dx, dy, dz}
				for a := 0; a < 3; a++ {
					for b := 0; b < 3; b++ {
						stress.Set(a, b, stress.At(a, b)+0.5*dudrOverR*d[a]*d[b]/vol)
					}
				}
			}
		}
	}
	return matprop.MakeEFS(energy, forces, stress, n)
}

//imageShifts returns the Cartesian lattice translations whose images can
//fall within the cutoff, the zero shift included.
func imageShifts(cell *mat.Dense, cutoff float64) [][3]float64 {
	reach := make([]int, 3)
	for k := 0; k < 3; k++ {
		l := math.Sqrt(cell.At(k, 0)*cell.At(k, 0) + cell.At(k, 1)*cell.At(k, 1) + cell.At(k, 2)*cell.At(k, 2))
		reach[k] = int(math.Ceil(cutoff/l)) + 1
	}
	var ret [][3]float64
	for na := -reach[0]; na <= reach[0]; na++ {
		for nb := -reach[1]; nb <= reach[1]; nb++ {
			for nc := -reach[2]; nc <= reach[2]; nc++ {
				var sh [3]float64
				for k := 0; k < 3; k++ {
					sh[k] = float64(na)*cell.At(0, k) + float64(nb)*cell.At(1, k) + float64(nc)*cell.At(2, k)
				}
				ret = append(ret, sh)
			}
		}
	}
	return ret
}

//Error is the error type for the pes package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string { return err.message }

//Decorate will add the dec string to the decoration slice of strings of the
//error, and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error can be ignored.
func (err Error) Critical() bool { return err.critical }
