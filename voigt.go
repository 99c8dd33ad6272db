/*
 * voigt.go, part of matprop.
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

//Voigt bookkeeping: symmetric 3x3 tensors reduced to 6-vectors in the
//order xx, yy, zz, yz, xz, xy. Strain vectors use the engineering
//convention, where the shear components carry a factor 2, so that
//stress = C * strain holds componentwise with the 6x6 elastic tensor.

package matprop

import "gonum.org/v1/gonum/mat"

//voigtPairs maps each Voigt index to its tensor index pair.
var voigtPairs = [6][2]int{{0, 0}, {1, 1}, {2, 2}, {1, 2}, {0, 2}, {0, 1}}

//VoigtStrain returns the 3x3 strain tensor for the dir-th independent
//strain state (0-5, Voigt order) at the given magnitude. The magnitude is
//the engineering-strain value: for the shear states the two off-diagonal
//tensor entries are mag/2 each. Panics if dir is out of range.
func VoigtStrain(dir int, mag float64) *mat.Dense {
	if dir < 0 || dir > 5 {
		panic(ErrVoigtOutOfRange)
	}
	eps := mat.NewDense(3, 3, nil)
	i, j := voigtPairs[dir][0], voigtPairs[dir][1]
	if i == j {
		eps.Set(i, j, mag)
	} else {
		eps.Set(i, j, mag/2)
		eps.Set(j, i, mag/2)
	}
	return eps
}

//StrainVoigt reduces a 3x3 strain tensor to its engineering Voigt
//6-vector: the shear components are doubled.
func StrainVoigt(eps mat.Matrix) [6]float64 {
	var ret [6]float64
	for k, p := range voigtPairs {
		v := 0.5 * (eps.At(p[0], p[1]) + eps.At(p[1], p[0]))
		if p[0] != p[1] {
			v *= 2
		}
		ret[k] = v
	}
	return ret
}

//StressVoigt reduces a symmetric 3x3 stress tensor to its Voigt 6-vector.
//Unlike strain, stress carries no factor 2 on the shear components.
func StressVoigt(stress mat.Matrix) [6]float64 {
	var ret [6]float64
	for k, p := range voigtPairs {
		ret[k] = 0.5 * (stress.At(p[0], p[1]) + stress.At(p[1], p[0]))
	}
	return ret
}
