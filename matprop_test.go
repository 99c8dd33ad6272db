/*
 * matprop_test.go, part of matprop.
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
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

//cubic returns a 2-site structure in a cubic box of side a.
func cubic(a float64, Te *testing.T) *Structure {
	cell := mat.NewDense(3, 3, []float64{a, 0, 0, 0, a, 0, 0, 0, a})
	coords := mat.NewDense(2, 3, []float64{0, 0, 0, a / 2, a / 2, a / 2})
	s, err := NewStructure(cell, coords, []string{"Cu", "Cu"})
	if err != nil {
		Te.Fatal(err)
	}
	return s
}

//TestZeroStrain checks the identity law: straining with the zero tensor
//must return a structure equal to the input.
func TestZeroStrain(Te *testing.T) {
	s := cubic(3.6, Te)
	s2, err := s.Strained(mat.NewDense(3, 3, nil))
	if err != nil {
		Te.Fatal(err)
	}
	if !mat.EqualApprox(s.Cell(), s2.Cell(), 1e-14) {
		Te.Error("zero strain changed the cell")
	}
	if !mat.EqualApprox(s.Coords(), s2.Coords(), 1e-14) {
		Te.Error("zero strain changed the coordinates")
	}
	for i := 0; i < s.Len(); i++ {
		if s.Symbol(i) != s2.Symbol(i) {
			Te.Error("zero strain changed the species")
		}
	}
}

func TestVolumeScaling(Te *testing.T) {
	s := cubic(3.6, Te)
	v := s.Volume()
	s2, err := s.VolumeScaled(1.1)
	if err != nil {
		Te.Fatal(err)
	}
	if got := s2.Volume(); math.Abs(got-1.1*v) > 1e-10 {
		Te.Errorf("volume scaling by 1.1: wanted %g, got %g", 1.1*v, got)
	}
	//a uniaxial strain also changes the volume predictably
	s3, err := s.Strained(VoigtStrain(0, 0.01))
	if err != nil {
		Te.Fatal(err)
	}
	if got := s3.Volume(); math.Abs(got-1.01*v) > 1e-8 {
		Te.Errorf("1%% xx strain: wanted volume %g, got %g", 1.01*v, got)
	}
}

//TestVoigt checks the strain/stress Voigt conventions: engineering shear
//strains carry the factor 2, stresses do not.
func TestVoigt(Te *testing.T) {
	for dir := 0; dir < 6; dir++ {
		eps := VoigtStrain(dir, 0.02)
		sv := StrainVoigt(eps)
		for k, v := range sv {
			want := 0.0
			if k == dir {
				want = 0.02
			}
			if math.Abs(v-want) > 1e-14 {
				Te.Errorf("strain dir %d, component %d: wanted %g, got %g", dir, k, want, v)
			}
		}
	}
	stress := mat.NewDense(3, 3, []float64{1, 6, 5, 6, 2, 4, 5, 4, 3})
	sv := StressVoigt(stress)
	for k, want := range [6]float64{1, 2, 3, 4, 5, 6} {
		if math.Abs(sv[k]-want) > 1e-14 {
			Te.Errorf("stress Voigt component %d: wanted %g, got %g", k, want, sv[k])
		}
	}
}

func TestMakeEFS(Te *testing.T) {
	forces := mat.NewDense(2, 3, []float64{1, 0, 0, -1, 0, 0})
	good := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	efs, err := MakeEFS(-1.5, forces, good, 2)
	if err != nil {
		Te.Fatal(err)
	}
	if efs.MaxForce() != 1 {
		Te.Errorf("wanted max force 1, got %g", efs.MaxForce())
	}
	if p := efs.Pressure(); math.Abs(p+1) > 1e-14 {
		Te.Errorf("unit tensile stress: wanted pressure -1, got %g", p)
	}
	//an asymmetric stress tensor must be rejected
	bad := mat.NewDense(3, 3, []float64{1, 0.5, 0, 0, 1, 0, 0, 0, 1})
	if _, err := MakeEFS(0, forces, bad, 2); err == nil {
		Te.Error("asymmetric stress tensor was accepted")
	}
	//as must a force/site count mismatch
	if _, err := MakeEFS(0, forces, good, 3); err == nil {
		Te.Error("force row count mismatch was accepted")
	}
}

func TestMassesUnsupported(Te *testing.T) {
	cell := mat.NewDense(3, 3, []float64{3, 0, 0, 0, 3, 0, 0, 0, 3})
	coords := mat.NewDense(1, 3, []float64{0, 0, 0})
	s, err := NewStructure(cell, coords, []string{"Xx"})
	if err != nil {
		Te.Fatal(err)
	}
	_, err = s.Masses()
	if err == nil {
		Te.Fatal("unknown species went unnoticed")
	}
	u, ok := err.(*UnsupportedStructure)
	if !ok {
		Te.Fatalf("wanted *UnsupportedStructure, got %T", err)
	}
	if u.Symbol != "Xx" {
		Te.Errorf("wanted the offending symbol Xx, got %q", u.Symbol)
	}
}

func TestResultKeysStable(Te *testing.T) {
	s := cubic(3.6, Te)
	r := NewResult(s)
	r.SetScalar("b", 2)
	r.SetScalar("a", 1)
	r.SetVector("v", []float64{1, 2})
	keys := r.Keys()
	if len(keys) != 3 {
		Te.Fatalf("wanted 3 keys, got %d", len(keys))
	}
	//sorted, so callers can rely on a stable listing
	if keys[0] != "a" || keys[1] != "b" || keys[2] != "v" {
		Te.Errorf("keys not sorted: %v", keys)
	}
	if _, ok := r.Scalar("missing"); ok {
		Te.Error("got a scalar that was never set")
	}
	if !r.Converged() || !r.Reliable() {
		Te.Error("fresh results must start converged and reliable")
	}
}
