/*
 * deformation.go, part of matprop.
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

//Package sample generates systematic structural perturbations and collects
//the PES response at each of them. The deformation sets are deterministic
//and ordered: for a given configuration the same sequence is produced on
//every call, and the fitting engines index the evaluated samples
//positionally. Evaluations are independent and can be dispatched
//concurrently; Eval provides the barrier before fitting.
package sample

import (
	"fmt"
	"strings"

	"github.com/rmera/matprop"
)

//Kind tags how a base structure was perturbed.
type Kind int

const (
	//Strain is one of the six independent Voigt strain states at some
	//engineering-strain magnitude.
	Strain Kind = iota
	//Displacement is a single-site Cartesian displacement along one axis.
	Displacement
	//Volume is an isotropic scaling of the cell volume.
	Volume
)

func (k Kind) String() string {
	switch k {
	case Strain:
		return "strain"
	case Displacement:
		return "disp"
	case Volume:
		return "volume"
	}
	return "unknown"
}

//Deformation describes how a base structure is to be perturbed. Which
//fields are meaningful depends on Kind: Dir for Strain (Voigt direction,
//0-5), Site and Axis for Displacement, none besides Magnitude for Volume.
//For Strain and Displacement the Magnitude is the (signed) strain value or
//displacement length; for Volume it is the scale factor.
type Deformation struct {
	Kind      Kind
	Dir       int
	Site      int
	Axis      int
	Magnitude float64
}

//Apply realizes the deformation on the given base structure, returning the
//perturbed structure. The base structure is never modified.
func (D *Deformation) Apply(s *matprop.Structure) (*matprop.Structure, error) {
	if s == nil {
		return nil, Error{message: "nil structure given", index: -1, deco: []string{"Apply"}, critical: true}
	}
	switch D.Kind {
	case Strain:
		return s.Strained(matprop.VoigtStrain(D.Dir, D.Magnitude))
	case Displacement:
		var d [3]float64
		d[D.Axis] = D.Magnitude
		return s.Displaced(D.Site, d)
	case Volume:
		return s.VolumeScaled(D.Magnitude)
	}
	return nil, Error{message: fmt.Sprintf("unknown deformation kind %d", D.Kind), index: -1, deco: []string{"Apply"}, critical: true}
}

//Tag returns a one-line, parseable description of the deformation, used to
//label archived samples.
func (D *Deformation) Tag() string {
	switch D.Kind {
	case Strain:
		return fmt.Sprintf("strain dir %d mag %g", D.Dir, D.Magnitude)
	case Displacement:
		return fmt.Sprintf("disp site %d axis %d mag %g", D.Site, D.Axis, D.Magnitude)
	case Volume:
		return fmt.Sprintf("volume mag %g", D.Magnitude)
	}
	return "unknown"
}

//ParseTag rebuilds a Deformation from the output of Tag.
func ParseTag(tag string) (*Deformation, error) {
	f := strings.Fields(tag)
	D := new(Deformation)
	var err error
	wrong := Error{message: "malformed deformation tag: " + tag, index: -1, deco: []string{"ParseTag"}, critical: true}
	switch {
	case len(f) == 5 && f[0] == "strain" && f[1] == "dir" && f[3] == "mag":
		D.Kind = Strain
		_, err = fmt.Sscanf(f[2]+" "+f[4], "%d %g", &D.Dir, &D.Magnitude)
	case len(f) == 7 && f[0] == "disp" && f[1] == "site" && f[3] == "axis" && f[5] == "mag":
		D.Kind = Displacement
		_, err = fmt.Sscanf(f[2]+" "+f[4]+" "+f[6], "%d %d %g", &D.Site, &D.Axis, &D.Magnitude)
	case len(f) == 3 && f[0] == "volume" && f[1] == "mag":
		D.Kind = Volume
		_, err = fmt.Sscanf(f[2], "%g", &D.Magnitude)
	default:
		return nil, wrong
	}
	if err != nil {
		return nil, wrong
	}
	return D, nil
}

//Sample pairs a Deformation with the PES response of the perturbed
//structure. Samples are owned by this package while a calculation runs and
//consumed, not retained, by the fitting engines.
type Sample struct {
	Def Deformation
	EFS *matprop.EnergyForcesStress
}

//StrainSet returns the deformation sequence for an elasticity calculation:
//for each of the six Voigt directions, each given magnitude applied at minus
//and plus. Magnitudes must be positive; at least one is needed so that every
//direction gets its minimum of two points.
func StrainSet(magnitudes []float64) ([]Deformation, error) {
	if len(magnitudes) == 0 {
		return nil, Error{message: "need at least one strain magnitude", index: -1, deco: []string{"StrainSet"}, critical: true}
	}
	for _, m := range magnitudes {
		if m <= 0 {
			return nil, Error{message: fmt.Sprintf("strain magnitudes must be positive, got %g", m), index: -1, deco: []string{"StrainSet"}, critical: true}
		}
	}
	ret := make([]Deformation, 0, 12*len(magnitudes))
	for dir := 0; dir < 6; dir++ {
		for _, m := range magnitudes {
			ret = append(ret, Deformation{Kind: Strain, Dir: dir, Magnitude: -m})
			ret = append(ret, Deformation{Kind: Strain, Dir: dir, Magnitude: m})
		}
	}
	return ret, nil
}

//DisplacementSet returns the deformation sequence for a phonon calculation
//on the given structure: every site, every Cartesian axis, displaced by
//disp. With central true each degree of freedom gets a minus and a plus
//displacement (central differences); otherwise only the plus one, and the
//force constants are built by forward difference against the equilibrium
//forces. The unreduced central set is the correctness baseline.
func DisplacementSet(s *matprop.Structure, disp float64, central bool) ([]Deformation, error) {
	if s == nil {
		return nil, Error{message: "nil structure given", index: -1, deco: []string{"DisplacementSet"}, critical: true}
	}
	if disp <= 0 {
		return nil, Error{message: fmt.Sprintf("displacement must be positive, got %g", disp), index: -1, deco: []string{"DisplacementSet"}, critical: true}
	}
	per := 1
	if central {
		per = 2
	}
	ret := make([]Deformation, 0, 3*per*s.Len())
	for site := 0; site < s.Len(); site++ {
		for axis := 0; axis < 3; axis++ {
			if central {
				ret = append(ret, Deformation{Kind: Displacement, Site: site, Axis: axis, Magnitude: -disp})
			}
			ret = append(ret, Deformation{Kind: Displacement, Site: site, Axis: axis, Magnitude: disp})
		}
	}
	return ret, nil
}

//VolumeSet returns the deformation sequence for an equation-of-state scan:
//n isotropic volume scalings evenly covering [1-span, 1+span]. A fit needs
//at least 4 points and span must leave all volumes positive.
func VolumeSet(n int, span float64) ([]Deformation, error) {
	if n < 4 {
		return nil, Error{message: fmt.Sprintf("need at least 4 volumes for an EOS, got %d", n), index: -1, deco: []string{"VolumeSet"}, critical: true}
	}
	if span <= 0 || span >= 1 {
		return nil, Error{message: fmt.Sprintf("volume range must be in (0,1), got %g", span), index: -1, deco: []string{"VolumeSet"}, critical: true}
	}
	ret := make([]Deformation, 0, n)
	step := 2 * span / float64(n-1)
	for i := 0; i < n; i++ {
		ret = append(ret, Deformation{Kind: Volume, Magnitude: 1 - span + float64(i)*step})
	}
	return ret, nil
}
