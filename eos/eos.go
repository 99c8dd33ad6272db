/*
 * eos.go, part of matprop.
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

//Package eos fits a Birch-Murnaghan equation of state to an energy-volume
//scan: the structure's volume is scaled over a symmetric range, the energy
//of each scaled structure is obtained from the PES, and the four EOS
//parameters (equilibrium volume and energy, bulk modulus and its pressure
//derivative) are fitted by Nelder-Mead minimization of the squared error
//starting from a parabolic estimate.
package eos

import (
	"fmt"
	"math"
	"runtime"

	"github.com/rmera/matprop"
	"github.com/rmera/matprop/relax"
	"github.com/rmera/matprop/sample"
	"gonum.org/v1/gonum/optimize"
)

//Options contains the options for an equation-of-state calculation.
type Options struct {
	NVolumes   int     //number of volumes in the scan
	Range      float64 //half-width of the volume scan, as a fraction of the initial volume
	RelaxFirst bool    //relax the structure before scanning
	FTol       float64 //force tolerance for the pre-relaxation
	MaxSteps   int     //step budget for the pre-relaxation
	Cpus       int     //concurrent PES evaluations
	Record     string  //name of an ssf archive to record the samples to. Nothing is recorded if empty.

	Stop <-chan struct{} //close it to cancel the run between sample sets. A nil channel never cancels.
}

//DefaultOptions returns reasonable options for an equation-of-state
//calculation: 11 volumes within 10% of the initial one.
func DefaultOptions() *Options {
	r := new(Options)
	r.NVolumes = 11
	r.Range = 0.1
	r.RelaxFirst = true
	r.FTol = 0.1
	r.MaxSteps = 500
	r.Cpus = runtime.NumCPU()
	return r
}

//Calc is the equation-of-state property calculator.
type Calc struct {
	ev  matprop.Evaluator
	rlx matprop.Relaxer
	o   *Options
}

//New returns an equation-of-state calculator for the given evaluator.
//The relaxer may be nil if Options.RelaxFirst is false.
func New(ev matprop.Evaluator, rlx matprop.Relaxer, options ...*Options) (*Calc, error) {
	if ev == nil {
		return nil, Error{message: "nil evaluator given", deco: []string{"New"}, critical: true}
	}
	var o *Options
	if len(options) == 0 || options[0] == nil {
		o = DefaultOptions()
	} else {
		o = options[0]
	}
	if o.NVolumes < 4 {
		return nil, Error{message: fmt.Sprintf("a Birch-Murnaghan fit has 4 parameters, %d volumes are not enough", o.NVolumes), insufficient: true, deco: []string{"New"}, critical: true}
	}
	if o.Range <= 0 || o.Range >= 1 {
		return nil, Error{message: fmt.Sprintf("volume range must be in (0,1), got %g", o.Range), deco: []string{"New"}, critical: true}
	}
	if o.RelaxFirst && rlx == nil {
		return nil, Error{message: "pre-relaxation requested but no relaxer given", deco: []string{"New"}, critical: true}
	}
	return &Calc{ev: ev, rlx: rlx, o: o}, nil
}

//Calc fits the equation of state for the structure. The returned result
//carries the scalar keys "v0", "e0", "b0" and "b0_prime", the vector keys
//"volumes" and "energies" with the raw scan, and the (possibly relaxed)
//reference structure. The bulk modulus is in the evaluator's own
//energy/volume units.
func (C *Calc) Calc(s *matprop.Structure) (*matprop.Result, error) {
	if s == nil {
		return nil, Error{message: "nil structure given", deco: []string{"Calc"}, critical: true}
	}
	converged := true
	steps := 0
	var err error
	if C.o.RelaxFirst {
		s, converged, steps, err = relax.Equilibrate(s, C.ev, C.rlx, C.o.FTol, 0, C.o.MaxSteps)
		if err != nil {
			return nil, decorate(err, "Calc")
		}
	}
	defs, err := sample.VolumeSet(C.o.NVolumes, C.o.Range)
	if err != nil {
		return nil, decorate(err, "Calc")
	}
	so := sample.DefaultOptions()
	so.Cpus = C.o.Cpus
	so.Record = C.o.Record
	so.Stop = C.o.Stop
	samples, err := sample.Eval(s, defs, C.ev, so)
	if err != nil {
		return nil, decorate(err, "Calc")
	}
	v0 := s.Volume()
	vols := make([]float64, len(samples))
	energies := make([]float64, len(samples))
	for i, v := range samples {
		vols[i] = v0 * v.Def.Magnitude
		energies[i] = v.EFS.Energy()
	}
	p, residual, err := Fit(vols, energies)
	if err != nil {
		return nil, decorate(err, "Calc")
	}
	ret := matprop.NewResult(s)
	ret.SetScalar("v0", p[0])
	ret.SetScalar("e0", p[1])
	ret.SetScalar("b0", p[2])
	ret.SetScalar("b0_prime", p[3])
	ret.SetVector("volumes", vols)
	ret.SetVector("energies", energies)
	ret.SetResidual(residual)
	ret.SetConverged(converged)
	ret.SetSteps(steps)
	ret.SetSamples(len(samples))
	return ret, nil
}

//BirchMurnaghan returns the third-order Birch-Murnaghan energy at volume v
//for parameters v0, e0, b0 and b0p.
func BirchMurnaghan(v, v0, e0, b0, b0p float64) float64 {
	eta := math.Pow(v0/v, 2.0/3.0)
	return e0 + 9*v0*b0/16*((eta-1)*(eta-1)*(eta-1)*b0p+(eta-1)*(eta-1)*(6-4*eta))
}

//Fit fits a third-order Birch-Murnaghan curve to the given energy-volume
//points. It returns the parameters [v0, e0, b0, b0_prime] and the summed
//squared residual of the fit. Fewer than 4 points is an error whose
//Insufficient method returns true; a fit that does not converge is an
//error whose Insufficient method returns false.
func Fit(vols, energies []float64) ([4]float64, float64, error) {
	var ret [4]float64
	if len(vols) != len(energies) {
		return ret, 0, Error{message: fmt.Sprintf("got %d volumes but %d energies", len(vols), len(energies)), deco: []string{"Fit"}, critical: true}
	}
	if len(vols) < 4 {
		return ret, 0, Error{message: fmt.Sprintf("a Birch-Murnaghan fit has 4 parameters, %d points are not enough", len(vols)), insufficient: true, deco: []string{"Fit"}, critical: true}
	}
	sse := func(x []float64) float64 {
		var s float64
		for i, v := range vols {
			d := energies[i] - BirchMurnaghan(v, x[0], x[1], x[2], x[3])
			s += d * d
		}
		return s
	}
	p := optimize.Problem{Func: sse}
	res, err := optimize.Minimize(p, guess(vols, energies), nil, &optimize.NelderMead{})
	if err != nil {
		return ret, 0, Error{message: "Birch-Murnaghan fit did not converge: " + err.Error(), deco: []string{"Fit"}, critical: true}
	}
	if res.X[0] <= 0 {
		return ret, 0, Error{message: fmt.Sprintf("Birch-Murnaghan fit converged to the unphysical equilibrium volume %g", res.X[0]), deco: []string{"Fit"}, critical: true}
	}
	copy(ret[:], res.X)
	return ret, res.F, nil
}

//guess estimates the EOS parameters from a parabola through the scan. The
//vertex gives v0 and e0, its curvature gives b0, and b0_prime starts at
//the usual 4.
func guess(vols, energies []float64) []float64 {
	a, b, c := parabola(vols, energies)
	v0 := -b / (2 * c)
	minV, minE := vols[0], energies[0]
	var maxV float64
	for i, v := range vols {
		if energies[i] < minE {
			minE = energies[i]
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if c <= 0 || v0 <= 0 || v0 > 2*maxV {
		//no convex parabola through the points, start from the raw minimum
		return []float64{minV, minE, 0.5, 4}
	}
	return []float64{v0, a + b*v0 + c*v0*v0, 2 * c * v0, 4}
}

//parabola least-squares fits e = a + b*v + c*v*v by solving the normal
//equations directly.
func parabola(vols, energies []float64) (a, b, c float64) {
	n := float64(len(vols))
	var sv, sv2, sv3, sv4, se, sev, sev2 float64
	for i, v := range vols {
		e := energies[i]
		sv += v
		sv2 += v * v
		sv3 += v * v * v
		sv4 += v * v * v * v
		se += e
		sev += e * v
		sev2 += e * v * v
	}
	//Cramer on the 3x3 normal matrix
	det := n*(sv2*sv4-sv3*sv3) - sv*(sv*sv4-sv2*sv3) + sv2*(sv*sv3-sv2*sv2)
	if det == 0 {
		return 0, 0, 0
	}
	a = (se*(sv2*sv4-sv3*sv3) - sv*(sev*sv4-sev2*sv3) + sv2*(sev*sv3-sev2*sv2)) / det
	b = (n*(sev*sv4-sev2*sv3) - se*(sv*sv4-sv2*sv3) + sv2*(sv*sev2-sv2*sev)) / det
	c = (n*(sv2*sev2-sv3*sev) - sv*(sv*sev2-sev*sv2) + se*(sv*sv3-sv2*sv2)) / det
	return a, b, c
}

//decorate adds the caller to the trail when the error supports it.
func decorate(err error, caller string) error {
	if d, ok := err.(matprop.ErrorDecorator); ok {
		d.Decorate(caller)
		return d
	}
	return err
}

//Error is the error type for the eos package. Insufficient distinguishes a
//scan with too few points from a fit that failed to converge.
type Error struct {
	message      string
	insufficient bool
	deco         []string
	critical     bool
}

//Error returns a string with an error message.
func (err Error) Error() string { return err.message }

//Insufficient returns true if the error was caused by a scan with too few
//points to constrain the fit.
func (err Error) Insufficient() bool { return err.insufficient }

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
