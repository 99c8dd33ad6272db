/*
 * phonon.go, part of matprop.
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

//Package phonon computes harmonic vibrational properties at the Gamma
//point: every site is displaced along every Cartesian axis, the force
//response gives the force-constant matrix by finite differences, and the
//eigenvalues of the mass-weighted dynamical matrix give the vibrational
//frequencies. Imaginary modes, the signature of a dynamically unstable
//structure, are reported as negative frequencies.
package phonon

import (
	"fmt"
	"math"
	"runtime"
	"sort"

	"github.com/rmera/matprop"
	"github.com/rmera/matprop/relax"
	"github.com/rmera/matprop/sample"
	"gonum.org/v1/gonum/mat"
)

//imagTol separates numerically-zero eigenvalues from true imaginary modes.
const imagTol = 1e-8

//Options contains the options for a phonon calculation.
type Options struct {
	Disp        float64 //displacement magnitude for the finite differences
	ForwardDiff bool    //use forward differences against the equilibrium forces, halving the sample count
	ASR         bool    //enforce the acoustic sum rule on the force constants
	RelaxFirst  bool    //relax the structure before displacing sites
	FTol        float64 //force tolerance for the pre-relaxation
	MaxSteps    int     //step budget for the pre-relaxation
	Cpus        int     //concurrent PES evaluations
	Record      string  //name of an ssf archive to record the samples to. Nothing is recorded if empty.

	Stop <-chan struct{} //close it to cancel the run between sample sets. A nil channel never cancels.

	//Temperature scan for the harmonic thermal properties. A TStep of
	//zero (or less) disables the scan. The frequencies are in whatever
	//units the evaluator produces, so the caller supplies the
	//conversion: FreqToEnergy turns one native frequency unit into the
	//quantum hbar*omega, and Boltzmann is kB in those same energy units
	//per temperature unit. With both left at 1, temperatures are in
	//units of energy over kB.
	TMin         float64
	TMax         float64
	TStep        float64
	FreqToEnergy float64
	Boltzmann    float64
}

//DefaultOptions returns reasonable options for a phonon calculation:
//central differences with a 0.015 displacement, the acoustic sum rule
//enforced, and a thermal scan from 0 to 1000 in steps of 10, with both
//unit factors at 1.
func DefaultOptions() *Options {
	r := new(Options)
	r.Disp = 0.015
	r.ASR = true
	r.RelaxFirst = true
	r.FTol = 0.1
	r.MaxSteps = 500
	r.Cpus = runtime.NumCPU()
	r.TMin = 0
	r.TMax = 1000
	r.TStep = 10
	r.FreqToEnergy = 1
	r.Boltzmann = 1
	return r
}

//Calc is the phonon property calculator.
type Calc struct {
	ev  matprop.Evaluator
	rlx matprop.Relaxer
	o   *Options
}

//New returns a phonon calculator for the given evaluator. The relaxer may
//be nil if Options.RelaxFirst is false.
func New(ev matprop.Evaluator, rlx matprop.Relaxer, options ...*Options) (*Calc, error) {
	if ev == nil {
		return nil, Error{"nil evaluator given", []string{"New"}, true}
	}
	var o *Options
	if len(options) == 0 || options[0] == nil {
		o = DefaultOptions()
	} else {
		o = options[0]
	}
	if o.Disp <= 0 {
		return nil, Error{fmt.Sprintf("displacement must be positive, got %g", o.Disp), []string{"New"}, true}
	}
	if o.RelaxFirst && rlx == nil {
		return nil, Error{"pre-relaxation requested but no relaxer given", []string{"New"}, true}
	}
	if o.TStep > 0 {
		if o.TMin < 0 || o.TMax < o.TMin {
			return nil, Error{fmt.Sprintf("bad temperature scan [%g,%g]", o.TMin, o.TMax), []string{"New"}, true}
		}
		if o.FreqToEnergy <= 0 || o.Boltzmann <= 0 {
			return nil, Error{"the unit factors for the thermal scan must be positive", []string{"New"}, true}
		}
	}
	return &Calc{ev: ev, rlx: rlx, o: o}, nil
}

//Calc computes the Gamma-point phonons of the structure. The returned
//result carries the vector key "frequencies" (3N values, ascending, in the
//evaluator's native units, imaginary modes negative), the scalar key
//"n_imaginary", the tensor key "force_constants" (3Nx3N), and the
//(possibly relaxed) equilibrium structure. When a temperature scan is
//requested it also carries the vector keys "temperatures", "free_energy",
//"entropy" and "heat_capacity", summed over the real modes of the
//spectrum. Unknown chemical symbols make mass weighting impossible and
//surface as *matprop.UnsupportedStructure.
func (C *Calc) Calc(s *matprop.Structure) (*matprop.Result, error) {
	if s == nil {
		return nil, Error{"nil structure given", []string{"Calc"}, true}
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
	masses, err := s.Masses()
	if err != nil {
		return nil, decorate(err, "Calc")
	}
	defs, err := sample.DisplacementSet(s, C.o.Disp, !C.o.ForwardDiff)
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
	var base *matprop.EnergyForcesStress
	if C.o.ForwardDiff {
		base, err = C.ev.Evaluate(s)
		if err != nil {
			return nil, decorate(err, "Calc")
		}
	}
	phi := C.forceConstants(s.Len(), samples, base)
	if C.o.ASR {
		acousticSumRule(phi, s.Len())
	}
	d := dynamical(phi, masses)
	var eig mat.EigenSym
	if ok := eig.Factorize(d, false); !ok {
		return nil, Error{"eigendecomposition of the dynamical matrix failed", []string{"Calc"}, true}
	}
	vals := eig.Values(nil)
	freqs := make([]float64, len(vals))
	nimag := 0
	for i, v := range vals {
		if v < -imagTol {
			freqs[i] = -math.Sqrt(-v)
			nimag++
		} else if v < 0 {
			freqs[i] = 0
		} else {
			freqs[i] = math.Sqrt(v)
		}
	}
	sort.Float64s(freqs)
	ret := matprop.NewResult(s)
	ret.SetVector("frequencies", freqs)
	ret.SetScalar("n_imaginary", float64(nimag))
	ret.SetTensor("force_constants", phi)
	if C.o.TStep > 0 {
		ts, fe, ent, cv := thermal(freqs, C.o)
		ret.SetVector("temperatures", ts)
		ret.SetVector("free_energy", fe)
		ret.SetVector("entropy", ent)
		ret.SetVector("heat_capacity", cv)
	}
	ret.SetConverged(converged)
	ret.SetSteps(steps)
	n := len(samples)
	if base != nil {
		n++
	}
	ret.SetSamples(n)
	return ret, nil
}

//forceConstants builds the symmetrized 3Nx3N force-constant matrix from
//the displacement samples, which arrive in the sample.DisplacementSet
//order: site-major, then axis, minus before plus when central.
func (C *Calc) forceConstants(nsites int, samples []*sample.Sample, base *matprop.EnergyForcesStress) *mat.Dense {
	n := 3 * nsites
	phi := mat.NewDense(n, n, nil)
	per := 2
	if base != nil {
		per = 1
	}
	for site := 0; site < nsites; site++ {
		for axis := 0; axis < 3; axis++ {
			col := 3*site + axis
			k := (3*site + axis) * per
			var minus, plus *matprop.EnergyForcesStress
			if base != nil {
				minus = base
				plus = samples[k].EFS
			} else {
				minus = samples[k].EFS
				plus = samples[k+1].EFS
			}
			h := samples[k].Def.Magnitude
			if h < 0 {
				h = -h
			}
			den := 2 * h
			if base != nil {
				den = h
			}
			for i := 0; i < nsites; i++ {
				px, py, pz := plus.Force(i)
				mx, my, mz := minus.Force(i)
				phi.Set(3*i, col, -(px-mx)/den)
				phi.Set(3*i+1, col, -(py-my)/den)
				phi.Set(3*i+2, col, -(pz-mz)/den)
			}
		}
	}
	//finite differences leave a small asymmetry
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := 0.5 * (phi.At(i, j) + phi.At(j, i))
			phi.Set(i, j, v)
			phi.Set(j, i, v)
		}
	}
	return phi
}

//acousticSumRule corrects the diagonal blocks so every row of 3x3 blocks
//sums to zero, which pins the three translational modes at zero frequency.
func acousticSumRule(phi *mat.Dense, nsites int) {
	for i := 0; i < nsites; i++ {
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				var sum float64
				for j := 0; j < nsites; j++ {
					sum += phi.At(3*i+a, 3*j+b)
				}
				phi.Set(3*i+a, 3*i+b, phi.At(3*i+a, 3*i+b)-sum)
			}
		}
	}
}

//dynamical mass-weights the force constants into the symmetric dynamical
//matrix D = Phi_ij / sqrt(m_i m_j).
func dynamical(phi *mat.Dense, masses []float64) *mat.SymDense {
	n := 3 * len(masses)
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			w := math.Sqrt(masses[i/3] * masses[j/3])
			d.SetSym(i, j, phi.At(i, j)/w)
		}
	}
	return d
}

//thermal sums the harmonic (Bose-Einstein) thermal functions of the
//spectrum over the temperature scan. Zero and imaginary modes carry no
//thermal weight and are skipped. Helmholtz free energy includes the
//zero-point term, so at zero temperature it equals the zero-point energy
//while entropy and heat capacity vanish.
func thermal(freqs []float64, o *Options) (ts, fe, ent, cv []float64) {
	for t := o.TMin; t <= o.TMax+1e-9*o.TStep; t += o.TStep {
		ts = append(ts, t)
		var f, s, c float64
		for _, v := range freqs {
			if v <= 0 {
				continue
			}
			e := o.FreqToEnergy * v
			f += e / 2
			if t <= 0 {
				continue
			}
			x := e / (o.Boltzmann * t)
			em := math.Exp(-x) //the e^{-x} forms stay finite at large x
			om := -math.Expm1(-x)
			f += o.Boltzmann * t * math.Log1p(-em)
			s += o.Boltzmann * (x*em/om - math.Log1p(-em))
			c += o.Boltzmann * x * x * em / (om * om)
		}
		fe = append(fe, f)
		ent = append(ent, s)
		cv = append(cv, c)
	}
	return ts, fe, ent, cv
}

//decorate adds the caller to the trail when the error supports it.
func decorate(err error, caller string) error {
	if d, ok := err.(matprop.ErrorDecorator); ok {
		d.Decorate(caller)
		return d
	}
	return err
}

//Error is the error type for the phonon package.
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
