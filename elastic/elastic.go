/*
 * elastic.go, part of matprop.
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

//Package elastic computes elastic properties: the structure is strained
//along the six independent Voigt directions, the stress response of each
//strained structure is obtained from the PES, and Hooke's law is recovered
//by linear regression per tensor component. From the resulting 6x6 elastic
//tensor the package derives the Voigt-Reuss-Hill bulk and shear moduli,
//Young's modulus and the Poisson ratio.
package elastic

import (
	"fmt"
	"runtime"

	"github.com/rmera/matprop"
	"github.com/rmera/matprop/relax"
	"github.com/rmera/matprop/sample"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//Options contains the options for an elasticity calculation.
type Options struct {
	Strains        []float64 //strain magnitudes, each sampled at minus and plus, per direction
	RelaxFirst     bool      //relax the structure before straining it
	FTol           float64   //force tolerance for the pre-relaxation
	MaxSteps       int       //step budget for the pre-relaxation
	Cpus           int       //concurrent PES evaluations
	UseEquilibrium bool      //include the equilibrium stress as the zero-strain point of every fit
	ResidualTol    float64   //fits with a summed squared residual above this mark the result unreliable
	ZeroTol        float64   //elastic tensor entries below this are clamped to zero
	Record         string    //name of an ssf archive to record the samples to. Nothing is recorded if empty.

	Stop <-chan struct{} //close it to cancel the run between sample sets. A nil channel never cancels.
}

//DefaultOptions returns reasonable options for an elasticity calculation.
//The default strains reach from 0.1% to 1%.
func DefaultOptions() *Options {
	r := new(Options)
	r.Strains = []float64{0.001, 0.003, 0.005, 0.01}
	r.RelaxFirst = true
	r.FTol = 0.1
	r.MaxSteps = 500
	r.Cpus = runtime.NumCPU()
	r.ResidualTol = 1e-4
	r.ZeroTol = 1e-7
	return r
}

//Calc is the elasticity property calculator.
type Calc struct {
	ev  matprop.Evaluator
	rlx matprop.Relaxer
	o   *Options
}

//New returns an elasticity calculator for the given evaluator. The relaxer
//may be nil if Options.RelaxFirst is false.
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
	if len(o.Strains) == 0 {
		return nil, Error{"need at least one strain magnitude", []string{"New"}, true}
	}
	for _, v := range o.Strains {
		if v <= 0 {
			return nil, Error{fmt.Sprintf("strain magnitudes must be positive, got %g", v), []string{"New"}, true}
		}
	}
	if o.RelaxFirst && rlx == nil {
		return nil, Error{"pre-relaxation requested but no relaxer given", []string{"New"}, true}
	}
	return &Calc{ev: ev, rlx: rlx, o: o}, nil
}

//Calc computes the elastic properties of the structure. The returned
//result always carries the keys "elastic_tensor" (6x6, Voigt notation),
//"bulk_modulus_vrh", "shear_modulus_vrh", "youngs_modulus",
//"poisson_ratio" and "residuals_sum", and the (possibly relaxed)
//equilibrium structure. A fit residual above Options.ResidualTol lowers
//the Reliable flag; it is not an error.
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
	defs, err := sample.StrainSet(C.o.Strains)
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
	var eq *matprop.EnergyForcesStress
	if C.o.UseEquilibrium {
		eq, err = C.ev.Evaluate(s)
		if err != nil {
			return nil, decorate(err, "Calc")
		}
	}
	cij, residuals := C.fit(samples, eq)
	ct := symmetrized(cij, C.o.ZeroTol)
	ret := matprop.NewResult(s)
	ret.SetTensor("elastic_tensor", ct)
	if err := moduli(ret, ct); err != nil {
		return nil, decorate(err, "Calc")
	}
	ret.SetScalar("residuals_sum", residuals)
	ret.SetResidual(residuals)
	ret.SetConverged(converged)
	ret.SetSteps(steps)
	n := len(samples)
	if eq != nil {
		n++
	}
	ret.SetSamples(n)
	if residuals > C.o.ResidualTol {
		ret.SetReliable(false)
	}
	return ret, nil
}

//fit regresses each stress component against the applied strain, one
//direction at a time. The sample order is the one produced by
//sample.StrainSet: directions are contiguous blocks of 2*len(Strains)
//samples each.
func (C *Calc) fit(samples []*sample.Sample, eq *matprop.EnergyForcesStress) (*mat.Dense, float64) {
	perDir := 2 * len(C.o.Strains)
	cij := mat.NewDense(6, 6, nil)
	var residuals float64
	for dir := 0; dir < 6; dir++ {
		block := samples[dir*perDir : (dir+1)*perDir]
		n := len(block)
		if eq != nil {
			n++
		}
		xs := make([]float64, 0, n)
		stresses := make([][6]float64, 0, n)
		for _, v := range block {
			xs = append(xs, v.Def.Magnitude)
			stresses = append(stresses, v.EFS.StressVoigt())
		}
		if eq != nil {
			xs = append(xs, 0)
			stresses = append(stresses, eq.StressVoigt())
		}
		ys := make([]float64, len(xs))
		for comp := 0; comp < 6; comp++ {
			for k := range stresses {
				ys[k] = stresses[k][comp]
			}
			alpha, beta := stat.LinearRegression(xs, ys, nil, false)
			cij.Set(comp, dir, beta)
			for k, x := range xs {
				d := ys[k] - (alpha + beta*x)
				residuals += d * d
			}
		}
	}
	return cij, residuals
}

//symmetrized averages C with its transpose and clamps entries below tol to
//zero. The raw regressed tensor is only asymmetric by fit noise.
func symmetrized(cij *mat.Dense, tol float64) *mat.Dense {
	ret := mat.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			v := 0.5 * (cij.At(i, j) + cij.At(j, i))
			if v < tol && v > -tol {
				v = 0
			}
			ret.Set(i, j, v)
		}
	}
	return ret
}

//moduli fills in the scalar moduli derived from the elastic tensor via the
//standard Voigt, Reuss and Hill averages.
func moduli(ret *matprop.Result, c *mat.Dense) error {
	kv := (c.At(0, 0) + c.At(1, 1) + c.At(2, 2) + 2*(c.At(0, 1)+c.At(0, 2)+c.At(1, 2))) / 9
	gv := (c.At(0, 0) + c.At(1, 1) + c.At(2, 2) - (c.At(0, 1) + c.At(0, 2) + c.At(1, 2)) + 3*(c.At(3, 3)+c.At(4, 4)+c.At(5, 5))) / 15
	var s mat.Dense
	if err := s.Inverse(c); err != nil {
		return Error{"elastic tensor is singular, can't compute the Reuss bounds: " + err.Error(), []string{"moduli"}, true}
	}
	kr := 1 / (s.At(0, 0) + s.At(1, 1) + s.At(2, 2) + 2*(s.At(0, 1)+s.At(0, 2)+s.At(1, 2)))
	gr := 15 / (4*(s.At(0, 0)+s.At(1, 1)+s.At(2, 2)) - 4*(s.At(0, 1)+s.At(0, 2)+s.At(1, 2)) + 3*(s.At(3, 3)+s.At(4, 4)+s.At(5, 5)))
	kh := (kv + kr) / 2
	gh := (gv + gr) / 2
	ret.SetScalar("bulk_modulus_vrh", kh)
	ret.SetScalar("shear_modulus_vrh", gh)
	ret.SetScalar("youngs_modulus", 9*kh*gh/(3*kh+gh))
	ret.SetScalar("poisson_ratio", (3*kh-2*gh)/(2*(3*kh+gh)))
	return nil
}

//decorate adds the caller to the trail when the error supports it.
func decorate(err error, caller string) error {
	if d, ok := err.(matprop.ErrorDecorator); ok {
		d.Decorate(caller)
		return d
	}
	return err
}

//Error is the error type for the elastic package.
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
