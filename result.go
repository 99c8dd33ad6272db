/*
 * result.go, part of matprop.
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
	"sort"

	"gonum.org/v1/gonum/mat"
)

//Result is the named property mapping produced by one calculator run.
//The keys present are fixed per calculator kind, regardless of convergence:
//a non-converged relaxation or a poor fit is signalled through the Converged
//and Reliable flags, never through missing keys. A Result is immutable for
//its consumers; the Set* methods exist for calculator implementations and
//must not be called after the Result has been returned.
type Result struct {
	scalars   map[string]float64
	vectors   map[string][]float64
	tensors   map[string]*mat.Dense
	structure *Structure
	converged bool
	reliable  bool
	samples   int
	steps     int
	residual  float64
}

//NewResult returns an empty Result carrying the given structure, which by
//convention is the (possibly relaxed) structure the properties refer to.
//Converged and Reliable start as true; calculators lower them as needed.
func NewResult(s *Structure) *Result {
	ret := new(Result)
	ret.scalars = make(map[string]float64)
	ret.vectors = make(map[string][]float64)
	ret.tensors = make(map[string]*mat.Dense)
	ret.structure = s
	ret.converged = true
	ret.reliable = true
	return ret
}

//SetScalar stores a named scalar property.
func (R *Result) SetScalar(name string, v float64) { R.scalars[name] = v }

//SetVector stores a named vector property. The slice is not copied; the
//calculator hands over ownership.
func (R *Result) SetVector(name string, v []float64) { R.vectors[name] = v }

//SetTensor stores a named tensor property. The matrix is not copied; the
//calculator hands over ownership.
func (R *Result) SetTensor(name string, v *mat.Dense) { R.tensors[name] = v }

//SetConverged records whether the relaxation behind this result met its
//tolerances. Results without a relaxation step leave it true.
func (R *Result) SetConverged(c bool) { R.converged = c }

//SetReliable records the fit-quality flag.
func (R *Result) SetReliable(r bool) { R.reliable = r }

//SetSamples records how many PES evaluations fed the result.
func (R *Result) SetSamples(n int) { R.samples = n }

//SetSteps records the relaxation steps spent before sampling.
func (R *Result) SetSteps(n int) { R.steps = n }

//SetResidual records the fit residual diagnostic.
func (R *Result) SetResidual(res float64) { R.residual = res }

//Scalar returns the named scalar property and whether it is present.
func (R *Result) Scalar(name string) (float64, bool) {
	v, ok := R.scalars[name]
	return v, ok
}

//Vector returns a copy of the named vector property and whether it is
//present.
func (R *Result) Vector(name string) ([]float64, bool) {
	v, ok := R.vectors[name]
	if !ok {
		return nil, false
	}
	ret := make([]float64, len(v))
	copy(ret, v)
	return ret, true
}

//Tensor returns a copy of the named tensor property and whether it is
//present.
func (R *Result) Tensor(name string) (*mat.Dense, bool) {
	v, ok := R.tensors[name]
	if !ok {
		return nil, false
	}
	return mat.DenseCopyOf(v), true
}

//Keys returns the sorted names of all properties in the result.
func (R *Result) Keys() []string {
	ret := make([]string, 0, len(R.scalars)+len(R.vectors)+len(R.tensors))
	for k := range R.scalars {
		ret = append(ret, k)
	}
	for k := range R.vectors {
		ret = append(ret, k)
	}
	for k := range R.tensors {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//Structure returns the structure the properties refer to. When the
//calculator relaxed first, this is the relaxed structure, so it can be fed
//to another calculator.
func (R *Result) Structure() *Structure {
	return R.structure
}

//Converged reports whether the relaxation (if any) behind this result met
//its tolerances. The calculation proceeds on the best-effort structure
//either way, since partial information is still useful.
func (R *Result) Converged() bool { return R.converged }

//Reliable reports the fit-quality flag: false means the fit residual was
//above the calculator's threshold and the numbers should be treated as
//low-confidence.
func (R *Result) Reliable() bool { return R.reliable }

//Samples returns how many PES evaluations fed the result.
func (R *Result) Samples() int { return R.samples }

//Steps returns the relaxation steps spent before sampling, 0 if none.
func (R *Result) Steps() int { return R.steps }

//Residual returns the fit residual diagnostic; its exact meaning is
//documented per calculator.
func (R *Result) Residual() float64 { return R.residual }

//String returns a printable summary of the result.
func (R *Result) String() string {
	ret := fmt.Sprintf("Result (%d samples, converged: %v, reliable: %v)", R.samples, R.converged, R.reliable)
	for _, k := range R.Keys() {
		if v, ok := R.scalars[k]; ok {
			ret += fmt.Sprintf("\n  %s: %10.5f", k, v)
		} else if v, ok := R.vectors[k]; ok {
			ret += fmt.Sprintf("\n  %s: vector[%d]", k, len(v))
		} else if v, ok := R.tensors[k]; ok {
			r, c := v.Dims()
			ret += fmt.Sprintf("\n  %s: tensor[%dx%d]", k, r, c)
		}
	}
	return ret
}
