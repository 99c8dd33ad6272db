/*
 * relax.go, part of matprop.
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

//Package relax exposes structural relaxation as a property calculator.
//matprop implements no optimizer: the actual minimization is done by
//whatever satisfies the matprop.Relaxer interface, typically a binding to
//an external simulation driver. This package only runs it, evaluates the
//final structure and packages the outcome, so a relaxation can be chained
//in front of any other calculator.
package relax

import (
	"log"

	"github.com/rmera/matprop"
)

//Options contains the options for a relaxation calculation.
type Options struct {
	FTol     float64 //force tolerance: converged when the largest force norm is below it
	STol     float64 //stress tolerance; ignored when <= 0
	MaxSteps int     //step budget for the relaxer
}

//DefaultOptions returns reasonable options for a relaxation.
func DefaultOptions() *Options {
	r := new(Options)
	r.FTol = 0.1
	r.STol = 0
	r.MaxSteps = 500
	return r
}

//Calc is the relaxation-only property calculator.
type Calc struct {
	ev  matprop.Evaluator
	rlx matprop.Relaxer
	o   *Options
}

//New returns a relaxation calculator for the given evaluator and relaxer.
func New(ev matprop.Evaluator, rlx matprop.Relaxer, options ...*Options) (*Calc, error) {
	if ev == nil {
		return nil, Error{"nil evaluator given", []string{"New"}, true}
	}
	if rlx == nil {
		return nil, Error{"nil relaxer given", []string{"New"}, true}
	}
	var o *Options
	if len(options) == 0 || options[0] == nil {
		o = DefaultOptions()
	} else {
		o = options[0]
	}
	if o.FTol <= 0 {
		return nil, Error{"force tolerance must be positive", []string{"New"}, true}
	}
	if o.MaxSteps <= 0 {
		return nil, Error{"step budget must be positive", []string{"New"}, true}
	}
	return &Calc{ev: ev, rlx: rlx, o: o}, nil
}

//Calc relaxes the structure and returns a result with keys "energy" and
//"max_force", carrying the final structure for chaining. A relaxation that
//exhausts its step budget is not an error: the result carries the
//best-effort structure with Converged() == false.
func (C *Calc) Calc(s *matprop.Structure) (*matprop.Result, error) {
	if s == nil {
		return nil, Error{"nil structure given", []string{"Calc"}, true}
	}
	final, converged, steps, err := C.rlx.Relax(s, C.ev, C.o.FTol, C.o.STol, C.o.MaxSteps)
	if err != nil {
		return nil, decorate(err, "Calc")
	}
	efs, err := C.ev.Evaluate(final)
	if err != nil {
		return nil, decorate(err, "Calc")
	}
	ret := matprop.NewResult(final)
	ret.SetScalar("energy", efs.Energy())
	ret.SetScalar("max_force", efs.MaxForce())
	ret.SetConverged(converged)
	ret.SetSteps(steps)
	ret.SetSamples(1)
	return ret, nil
}

//Equilibrate is the shared pre-relaxation step of the property
//calculators: it relaxes s under ev if rlx is non-nil, returning the
//best-effort structure, the convergence flag and the steps taken.
//Non-convergence within the budget is logged and flagged, never an error,
//since a calculation on the best-effort structure still carries
//information.
func Equilibrate(s *matprop.Structure, ev matprop.Evaluator, rlx matprop.Relaxer, ftol, stol float64, maxSteps int) (*matprop.Structure, bool, int, error) {
	if rlx == nil {
		return nil, false, 0, Error{"pre-relaxation requested but no relaxer given", []string{"Equilibrate"}, true}
	}
	final, converged, steps, err := rlx.Relax(s, ev, ftol, stol, maxSteps)
	if err != nil {
		return nil, false, 0, decorate(err, "Equilibrate")
	}
	if !converged {
		log.Printf("relaxation did not converge within %d steps, continuing on the best-effort structure", maxSteps)
	}
	return final, converged, steps, nil
}

//decorate adds the caller to the trail when the error supports it.
func decorate(err error, caller string) error {
	if d, ok := err.(matprop.ErrorDecorator); ok {
		d.Decorate(caller)
		return d
	}
	return err
}

//Error is the error type for the relax package.
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
