/*
 * interfaces.go, part of matprop.
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

//Evaluator is the potential-energy-surface contract: anything that maps a
//structure to energy, forces and stress. Implementations wrap quantum
//chemistry programs, machine-learned potentials or classical force fields;
//the pes subpackage has ready-made glue. Evaluate must be safe for
//concurrent use, as samples of one calculation are dispatched in parallel,
//and must be stateless with respect to the caller: the same structure always
//yields the same result.
type Evaluator interface {

	//Evaluate returns the energy, per-site forces and stress tensor of the
	//given structure. It fails with an UnsupportedStructure error if the
	//structure is outside the evaluator's domain, or with any other error
	//on non-convergence of the underlying engine.
	Evaluate(s *Structure) (*EnergyForcesStress, error)
}

//Relaxer drives a structure to a local energy minimum under the given
//evaluator. It is an external collaborator: matprop consumes it but
//implements no optimizer itself. Relax blocks until convergence or until
//maxSteps evaluations have been spent, whichever comes first, so the step
//budget bounds the call.
type Relaxer interface {

	//Relax returns the best structure found, whether the force tolerance
	//ftol (and stress tolerance stol, if positive) was met within maxSteps,
	//and the number of steps actually taken. A non-converged relaxation is
	//not an error; errors are reserved for failed evaluations.
	Relax(s *Structure, ev Evaluator, ftol, stol float64, maxSteps int) (*Structure, bool, int, error)
}

//PropCalc is the common contract of every property calculator: given a
//structure, produce a named set of numeric properties. Each calculator kind
//(elastic, eos, phonon, relax) is a separate type implementing this one
//method, selected by explicit construction. Calculators can be chained by
//feeding the Structure carried by one Result to the next Calc call; the
//chaining is always caller-driven.
type PropCalc interface {
	Calc(s *Structure) (*Result, error)
}

//ErrorDecorator is the interface for errors that all packages in this
//library implement. The Decorate method allows to add and retrieve info
//from the error, without changing its type or wrapping it in something
//else: each call appends the caller's name (plus any extra info, in the
//format "FunctionName: extra") and returns the resulting trail. An empty
//string only retrieves the current trail.
type ErrorDecorator interface {
	Error() string
	Decorate(string) []string
	Critical() bool
}
