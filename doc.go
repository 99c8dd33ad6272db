/*
 * doc.go, part of matprop.
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
 * matprop is developed at the Universidad de Santiago de Chile
 * (USACH).
 *
 */

/*Package matprop computes derived physical properties of periodic atomic
structures from a potential-energy-surface evaluator, i.e. any function
mapping a structure to energy, forces and stress. The evaluator can wrap a
quantum-chemistry program, a machine-learned potential or a classical force
field; matprop treats it as a black box behind the Evaluator interface.


	**matprop Capabilities**

    Immutable periodic Structure type with strain, per-site displacement
	and volume-scaling transforms.

    Elastic constants: the full 6x6 tensor in Voigt notation by linear
	regression of the stress response over the six independent strain
	directions, plus Voigt-Reuss-Hill bulk and shear moduli, Young's
	modulus and Poisson ratio (elastic subpackage).

    Equation of state: Birch-Murnaghan fit of an energy-volume scan,
	yielding the equilibrium volume and energy, the bulk modulus and its
	pressure derivative (eos subpackage).

    Phonons: finite-displacement force constants, mass-weighted dynamical
	matrix and its full frequency spectrum. Imaginary modes are reported,
	not discarded, as they signal dynamical instability (phonon
	subpackage).

    Structural relaxation to mechanical equilibrium through any external
	optimizer implementing the Relaxer interface (relax subpackage).

    Concurrent dispatch of the independent PES evaluations behind each
	property, with deterministic sample ordering (sample subpackage).

    Compressed on-disk archives of evaluated samples for offline refitting
	(ssf subpackage) and figures of energy-volume curves and phonon
	spectra (matplot subpackage).

Every property calculator implements the single-method PropCalc interface,
so calculators can be chained: the relaxed structure carried by one Result
is a valid input to the next calculator. All numeric values are reported in
whatever unit system the evaluator uses; matprop performs no unit
conversion.

matprop uses the Gonum libraries (gonum.org) for all its linear algebra,
statistics and optimization.*/
package matprop
