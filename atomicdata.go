/*
 * atomicdata.go, part of matprop.
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

//A map for assigning mass to elements, in unified atomic mass units.
//Note that just elements common in molecular and solid-state work are
//present. Masses are needed only for the dynamical-matrix weighting, so
//an evaluator for an exotic element can still be used for everything but
//phonons.
var symbolMass = map[string]float64{
	"H":  1.008,
	"He": 4.0026,
	"Li": 6.94,
	"Be": 9.012,
	"B":  10.81,
	"C":  12.011,
	"N":  14.007,
	"O":  15.999,
	"F":  18.998,
	"Ne": 20.180,
	"Na": 22.990,
	"Mg": 24.305,
	"Al": 26.982,
	"Si": 28.085,
	"P":  30.974,
	"S":  32.06,
	"Cl": 35.45,
	"Ar": 39.948,
	"K":  39.098,
	"Ca": 40.078,
	"Ti": 47.867,
	"V":  50.942,
	"Cr": 51.996,
	"Mn": 54.938,
	"Fe": 55.845,
	"Co": 58.933,
	"Ni": 58.693,
	"Cu": 63.546,
	"Zn": 65.38,
	"Ga": 69.723,
	"Ge": 72.630,
	"As": 74.922,
	"Se": 78.971,
	"Br": 79.904,
	"Zr": 91.224,
	"Nb": 92.906,
	"Mo": 95.95,
	"Pd": 106.42,
	"Ag": 107.87,
	"Cd": 112.41,
	"In": 114.82,
	"Sn": 118.71,
	"Sb": 121.76,
	"Te": 127.60,
	"I":  126.90,
	"Ta": 180.95,
	"W":  183.84,
	"Pt": 195.08,
	"Au": 196.97,
	"Pb": 207.2,
}

//SymbolMass returns the tabulated atomic mass for a chemical symbol, and
//whether the symbol is tabulated at all.
func SymbolMass(symbol string) (float64, bool) {
	m, ok := symbolMass[symbol]
	return m, ok
}
