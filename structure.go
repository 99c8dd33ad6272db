/*
 * structure.go, part of matprop.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

/**Note: some funcitons here panic instead of returning errors. This is because they are "fundamental"
 * functions. If something goes wrong in them, the program is way-most likely wrong and should
 * crash. Most panics are related to calling a method on a nil structure or accessing out-of-bounds
 * sites.**/

//Structure is a periodic atomic configuration: a 3x3 lattice matrix whose
//rows are the lattice vectors, Cartesian coordinates for each site (one row
//per site) and a chemical symbol per site. A Structure is immutable: all
//transforms return new instances and accessors return copies, so a Structure
//can be shared freely between concurrent evaluations.
type Structure struct {
	cell    *mat.Dense //3x3, rows are the lattice vectors
	coords  *mat.Dense //Nx3, Cartesian
	symbols []string
}

//NewStructure builds a Structure from a 3x3 lattice matrix, Nx3 Cartesian
//coordinates and N chemical symbols, copying all of them. It returns an error
//if any argument is nil, the dimensions are inconsistent or the lattice is
//degenerate (non-positive volume).
func NewStructure(cell mat.Matrix, coords mat.Matrix, symbols []string) (*Structure, error) {
	if cell == nil || coords == nil || symbols == nil {
		return nil, Error{"nil cell, coordinates or symbols given", []string{"NewStructure"}, true}
	}
	cr, cc := cell.Dims()
	if cr != 3 || cc != 3 {
		return nil, Error{fmt.Sprintf("lattice must be 3x3, got %dx%d", cr, cc), []string{"NewStructure"}, true}
	}
	nr, nc := coords.Dims()
	if nc != 3 {
		return nil, Error{fmt.Sprintf("coordinates must have 3 columns, got %d", nc), []string{"NewStructure"}, true}
	}
	if nr == 0 {
		return nil, Error{"structure needs at least one site", []string{"NewStructure"}, true}
	}
	if nr != len(symbols) {
		return nil, Error{fmt.Sprintf("%d coordinate rows but %d symbols", nr, len(symbols)), []string{"NewStructure"}, true}
	}
	S := new(Structure)
	S.cell = mat.DenseCopyOf(cell)
	S.coords = mat.DenseCopyOf(coords)
	S.symbols = make([]string, len(symbols))
	copy(S.symbols, symbols)
	if S.volume() <= 0 {
		return nil, Error{fmt.Sprintf("degenerate lattice, volume %4.3f", S.volume()), []string{"NewStructure"}, true}
	}
	return S, nil
}

//Len returns the number of sites in the structure.
func (S *Structure) Len() int {
	return len(S.symbols)
}

//Symbol returns the chemical symbol of the ith site.
//Panics if out of range.
func (S *Structure) Symbol(i int) string {
	if i < 0 || i >= S.Len() {
		panic(ErrSiteOutOfRange)
	}
	return S.symbols[i]
}

//Symbols returns a copy of the chemical symbols of all sites, in order.
func (S *Structure) Symbols() []string {
	ret := make([]string, len(S.symbols))
	copy(ret, S.symbols)
	return ret
}

//Cell returns a copy of the 3x3 lattice matrix. Rows are lattice vectors.
func (S *Structure) Cell() *mat.Dense {
	return mat.DenseCopyOf(S.cell)
}

//Coords returns a copy of the Nx3 Cartesian coordinates.
func (S *Structure) Coords() *mat.Dense {
	return mat.DenseCopyOf(S.coords)
}

//Coord returns the Cartesian coordinates of the ith site.
//Panics if out of range.
func (S *Structure) Coord(i int) (x, y, z float64) {
	if i < 0 || i >= S.Len() {
		panic(ErrSiteOutOfRange)
	}
	return S.coords.At(i, 0), S.coords.At(i, 1), S.coords.At(i, 2)
}

func (S *Structure) volume() float64 {
	return mat.Det(S.cell)
}

//Volume returns the volume of the unit cell, i.e. the determinant of the
//lattice matrix. It is always positive for a valid Structure.
func (S *Structure) Volume() float64 {
	return S.volume()
}

//Fractional returns the Nx3 fractional coordinates of all sites,
//i.e. the Cartesian coordinates expressed in the lattice basis.
func (S *Structure) Fractional() (*mat.Dense, error) {
	var inv mat.Dense
	if err := inv.Inverse(S.cell); err != nil {
		return nil, Error{"can't invert lattice: " + err.Error(), []string{"Fractional"}, true}
	}
	frac := mat.NewDense(S.Len(), 3, nil)
	frac.Mul(S.coords, &inv)
	return frac, nil
}

//Masses returns the atomic mass of each site, looked up by chemical symbol.
//A symbol without a tabulated mass makes the structure unsupported, since no
//mass-weighted property can be computed from it.
func (S *Structure) Masses() ([]float64, error) {
	masses := make([]float64, S.Len())
	for i, sym := range S.symbols {
		m, ok := symbolMass[sym]
		if !ok {
			return nil, &UnsupportedStructure{Symbol: sym, deco: []string{"Masses"}}
		}
		masses[i] = m
	}
	return masses, nil
}

//Strained returns a copy of the structure deformed by the given 3x3 strain
//tensor eps: both the lattice vectors and the Cartesian coordinates are
//transformed by (I + eps), so the fractional coordinates are unchanged.
//The zero tensor returns a structure equal to the receiver.
func (S *Structure) Strained(eps mat.Matrix) (*Structure, error) {
	if eps == nil {
		return nil, Error{"nil strain tensor", []string{"Strained"}, true}
	}
	er, ec := eps.Dims()
	if er != 3 || ec != 3 {
		return nil, Error{fmt.Sprintf("strain tensor must be 3x3, got %dx%d", er, ec), []string{"Strained"}, true}
	}
	//F = I + eps. Rows of cell/coords are vectors, so they multiply F transposed.
	F := mat.NewDense(3, 3, nil)
	F.Copy(eps)
	for i := 0; i < 3; i++ {
		F.Set(i, i, F.At(i, i)+1)
	}
	ret := new(Structure)
	ret.cell = mat.NewDense(3, 3, nil)
	ret.cell.Mul(S.cell, F.T())
	ret.coords = mat.NewDense(S.Len(), 3, nil)
	ret.coords.Mul(S.coords, F.T())
	ret.symbols = S.Symbols()
	if ret.volume() <= 0 {
		return nil, Error{fmt.Sprintf("strain collapses the lattice, volume %4.3f", ret.volume()), []string{"Strained"}, true}
	}
	return ret, nil
}

//Displaced returns a copy of the structure with the ith site displaced by
//the Cartesian vector d.
func (S *Structure) Displaced(i int, d [3]float64) (*Structure, error) {
	if i < 0 || i >= S.Len() {
		return nil, Error{fmt.Sprintf("site %d out of range (%d sites)", i, S.Len()), []string{"Displaced"}, true}
	}
	ret := new(Structure)
	ret.cell = mat.DenseCopyOf(S.cell)
	ret.coords = mat.DenseCopyOf(S.coords)
	ret.symbols = S.Symbols()
	for k := 0; k < 3; k++ {
		ret.coords.Set(i, k, ret.coords.At(i, k)+d[k])
	}
	return ret, nil
}

//VolumeScaled returns a copy of the structure with its volume scaled by the
//given factor, i.e. an isotropic deformation. Fractional coordinates are
//unchanged.
func (S *Structure) VolumeScaled(factor float64) (*Structure, error) {
	if factor <= 0 {
		return nil, Error{fmt.Sprintf("volume scale factor must be positive, got %4.3f", factor), []string{"VolumeScaled"}, true}
	}
	lin := math.Cbrt(factor)
	ret := new(Structure)
	ret.cell = mat.NewDense(3, 3, nil)
	ret.cell.Scale(lin, S.cell)
	ret.coords = mat.NewDense(S.Len(), 3, nil)
	ret.coords.Scale(lin, S.coords)
	ret.symbols = S.Symbols()
	return ret, nil
}

//Copy returns a deep copy of the structure. Since structures are immutable
//this is rarely needed, but it keeps ownership obvious when a caller wants
//to retain one across calculations.
func (S *Structure) Copy() *Structure {
	ret := new(Structure)
	ret.cell = mat.DenseCopyOf(S.cell)
	ret.coords = mat.DenseCopyOf(S.coords)
	ret.symbols = S.Symbols()
	return ret
}

//String returns a short human readable description of the structure.
func (S *Structure) String() string {
	return fmt.Sprintf("Structure: %d sites, volume %6.3f", S.Len(), S.Volume())
}
