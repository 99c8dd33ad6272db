/*
 * errors.go, part of matprop.
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

import "fmt"

//Error is the concrete error type of the root package. Subpackages define
//their own, richer types; all of them satisfy the ErrorDecorator interface
//so callers can build a decoration trail while passing errors up.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

//Decorate will add the dec string to the decoration slice of strings of the
//error, and return the resulting slice. If given an empty string it only
//returns the current decoration.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error can be ignored.
func (err Error) Critical() bool { return err.critical }

//UnsupportedStructure reports a structure that the PES evaluator, or a
//calculator, cannot handle at all; typically a site with a chemical symbol
//unknown to the potential. It is always fatal and never retried.
type UnsupportedStructure struct {
	Symbol string //the offending chemical symbol, if that was the problem
	Reason string //free-form reason when Symbol alone doesn't explain it
	deco   []string
}

func (err *UnsupportedStructure) Error() string {
	if err.Reason != "" {
		return "unsupported structure: " + err.Reason
	}
	return fmt.Sprintf("unsupported structure: no data for element %s", err.Symbol)
}

//Decorate will add the dec string to the decoration slice of strings of the
//error, and return the resulting slice.
func (err *UnsupportedStructure) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical always returns true: there is no point in retrying a structure
//the evaluator cannot represent.
func (err *UnsupportedStructure) Critical() bool { return true }

//NewUnsupportedStructure returns an UnsupportedStructure error with the
//given free-form reason. Evaluator implementations should use it, or the
//Symbol field, to reject inputs they cannot represent.
func NewUnsupportedStructure(reason string, caller string) *UnsupportedStructure {
	return &UnsupportedStructure{Reason: reason, deco: []string{caller}}
}

//PanicMsg is a message used for panics. It does satisfy the error interface,
//but for returned errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNilStructure    = PanicMsg("matprop: nil Structure given")
	ErrNilEvaluator    = PanicMsg("matprop: nil Evaluator given")
	ErrSiteOutOfRange  = PanicMsg("matprop: site index out of range")
	ErrVoigtOutOfRange = PanicMsg("matprop: Voigt index must be between 0 and 5")
)
