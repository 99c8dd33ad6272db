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

package ssf

//Error is the error type for the ssf package. It records the archive
//filename besides the message and the decoration trail.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return err.message + " (" + err.filename + ")"
}

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

//FileName returns the name of the archive where the error happened.
func (err Error) FileName() string { return err.filename }

//LastSampleError is the interface of the harmless error signalling the end
//of an archive, so it can be filtered in a type switch.
type LastSampleError interface {
	error
	Last() bool
	FileName() string
}

type lastSample struct {
	filename string
}

func (err lastSample) Error() string { return "no more samples in " + err.filename }

//Last lets the end-of-archive signal be told apart from real errors.
func (err lastSample) Last() bool { return true }

func (err lastSample) FileName() string { return err.filename }

func (err lastSample) Decorate(dec string) []string { return nil }

func (err lastSample) Critical() bool { return false }
