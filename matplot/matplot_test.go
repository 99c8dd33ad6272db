/*
 * matplot_test.go, part of matprop.
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

package matplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/matprop/eos"
)

func TestEnergyVolume(Te *testing.T) {
	vols := make([]float64, 0, 11)
	energies := make([]float64, 0, 11)
	for i := 0; i < 11; i++ {
		v := 64 * (0.9 + 0.02*float64(i))
		vols = append(vols, v)
		energies = append(energies, eos.BirchMurnaghan(v, 64, -10, 0.6, 4.5))
	}
	name := filepath.Join(Te.TempDir(), "ev")
	fit := func(v float64) float64 { return eos.BirchMurnaghan(v, 64, -10, 0.6, 4.5) }
	if err := EnergyVolume(vols, energies, fit, "EOS scan", name); err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(name + ".png"); err != nil {
		Te.Errorf("no png written: %s", err.Error())
	}
}

func TestSpectrum(Te *testing.T) {
	freqs := []float64{-0.5, 0, 0, 0, 2.1, 2.1, 3.7}
	name := filepath.Join(Te.TempDir(), "spectrum")
	if err := Spectrum(freqs, "Vibrational spectrum", name); err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(name + ".png"); err != nil {
		Te.Errorf("no png written: %s", err.Error())
	}
}
