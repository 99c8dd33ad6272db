/*
 * ssf_test.go, part of matprop.
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

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/rmera/matprop"
	"gonum.org/v1/gonum/mat"
)

func sampleEFS(energy float64, Te *testing.T) *matprop.EnergyForcesStress {
	forces := mat.NewDense(2, 3, []float64{0.1, -0.2, 0.3, -0.1, 0.2, -0.3})
	stress := mat.NewDense(3, 3, []float64{1, 0.5, 0, 0.5, 2, 0, 0, 0, 3})
	efs, err := matprop.MakeEFS(energy, forces, stress, 2)
	if err != nil {
		Te.Fatal(err)
	}
	return efs
}

//TestRoundtrip writes a few samples in every supported compression format
//and reads them back.
func TestRoundtrip(Te *testing.T) {
	dir := Te.TempDir()
	for _, name := range []string{"samples.ssf", "samples.ssz", "samples.ssr"} {
		fname := filepath.Join(dir, name)
		w, err := NewWriter(fname, 2, map[string]string{"potential": "test"})
		if err != nil {
			Te.Fatal(err)
		}
		tags := []string{"strain dir 0 mag -0.01", "strain dir 0 mag 0.01", "volume mag 1.05"}
		for i, tag := range tags {
			if err := w.WNext(tag, sampleEFS(float64(i)-5, Te)); err != nil {
				Te.Fatal(err)
			}
		}
		w.Close()
		r, err := New(fname)
		if err != nil {
			Te.Fatal(err)
		}
		if r.Sites() != 2 {
			Te.Errorf("%s: wanted 2 sites, got %d", name, r.Sites())
		}
		if r.Header()["potential"] != "test" {
			Te.Errorf("%s: header lost: %v", name, r.Header())
		}
		for i, wantTag := range tags {
			tag, efs, err := r.Next()
			if err != nil {
				Te.Fatal(err)
			}
			if tag != wantTag {
				Te.Errorf("%s sample %d: wanted tag %q, got %q", name, i, wantTag, tag)
			}
			want := sampleEFS(float64(i)-5, Te)
			if math.Abs(efs.Energy()-want.Energy()) > 1e-9 {
				Te.Errorf("%s sample %d: wanted energy %g, got %g", name, i, want.Energy(), efs.Energy())
			}
			ws := want.StressVoigt()
			gs := efs.StressVoigt()
			for k := range ws {
				if math.Abs(ws[k]-gs[k]) > 1e-9 {
					Te.Errorf("%s sample %d: stress component %d: wanted %g, got %g", name, i, k, ws[k], gs[k])
				}
			}
			if !mat.EqualApprox(want.Forces(), efs.Forces(), 1e-9) {
				Te.Errorf("%s sample %d: forces differ", name, i)
			}
		}
		_, _, err = r.Next()
		last, ok := err.(LastSampleError)
		if !ok || !last.Last() {
			Te.Errorf("%s: reading past the end should give a LastSampleError, got %v", name, err)
		}
		r.Close()
	}
}
