/*
 * matplot.go, part of matprop.
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

//Package matplot produces png figures from property-calculation results:
//energy-volume scans with their fitted equation of state, and vibrational
//spectra.
package matplot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

//EnergyVolume plots an energy-volume scan as scatter points plus, if fit is
//not nil, the fitted equation-of-state curve through them. The png
//extension is appended to plotname.
func EnergyVolume(volumes, energies []float64, fit func(v float64) float64, title, plotname string) error {
	if volumes == nil || energies == nil {
		panic("Given nil data")
	}
	if len(volumes) != len(energies) {
		return fmt.Errorf("EnergyVolume: got %d volumes but %d energies", len(volumes), len(energies))
	}
	p := basicPlot(title, "Volume", "Energy")
	pts := make(plotter.XYs, len(volumes))
	for i, v := range volumes {
		pts[i].X = v
		pts[i].Y = energies[i]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = color.RGBA{B: 255, A: 255}
	p.Add(s)
	if fit != nil {
		f := plotter.NewFunction(fit)
		f.Color = color.RGBA{R: 255, A: 255}
		f.Samples = 200
		p.Add(f)
		p.Legend.Add("fit", f)
	}
	filename := fmt.Sprintf("%s.png", plotname)
	return p.Save(4*vg.Inch, 4*vg.Inch, filename)
}

//Spectrum plots vibrational frequencies as a stick spectrum, one vertical
//line per mode. Negative (imaginary) modes come out on the left of zero, so
//an unstable structure is visible at a glance. The png extension is
//appended to plotname.
func Spectrum(freqs []float64, title, plotname string) error {
	if freqs == nil {
		panic("Given nil data")
	}
	p := basicPlot(title, "Frequency", "")
	p.Y.Min = 0
	p.Y.Max = 1.1
	for _, f := range freqs {
		stick := plotter.XYs{{X: f, Y: 0}, {X: f, Y: 1}}
		l, err := plotter.NewLine(stick)
		if err != nil {
			return err
		}
		if f < 0 {
			l.Color = color.RGBA{R: 255, A: 255}
		} else {
			l.Color = color.RGBA{B: 255, A: 255}
		}
		p.Add(l)
	}
	filename := fmt.Sprintf("%s.png", plotname)
	return p.Save(5*vg.Inch, 3*vg.Inch, filename)
}
