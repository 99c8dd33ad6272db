/*
 * eval.go, part of matprop.
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

package sample

import (
	"fmt"
	"log"
	"runtime"

	"github.com/rmera/matprop"
	"github.com/rmera/matprop/ssf"
)

//Options contains the options for the Eval function.
type Options struct {
	Cpus   int             //how many samples to evaluate concurrently
	Record string          //name of an ssf archive to write the evaluated samples to. Nothing is written if empty.
	Stop   <-chan struct{} //close it to cancel the run at the next sample-set boundary. A nil channel never cancels.
}

//DefaultOptions returns reasonable options: all available CPUs, no
//recording.
func DefaultOptions() *Options {
	r := new(Options)
	r.Cpus = runtime.NumCPU()
	return r
}

type evalunit struct {
	efs *matprop.EnergyForcesStress
	err error
}

func unitEval(s *matprop.Structure, d *Deformation, ev matprop.Evaluator, out chan *evalunit) {
	perturbed, err := d.Apply(s)
	if err != nil {
		out <- &evalunit{nil, err}
		return
	}
	efs, err := ev.Evaluate(perturbed)
	out <- &evalunit{efs, err}
}

//Eval realizes every deformation on the base structure, obtains its PES
//response and returns the samples in the same order as the deformations.
//Evaluations are dispatched in sets of Cpus concurrent goroutines; all
//samples are complete when Eval returns (the barrier before any fitting).
//The first failed evaluation aborts the whole run and is returned as an
//Error naming the failed sample; no partial sample set is ever returned.
func Eval(s *matprop.Structure, defs []Deformation, ev matprop.Evaluator, options ...*Options) ([]*Sample, error) {
	if s == nil {
		panic(matprop.ErrNilStructure)
	}
	if ev == nil {
		panic(matprop.ErrNilEvaluator)
	}
	var o *Options
	if len(options) == 0 || options[0] == nil {
		o = DefaultOptions()
	} else {
		o = options[0]
	}
	chunk := o.Cpus
	if chunk < 1 {
		chunk = 1
	}
	results := make([]chan *evalunit, chunk)
	for i := range results {
		results[i] = make(chan *evalunit)
	}
	samples := make([]*Sample, len(defs))
	for start := 0; start < len(defs); start += chunk {
		if cancelled(o.Stop) {
			return nil, Error{message: fmt.Sprintf("evaluation cancelled after %d of %d samples", start, len(defs)), index: -1, deco: []string{"Eval"}, critical: true}
		}
		end := start + chunk
		if end > len(defs) {
			end = len(defs)
		}
		for i := start; i < end; i++ {
			go unitEval(s, &defs[i], ev, results[i-start])
		}
		var firstErr error
		firstFailed := -1
		for i := start; i < end; i++ {
			u := <-results[i-start] //barrier for this set
			if u.err != nil && firstErr == nil {
				firstErr = u.err
				firstFailed = i
				continue
			}
			samples[i] = &Sample{Def: defs[i], EFS: u.efs}
		}
		if firstErr != nil {
			return nil, Error{message: fmt.Sprintf("evaluation of sample %d (%s) failed: %s", firstFailed, defs[firstFailed].Tag(), firstErr.Error()), index: firstFailed, deco: []string{"Eval"}, critical: true}
		}
	}
	if o.Record != "" {
		if err := record(o.Record, s.Len(), samples); err != nil {
			//recording is a convenience, not part of the calculation, so
			//we log and move on, as with unwriteable trajectories.
			log.Printf("couldn't record samples to %s: %s", o.Record, err.Error())
		}
	}
	return samples, nil
}

func cancelled(stop <-chan struct{}) bool {
	if stop == nil {
		return false
	}
	select {
	case <-stop:
		return true
	default:
		return false
	}
}

func record(name string, nsites int, samples []*Sample) error {
	w, err := ssf.NewWriter(name, nsites, nil)
	if err != nil {
		return err
	}
	defer w.Close()
	for _, v := range samples {
		if err := w.WNext(v.Def.Tag(), v.EFS); err != nil {
			return err
		}
	}
	return nil
}

//ReadArchive restores the samples previously recorded to an ssf archive,
//in their original order, so a fit can be redone without re-evaluating the
//PES.
func ReadArchive(name string) ([]*Sample, error) {
	r, err := ssf.New(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var ret []*Sample
	for {
		tag, efs, err := r.Next()
		if err != nil {
			if last, ok := err.(ssf.LastSampleError); ok && last.Last() {
				break
			}
			return nil, err
		}
		d, err := ParseTag(tag)
		if err != nil {
			return nil, err
		}
		ret = append(ret, &Sample{Def: *d, EFS: efs})
	}
	return ret, nil
}
