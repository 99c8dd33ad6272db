/*
 * ssf.go, part of matprop.
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

//Package ssf implements the "simple sample format": a compressed, line
//oriented archive of PES samples (a deformation tag plus energy, forces and
//stress each). It lets the expensive evaluations of a property calculation
//be stored and refitted offline. The compression codec is chosen from the
//file extension: .ssf for zstd, .ssz for gzip and .ssr for flate; zstd is
//the default for anything else.
package ssf

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/matprop"
	"gonum.org/v1/gonum/mat"
)

//Writer writes samples to a compressed archive.
type Writer struct {
	f         *os.File
	h         io.WriteCloser
	nsites    int
	filename  string
	writeable bool
}

//NewWriter opens an archive for writing samples of structures with nsites
//sites. The optional header map is stored as key=value lines. The optional
//compressionLevel applies to the gzip and flate codecs.
func NewWriter(name string, nsites int, header map[string]string, compressionLevel ...int) (*Writer, error) {
	level := flate.DefaultCompression
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	if nsites <= 0 {
		return nil, Error{fmt.Sprintf("need a positive number of sites, got %d", nsites), name, []string{"NewWriter"}, true}
	}
	W := new(Writer)
	var err error
	W.f, err = os.Create(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	W.h, err = newCompressor(W.f, name, level)
	if err != nil {
		W.f.Close()
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	W.nsites = nsites
	W.filename = name
	W.writeable = true
	for k, v := range header {
		fmt.Fprintf(W.h, "%s=%v\n", k, v)
	}
	fmt.Fprintf(W.h, "** %d\n", W.nsites)
	return W, nil
}

func newCompressor(f io.Writer, name string, level int) (io.WriteCloser, error) {
	switch name[len(name)-1] {
	case 'z':
		return gzip.NewWriterLevel(f, level)
	case 'r':
		return flate.NewWriter(f, level)
	default:
		return zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
}

//WNext appends one sample: its deformation tag line and the PES response.
func (W *Writer) WNext(tag string, efs *matprop.EnergyForcesStress) error {
	if W == nil {
		return Error{"archive not open for writing", "", []string{"WNext"}, true}
	}
	if !W.writeable {
		return Error{"archive not open for writing", W.filename, []string{"WNext"}, true}
	}
	if efs == nil {
		return Error{"nil sample given", W.filename, []string{"WNext"}, true}
	}
	if efs.Sites() != W.nsites {
		return Error{fmt.Sprintf("sample has %d sites, archive wants %d", efs.Sites(), W.nsites), W.filename, []string{"WNext"}, true}
	}
	if strings.Contains(tag, "\n") {
		return Error{"deformation tag can't span lines", W.filename, []string{"WNext"}, true}
	}
	fmt.Fprintf(W.h, "> %s\n", tag)
	fmt.Fprintf(W.h, "E %.12g\n", efs.Energy())
	sv := efs.StressVoigt()
	fmt.Fprintf(W.h, "S %.12g %.12g %.12g %.12g %.12g %.12g\n", sv[0], sv[1], sv[2], sv[3], sv[4], sv[5])
	for i := 0; i < W.nsites; i++ {
		x, y, z := efs.Force(i)
		fmt.Fprintf(W.h, "F %.12g %.12g %.12g\n", x, y, z)
	}
	_, err := io.WriteString(W.h, "*\n")
	if err != nil {
		return Error{err.Error(), W.filename, []string{"WNext"}, true}
	}
	return nil
}

//Close flushes and closes the archive. It is safe on a nil Writer.
func (W *Writer) Close() {
	if W == nil || !W.writeable {
		return
	}
	W.h.Close()
	W.f.Close()
	W.writeable = false
}

//Reader reads samples back from an archive.
type Reader struct {
	f        *os.File
	z        io.ReadCloser
	h        *bufio.Reader
	nsites   int
	filename string
	header   map[string]string
	readable bool
}

//New opens an archive for reading and consumes its header.
func New(name string) (*Reader, error) {
	R := new(Reader)
	var err error
	R.f, err = os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"New"}, true}
	}
	R.z, err = newDecompressor(R.f, name)
	if err != nil {
		R.f.Close()
		return nil, Error{err.Error(), name, []string{"New"}, true}
	}
	R.h = bufio.NewReader(R.z)
	R.filename = name
	R.header = make(map[string]string)
	//header lines, then the "** nsites" line.
	for {
		line, err := R.h.ReadString('\n')
		if err != nil {
			R.Close()
			return nil, Error{"truncated header: " + err.Error(), name, []string{"New"}, true}
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "**") {
			R.nsites, err = strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "**")))
			if err != nil || R.nsites <= 0 {
				R.Close()
				return nil, Error{"malformed site count line: " + line, name, []string{"New"}, true}
			}
			break
		}
		if k, v, ok := strings.Cut(line, "="); ok {
			R.header[k] = v
		}
	}
	R.readable = true
	return R, nil
}

func newDecompressor(f io.Reader, name string) (io.ReadCloser, error) {
	switch name[len(name)-1] {
	case 'z':
		return gzip.NewReader(f)
	case 'r':
		return flate.NewReader(f), nil
	default:
		d, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	}
}

//Sites returns the number of sites per sample in the archive.
func (R *Reader) Sites() int {
	return R.nsites
}

//Header returns the key=value metadata stored when the archive was written.
func (R *Reader) Header() map[string]string {
	return R.header
}

//Next returns the next archived sample: its deformation tag and its PES
//response. At the end of the archive it returns an error satisfying
//LastSampleError, which is not a real problem, just the EOF signal.
func (R *Reader) Next() (string, *matprop.EnergyForcesStress, error) {
	if R == nil {
		return "", nil, Error{"archive not open for reading", "", []string{"Next"}, true}
	}
	if !R.readable {
		return "", nil, Error{"archive not open for reading", R.filename, []string{"Next"}, true}
	}
	line, err := R.h.ReadString('\n')
	if err == io.EOF {
		return "", nil, lastSample{R.filename}
	}
	if err != nil {
		return "", nil, Error{err.Error(), R.filename, []string{"Next"}, true}
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil, lastSample{R.filename}
	}
	if !strings.HasPrefix(line, "> ") {
		return "", nil, Error{"expected a tag line, got: " + line, R.filename, []string{"Next"}, true}
	}
	tag := strings.TrimPrefix(line, "> ")
	var energy float64
	if _, err = fmt.Fscanf(R.h, "E %g\n", &energy); err != nil {
		return "", nil, Error{"malformed energy line: " + err.Error(), R.filename, []string{"Next"}, true}
	}
	var sv [6]float64
	if _, err = fmt.Fscanf(R.h, "S %g %g %g %g %g %g\n", &sv[0], &sv[1], &sv[2], &sv[3], &sv[4], &sv[5]); err != nil {
		return "", nil, Error{"malformed stress line: " + err.Error(), R.filename, []string{"Next"}, true}
	}
	stress := mat.NewDense(3, 3, []float64{
		sv[0], sv[5], sv[4],
		sv[5], sv[1], sv[3],
		sv[4], sv[3], sv[2],
	})
	forces := mat.NewDense(R.nsites, 3, nil)
	for i := 0; i < R.nsites; i++ {
		var x, y, z float64
		if _, err = fmt.Fscanf(R.h, "F %g %g %g\n", &x, &y, &z); err != nil {
			return "", nil, Error{fmt.Sprintf("malformed force line %d: %s", i, err.Error()), R.filename, []string{"Next"}, true}
		}
		forces.Set(i, 0, x)
		forces.Set(i, 1, y)
		forces.Set(i, 2, z)
	}
	if _, err = fmt.Fscanf(R.h, "*\n"); err != nil {
		return "", nil, Error{"missing sample terminator: " + err.Error(), R.filename, []string{"Next"}, true}
	}
	efs, err := matprop.MakeEFS(energy, forces, stress, R.nsites)
	if err != nil {
		return "", nil, Error{err.Error(), R.filename, []string{"Next"}, true}
	}
	return tag, efs, nil
}

//Close closes the archive. It is safe on a nil Reader.
func (R *Reader) Close() {
	if R == nil {
		return
	}
	if R.z != nil {
		R.z.Close()
	}
	if R.f != nil {
		R.f.Close()
	}
	R.readable = false
}
