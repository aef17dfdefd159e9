/* Copyright (C) 2016 Philipp Benner
 * Copyright (C) 2024 Wei Xie
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package simpleaga

/* -------------------------------------------------------------------------- */

import "bufio"
import "bytes"
import "fmt"
import "io"
import "math"

import "gonum.org/v1/gonum/stat"

/* -------------------------------------------------------------------------- */

type TMapType map[string][]float64

// Binned signal of a single assay. The first position in a sequence is
// numbered 0 and bin i covers bases [i*BinSize, (i+1)*BinSize). A
// chromosome without an entry in Data is unavailable for this track.
type BinnedTrack struct {
  Name    string
  Genome  Genome
  Data    TMapType
  BinSize int
}

/* constructor
 * -------------------------------------------------------------------------- */

func NewBinnedTrack(name string, sequences [][]float64, genome Genome, binSize int) (BinnedTrack, error) {
  if len(sequences) != genome.Length() {
    return BinnedTrack{}, fmt.Errorf("invalid arguments")
  }
  if err := checkBinSize(binSize); err != nil {
    return BinnedTrack{}, err
  }
  data := make(TMapType)
  for i, sequence := range sequences {
    if sequence == nil {
      continue
    }
    if len(sequence) != divIntUp(genome.Lengths[i], binSize) {
      return BinnedTrack{}, fmt.Errorf("genome has invalid length for the given sequence and binsize")
    }
    data[genome.Seqnames[i]] = sequence
  }
  return BinnedTrack{name, genome, data, binSize}, nil
}

func EmptyBinnedTrack(name string, genome Genome, binSize int) BinnedTrack {
  return BinnedTrack{name, genome, make(TMapType), binSize}
}

/* -------------------------------------------------------------------------- */

func (track BinnedTrack) GetSequence(seqname string) ([]float64, error) {
  if seq, ok := track.Data[seqname]; ok {
    return seq, nil
  }
  return nil, fmt.Errorf("%w: `%s' in track `%s'", ErrSequenceNotFound, seqname, track.Name)
}

// Chromosomes with data, in genome order.
func (track BinnedTrack) Seqnames() []string {
  r := []string{}
  for _, seqname := range track.Genome.Seqnames {
    if _, ok := track.Data[seqname]; ok {
      r = append(r, seqname)
    }
  }
  return r
}

/* statistics
 * -------------------------------------------------------------------------- */

type TrackSummary struct {
  Bins     int
  Missing  int
  Mean     float64
  Variance float64
  Min      float64
  Max      float64
}

func (s TrackSummary) String() string {
  return fmt.Sprintf("bins: %d, missing: %d (%.2f%%), mean: %f, variance: %f, min: %f, max: %f",
    s.Bins, s.Missing, 100.0*float64(s.Missing)/math.Max(float64(s.Bins), 1), s.Mean, s.Variance, s.Min, s.Max)
}

func (track BinnedTrack) Summary() TrackSummary {
  r := TrackSummary{Min: math.NaN(), Max: math.NaN()}
  x := []float64{}
  for _, seqname := range track.Seqnames() {
    for _, v := range track.Data[seqname] {
      r.Bins++
      if math.IsNaN(v) {
        r.Missing++
        continue
      }
      x = append(x, v)
    }
  }
  if len(x) == 0 {
    r.Mean, r.Variance = math.NaN(), math.NaN()
    return r
  }
  r.Mean, r.Variance = stat.MeanVariance(x, nil)
  r.Min, r.Max = x[0], x[0]
  for _, v := range x {
    r.Min = math.Min(r.Min, v)
    r.Max = math.Max(r.Max, v)
  }
  return r
}

/* i/o
 * -------------------------------------------------------------------------- */

func (track BinnedTrack) WriteBedGraph(w io.Writer) error {
  for i, seqname := range track.Genome.Seqnames {
    seq, ok := track.Data[seqname]
    if !ok {
      continue
    }
    for j, v := range seq {
      if math.IsNaN(v) {
        continue
      }
      from := j*track.BinSize
      to   := iMin((j+1)*track.BinSize, track.Genome.Lengths[i])
      if _, err := fmt.Fprintf(w, "%s\t%d\t%d\t%g\n", seqname, from, to, v); err != nil {
        return err
      }
    }
  }
  return nil
}

func (track BinnedTrack) ExportBedGraph(filename string, compress bool) error {
  var buffer bytes.Buffer

  w := bufio.NewWriter(&buffer)
  if err := track.WriteBedGraph(w); err != nil {
    return err
  }
  w.Flush()

  return writeFile(filename, &buffer, compress)
}
