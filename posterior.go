/* Copyright (C) 2024 Wei Xie
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

import "gonum.org/v1/gonum/mat"

/* -------------------------------------------------------------------------- */

// Genomic intervals [from[i], to[i]) of all bins of a chromosome. The last
// interval ends at the chromosome end.
func BinIntervals(genome Genome, seqname string, binSize int) ([]int, []int, error) {
  if err := checkBinSize(binSize); err != nil {
    return nil, nil, err
  }
  length, err := genome.SeqLength(seqname); if err != nil {
    return nil, nil, err
  }
  n    := divIntUp(length, binSize)
  from := make([]int, n)
  to   := make([]int, n)
  for i := 0; i < n; i++ {
    from[i] = i*binSize
    to  [i] = iMin((i+1)*binSize, length)
  }
  return from, to, nil
}

/* -------------------------------------------------------------------------- */

// Posterior state probabilities in genomic coordinates. Bins that were
// removed before training are kept as no-call rows with NaN posteriors.
type PosteriorTable struct {
  Seqnames   []string
  From       []int
  To         []int
  Called     []bool
  Labels     int
  // row-major, one row of Labels values per bin
  Posteriors []float64
}

func NewPosteriorTable(labels int) PosteriorTable {
  return PosteriorTable{Labels: labels}
}

func (table PosteriorTable) Length() int {
  return len(table.Seqnames)
}

func (table PosteriorTable) Row(i int) []float64 {
  return table.Posteriors[i*table.Labels:(i+1)*table.Labels]
}

// Append the bins of one chromosome. Row i of posteriors belongs to bin
// reduction.Original(i).
func (table *PosteriorTable) Append(genome Genome, binSize int, reduction Reduction, posteriors mat.Matrix) error {
  from, to, err := BinIntervals(genome, reduction.Seqname, binSize); if err != nil {
    return err
  }
  if len(from) != reduction.NBins {
    return dataError("chromosome `%s' has %d bins, expected %d", reduction.Seqname, reduction.NBins, len(from))
  }
  r, c := posteriors.Dims()
  if r != reduction.Retained() || c != table.Labels {
    return dataError("posteriors of `%s' have dimension %dx%d, expected %dx%d", reduction.Seqname, r, c, reduction.Retained(), table.Labels)
  }
  omitted := reduction.Omitted
  for i, k := 0, 0; i < reduction.NBins; i++ {
    table.Seqnames = append(table.Seqnames, reduction.Seqname)
    table.From     = append(table.From, from[i])
    table.To       = append(table.To,   to  [i])
    if len(omitted) > 0 && omitted[0] == i {
      omitted = omitted[1:]
      table.Called = append(table.Called, false)
      for j := 0; j < table.Labels; j++ {
        table.Posteriors = append(table.Posteriors, math.NaN())
      }
      continue
    }
    table.Called = append(table.Called, true)
    for j := 0; j < table.Labels; j++ {
      table.Posteriors = append(table.Posteriors, posteriors.At(k, j))
    }
    k++
  }
  return nil
}

/* i/o
 * -------------------------------------------------------------------------- */

// Write the table as tab separated values. No-call rows are written only
// if noCalls is set.
func (table PosteriorTable) WriteTable(writer io.Writer, noCalls bool) error {
  w := bufio.NewWriter(writer)
  // print header
  fmt.Fprintf(w, "chromosome\tstart_bp\tend_bp")
  for j := 0; j < table.Labels; j++ {
    fmt.Fprintf(w, "\tposterior_label_%d", j+1)
  }
  fmt.Fprintf(w, "\n")
  for i := 0; i < table.Length(); i++ {
    if !table.Called[i] && !noCalls {
      continue
    }
    fmt.Fprintf(w, "%s\t%d\t%d", table.Seqnames[i], table.From[i], table.To[i])
    for _, v := range table.Row(i) {
      fmt.Fprintf(w, "\t%g", v)
    }
    if _, err := fmt.Fprintf(w, "\n"); err != nil {
      return err
    }
  }
  return w.Flush()
}

func (table PosteriorTable) ExportTable(filename string, noCalls, compress bool) error {
  var buffer bytes.Buffer
  if err := table.WriteTable(&buffer, noCalls); err != nil {
    return err
  }
  return writeFile(filename, &buffer, compress)
}
