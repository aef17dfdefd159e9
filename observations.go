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

import "fmt"
import "math"
import "sort"
import "strings"

import "gonum.org/v1/gonum/mat"

/* -------------------------------------------------------------------------- */

// Row-major matrix with one row per bin and one column per track.
type ObservationMatrix struct {
  Rows   int
  Cols   int
  Values []float64
}

/* constructor
 * -------------------------------------------------------------------------- */

// Build a matrix from one binned sequence per track.
func NewObservationMatrix(sequences [][]float64) (ObservationMatrix, error) {
  if len(sequences) == 0 {
    return ObservationMatrix{}, nil
  }
  n := len(sequences[0])
  for j, s := range sequences {
    if len(s) != n {
      return ObservationMatrix{}, dataError("sequence %d has %d bins, expected %d", j, len(s), n)
    }
  }
  m := ObservationMatrix{n, len(sequences), make([]float64, n*len(sequences))}
  for j, s := range sequences {
    for i, v := range s {
      m.Values[i*m.Cols+j] = v
    }
  }
  return m, nil
}

func NewObservationMatrixFromDense(a mat.Matrix) ObservationMatrix {
  n, k := a.Dims()
  m := ObservationMatrix{n, k, make([]float64, n*k)}
  for i := 0; i < n; i++ {
    for j := 0; j < k; j++ {
      m.Values[i*k+j] = a.At(i, j)
    }
  }
  return m
}

/* -------------------------------------------------------------------------- */

func (m ObservationMatrix) At(i, j int) float64 {
  return m.Values[i*m.Cols+j]
}

func (m ObservationMatrix) Row(i int) []float64 {
  return m.Values[i*m.Cols:(i+1)*m.Cols]
}

// Rows [from, to) of the matrix. The result shares memory with m.
func (m ObservationMatrix) Slice(from, to int) ObservationMatrix {
  return ObservationMatrix{to-from, m.Cols, m.Values[from*m.Cols:to*m.Cols]}
}

// Convert to a gonum matrix, the result shares memory with m. Returns
// nil for matrices without rows.
func (m ObservationMatrix) Dense() *mat.Dense {
  if m.Rows == 0 || m.Cols == 0 {
    return nil
  }
  return mat.NewDense(m.Rows, m.Cols, m.Values)
}

func (m ObservationMatrix) String() string {
  var b strings.Builder
  for i := 0; i < m.Rows; i++ {
    for j := 0; j < m.Cols; j++ {
      if j != 0 {
        b.WriteString(" ")
      }
      fmt.Fprintf(&b, "%g", m.At(i, j))
    }
    b.WriteString("\n")
  }
  return b.String()
}

/* missing values
 * -------------------------------------------------------------------------- */

// Remove all rows in which at least one track is missing. Returns the
// reduced matrix and the ascending indices of the removed rows.
func OmitMissing(m ObservationMatrix) (ObservationMatrix, []int) {
  omitted := []int{}
  values  := make([]float64, 0, len(m.Values))
  for i := 0; i < m.Rows; i++ {
    row := m.Row(i)
    missing := false
    for _, v := range row {
      if math.IsNaN(v) {
        missing = true
        break
      }
    }
    if missing {
      omitted = append(omitted, i)
    } else {
      values = append(values, row...)
    }
  }
  return ObservationMatrix{m.Rows-len(omitted), m.Cols, values}, omitted
}

type HandleMissingStrategy int

const (
  HandleMissingOmit HandleMissingStrategy = iota
  // Keep missing rows and integrate them out during training. Not
  // implemented.
  HandleMissingMarginalize
)

func (s HandleMissingStrategy) String() string {
  switch s {
  case HandleMissingOmit:        return "omit"
  case HandleMissingMarginalize: return "marginalize"
  }
  return fmt.Sprintf("HandleMissingStrategy(%d)", int(s))
}

func ParseHandleMissingStrategy(s string) (HandleMissingStrategy, error) {
  switch strings.ToLower(s) {
  case "omit":        return HandleMissingOmit, nil
  case "marginalize": return HandleMissingMarginalize, nil
  }
  return 0, configError("missing value strategy", "invalid value `%s'", s)
}

func HandleMissing(strategy HandleMissingStrategy, m ObservationMatrix) (ObservationMatrix, []int, error) {
  switch strategy {
  case HandleMissingOmit:
    r, omitted := OmitMissing(m)
    return r, omitted, nil
  default:
    return ObservationMatrix{}, nil, configError("missing value strategy", "`%v' is not supported", strategy)
  }
}

/* -------------------------------------------------------------------------- */

// Relation between the bins of a chromosome and the rows of its reduced
// observation matrix.
type Reduction struct {
  Seqname string
  NBins   int
  Omitted []int
}

func (r Reduction) Retained() int {
  return r.NBins - len(r.Omitted)
}

// Bin index of row i of the reduced matrix.
func (r Reduction) Original(i int) int {
  // omitted[k] - k is the number of retained bins before omitted[k]
  k := sort.Search(len(r.Omitted), func(k int) bool {
    return r.Omitted[k] - k > i
  })
  return i + k
}
