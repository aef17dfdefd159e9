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
import "strings"

/* -------------------------------------------------------------------------- */

// Rule that decides when a bin is reported as missing.
type MissingBinPolicy int

const (
  // A bin is missing if at least one of its bases is missing.
  BinMissingIfAny MissingBinPolicy = iota
  // Missing bases are ignored when averaging, a bin is missing only if
  // all of its bases are missing.
  BinMissingIfAll
)

func (policy MissingBinPolicy) String() string {
  switch policy {
  case BinMissingIfAny: return "any"
  case BinMissingIfAll: return "all"
  }
  return fmt.Sprintf("MissingBinPolicy(%d)", int(policy))
}

func ParseMissingBinPolicy(s string) (MissingBinPolicy, error) {
  switch strings.ToLower(s) {
  case "any": return BinMissingIfAny, nil
  case "all": return BinMissingIfAll, nil
  }
  return 0, configError("missing bin policy", "invalid value `%s' (expected `any' or `all')", s)
}

/* -------------------------------------------------------------------------- */

func checkBinSize(binSize int) error {
  if binSize <= 0 {
    return configError("bin size", "must be a positive integer, got %d", binSize)
  }
  return nil
}

/* -------------------------------------------------------------------------- */

// Collects signal records of a single chromosome and averages them
// within bins of fixed width. The last bin is shorter if the chromosome
// length is not a multiple of the bin size.
type BinAccumulator struct {
  length  int
  binSize int
  sum     []float64
  // number of bases with a value
  n       []int
}

/* constructor
 * -------------------------------------------------------------------------- */

func NewBinAccumulator(length, binSize int) (*BinAccumulator, error) {
  if err := checkBinSize(binSize); err != nil {
    return nil, err
  }
  if length < 0 {
    return nil, dataError("invalid sequence length %d", length)
  }
  m := divIntUp(length, binSize)
  return &BinAccumulator{
    length : length,
    binSize: binSize,
    sum    : make([]float64, m),
    n      : make([]int,     m) }, nil
}

/* -------------------------------------------------------------------------- */

func (acc *BinAccumulator) NumberOfBins() int {
  return len(acc.sum)
}

// Length in bases of bin i.
func (acc *BinAccumulator) binLength(i int) int {
  return iMin((i+1)*acc.binSize, acc.length) - i*acc.binSize
}

// Add the value for bases [from, to). The interval is clipped to the
// chromosome, NaN values are treated as missing bases.
func (acc *BinAccumulator) Add(from, to int, value float64) {
  from = iMax(from, 0)
  to   = iMin(to, acc.length)
  if from >= to || math.IsNaN(value) {
    return
  }
  for i := from/acc.binSize; from < to; i++ {
    end := iMin((i+1)*acc.binSize, to)
    acc.sum[i] += value*float64(end-from)
    acc.n  [i] += end-from
    from = end
  }
}

func (acc *BinAccumulator) Means(policy MissingBinPolicy) []float64 {
  r := make([]float64, len(acc.sum))
  for i := range r {
    switch {
    case acc.n[i] == 0:
      r[i] = math.NaN()
    case policy == BinMissingIfAny && acc.n[i] < acc.binLength(i):
      r[i] = math.NaN()
    default:
      r[i] = acc.sum[i]/float64(acc.n[i])
    }
  }
  return r
}

/* -------------------------------------------------------------------------- */

// Bin a per-base signal. Missing bases are encoded as NaN.
func BinSequence(values []float64, binSize int, policy MissingBinPolicy) ([]float64, error) {
  acc, err := NewBinAccumulator(len(values), binSize); if err != nil {
    return nil, err
  }
  for i, v := range values {
    acc.Add(i, i+1, v)
  }
  return acc.Means(policy), nil
}

// Bin the signal of one chromosome stored in file. The chromosome length
// is taken from the genome. Returns the bin means and the runs of
// missing bins.
func BinChromosome(genome Genome, seqname string, file SignalFile, binSize int, policy MissingBinPolicy) ([]float64, []MissingRun, error) {
  if err := checkBinSize(binSize); err != nil {
    return nil, nil, err
  }
  length, err := genome.SeqLength(seqname); if err != nil {
    return nil, nil, err
  }
  bins, err := QueryBins(file, seqname, length, binSize, policy); if err != nil {
    return nil, nil, err
  }
  return bins, newMissingRuns(file.Name(), seqname, bins), nil
}
