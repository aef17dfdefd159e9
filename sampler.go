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
import "math/rand"
import "sort"
import "time"

/* -------------------------------------------------------------------------- */

// A window [From, To) of sequence Sequence.
type Minibatch struct {
  Sequence int
  From     int
  To       int
}

func (m Minibatch) Length() int {
  return m.To - m.From
}

/* -------------------------------------------------------------------------- */

// Draws random contiguous windows from a set of sequences. If
// SubsequenceLength is zero, one window of length floor(Fraction*L) is
// drawn from every sequence of length L. Otherwise windows have length
// SubsequenceLength and together cover about Fraction of all positions,
// each window is placed in a sequence chosen uniformly with replacement.
type SubsequenceSampler struct {
  Fraction          float64
  SubsequenceLength int
  // maximum number of rejected start positions per window
  MaxRetries        int
  Rng               *rand.Rand
}

func NewSubsequenceSampler(fraction float64, subsequenceLength int, rng *rand.Rand) *SubsequenceSampler {
  if rng == nil {
    rng = rand.New(rand.NewSource(time.Now().UnixNano()))
  }
  return &SubsequenceSampler{
    Fraction         : fraction,
    SubsequenceLength: subsequenceLength,
    MaxRetries       : 10000,
    Rng              : rng }
}

/* -------------------------------------------------------------------------- */

func (sampler *SubsequenceSampler) validate(lengths []int) error {
  if len(lengths) == 0 {
    return configError("sequences", "at least one sequence is required")
  }
  if !(sampler.Fraction > 0.0 && sampler.Fraction <= 1.0) {
    return configError("minibatch fraction", "must be in (0, 1], got %v", sampler.Fraction)
  }
  if sampler.SubsequenceLength < 0 {
    return configError("subsequence length", "must be positive, got %d", sampler.SubsequenceLength)
  }
  for i, l := range lengths {
    if l < 0 {
      return dataError("sequence %d has negative length", i)
    }
  }
  return nil
}

// Draw minibatch windows for sequences of the given lengths. Windows are
// not indexed by sequence: in one-per-sequence mode sequences with
// floor(Fraction*L) == 0 receive no window, use Minibatch.Sequence.
func (sampler *SubsequenceSampler) Sample(lengths []int) ([]Minibatch, error) {
  if err := sampler.validate(lengths); err != nil {
    return nil, err
  }
  if sampler.Rng == nil {
    sampler.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
  }
  if sampler.SubsequenceLength == 0 {
    return sampler.sampleOnePerSequence(lengths), nil
  }
  return sampler.sampleFixedLength(lengths)
}

func (sampler *SubsequenceSampler) sampleOnePerSequence(lengths []int) []Minibatch {
  r := make([]Minibatch, 0, len(lengths))
  for i, l := range lengths {
    w := int(math.Floor(sampler.Fraction*float64(l)))
    if w == 0 {
      continue
    }
    from := sampler.Rng.Intn(l-w+1)
    r = append(r, Minibatch{i, from, from+w})
  }
  return r
}

func (sampler *SubsequenceSampler) sampleFixedLength(lengths []int) ([]Minibatch, error) {
  s := sampler.SubsequenceLength
  total, slots := 0, 0
  for i, l := range lengths {
    if s > l {
      return nil, configError("subsequence length", "%d exceeds length %d of sequence %d", s, l, i)
    }
    total += l
    slots += l/s
  }
  n := int(math.Ceil(sampler.Fraction*float64(total)/float64(s)))
  if n > slots {
    return nil, fmt.Errorf("%w: %d windows of length %d do not fit into the sequences", ErrSamplingInfeasible, n, s)
  }
  // number of valid start positions of each sequence
  starts := make([]int, len(lengths))
  for i, l := range lengths {
    starts[i] = l-s+1
  }
  // accepted windows of each sequence, sorted by start position
  accepted := make([][]int, len(lengths))
  r := make([]Minibatch, 0, n)
  for k := 0; k < n; k++ {
    i, from, ok := sampler.drawStart(accepted, starts, s)
    if !ok {
      return nil, fmt.Errorf("%w: no free window of length %d after %d retries", ErrSamplingInfeasible, s, sampler.MaxRetries)
    }
    j := sort.SearchInts(accepted[i], from)
    accepted[i] = append(accepted[i], 0)
    copy(accepted[i][j+1:], accepted[i][j:])
    accepted[i][j] = from
    r = append(r, Minibatch{i, from, from+s})
  }
  return r, nil
}

// Draw a sequence uniformly at random and a start position within it
// such that the window [from, from+s) does not overlap any accepted
// window. Both are drawn again on every retry.
func (sampler *SubsequenceSampler) drawStart(accepted [][]int, starts []int, s int) (int, int, bool) {
  retries := sampler.MaxRetries
  if retries <= 0 {
    retries = 10000
  }
  for t := 0; t < retries; t++ {
    i    := sampler.Rng.Intn(len(starts))
    from := sampler.Rng.Intn(starts[i])
    j := sort.SearchInts(accepted[i], from)
    if j < len(accepted[i]) && accepted[i][j] < from+s {
      continue
    }
    if j > 0 && accepted[i][j-1]+s > from {
      continue
    }
    return i, from, true
  }
  return 0, 0, false
}
