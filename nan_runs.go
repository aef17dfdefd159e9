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

import "math"

/* -------------------------------------------------------------------------- */

// Find all maximal runs of NaN values in x. The i-th run covers the
// positions starts[i] to ends[i], both inclusive.
func FindNaNRuns(x []float64) ([]int, []int) {
  starts := []int{}
  ends   := []int{}
  inRun  := false
  for i, v := range x {
    if math.IsNaN(v) {
      if !inRun {
        starts = append(starts, i)
        inRun  = true
      }
    } else {
      if inRun {
        ends  = append(ends, i-1)
        inRun = false
      }
    }
  }
  if inRun {
    ends = append(ends, len(x)-1)
  }
  return starts, ends
}

/* -------------------------------------------------------------------------- */

// A run of missing bins, From and To are inclusive bin indices.
type MissingRun struct {
  Track   string
  Seqname string
  From    int
  To      int
}

func (r MissingRun) Length() int {
  return r.To - r.From + 1
}

func newMissingRuns(track, seqname string, bins []float64) []MissingRun {
  starts, ends := FindNaNRuns(bins)
  runs := make([]MissingRun, len(starts))
  for i := range starts {
    runs[i] = MissingRun{track, seqname, starts[i], ends[i]}
  }
  return runs
}
