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

import   "testing"

/* -------------------------------------------------------------------------- */

func TestNaNRuns1(t *testing.T) {
  x := []float64{nan, nan, 0, nan, nan, 5, 1, nan, nan, nan}

  starts, ends := FindNaNRuns(x)

  if !equalInts(starts, []int{0, 3, 7}) {
    t.Error("TestNaNRuns1 failed!")
  }
  if !equalInts(ends, []int{1, 4, 9}) {
    t.Error("TestNaNRuns1 failed!")
  }
}

func TestNaNRuns2(t *testing.T) {
  for _, x := range [][]float64{{}, {1, 2, 3}} {
    starts, ends := FindNaNRuns(x)
    if len(starts) != 0 || len(ends) != 0 {
      t.Error("TestNaNRuns2 failed!")
    }
  }
  starts, ends := FindNaNRuns([]float64{nan, nan, nan})
  if !equalInts(starts, []int{0}) || !equalInts(ends, []int{2}) {
    t.Error("TestNaNRuns2 failed!")
  }
  starts, ends = FindNaNRuns([]float64{1, nan, 2})
  if !equalInts(starts, []int{1}) || !equalInts(ends, []int{1}) {
    t.Error("TestNaNRuns2 failed!")
  }
}

func TestNaNRuns3(t *testing.T) {
  runs := newMissingRuns("track", "chr1", []float64{nan, 0, 0, nan, nan})
  if len(runs) != 2 {
    t.Fatal("TestNaNRuns3 failed!")
  }
  if runs[0] != (MissingRun{"track", "chr1", 0, 0}) || runs[1] != (MissingRun{"track", "chr1", 3, 4}) {
    t.Error("TestNaNRuns3 failed!")
  }
  if runs[1].Length() != 2 {
    t.Error("TestNaNRuns3 failed!")
  }
}
