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

import   "bytes"
import   "math"
import   "path/filepath"
import   "testing"

/* -------------------------------------------------------------------------- */

func TestTrack1(t *testing.T) {
  genome := NewGenome([]string{"chr1", "chr2", "chr3"}, []int{10, 5, 3})
  track, err := NewBinnedTrack("test", [][]float64{{1, nan, 3, 4, 5}, nil, {2, 6}}, genome, 2)
  if err != nil {
    t.Fatal(err)
  }
  if s := track.Seqnames(); len(s) != 2 || s[0] != "chr1" || s[1] != "chr3" {
    t.Error("TestTrack1 failed!")
  }
  summary := track.Summary()
  if summary.Bins != 7 || summary.Missing != 1 || summary.Min != 1 || summary.Max != 6 {
    t.Errorf("TestTrack1 failed: %v", summary)
  }
  if math.Abs(summary.Mean - 3.5) > 1e-8 {
    t.Errorf("TestTrack1 failed: %v", summary)
  }
  if _, err := NewBinnedTrack("test", [][]float64{{1, 2}, nil, nil}, genome, 2); err == nil {
    t.Error("TestTrack1 failed!")
  }
}

func TestTrack2(t *testing.T) {
  genome := NewGenome([]string{"chr1", "chr2"}, []int{5, 3})
  track, err := NewBinnedTrack("test", [][]float64{{1, nan, 3}, {0.5, 2}}, genome, 2)
  if err != nil {
    t.Fatal(err)
  }
  var buffer bytes.Buffer
  if err := track.WriteBedGraph(&buffer); err != nil {
    t.Fatal(err)
  }
  expected := "chr1\t0\t2\t1\nchr1\t4\t5\t3\nchr2\t0\t2\t0.5\nchr2\t2\t3\t2\n"
  if buffer.String() != expected {
    t.Errorf("TestTrack2 failed: %s", buffer.String())
  }
  // bedGraph export can be binned again with the same bin size
  filename := filepath.Join(t.TempDir(), "test.bedGraph.gz")
  if err := track.ExportBedGraph(filename, true); err != nil {
    t.Fatal(err)
  }
  file, err := OpenSignalFile(filename)
  if err != nil {
    t.Fatal(err)
  }
  defer file.Close()
  bins, _, err := BinChromosome(genome, "chr1", file, 2, BinMissingIfAny)
  if err != nil {
    t.Fatal(err)
  }
  if !equalFloat64s(bins, []float64{1, nan, 3}) {
    t.Errorf("TestTrack2 failed: %v", bins)
  }
}
