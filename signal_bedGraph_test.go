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
import   "errors"
import   "path/filepath"
import   "testing"

/* -------------------------------------------------------------------------- */

const testBedGraph = `track type=bedGraph name=test
# comment
chr1	8	10	0.5
chr1	0	1	0.0
chr1	2	4	0.5
chr1	4	5	2.0
chr1	5	6	3.0
chr2	0	3	1.0
chr2	5	5	9.0
`

func TestBedGraph1(t *testing.T) {
  filename := writeTestFile(t, "test.bedGraph", testBedGraph)

  file, err := OpenSignalFile(filename)
  if err != nil {
    t.Fatal(err)
  }
  defer file.Close()

  if file.Name() != "test" {
    t.Error("TestBedGraph1 failed!")
  }
  genome := file.Genome()
  if genome.Length() != 2 || genome.Seqnames[0] != "chr1" || genome.Lengths[0] != 10 || genome.Lengths[1] != 3 {
    t.Errorf("TestBedGraph1 failed: %v", genome)
  }
  bins, err := QueryBins(file, "chr1", 10, 2, BinMissingIfAny)
  if err != nil {
    t.Fatal(err)
  }
  if !equalFloat64s(bins, []float64{nan, 0.5, 2.5, nan, 0.5}) {
    t.Errorf("TestBedGraph1 failed: %v", bins)
  }
  if _, err := QueryBins(file, "chr3", 10, 2, BinMissingIfAny); !errors.Is(err, ErrSequenceNotFound) {
    t.Error("TestBedGraph1 failed!")
  }
}

func TestBedGraph2(t *testing.T) {
  // gzipped input
  filename := filepath.Join(t.TempDir(), "test.bedGraph.gz")
  if err := writeFile(filename, bytes.NewBufferString(testBedGraph), true); err != nil {
    t.Fatal(err)
  }
  file, err := ReadBedGraph(filename)
  if err != nil {
    t.Fatal(err)
  }
  if file.Name() != "test" {
    t.Error("TestBedGraph2 failed!")
  }
  x, err := QueryBases(file, "chr2", 4)
  if err != nil {
    t.Fatal(err)
  }
  if !equalFloat64s(x, []float64{1, 1, 1, nan}) {
    t.Errorf("TestBedGraph2 failed: %v", x)
  }
  file.Close()
  if _, err := QueryBases(file, "chr2", 4); err == nil {
    t.Error("TestBedGraph2 failed!")
  }
}

func TestBedGraph3(t *testing.T) {
  for _, content := range []string{"chr1\t0\t10\n", "chr1\ta\t10\t1\n", "chr1\t0\t10\tx\n"} {
    file := BedGraphFile{}
    if err := file.Read(bytes.NewBufferString(content)); err == nil {
      t.Errorf("TestBedGraph3 failed for `%q'", content)
    }
  }
}
