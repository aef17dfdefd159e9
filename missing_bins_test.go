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
import   "path/filepath"
import   "testing"

/* -------------------------------------------------------------------------- */

func TestMissingBins1(t *testing.T) {
  table := MissingBins{
    {"H3K27ac", "chr1", 0, 0},
    {"H3K27ac", "chr1", 3, 7},
    {"CTCF",    "chr2", 1, 2} }

  var buffer bytes.Buffer
  if err := table.WriteTable(&buffer); err != nil {
    t.Fatal(err)
  }
  expected := "track,chromosome,start_bin,end_bin\nH3K27ac,chr1,0,0\nH3K27ac,chr1,3,7\nCTCF,chr2,1,2\n"
  if buffer.String() != expected {
    t.Errorf("TestMissingBins1 failed: %s", buffer.String())
  }
  if table.Count("H3K27ac", "chr1") != 6 || table.Count("CTCF", "chr1") != 0 {
    t.Error("TestMissingBins1 failed!")
  }
  filename := filepath.Join(t.TempDir(), "missing_bins.csv.gz")
  if err := table.ExportTable(filename, true); err != nil {
    t.Fatal(err)
  }
  r, err := ImportMissingBins(filename)
  if err != nil {
    t.Fatal(err)
  }
  if len(r) != len(table) {
    t.Fatal("TestMissingBins1 failed!")
  }
  for i := range r {
    if r[i] != table[i] {
      t.Error("TestMissingBins1 failed!")
    }
  }
}

func TestMissingBins2(t *testing.T) {
  for _, content := range []string{"", "track,chromosome,start_bin,end_bin\nA,chr1,x,2\n", "track,chromosome\n"} {
    table := MissingBins{}
    if err := table.ReadTable(bytes.NewBufferString(content)); err == nil {
      t.Errorf("TestMissingBins2 failed for `%q'", content)
    }
  }
}
