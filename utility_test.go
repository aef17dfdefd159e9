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
import   "log"
import   "math"
import   "os"
import   "path/filepath"
import   "testing"

/* -------------------------------------------------------------------------- */

var nan = math.NaN()

// Compare two sequences, NaN values are equal to each other.
func equalFloat64s(a, b []float64) bool {
  if len(a) != len(b) {
    return false
  }
  for i := range a {
    if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
      if !(math.IsNaN(a[i]) && math.IsNaN(b[i])) {
        return false
      }
      continue
    }
    if math.Abs(a[i] - b[i]) > 1e-8 {
      return false
    }
  }
  return true
}

func equalInts(a, b []int) bool {
  if len(a) != len(b) {
    return false
  }
  for i := range a {
    if a[i] != b[i] {
      return false
    }
  }
  return true
}

func newTestLogger() (*log.Logger, *bytes.Buffer) {
  var buffer bytes.Buffer
  return log.New(&buffer, "", 0), &buffer
}

func writeTestFile(t *testing.T, name, content string) string {
  filename := filepath.Join(t.TempDir(), name)
  if err := os.WriteFile(filename, []byte(content), 0666); err != nil {
    t.Fatal(err)
  }
  return filename
}

/* -------------------------------------------------------------------------- */

func TestUtility1(t *testing.T) {
  if divIntUp(10, 2) != 5 || divIntUp(7, 2) != 4 || divIntUp(1, 200) != 1 {
    t.Error("TestUtility1 failed!")
  }
}

func TestUtility2(t *testing.T) {
  filename := filepath.Join(t.TempDir(), "test.txt.gz")
  if err := writeFile(filename, bytes.NewBufferString("chr1\t10\n"), true); err != nil {
    t.Fatal(err)
  }
  if !isGzip(filename) {
    t.Error("TestUtility2 failed!")
  }
  scanner, closer, err := openScanner(filename)
  if err != nil {
    t.Fatal(err)
  }
  defer closer()
  if !scanner.Scan() || scanner.Text() != "chr1\t10" {
    t.Error("TestUtility2 failed!")
  }
}
