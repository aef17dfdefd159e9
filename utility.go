/* Copyright (C) 2016 Philipp Benner
 * Copyright (C) 2024 Wei Xie
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
import "compress/gzip"
import "io"
import "os"
import "sort"
import "strings"

/* -------------------------------------------------------------------------- */

func iMin(a, b int) int {
  if a < b {
    return a
  } else {
    return b
  }
}

func iMax(a, b int) int {
  if a > b {
    return a
  } else {
    return b
  }
}

// Divide a by b, the result is rounded up.
func divIntUp(a, b int) int {
  return (a+b-1)/b
}

/* -------------------------------------------------------------------------- */

func writeFile(filename string, r io.Reader, compress bool) error {
  var buffer bytes.Buffer

  if compress {
    w := gzip.NewWriter(&buffer)
    if _, err := io.Copy(w, r); err != nil {
      return err
    }
    if err := w.Close(); err != nil {
      return err
    }
  } else {
    if _, err := io.Copy(&buffer, r); err != nil {
      return err
    }
  }
  return os.WriteFile(filename, buffer.Bytes(), 0666)
}

func isGzip(filename string) bool {

  f, err := os.Open(filename)
  if err != nil {
    return false
  }
  defer f.Close()

  b := make([]byte, 2)
  n, err := f.Read(b)
  if err != nil {
    return false
  }

  if n == 2 && b[0] == 31 && b[1] == 139 {
    return true
  }
  return false
}

// Open a text file for scanning, gzipped files are decompressed on the
// fly. The returned function closes all opened readers.
func openScanner(filename string) (*bufio.Scanner, func(), error) {
  f, err := os.Open(filename)
  if err != nil {
    return nil, nil, err
  }
  if isGzip(filename) {
    g, err := gzip.NewReader(f)
    if err != nil {
      f.Close()
      return nil, nil, err
    }
    return bufio.NewScanner(g), func() { g.Close(); f.Close() }, nil
  }
  return bufio.NewScanner(f), func() { f.Close() }, nil
}

func isRemote(filename string) bool {
  return strings.HasPrefix(filename, "http://") || strings.HasPrefix(filename, "https://")
}

// Sort indices by the corresponding keys.
func sortByKey(indices []int, keys []string) {
  sort.SliceStable(indices, func(i, j int) bool {
    return keys[indices[i]] < keys[indices[j]]
  })
}
