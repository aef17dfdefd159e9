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

import "bytes"
import "errors"
import "fmt"
import "log"
import "os"
import "path/filepath"
import "strings"

import "github.com/kshedden/gonpy"

/* -------------------------------------------------------------------------- */

const observationTracksFile = "tracks.txt"

/* -------------------------------------------------------------------------- */

// Write a float64 array to a .npy file. Shape must match the length of
// data, values are stored in row-major order.
func writeNpy(filename string, shape []int, data []float64) error {
  f, err := os.Create(filename)
  if err != nil {
    return err
  }
  w, err := gonpy.NewWriter(f); if err != nil {
    f.Close()
    return err
  }
  w.Shape = shape
  // closes f
  if err := w.WriteFloat64(data); err != nil {
    return fmt.Errorf("writing `%s' failed: %w", filename, err)
  }
  return nil
}

// Read a float64 array from a .npy file, the result is in row-major order.
func readNpy(filename string) ([]int, []float64, error) {
  f, err := os.Open(filename)
  if err != nil {
    return nil, nil, err
  }
  defer f.Close()
  r, err := gonpy.NewReader(f); if err != nil {
    return nil, nil, fmt.Errorf("reading `%s' failed: %w", filename, err)
  }
  data, err := r.GetFloat64(); if err != nil {
    return nil, nil, fmt.Errorf("reading `%s' failed: %w", filename, err)
  }
  shape := r.Shape
  if r.ColumnMajor && len(shape) == 2 {
    n, m := shape[0], shape[1]
    t := make([]float64, len(data))
    for i := 0; i < n; i++ {
      for j := 0; j < m; j++ {
        t[i*m+j] = data[j*n+i]
      }
    }
    data = t
  }
  return shape, data, nil
}

/* -------------------------------------------------------------------------- */

// Save binned tracks as one bins x tracks matrix per chromosome. Only
// chromosomes available in all tracks are written, missing bins are
// stored as NaN.
func ExportObservations(dir string, tracks []BinnedTrack) error {
  if len(tracks) == 0 {
    return configError("tracks", "nothing to export")
  }
  if err := os.MkdirAll(dir, 0777); err != nil {
    return err
  }
  var buffer bytes.Buffer
  for _, track := range tracks {
    fmt.Fprintf(&buffer, "%s\n", track.Name)
  }
  if err := writeFile(filepath.Join(dir, observationTracksFile), &buffer, false); err != nil {
    return err
  }
  genome := tracks[0].Genome
  for _, seqname := range genome.Seqnames {
    sequences := make([][]float64, len(tracks))
    for j, track := range tracks {
      sequences[j] = track.Data[seqname]
    }
    if !allAvailable(sequences) {
      continue
    }
    m, err := NewObservationMatrix(sequences); if err != nil {
      return err
    }
    if err := writeNpy(filepath.Join(dir, seqname+".npy"), []int{m.Rows, m.Cols}, m.Values); err != nil {
      return err
    }
  }
  return nil
}

// Load binned tracks written by ExportObservations. Chromosomes without a
// matrix are logged and skipped.
func ImportObservations(dir string, genome Genome, binSize int, logger *log.Logger) ([]BinnedTrack, error) {
  logger = getLogger(logger)
  if err := checkBinSize(binSize); err != nil {
    return nil, err
  }
  b, err := os.ReadFile(filepath.Join(dir, observationTracksFile))
  if err != nil {
    return nil, err
  }
  names  := strings.Fields(string(b))
  tracks := make([]BinnedTrack, len(names))
  for j, name := range names {
    tracks[j] = EmptyBinnedTrack(name, genome, binSize)
  }
  for i, seqname := range genome.Seqnames {
    shape, data, err := readNpy(filepath.Join(dir, seqname+".npy"))
    if errors.Is(err, os.ErrNotExist) {
      logger.Printf("warning: no observations for chromosome `%s' in `%s'", seqname, dir)
      continue
    }
    if err != nil {
      return nil, err
    }
    n := divIntUp(genome.Lengths[i], binSize)
    if len(shape) != 2 || shape[0] != n || shape[1] != len(names) {
      return nil, dataError("observations for `%s' have shape %v, expected [%d %d]", seqname, shape, n, len(names))
    }
    m := ObservationMatrix{shape[0], shape[1], data}
    for j := range tracks {
      seq := make([]float64, n)
      for k := 0; k < n; k++ {
        seq[k] = m.At(k, j)
      }
      tracks[j].Data[seqname] = seq
    }
  }
  return tracks, nil
}

func allAvailable(sequences [][]float64) bool {
  for _, s := range sequences {
    if s == nil {
      return false
    }
  }
  return true
}
