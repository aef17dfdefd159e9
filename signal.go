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
import "os"
import "path/filepath"
import "strings"

/* -------------------------------------------------------------------------- */

// A source of per-base signal values, e.g. an open bigWig file. Bases
// that are not covered by a record are missing. Implementations are not
// required to be safe for concurrent use.
type SignalFile interface {
  Name() string
  // Chromosomes available in the file. Sizes may be zero if the file
  // format does not store them.
  Genome() Genome
  // Call f for every record of seqname that overlaps [0, length). Returns
  // an error wrapping ErrSequenceNotFound if the file has no data for
  // seqname.
  QueryRecords(seqname string, length int, f func(from, to int, value float64)) error
  Close() error
}

/* -------------------------------------------------------------------------- */

// Per-bin means over the first length bases of seqname.
func QueryBins(file SignalFile, seqname string, length, binSize int, policy MissingBinPolicy) ([]float64, error) {
  acc, err := NewBinAccumulator(length, binSize); if err != nil {
    return nil, err
  }
  if err := file.QueryRecords(seqname, length, acc.Add); err != nil {
    return nil, fmt.Errorf("querying `%s' from `%s' failed: %w", seqname, file.Name(), err)
  }
  return acc.Means(policy), nil
}

// Per-base values of the first length bases of seqname, missing bases
// are set to NaN.
func QueryBases(file SignalFile, seqname string, length int) ([]float64, error) {
  r := make([]float64, length)
  for i := range r {
    r[i] = math.NaN()
  }
  err := file.QueryRecords(seqname, length, func(from, to int, value float64) {
    for i := iMax(from, 0); i < iMin(to, length); i++ {
      r[i] = value
    }
  })
  if err != nil {
    return nil, fmt.Errorf("querying `%s' from `%s' failed: %w", seqname, file.Name(), err)
  }
  return r, nil
}

/* -------------------------------------------------------------------------- */

// Open a signal file. The format is determined by the file content:
// bigWig files are recognized by their magic number, everything else is
// parsed as (possibly gzipped) bedGraph. Filenames starting with http://
// or https:// are read with range requests and must be bigWig files.
func OpenSignalFile(filename string) (SignalFile, error) {
  if isRemote(filename) {
    return OpenBigWigURL(filename)
  }
  if ok, err := isBigWig(filename); err != nil {
    return nil, err
  } else
  if ok {
    return OpenBigWig(filename)
  }
  return ReadBedGraph(filename)
}

func isBigWig(filename string) (bool, error) {
  f, err := os.Open(filename)
  if err != nil {
    return false, err
  }
  defer f.Close()
  header := BbiHeader{}
  return header.checkMagic(f, BIGWIG_MAGIC) == nil, nil
}

// Track name derived from a filename, i.e. the basename without
// extensions.
func trackName(filename string) string {
  name := filepath.Base(filename)
  for _, ext := range []string{".gz", ".bw", ".bigWig", ".bigwig", ".bedGraph", ".bedgraph", ".bg"} {
    name = strings.TrimSuffix(name, ext)
  }
  return name
}

/* in-memory signal
 * -------------------------------------------------------------------------- */

// Signal values held in memory, one per-base sequence for each chromosome
// of the genome.
type MemorySignal struct {
  name      string
  genome    Genome
  sequences map[string][]float64
  closed    bool
}

func NewMemorySignal(name string, genome Genome, sequences [][]float64) (*MemorySignal, error) {
  if len(sequences) != genome.Length() {
    return nil, fmt.Errorf("invalid arguments")
  }
  m := make(map[string][]float64)
  for i, s := range sequences {
    if s == nil {
      continue
    }
    if len(s) != genome.Lengths[i] {
      return nil, dataError("sequence `%s' has length %d but chromosome size is %d", genome.Seqnames[i], len(s), genome.Lengths[i])
    }
    m[genome.Seqnames[i]] = s
  }
  return &MemorySignal{name: name, genome: genome, sequences: m}, nil
}

func (s *MemorySignal) Name() string {
  return s.name
}

func (s *MemorySignal) Genome() Genome {
  return s.genome
}

func (s *MemorySignal) QueryRecords(seqname string, length int, f func(from, to int, value float64)) error {
  if s.closed {
    return fmt.Errorf("signal `%s' is closed", s.name)
  }
  seq, ok := s.sequences[seqname]
  if !ok {
    return fmt.Errorf("%w: `%s'", ErrSequenceNotFound, seqname)
  }
  for i := 0; i < iMin(length, len(seq)); i++ {
    f(i, i+1, seq[i])
  }
  return nil
}

func (s *MemorySignal) Close() error {
  s.closed = true
  return nil
}
