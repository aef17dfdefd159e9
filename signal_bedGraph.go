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
import "compress/gzip"
import "fmt"
import "io"
import "os"
import "sort"
import "strconv"
import "strings"

/* -------------------------------------------------------------------------- */

// Signal parsed from a bedGraph file. The whole file is held in memory.
type BedGraphFile struct {
  name    string
  genome  Genome
  records map[string][]BbiRecord
}

/* -------------------------------------------------------------------------- */

func (file *BedGraphFile) Read(reader io.Reader) error {
  scanner := bufio.NewScanner(reader)
  records := make(map[string][]BbiRecord)
  lengths := make(map[string]int)
  seqnames := []string{}

  for line := 1; scanner.Scan(); line++ {
    fields := strings.Fields(scanner.Text())
    if len(fields) == 0 {
      continue
    }
    if f := fields[0]; f == "track" || f == "browser" || strings.HasPrefix(f, "#") {
      continue
    }
    if len(fields) != 4 {
      return fmt.Errorf("line %d: bedGraph file must have four columns", line)
    }
    t1, err := strconv.ParseInt(fields[1], 10, 64); if err != nil {
      return fmt.Errorf("line %d: %w", line, err)
    }
    t2, err := strconv.ParseInt(fields[2], 10, 64); if err != nil {
      return fmt.Errorf("line %d: %w", line, err)
    }
    t3, err := strconv.ParseFloat(fields[3], 64); if err != nil {
      return fmt.Errorf("line %d: %w", line, err)
    }
    from  := int(t1)
    to    := int(t2)
    if from < 0 || to <= from {
      continue
    }
    name := fields[0]
    if _, ok := records[name]; !ok {
      seqnames = append(seqnames, name)
    }
    records[name] = append(records[name], BbiRecord{from, to, t3})
    lengths[name] = iMax(lengths[name], to)
  }
  if err := scanner.Err(); err != nil {
    return err
  }
  for _, r := range records {
    sort.SliceStable(r, func(i, j int) bool { return r[i].From < r[j].From })
  }
  file.records = records
  file.genome  = Genome{Seqnames: seqnames, Lengths: make([]int, len(seqnames))}
  for i, s := range seqnames {
    file.genome.Lengths[i] = lengths[s]
  }
  return nil
}

func ReadBedGraph(filename string) (*BedGraphFile, error) {
  var r io.Reader
  // open file
  f, err := os.Open(filename)
  if err != nil {
    return nil, err
  }
  defer f.Close()
  // check if file is gzipped
  if isGzip(filename) {
    g, err := gzip.NewReader(f)
    if err != nil {
      return nil, err
    }
    defer g.Close()
    r = g
  } else {
    r = f
  }
  file := BedGraphFile{name: trackName(filename)}
  if err := file.Read(r); err != nil {
    return nil, fmt.Errorf("reading bedGraph file `%s' failed: %w", filename, err)
  }
  return &file, nil
}

/* -------------------------------------------------------------------------- */

func (file *BedGraphFile) Name() string {
  return file.name
}

// Chromosomes found in the file, lengths are the largest end coordinate
// of each chromosome.
func (file *BedGraphFile) Genome() Genome {
  return file.genome
}

func (file *BedGraphFile) QueryRecords(seqname string, length int, f func(from, to int, value float64)) error {
  if file.records == nil {
    return fmt.Errorf("bedGraph file `%s' is closed", file.name)
  }
  records, ok := file.records[seqname]
  if !ok {
    return fmt.Errorf("%w: `%s'", ErrSequenceNotFound, seqname)
  }
  for _, r := range records {
    if r.From >= length {
      break
    }
    f(r.From, r.To, r.Value)
  }
  return nil
}

func (file *BedGraphFile) Close() error {
  file.records = nil
  return nil
}
