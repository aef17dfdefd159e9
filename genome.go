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

import "bytes"
import "fmt"
import "io"
import "strconv"
import "strings"

/* -------------------------------------------------------------------------- */

// Structure containing chromosome sizes.
type Genome struct {
  Seqnames []string
  Lengths  []int
}

/* constructor
 * -------------------------------------------------------------------------- */

func NewGenome(seqnames []string, lengths []int) Genome {
  if len(seqnames) != len(lengths) {
    panic("NewGenome(): Invalid parameters!")
  }
  return Genome{seqnames, lengths}
}

/* -------------------------------------------------------------------------- */

// Number of chromosomes in the structure.
func (genome Genome) Length() int {
  return len(genome.Seqnames)
}

// Index of the given chromosome, or an error if it is not part of the
// genome.
func (genome Genome) GetIdx(seqname string) (int, error) {
  for i, s := range genome.Seqnames {
    if seqname == s {
      return i, nil
    }
  }
  return -1, fmt.Errorf("%w: %w: `%s' is not listed in the chromosome sizes", ErrConfig, ErrSequenceNotFound, seqname)
}

// Length of the given chromosome. Returns an error if the chromosome
// is not found.
func (genome Genome) SeqLength(seqname string) (int, error) {
  if i, err := genome.GetIdx(seqname); err != nil {
    return 0, err
  } else {
    return genome.Lengths[i], nil
  }
}

// Total number of bins when every chromosome is divided into bins of
// the given size.
func (genome Genome) NumberOfBins(binSize int) int {
  n := 0
  for _, l := range genome.Lengths {
    n += divIntUp(l, binSize)
  }
  return n
}

// Restrict the genome to the given chromosomes, preserving the order of
// the receiver.
func (genome Genome) Filter(seqnames []string) Genome {
  m := make(map[string]bool)
  for _, s := range seqnames {
    m[s] = true
  }
  r := Genome{}
  for i, s := range genome.Seqnames {
    if m[s] {
      r.Seqnames = append(r.Seqnames, s)
      r.Lengths  = append(r.Lengths,  genome.Lengths[i])
    }
  }
  return r
}

func (genome Genome) validate() error {
  seen := make(map[string]bool)
  for i, s := range genome.Seqnames {
    if seen[s] {
      return dataError("chromosome `%s' is listed more than once", s)
    }
    if genome.Lengths[i] <= 0 {
      return dataError("chromosome `%s' has invalid size %d", s, genome.Lengths[i])
    }
    seen[s] = true
  }
  return nil
}

/* convert to string
 * -------------------------------------------------------------------------- */

func (genome Genome) String() string {
  var buffer bytes.Buffer

  printRow := func(i int) {
    if i != 0 {
      buffer.WriteString("\n")
    }
    buffer.WriteString(
      fmt.Sprintf("%10s %10d",
        genome.Seqnames[i],
        genome.Lengths [i]))
  }

  // pring header
  buffer.WriteString(
    fmt.Sprintf("%10s %10s\n", "seqnames", "lengths"))

  for i := 0; i < genome.Length(); i++ {
    printRow(i)
  }
  return buffer.String()
}

/* i/o
 * -------------------------------------------------------------------------- */

// Import chromosome sizes from a UCSC text file. The format is a whitespace
// separated table where the first column is the name of the chromosome and
// the second column the chromosome length.
func ReadGenome(filename string) (Genome, error) {
  scanner, closer, err := openScanner(filename)
  if err != nil {
    return Genome{}, err
  }
  defer closer()

  seqnames := []string{}
  lengths  := []int{}

  for line := 1; scanner.Scan(); line++ {
    fields := strings.Fields(scanner.Text())
    if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
      continue
    }
    if len(fields) < 2 {
      return Genome{}, dataError("%s:%d: expected two columns", filename, line)
    }
    t1, err := strconv.ParseInt(fields[1], 10, 64); if err != nil {
      return Genome{}, dataError("%s:%d: invalid chromosome size `%s'", filename, line, fields[1])
    }
    seqnames = append(seqnames, fields[0])
    lengths  = append(lengths,  int(t1))
  }
  if err := scanner.Err(); err != nil {
    return Genome{}, err
  }
  genome := NewGenome(seqnames, lengths)
  if err := genome.validate(); err != nil {
    return Genome{}, fmt.Errorf("reading chromosome sizes from `%s' failed: %w", filename, err)
  }
  return genome, nil
}

// Write chromosome sizes in the format read by ReadGenome.
func (genome Genome) Write(w io.Writer) error {
  for i := 0; i < genome.Length(); i++ {
    if _, err := fmt.Fprintf(w, "%s\t%d\n", genome.Seqnames[i], genome.Lengths[i]); err != nil {
      return err
    }
  }
  return nil
}

func (genome Genome) WriteGenome(filename string) error {
  var buffer bytes.Buffer
  if err := genome.Write(&buffer); err != nil {
    return err
  }
  return writeFile(filename, &buffer, false)
}
