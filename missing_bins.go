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
import "encoding/csv"
import "fmt"
import "io"
import "strconv"

/* -------------------------------------------------------------------------- */

// Table of missing bin runs over all tracks and chromosomes.
type MissingBins []MissingRun

var missingBinsHeader = []string{"track", "chromosome", "start_bin", "end_bin"}

/* -------------------------------------------------------------------------- */

// Number of missing bins of the given track and chromosome.
func (table MissingBins) Count(track, seqname string) int {
  n := 0
  for _, r := range table {
    if r.Track == track && r.Seqname == seqname {
      n += r.Length()
    }
  }
  return n
}

/* i/o
 * -------------------------------------------------------------------------- */

func (table MissingBins) WriteTable(writer io.Writer) error {
  w := csv.NewWriter(writer)
  if err := w.Write(missingBinsHeader); err != nil {
    return err
  }
  for _, r := range table {
    if err := w.Write([]string{r.Track, r.Seqname, strconv.Itoa(r.From), strconv.Itoa(r.To)}); err != nil {
      return err
    }
  }
  w.Flush()
  return w.Error()
}

func (table MissingBins) ExportTable(filename string, compress bool) error {
  var buffer bytes.Buffer
  if err := table.WriteTable(&buffer); err != nil {
    return err
  }
  return writeFile(filename, &buffer, compress)
}

func (table *MissingBins) ReadTable(reader io.Reader) error {
  r := csv.NewReader(reader)
  r.FieldsPerRecord = len(missingBinsHeader)
  records, err := r.ReadAll()
  if err != nil {
    return err
  }
  if len(records) == 0 {
    return fmt.Errorf("missing bins table is empty")
  }
  result := MissingBins{}
  for i, record := range records[1:] {
    from, err := strconv.Atoi(record[2]); if err != nil {
      return fmt.Errorf("line %d: invalid start bin: %w", i+2, err)
    }
    to, err := strconv.Atoi(record[3]); if err != nil {
      return fmt.Errorf("line %d: invalid end bin: %w", i+2, err)
    }
    result = append(result, MissingRun{record[0], record[1], from, to})
  }
  *table = result
  return nil
}

func ImportMissingBins(filename string) (MissingBins, error) {
  scanner, closer, err := openScanner(filename)
  if err != nil {
    return nil, err
  }
  defer closer()
  var buffer bytes.Buffer
  for scanner.Scan() {
    buffer.Write(scanner.Bytes())
    buffer.WriteByte('\n')
  }
  if err := scanner.Err(); err != nil {
    return nil, err
  }
  table := MissingBins{}
  if err := table.ReadTable(&buffer); err != nil {
    return nil, fmt.Errorf("reading `%s' failed: %w", filename, err)
  }
  return table, nil
}
