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
import "io"
import "os"

import "github.com/WeiXie03/SimpleAGA/lib/bufferedReadSeeker"
import "github.com/WeiXie03/SimpleAGA/lib/seekinghttp"

/* -------------------------------------------------------------------------- */

const bigWigBufferSize = 64*1024

// A bigWig file opened for reading. The file handle stays open until
// Close is called.
type BigWigFile struct {
  name   string
  reader *BigWigReader
  closer io.Closer
}

/* constructor
 * -------------------------------------------------------------------------- */

func OpenBigWig(filename string) (*BigWigFile, error) {
  f, err := os.Open(filename)
  if err != nil {
    return nil, err
  }
  r, err := bufferedReadSeeker.New(f, bigWigBufferSize); if err != nil {
    f.Close()
    return nil, err
  }
  return newBigWigFile(trackName(filename), r, f, filename)
}

// Open a remote bigWig file, data is retrieved with HTTP range requests.
func OpenBigWigURL(url string) (*BigWigFile, error) {
  s := seekinghttp.New(url)
  return newBigWigFile(trackName(url), s, s, url)
}

func newBigWigFile(name string, r io.ReadSeeker, closer io.Closer, filename string) (*BigWigFile, error) {
  reader, err := NewBigWigReader(r); if err != nil {
    closer.Close()
    return nil, fmt.Errorf("opening bigWig file `%s' failed: %w", filename, err)
  }
  return &BigWigFile{name, reader, closer}, nil
}

/* -------------------------------------------------------------------------- */

func (file *BigWigFile) Name() string {
  return file.name
}

func (file *BigWigFile) Genome() Genome {
  return file.reader.Genome
}

func (file *BigWigFile) QueryRecords(seqname string, length int, f func(from, to int, value float64)) error {
  if file.closer == nil {
    return fmt.Errorf("bigWig file `%s' is closed", file.name)
  }
  return file.reader.Query(seqname, 0, length, func(r BbiRecord) {
    f(r.From, r.To, r.Value)
  })
}

func (file *BigWigFile) Close() error {
  if file.closer == nil {
    return nil
  }
  err := file.closer.Close()
  file.closer = nil
  return err
}

/* export
 * -------------------------------------------------------------------------- */

func ExportBigWig(filename string, track BinnedTrack, parameters BigWigParameters) error {
  f, err := os.Create(filename)
  if err != nil {
    return err
  }
  writer, err := NewBigWigWriter(f, track.Genome, parameters); if err != nil {
    f.Close()
    return err
  }
  for _, seqname := range track.Genome.Seqnames {
    bins, ok := track.Data[seqname]
    if !ok {
      continue
    }
    if err := writer.WriteBins(seqname, bins, track.BinSize); err != nil {
      f.Close()
      return err
    }
  }
  if err := writer.Close(); err != nil {
    f.Close()
    return err
  }
  return f.Close()
}
