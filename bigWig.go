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
import "encoding/binary"
import "fmt"
import "io"
import "math"

/* -------------------------------------------------------------------------- */

type BigWigParameters struct {
  BlockSize    int
  ItemsPerSlot int
  Compress     bool
}

func DefaultBigWigParameters() BigWigParameters {
  return BigWigParameters{
    BlockSize   : 256,
    ItemsPerSlot: 1024,
    Compress    : true }
}

/* reader
 * -------------------------------------------------------------------------- */

type BigWigReader struct {
  Reader    io.ReadSeeker
  Header    BbiHeader
  ChromData BData
  Index     RTree
  Genome    Genome
  chromIds  map[string]int
}

func NewBigWigReader(reader io.ReadSeeker) (*BigWigReader, error) {
  bwr := new(BigWigReader)
  bwr.Reader = reader
  // parse header
  if err := bwr.Header.Read(reader, BIGWIG_MAGIC); err != nil {
    return nil, fmt.Errorf("reading bigWig header failed: %w", err)
  }
  if bwr.Header.Version < 3 {
    return nil, fmt.Errorf("bigWig version %d is not supported", bwr.Header.Version)
  }
  // parse chromosome list
  if err := bwr.ChromData.Read(reader, int64(bwr.Header.CtOffset)); err != nil {
    return nil, fmt.Errorf("reading bigWig chromosome list failed: %w", err)
  }
  if bwr.ChromData.ValueSize != 8 {
    return nil, fmt.Errorf("invalid bigWig chromosome list")
  }
  bwr.chromIds = make(map[string]int)
  seqnames := make([]string, len(bwr.ChromData.Keys))
  lengths  := make([]int,    len(bwr.ChromData.Keys))
  for i := range bwr.ChromData.Keys {
    // keys are null-padded
    seqname := string(bytes.TrimRight(bwr.ChromData.Keys[i], "\x00"))
    idx     := binary.LittleEndian.Uint32(bwr.ChromData.Values[i][0:4])
    length  := binary.LittleEndian.Uint32(bwr.ChromData.Values[i][4:8])
    seqnames[i] = seqname
    lengths [i] = int(length)
    bwr.chromIds[seqname] = int(idx)
  }
  bwr.Genome = NewGenome(seqnames, lengths)
  // parse index header
  if err := bwr.Index.Read(reader, int64(bwr.Header.IndexOffset)); err != nil {
    return nil, fmt.Errorf("reading bigWig index failed: %w", err)
  }
  return bwr, nil
}

/* -------------------------------------------------------------------------- */

func (reader *BigWigReader) readBlock(leaf RTreeLeaf) ([]byte, error) {
  block := make([]byte, leaf.DataSize)
  if _, err := reader.Reader.Seek(int64(leaf.DataOffset), io.SeekStart); err != nil {
    return nil, err
  }
  if _, err := io.ReadFull(reader.Reader, block); err != nil {
    return nil, err
  }
  if reader.Header.UncompressBufSize != 0 {
    return uncompressSlice(block)
  }
  return block, nil
}

// Call f for every record on seqname that overlaps [from, to).
func (reader *BigWigReader) Query(seqname string, from, to int, f func(BbiRecord)) error {
  chromId, ok := reader.chromIds[seqname]
  if !ok {
    return fmt.Errorf("%w: `%s'", ErrSequenceNotFound, seqname)
  }
  leaves, err := reader.Index.Query(reader.Reader, chromId, from, to); if err != nil {
    return err
  }
  for _, leaf := range leaves {
    block, err := reader.readBlock(leaf); if err != nil {
      return err
    }
    header, records, err := decodeBbiBlock(block); if err != nil {
      return err
    }
    if int(header.ChromId) != chromId {
      continue
    }
    for _, r := range records {
      if r.To > from && r.From < to {
        f(r)
      }
    }
  }
  return nil
}

/* writer
 * -------------------------------------------------------------------------- */

type countingWriter struct {
  w *bufio.Writer
  n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
  n, err := w.w.Write(p)
  w.n += int64(n)
  return n, err
}

// Writer for bigWig files without zoom levels. Chromosomes must be
// written in the order of the genome.
type BigWigWriter struct {
  Parameters BigWigParameters
  Genome     Genome
  Header     BbiHeader
  writer     io.WriteSeeker
  cw        *countingWriter
  leaves   []RTreeLeaf
  lastIdx    int
}

func NewBigWigWriter(writer io.WriteSeeker, genome Genome, parameters BigWigParameters) (*BigWigWriter, error) {
  if parameters.BlockSize < 2 {
    return nil, configError("block size", "must be at least 2, got %d", parameters.BlockSize)
  }
  if parameters.ItemsPerSlot < 1 || parameters.ItemsPerSlot > math.MaxUint16 {
    return nil, configError("items per slot", "invalid value %d", parameters.ItemsPerSlot)
  }
  bww := BigWigWriter{}
  bww.Parameters = parameters
  bww.Genome     = genome
  bww.Header     = *NewBbiHeader()
  bww.writer     = writer
  bww.cw         = &countingWriter{w: bufio.NewWriter(writer)}
  bww.lastIdx    = -1
  // reserve space for the header, it is written once all offsets are known
  if err := bww.Header.Write(bww.cw); err != nil {
    return nil, err
  }
  // chromosome list
  keySize := 1
  for _, seqname := range genome.Seqnames {
    keySize = iMax(keySize, len(seqname))
  }
  data := NewBData(keySize, 8)
  data.ItemsPerBlock = uint32(iMin(parameters.BlockSize, iMax(genome.Length(), 1)))
  order := make([]int, genome.Length())
  for i := range order {
    order[i] = i
  }
  // keys must be sorted, the chromosome id is the position within the genome
  sortByKey(order, genome.Seqnames)
  for _, i := range order {
    key   := make([]byte, keySize)
    value := make([]byte, 8)
    copy(key, genome.Seqnames[i])
    binary.LittleEndian.PutUint32(value[0:4], uint32(i))
    binary.LittleEndian.PutUint32(value[4:8], uint32(genome.Lengths[i]))
    if err := data.Add(key, value); err != nil {
      return nil, err
    }
  }
  bww.Header.CtOffset = uint64(bww.cw.n)
  if err := data.Write(bww.cw, bww.cw.n); err != nil {
    return nil, err
  }
  // number of data blocks, updated on close
  bww.Header.DataOffset = uint64(bww.cw.n)
  if err := binaryWrite(bww.cw, uint64(0)); err != nil {
    return nil, err
  }
  return &bww, nil
}

// Write records of a single chromosome. Records must be sorted and must
// not overlap, records with NaN values are skipped.
func (writer *BigWigWriter) Write(seqname string, records []BbiRecord) error {
  idx, err := writer.Genome.GetIdx(seqname); if err != nil {
    return err
  }
  if idx <= writer.lastIdx {
    return fmt.Errorf("chromosome `%s' written out of order", seqname)
  }
  writer.lastIdx = idx

  block := make([]BbiRecord, 0, writer.Parameters.ItemsPerSlot)
  for _, r := range records {
    if math.IsNaN(r.Value) {
      continue
    }
    if len(block) > 0 && r.From < block[len(block)-1].To {
      return fmt.Errorf("records on `%s' are not sorted or overlap", seqname)
    }
    block = append(block, r)
    if len(block) == writer.Parameters.ItemsPerSlot {
      if err := writer.writeBlock(idx, block); err != nil {
        return err
      }
      block = block[0:0]
    }
  }
  if len(block) > 0 {
    return writer.writeBlock(idx, block)
  }
  return nil
}

// Write bin values of a single chromosome.
func (writer *BigWigWriter) WriteBins(seqname string, bins []float64, binSize int) error {
  length, err := writer.Genome.SeqLength(seqname); if err != nil {
    return err
  }
  records := make([]BbiRecord, 0, len(bins))
  for i, v := range bins {
    if math.IsNaN(v) {
      continue
    }
    records = append(records, BbiRecord{i*binSize, iMin((i+1)*binSize, length), v})
  }
  return writer.Write(seqname, records)
}

func (writer *BigWigWriter) writeBlock(chromId int, records []BbiRecord) error {
  block := encodeBbiBlock(chromId, records)
  if len(block) > int(writer.Header.UncompressBufSize) {
    writer.Header.UncompressBufSize = uint32(len(block))
  }
  if writer.Parameters.Compress {
    if b, err := compressSlice(block); err != nil {
      return err
    } else {
      block = b
    }
  }
  leaf := RTreeLeaf{
    ChrIdxStart: uint32(chromId),
    BaseStart  : uint32(records[0].From),
    ChrIdxEnd  : uint32(chromId),
    BaseEnd    : uint32(records[len(records)-1].To),
    DataOffset : uint64(writer.cw.n),
    DataSize   : uint64(len(block)) }
  if _, err := writer.cw.Write(block); err != nil {
    return err
  }
  writer.leaves = append(writer.leaves, leaf)
  return nil
}

// Write the index and the final header. The underlying writer is not
// closed.
func (writer *BigWigWriter) Close() error {
  if !writer.Parameters.Compress {
    writer.Header.UncompressBufSize = 0
  }
  tree := NewRTree()
  tree.BlockSize     = uint32(writer.Parameters.BlockSize)
  tree.NItemsPerSlot = uint32(writer.Parameters.ItemsPerSlot)

  writer.Header.IndexOffset = uint64(writer.cw.n)
  if err := tree.Write(writer.cw, writer.cw.n, writer.leaves, int64(writer.Header.IndexOffset)); err != nil {
    return err
  }
  if err := writer.cw.w.Flush(); err != nil {
    return err
  }
  // update header and block count
  if _, err := writer.writer.Seek(0, io.SeekStart); err != nil {
    return err
  }
  if err := writer.Header.Write(writer.writer); err != nil {
    return err
  }
  if _, err := writer.writer.Seek(int64(writer.Header.DataOffset), io.SeekStart); err != nil {
    return err
  }
  if err := binaryWrite(writer.writer, uint64(len(writer.leaves))); err != nil {
    return err
  }
  _, err := writer.writer.Seek(0, io.SeekEnd)
  return err
}
