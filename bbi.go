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
import "compress/zlib"
import "encoding/binary"
import "fmt"
import "io"
import "math"

/* -------------------------------------------------------------------------- */

const BIGWIG_MAGIC  = 0x888FFC26
const CIRTREE_MAGIC = 0x78ca8c91
const     IDX_MAGIC = 0x2468ace0

const bbiHeaderSize     = 64
const bbiZoomHeaderSize = 24
const bbiDataHeaderSize = 24

/* -------------------------------------------------------------------------- */

func fileReadAt(r io.ReadSeeker, offset int64, data ...interface{}) error {
  if _, err := r.Seek(offset, io.SeekStart); err != nil {
    return err
  }
  for _, d := range data {
    if err := binary.Read(r, binary.LittleEndian, d); err != nil {
      return err
    }
  }
  return nil
}

func binaryWrite(w io.Writer, data ...interface{}) error {
  for _, d := range data {
    if err := binary.Write(w, binary.LittleEndian, d); err != nil {
      return err
    }
  }
  return nil
}

func uncompressSlice(data []byte) ([]byte, error) {
  b := bytes.NewReader(data)
  z, err := zlib.NewReader(b)
  if err != nil {
    return nil, err
  }
  defer z.Close()

  return io.ReadAll(z)
}

func compressSlice(data []byte) ([]byte, error) {
  var b bytes.Buffer
  z, err := zlib.NewWriterLevel(&b, zlib.BestCompression)
  if err != nil {
    return nil, err
  }
  if _, err := z.Write(data); err != nil {
    return nil, err
  }
  if err := z.Close(); err != nil {
    return nil, err
  }
  return b.Bytes(), nil
}

/* data blocks
 * -------------------------------------------------------------------------- */

const (
  BBI_TYPE_BED_GRAPH  = 1
  BBI_TYPE_VAR_STEP   = 2
  BBI_TYPE_FIXED_STEP = 3
)

type BbiDataHeader struct {
  ChromId   uint32
  Start     uint32
  End       uint32
  Step      uint32
  Span      uint32
  Type      byte
  Reserved  byte
  ItemCount uint16
}

func (header *BbiDataHeader) ReadBuffer(buffer []byte) {

  header.ChromId   = binary.LittleEndian.Uint32(buffer[ 0: 4])
  header.Start     = binary.LittleEndian.Uint32(buffer[ 4: 8])
  header.End       = binary.LittleEndian.Uint32(buffer[ 8:12])
  header.Step      = binary.LittleEndian.Uint32(buffer[12:16])
  header.Span      = binary.LittleEndian.Uint32(buffer[16:20])
  header.Type      = buffer[20]
  header.Reserved  = buffer[21]
  header.ItemCount = binary.LittleEndian.Uint16(buffer[22:24])

}

func (header *BbiDataHeader) WriteBuffer(buffer []byte) {

  binary.LittleEndian.PutUint32(buffer[ 0: 4], header.ChromId)
  binary.LittleEndian.PutUint32(buffer[ 4: 8], header.Start)
  binary.LittleEndian.PutUint32(buffer[ 8:12], header.End)
  binary.LittleEndian.PutUint32(buffer[12:16], header.Step)
  binary.LittleEndian.PutUint32(buffer[16:20], header.Span)
  buffer[20] = header.Type
  buffer[21] = header.Reserved
  binary.LittleEndian.PutUint16(buffer[22:24], header.ItemCount)

}

/* -------------------------------------------------------------------------- */

// A single signal record, the value covers bases [From, To).
type BbiRecord struct {
  From  int
  To    int
  Value float64
}

func decodeBbiBlock(buffer []byte) (BbiDataHeader, []BbiRecord, error) {
  header := BbiDataHeader{}
  if len(buffer) < bbiDataHeaderSize {
    return header, nil, fmt.Errorf("block length is shorter than %d bytes", bbiDataHeaderSize)
  }
  header.ReadBuffer(buffer)
  // crop header from buffer
  buffer = buffer[bbiDataHeaderSize:]

  var width int
  switch header.Type {
  case BBI_TYPE_BED_GRAPH : width = 12
  case BBI_TYPE_VAR_STEP  : width =  8
  case BBI_TYPE_FIXED_STEP: width =  4
  default:
    return header, nil, fmt.Errorf("unsupported block type `%d'", header.Type)
  }
  n := int(header.ItemCount)
  if len(buffer) < n*width {
    return header, nil, fmt.Errorf("data block has invalid length")
  }
  records := make([]BbiRecord, n)
  for i := 0; i < n; i++ {
    b := buffer[i*width:(i+1)*width]
    r := &records[i]
    switch header.Type {
    case BBI_TYPE_BED_GRAPH:
      r.From  = int(binary.LittleEndian.Uint32(b[0:4]))
      r.To    = int(binary.LittleEndian.Uint32(b[4:8]))
      r.Value = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:12])))
    case BBI_TYPE_VAR_STEP:
      r.From  = int(binary.LittleEndian.Uint32(b[0:4]))
      r.To    = r.From + int(header.Span)
      r.Value = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])))
    case BBI_TYPE_FIXED_STEP:
      r.From  = int(header.Start) + i*int(header.Step)
      r.To    = r.From + int(header.Span)
      r.Value = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])))
    }
  }
  return header, records, nil
}

// Encode records as a bedGraph block.
func encodeBbiBlock(chromId int, records []BbiRecord) []byte {
  buffer := make([]byte, bbiDataHeaderSize + 12*len(records))
  header := BbiDataHeader{
    ChromId  : uint32(chromId),
    Start    : uint32(records[0].From),
    End      : uint32(records[len(records)-1].To),
    Type     : BBI_TYPE_BED_GRAPH,
    ItemCount: uint16(len(records)) }
  header.WriteBuffer(buffer)
  for i, r := range records {
    b := buffer[bbiDataHeaderSize+i*12:bbiDataHeaderSize+(i+1)*12]
    binary.LittleEndian.PutUint32(b[0: 4], uint32(r.From))
    binary.LittleEndian.PutUint32(b[4: 8], uint32(r.To))
    binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(float32(r.Value)))
  }
  return buffer
}

/* tree layout
 * -------------------------------------------------------------------------- */

// Node of a static tree. Leaves cover items [From, To), internal nodes
// the children [From, To) in the level below.
type bbiTreeNode struct {
  From, To         int
  ItemFrom, ItemTo int
  Offset           int64
}

// Arrange n items in a tree with at most blockSize children per node.
// Levels are returned from the root downwards and nodes are assigned
// consecutive file offsets starting at offset.
func bbiTreeLayout(n, blockSize int, offset int64, nodeSize func(leaf bool, count int) int64) [][]bbiTreeNode {
  blockSize = iMax(blockSize, 2)
  chunk := func(m int) []bbiTreeNode {
    nodes := []bbiTreeNode{}
    for i := 0; i < m || (m == 0 && i == 0); i += blockSize {
      nodes = append(nodes, bbiTreeNode{From: i, To: iMin(i+blockSize, m)})
    }
    return nodes
  }
  leaves := chunk(n)
  for i := range leaves {
    leaves[i].ItemFrom = leaves[i].From
    leaves[i].ItemTo   = leaves[i].To
  }
  levels := [][]bbiTreeNode{leaves}
  for len(levels[0]) > 1 {
    below := levels[0]
    nodes := chunk(len(below))
    for i := range nodes {
      nodes[i].ItemFrom = below[nodes[i].From  ].ItemFrom
      nodes[i].ItemTo   = below[nodes[i].To - 1].ItemTo
    }
    levels = append([][]bbiTreeNode{nodes}, levels...)
  }
  for l, nodes := range levels {
    leaf := l == len(levels)-1
    for i := range nodes {
      nodes[i].Offset = offset
      offset += nodeSize(leaf, nodes[i].To - nodes[i].From)
    }
  }
  return levels
}

/* chromosome b+ tree
 * -------------------------------------------------------------------------- */

type BData struct {
  KeySize       uint32
  ValueSize     uint32
  ItemsPerBlock uint32
  ItemCount     uint64

  Keys   [][]byte
  Values [][]byte
}

func NewBData(keySize, valueSize int) *BData {
  data := BData{}
  data.KeySize   = uint32(keySize)
  data.ValueSize = uint32(valueSize)
  return &data
}

func (data *BData) Add(key, value []byte) error {
  if uint32(len(key)) != data.KeySize {
    return fmt.Errorf("BData.Add(): key has invalid length")
  }
  if uint32(len(value)) != data.ValueSize {
    return fmt.Errorf("BData.Add(): value has invalid length")
  }
  data.Keys   = append(data.Keys,   key)
  data.Values = append(data.Values, value)
  data.ItemCount++
  return nil
}

func (data *BData) readVertex(r io.ReadSeeker, offset int64, depth int) error {
  var isLeaf  uint8
  var padding uint8
  var nVals   uint16

  if depth > 64 {
    return fmt.Errorf("chromosome tree is too deep")
  }
  if err := fileReadAt(r, offset, &isLeaf, &padding, &nVals); err != nil {
    return err
  }
  if isLeaf != 0 {
    for i := 0; i < int(nVals); i++ {
      key   := make([]byte, data.KeySize)
      value := make([]byte, data.ValueSize)
      if _, err := io.ReadFull(r, key); err != nil {
        return err
      }
      if _, err := io.ReadFull(r, value); err != nil {
        return err
      }
      data.Keys   = append(data.Keys,   key)
      data.Values = append(data.Values, value)
    }
    return nil
  }
  positions := make([]uint64, nVals)
  key       := make([]byte, data.KeySize)
  for i := 0; i < int(nVals); i++ {
    if _, err := io.ReadFull(r, key); err != nil {
      return err
    }
    if err := binary.Read(r, binary.LittleEndian, &positions[i]); err != nil {
      return err
    }
  }
  for _, position := range positions {
    if err := data.readVertex(r, int64(position), depth+1); err != nil {
      return err
    }
  }
  return nil
}

func (data *BData) Read(r io.ReadSeeker, offset int64) error {
  var magic    uint32
  var reserved uint64

  if err := fileReadAt(r, offset, &magic, &data.ItemsPerBlock, &data.KeySize, &data.ValueSize, &data.ItemCount, &reserved); err != nil {
    return err
  }
  if magic != CIRTREE_MAGIC {
    return fmt.Errorf("invalid chromosome tree")
  }
  if err := data.readVertex(r, offset+32, 0); err != nil {
    return err
  }
  if uint64(len(data.Keys)) != data.ItemCount {
    return fmt.Errorf("chromosome tree has %d items but header claims %d", len(data.Keys), data.ItemCount)
  }
  return nil
}

// Write the tree at the given file offset. Keys must be sorted.
func (data *BData) Write(w io.Writer, offset int64) error {
  if data.ItemsPerBlock == 0 {
    data.ItemsPerBlock = 256
  }
  levels := bbiTreeLayout(len(data.Keys), int(data.ItemsPerBlock), offset+32,
    func(leaf bool, count int) int64 {
      if leaf {
        return 4 + int64(count)*int64(data.KeySize + data.ValueSize)
      } else {
        return 4 + int64(count)*int64(data.KeySize + 8)
      }
    })
  if err := binaryWrite(w, uint32(CIRTREE_MAGIC), data.ItemsPerBlock, data.KeySize, data.ValueSize, uint64(len(data.Keys)), uint64(0)); err != nil {
    return err
  }
  for l, nodes := range levels {
    leaf := l == len(levels)-1
    for _, node := range nodes {
      isLeaf := uint8(0)
      if leaf {
        isLeaf = 1
      }
      if err := binaryWrite(w, isLeaf, uint8(0), uint16(node.To-node.From)); err != nil {
        return err
      }
      for i := node.From; i < node.To; i++ {
        if leaf {
          if _, err := w.Write(data.Keys[i]); err != nil {
            return err
          }
          if _, err := w.Write(data.Values[i]); err != nil {
            return err
          }
        } else {
          child := levels[l+1][i]
          if _, err := w.Write(data.Keys[child.ItemFrom]); err != nil {
            return err
          }
          if err := binary.Write(w, binary.LittleEndian, uint64(child.Offset)); err != nil {
            return err
          }
        }
      }
    }
  }
  return nil
}

/* r tree index
 * -------------------------------------------------------------------------- */

type RTree struct {
  BlockSize     uint32
  NItems        uint64
  ChrIdxStart   uint32
  BaseStart     uint32
  ChrIdxEnd     uint32
  BaseEnd       uint32
  IdxSize       uint64
  NItemsPerSlot uint32
  // file offset of the root vertex
  RootOffset    int64
}

// Leaf of the index, pointing to a single data block.
type RTreeLeaf struct {
  ChrIdxStart uint32
  BaseStart   uint32
  ChrIdxEnd   uint32
  BaseEnd     uint32
  DataOffset  uint64
  DataSize    uint64
}

type rTreeIndexItem struct {
  ChrIdxStart uint32
  BaseStart   uint32
  ChrIdxEnd   uint32
  BaseEnd     uint32
  ChildOffset uint64
}

func NewRTree() *RTree {
  tree := RTree{}
  // default values
  tree.BlockSize     = 256
  tree.NItemsPerSlot = 1024
  return &tree
}

func (tree *RTree) Read(r io.ReadSeeker, offset int64) error {
  var magic   uint32
  var padding uint32

  if err := fileReadAt(r, offset, &magic, &tree.BlockSize, &tree.NItems,
    &tree.ChrIdxStart, &tree.BaseStart, &tree.ChrIdxEnd, &tree.BaseEnd,
    &tree.IdxSize, &tree.NItemsPerSlot, &padding); err != nil {
    return err
  }
  if magic != IDX_MAGIC {
    return fmt.Errorf("invalid bbi tree")
  }
  tree.RootOffset = offset + 48
  return nil
}

// Compare (c1, b1) with (c2, b2) lexicographically.
func bbiCmp(c1, b1, c2, b2 uint32) int {
  switch {
  case c1 < c2: return -1
  case c1 > c2: return  1
  case b1 < b2: return -1
  case b1 > b2: return  1
  }
  return 0
}

func bbiOverlaps(chromId, from, to uint32, c1, b1, c2, b2 uint32) bool {
  return bbiCmp(chromId, from, c2, b2) < 0 && bbiCmp(chromId, to, c1, b1) > 0
}

// Find all data blocks that overlap [from, to) on the given chromosome.
func (tree *RTree) Query(r io.ReadSeeker, chromId, from, to int) ([]RTreeLeaf, error) {
  result := []RTreeLeaf{}
  if err := tree.queryVertex(r, tree.RootOffset, uint32(chromId), uint32(from), uint32(to), &result, 0); err != nil {
    return nil, err
  }
  return result, nil
}

func (tree *RTree) queryVertex(r io.ReadSeeker, offset int64, chromId, from, to uint32, result *[]RTreeLeaf, depth int) error {
  var isLeaf  uint8
  var padding uint8
  var nVals   uint16

  if depth > 64 {
    return fmt.Errorf("index tree is too deep")
  }
  if err := fileReadAt(r, offset, &isLeaf, &padding, &nVals); err != nil {
    return err
  }
  if isLeaf != 0 {
    items := make([]RTreeLeaf, nVals)
    if err := binary.Read(r, binary.LittleEndian, items); err != nil {
      return err
    }
    for _, item := range items {
      if bbiOverlaps(chromId, from, to, item.ChrIdxStart, item.BaseStart, item.ChrIdxEnd, item.BaseEnd) {
        *result = append(*result, item)
      }
    }
    return nil
  }
  items := make([]rTreeIndexItem, nVals)
  if err := binary.Read(r, binary.LittleEndian, items); err != nil {
    return err
  }
  for _, item := range items {
    if bbiOverlaps(chromId, from, to, item.ChrIdxStart, item.BaseStart, item.ChrIdxEnd, item.BaseEnd) {
      if err := tree.queryVertex(r, int64(item.ChildOffset), chromId, from, to, result, depth+1); err != nil {
        return err
      }
    }
  }
  return nil
}

// Write the index for the given leaves at the given file offset. Leaves
// must be sorted by position.
func (tree *RTree) Write(w io.Writer, offset int64, leaves []RTreeLeaf, endFileOffset int64) error {
  levels := bbiTreeLayout(len(leaves), int(tree.BlockSize), offset+48,
    func(leaf bool, count int) int64 {
      if leaf {
        return 4 + int64(count)*32
      } else {
        return 4 + int64(count)*24
      }
    })
  // bounds of the items [from, to)
  bounds := func(from, to int) (uint32, uint32, uint32, uint32) {
    if from >= to {
      return 0, 0, 0, 0
    }
    c2, b2 := leaves[from].ChrIdxEnd, leaves[from].BaseEnd
    for i := from+1; i < to; i++ {
      if bbiCmp(leaves[i].ChrIdxEnd, leaves[i].BaseEnd, c2, b2) > 0 {
        c2, b2 = leaves[i].ChrIdxEnd, leaves[i].BaseEnd
      }
    }
    return leaves[from].ChrIdxStart, leaves[from].BaseStart, c2, b2
  }
  tree.NItems = uint64(len(leaves))
  tree.ChrIdxStart, tree.BaseStart, tree.ChrIdxEnd, tree.BaseEnd = bounds(0, len(leaves))
  tree.IdxSize = uint64(endFileOffset)

  if err := binaryWrite(w, uint32(IDX_MAGIC), tree.BlockSize, tree.NItems,
    tree.ChrIdxStart, tree.BaseStart, tree.ChrIdxEnd, tree.BaseEnd,
    tree.IdxSize, tree.NItemsPerSlot, uint32(0)); err != nil {
    return err
  }
  for l, nodes := range levels {
    leaf := l == len(levels)-1
    for _, node := range nodes {
      isLeaf := uint8(0)
      if leaf {
        isLeaf = 1
      }
      if err := binaryWrite(w, isLeaf, uint8(0), uint16(node.To-node.From)); err != nil {
        return err
      }
      if leaf {
        if err := binary.Write(w, binary.LittleEndian, leaves[node.From:node.To]); err != nil {
          return err
        }
        continue
      }
      for i := node.From; i < node.To; i++ {
        child := levels[l+1][i]
        item  := rTreeIndexItem{ChildOffset: uint64(child.Offset)}
        item.ChrIdxStart, item.BaseStart, item.ChrIdxEnd, item.BaseEnd = bounds(child.ItemFrom, child.ItemTo)
        if err := binary.Write(w, binary.LittleEndian, item); err != nil {
          return err
        }
      }
    }
  }
  tree.RootOffset = offset + 48
  return nil
}

/* header
 * -------------------------------------------------------------------------- */

type BbiHeaderZoom struct {
  ReductionLevel    uint32
  Reserved          uint32
  DataOffset        uint64
  IndexOffset       uint64
}

type BbiHeader struct {
  Magic             uint32
  Version           uint16
  ZoomLevels        uint16
  CtOffset          uint64
  DataOffset        uint64
  IndexOffset       uint64
  FieldCount        uint16
  DefinedFieldCount uint16
  SqlOffset         uint64
  SummaryOffset     uint64
  UncompressBufSize uint32
  ExtensionOffset   uint64
  ZoomHeaders     []BbiHeaderZoom
}

func NewBbiHeader() *BbiHeader {
  header := BbiHeader{}
  header.Magic   = BIGWIG_MAGIC
  header.Version = 4
  return &header
}

func (header *BbiHeader) fields() []interface{} {
  return []interface{}{
    &header.Magic, &header.Version, &header.ZoomLevels,
    &header.CtOffset, &header.DataOffset, &header.IndexOffset,
    &header.FieldCount, &header.DefinedFieldCount,
    &header.SqlOffset, &header.SummaryOffset,
    &header.UncompressBufSize, &header.ExtensionOffset }
}

func (header *BbiHeader) checkMagic(r io.Reader, magic uint32) error {
  var m uint32
  if err := binary.Read(r, binary.LittleEndian, &m); err != nil {
    return err
  }
  switch m {
  case magic:
    return nil
  case swapUint32(magic):
    return fmt.Errorf("big endian bbi files are not supported")
  }
  return fmt.Errorf("invalid magic number")
}

func swapUint32(x uint32) uint32 {
  return x>>24 | (x>>8)&0xff00 | (x<<8)&0xff0000 | x<<24
}

func (header *BbiHeader) Read(r io.ReadSeeker, magic uint32) error {
  if _, err := r.Seek(0, io.SeekStart); err != nil {
    return err
  }
  if err := header.checkMagic(r, magic); err != nil {
    return err
  }
  if err := fileReadAt(r, 0, header.fields()...); err != nil {
    return err
  }
  header.ZoomHeaders = make([]BbiHeaderZoom, header.ZoomLevels)
  if err := binary.Read(r, binary.LittleEndian, header.ZoomHeaders); err != nil {
    return err
  }
  return nil
}

func (header *BbiHeader) Write(w io.Writer) error {
  if err := binaryWrite(w, header.fields()...); err != nil {
    return err
  }
  return binary.Write(w, binary.LittleEndian, header.ZoomHeaders)
}
