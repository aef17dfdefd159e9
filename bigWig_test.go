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
import   "errors"
import   "fmt"
import   "net/http"
import   "net/http/httptest"
import   "os"
import   "path/filepath"
import   "testing"
import   "time"

/* -------------------------------------------------------------------------- */

func writeTestBigWig(t *testing.T, filename string, genome Genome, data map[string][]BbiRecord, parameters BigWigParameters) {
  f, err := os.Create(filename)
  if err != nil {
    t.Fatal(err)
  }
  defer f.Close()
  writer, err := NewBigWigWriter(f, genome, parameters)
  if err != nil {
    t.Fatal(err)
  }
  for _, seqname := range genome.Seqnames {
    if records, ok := data[seqname]; ok {
      if err := writer.Write(seqname, records); err != nil {
        t.Fatal(err)
      }
    }
  }
  if err := writer.Close(); err != nil {
    t.Fatal(err)
  }
}

func testBigWigData() (Genome, map[string][]BbiRecord) {
  genome := NewGenome([]string{"chr1", "chr2", "chr3"}, []int{10, 4, 7})
  data   := map[string][]BbiRecord{
    "chr1": {{0, 1, 0}, {2, 4, 0.5}, {4, 5, 2}, {5, 6, 3}, {8, 10, 0.5}},
    "chr3": {{0, 7, 1.5}} }
  return genome, data
}

/* -------------------------------------------------------------------------- */

func TestBigWig1(t *testing.T) {
  genome, data := testBigWigData()
  filename := filepath.Join(t.TempDir(), "test.bw")

  for _, compress := range []bool{false, true} {
    parameters := DefaultBigWigParameters()
    parameters.Compress = compress
    writeTestBigWig(t, filename, genome, data, parameters)

    file, err := OpenBigWig(filename)
    if err != nil {
      t.Fatal(err)
    }
    if file.Name() != "test" {
      t.Error("TestBigWig1 failed!")
    }
    if g := file.Genome(); g.String() != genome.String() {
      t.Errorf("TestBigWig1 failed: %v", g)
    }
    x, err := QueryBases(file, "chr1", 10)
    if err != nil {
      t.Fatal(err)
    }
    if !equalFloat64s(x, []float64{0, nan, 0.5, 0.5, 2, 3, nan, nan, 0.5, 0.5}) {
      t.Errorf("TestBigWig1 failed: %v", x)
    }
    bins, err := QueryBins(file, "chr1", 10, 2, BinMissingIfAny)
    if err != nil {
      t.Fatal(err)
    }
    if !equalFloat64s(bins, []float64{nan, 0.5, 2.5, nan, 0.5}) {
      t.Errorf("TestBigWig1 failed: %v", bins)
    }
    if _, err := QueryBins(file, "chr2", 4, 2, BinMissingIfAny); err != nil {
      t.Error("TestBigWig1 failed!")
    }
    if _, err := QueryBins(file, "chrX", 4, 2, BinMissingIfAny); !errors.Is(err, ErrSequenceNotFound) {
      t.Error("TestBigWig1 failed!")
    }
    if err := file.Close(); err != nil {
      t.Error(err)
    }
    if err := file.Close(); err != nil {
      t.Error(err)
    }
  }
}

func TestBigWig2(t *testing.T) {
  // many chromosomes and blocks, forces multi-level trees
  seqnames := []string{}
  lengths  := []int{}
  data     := map[string][]BbiRecord{}
  for i := 0; i < 20; i++ {
    seqname := fmt.Sprintf("chr%d", i+1)
    seqnames = append(seqnames, seqname)
    lengths  = append(lengths, 1000)
    records := []BbiRecord{}
    for j := 0; j < 100; j++ {
      records = append(records, BbiRecord{j*10, j*10+5, float64(i*1000+j)})
    }
    data[seqname] = records
  }
  genome := NewGenome(seqnames, lengths)
  filename := filepath.Join(t.TempDir(), "test.bw")

  parameters := DefaultBigWigParameters()
  parameters.BlockSize    = 3
  parameters.ItemsPerSlot = 7
  writeTestBigWig(t, filename, genome, data, parameters)

  file, err := OpenBigWig(filename)
  if err != nil {
    t.Fatal(err)
  }
  defer file.Close()

  if file.Genome().Length() != 20 {
    t.Fatal("TestBigWig2 failed!")
  }
  for i, seqname := range seqnames {
    if l, _ := file.Genome().SeqLength(seqname); l != 1000 {
      t.Errorf("TestBigWig2 failed for `%s'", seqname)
    }
    bins, err := QueryBins(file, seqname, 1000, 10, BinMissingIfAll)
    if err != nil {
      t.Fatal(err)
    }
    if len(bins) != 100 {
      t.Fatal("TestBigWig2 failed!")
    }
    for j, v := range bins {
      if v != float64(i*1000+j) {
        t.Fatalf("TestBigWig2 failed for `%s' at bin %d: %v", seqname, j, v)
      }
    }
  }
}

func TestBigWig3(t *testing.T) {
  genome, data := testBigWigData()
  filename := filepath.Join(t.TempDir(), "test.bw")
  writeTestBigWig(t, filename, genome, data, DefaultBigWigParameters())

  content, err := os.ReadFile(filename)
  if err != nil {
    t.Fatal(err)
  }
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    http.ServeContent(w, r, "test.bw", time.Time{}, bytes.NewReader(content))
  }))
  defer server.Close()

  file, err := OpenSignalFile(server.URL + "/test.bw")
  if err != nil {
    t.Fatal(err)
  }
  defer file.Close()

  bins, err := QueryBins(file, "chr1", 10, 2, BinMissingIfAny)
  if err != nil {
    t.Fatal(err)
  }
  if !equalFloat64s(bins, []float64{nan, 0.5, 2.5, nan, 0.5}) {
    t.Errorf("TestBigWig3 failed: %v", bins)
  }
}

func TestBigWig4(t *testing.T) {
  genome, _ := testBigWigData()
  var buffer bytes.Buffer
  f := filepath.Join(t.TempDir(), "test.bw")
  w, err := os.Create(f)
  if err != nil {
    t.Fatal(err)
  }
  defer w.Close()
  writer, err := NewBigWigWriter(w, genome, DefaultBigWigParameters())
  if err != nil {
    t.Fatal(err)
  }
  if err := writer.Write("chr2", []BbiRecord{{0, 1, 1}}); err != nil {
    t.Fatal(err)
  }
  // out of order
  if err := writer.Write("chr1", []BbiRecord{{0, 1, 1}}); err == nil {
    t.Error("TestBigWig4 failed!")
  }
  // overlapping records
  if err := writer.Write("chr3", []BbiRecord{{0, 3, 1}, {2, 4, 1}}); err == nil {
    t.Error("TestBigWig4 failed!")
  }
  // not a bigWig file
  buffer.WriteString("chr1\t0\t10\t1.0\n")
  if _, err := NewBigWigReader(bytes.NewReader(buffer.Bytes())); err == nil {
    t.Error("TestBigWig4 failed!")
  }
}

func TestBigWig5(t *testing.T) {
  // fixed and variable step blocks
  block := make([]byte, bbiDataHeaderSize+8)
  header := BbiDataHeader{ChromId: 1, Start: 100, End: 120, Step: 10, Span: 5, Type: BBI_TYPE_FIXED_STEP, ItemCount: 2}
  header.WriteBuffer(block)
  copy(block[bbiDataHeaderSize:], []byte{0, 0, 128, 63, 0, 0, 0, 64})

  h, records, err := decodeBbiBlock(block)
  if err != nil {
    t.Fatal(err)
  }
  if h.ChromId != 1 || len(records) != 2 {
    t.Fatal("TestBigWig5 failed!")
  }
  if records[0] != (BbiRecord{100, 105, 1}) || records[1] != (BbiRecord{110, 115, 2}) {
    t.Errorf("TestBigWig5 failed: %v", records)
  }
  header.Type = BBI_TYPE_VAR_STEP
  header.ItemCount = 1
  header.WriteBuffer(block)
  copy(block[bbiDataHeaderSize:], []byte{7, 0, 0, 0, 0, 0, 64, 64})
  if _, records, err := decodeBbiBlock(block); err != nil {
    t.Fatal(err)
  } else
  if len(records) != 1 || records[0] != (BbiRecord{7, 12, 3}) {
    t.Errorf("TestBigWig5 failed: %v", records)
  }
  header.Type = 9
  header.WriteBuffer(block)
  if _, _, err := decodeBbiBlock(block); err == nil {
    t.Error("TestBigWig5 failed!")
  }
}

func TestBigWig6(t *testing.T) {
  genome := NewGenome([]string{"chr1", "chr2"}, []int{10, 5})
  track, err := NewBinnedTrack("test", [][]float64{{1, nan, 3, 4, 5}, {2, 8, 9}}, genome, 2)
  if err != nil {
    t.Fatal(err)
  }
  filename := filepath.Join(t.TempDir(), "test.bw")
  if err := ExportBigWig(filename, track, DefaultBigWigParameters()); err != nil {
    t.Fatal(err)
  }
  file, err := OpenSignalFile(filename)
  if err != nil {
    t.Fatal(err)
  }
  defer file.Close()
  bins, err := QueryBins(file, "chr2", 5, 2, BinMissingIfAny)
  if err != nil {
    t.Fatal(err)
  }
  if !equalFloat64s(bins, []float64{2, 8, 9}) {
    t.Errorf("TestBigWig6 failed: %v", bins)
  }
  x, err := QueryBases(file, "chr1", 10)
  if err != nil {
    t.Fatal(err)
  }
  if !equalFloat64s(x, []float64{1, 1, nan, nan, 3, 3, 4, 4, 5, 5}) {
    t.Errorf("TestBigWig6 failed: %v", x)
  }
}
