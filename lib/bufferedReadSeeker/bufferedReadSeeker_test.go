/* Copyright (C) 2019 Philipp Benner
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

package bufferedReadSeeker

/* -------------------------------------------------------------------------- */

import   "bytes"
import   "io"
import   "math/rand"
import   "testing"

/* -------------------------------------------------------------------------- */

func TestBufferedReadSeeker1(t *testing.T) {
  data := make([]byte, 1000)
  for i := range data {
    data[i] = byte(i % 251)
  }
  reader, err := New(bytes.NewReader(data), 16)
  if err != nil {
    t.Fatal(err)
  }
  rng := rand.New(rand.NewSource(1))

  for k := 0; k < 500; k++ {
    offset := rng.Int63n(int64(len(data)))
    length := 1 + rng.Intn(40)
    if _, err := reader.Seek(offset, io.SeekStart); err != nil {
      t.Fatal(err)
    }
    buf := make([]byte, length)
    n, err := io.ReadFull(reader, buf)
    if want := int(int64(len(data)) - offset); length > want {
      if n != want {
        t.Errorf("test failed: expected %d bytes at offset %d, got %d", want, offset, n)
      }
      continue
    }
    if err != nil {
      t.Fatal(err)
    }
    if !bytes.Equal(buf, data[offset:offset+int64(length)]) {
      t.Errorf("test failed at offset %d with length %d", offset, length)
    }
  }
}

func TestBufferedReadSeeker2(t *testing.T) {
  data := []byte("0123456789abcdefghij")
  reader, _ := New(bytes.NewReader(data), 4)

  buf := make([]byte, 3)
  io.ReadFull(reader, buf)
  if p, _ := reader.Seek(2, io.SeekCurrent); p != 5 {
    t.Error("test failed")
  }
  io.ReadFull(reader, buf)
  if string(buf) != "567" {
    t.Error("test failed")
  }
  if p, _ := reader.Seek(-2, io.SeekEnd); p != 18 {
    t.Error("test failed")
  }
  io.ReadFull(reader, buf[0:2])
  if string(buf[0:2]) != "ij" {
    t.Error("test failed")
  }
  if n, err := reader.Read(buf); n != 0 || err != io.EOF {
    t.Error("test failed")
  }
}
