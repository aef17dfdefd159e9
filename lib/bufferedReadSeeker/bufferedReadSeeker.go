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

import   "fmt"
import   "io"

/* -------------------------------------------------------------------------- */

// Read buffer on top of an io.ReadSeeker. Seeks within the buffered
// window do not touch the underlying reader.
type BufferedReadSeeker struct {
  reader     io.ReadSeeker
  // file position of buffer[0]
  position   int64
  // read offset within the buffer
  offset     int64
  // number of valid bytes in the buffer
  bufsize    int64
  buffer   []byte
}

/* -------------------------------------------------------------------------- */

func New(reader io.ReadSeeker, bufsize int) (*BufferedReadSeeker, error) {
  if bufsize <= 0 {
    return nil, fmt.Errorf("invalid buffer size")
  }
  position, err := reader.Seek(0, io.SeekCurrent); if err != nil {
    return nil, err
  }
  return &BufferedReadSeeker{reader, position, 0, 0, make([]byte, bufsize)}, nil
}

/* -------------------------------------------------------------------------- */

func (reader *BufferedReadSeeker) fillBuffer() error {
  position := reader.position + reader.offset
  if _, err := reader.reader.Seek(position, io.SeekStart); err != nil {
    return err
  }
  n, err := io.ReadFull(reader.reader, reader.buffer)
  if err == io.ErrUnexpectedEOF {
    err = nil
  }
  reader.position = position
  reader.bufsize  = int64(n)
  reader.offset   = 0
  return err
}

func (reader *BufferedReadSeeker) Read(p []byte) (int, error) {
  if reader.offset >= reader.bufsize && len(p) > len(reader.buffer) {
    // more bytes requested than can be buffered
    position := reader.position + reader.offset
    if _, err := reader.reader.Seek(position, io.SeekStart); err != nil {
      return 0, err
    }
    n, err := reader.reader.Read(p)
    reader.position = position + int64(n)
    reader.bufsize  = 0
    reader.offset   = 0
    return n, err
  }
  if reader.offset >= reader.bufsize {
    if err := reader.fillBuffer(); err != nil {
      return 0, err
    }
    if reader.bufsize == 0 {
      return 0, io.EOF
    }
  }
  n := copy(p, reader.buffer[reader.offset:reader.bufsize])
  reader.offset += int64(n)
  return n, nil
}

func (reader *BufferedReadSeeker) Seek(offset int64, whence int) (int64, error) {
  var n int64
  switch whence {
  case io.SeekStart:
    n = offset
  case io.SeekCurrent:
    n = reader.position + reader.offset + offset
  case io.SeekEnd:
    if m, err := reader.reader.Seek(offset, io.SeekEnd); err != nil {
      return 0, err
    } else {
      n = m
    }
  default:
    return 0, fmt.Errorf("invalid whence")
  }
  if n < 0 {
    return 0, fmt.Errorf("negative position")
  }
  if n < reader.position || n > reader.position + reader.bufsize {
    reader.bufsize  = 0
    reader.offset   = 0
    reader.position = n
  } else {
    reader.offset   = n - reader.position
  }
  return n, nil
}

func (reader *BufferedReadSeeker) SetBufSize(n int) error {
  if n <= 0 {
    return fmt.Errorf("invalid buffer size")
  }
  reader.position += reader.offset
  if n <= len(reader.buffer) {
    reader.buffer = reader.buffer[0:n]
  } else {
    reader.buffer = make([]byte, n)
  }
  reader.bufsize = 0
  reader.offset  = 0
  return nil
}
