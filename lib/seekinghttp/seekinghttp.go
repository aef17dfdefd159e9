package seekinghttp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
)

// SeekingHTTP uses a series of HTTP GETs with Range headers
// to implement io.ReadSeeker and io.ReaderAt.
type SeekingHTTP struct {
	URL    string
	Client *http.Client
	Debug  bool
	// Minimum number of bytes fetched per request
	ChunkSize  int
	url        *url.URL
	offset     int64
	size       int64
	last       *bytes.Buffer
	lastOffset int64
}

// Compile-time check of interface implementations.
var _ io.ReadSeeker = (*SeekingHTTP)(nil)
var _ io.ReaderAt = (*SeekingHTTP)(nil)
var _ io.Closer = (*SeekingHTTP)(nil)

// New initializes a SeekingHTTP for the given URL.
// The SeekingHTTP.Client field may be set before the first call
// to Read or Seek.
func New(url string) *SeekingHTTP {
	return &SeekingHTTP{
		URL:       url,
		ChunkSize: 64 * 1024,
		size:      -1,
	}
}

func (s *SeekingHTTP) newreq(method string) (*http.Request, error) {
	var err error
	if s.url == nil {
		s.url, err = url.Parse(s.URL)
		if err != nil {
			return nil, err
		}
	}
	if s.Client == nil {
		s.Client = http.DefaultClient
	}
	return http.NewRequest(method, s.url.String(), nil)
}

func fmtRange(from, l int64) string {
	return fmt.Sprintf("bytes=%v-%v", from, from+l-1)
}

// ReadAt reads len(buf) bytes into buf starting at offset off.
func (s *SeekingHTTP) ReadAt(buf []byte, off int64) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if s.last != nil && off >= s.lastOffset {
		end := off + int64(len(buf))
		if end <= s.lastOffset+int64(s.last.Len()) {
			if s.Debug {
				log.Printf("cache hit: range (%v-%v)", off, end)
			}
			copy(buf, s.last.Bytes()[off-s.lastOffset:end-s.lastOffset])
			return len(buf), nil
		}
	}
	req, err := s.newreq(http.MethodGet)
	if err != nil {
		return 0, err
	}
	// fetch more than what was asked for to reduce round-trips
	wanted := len(buf)
	if wanted < s.ChunkSize {
		wanted = s.ChunkSize
	}
	rng := fmtRange(off, int64(wanted))
	req.Header.Add("Range", rng)

	if s.Debug {
		log.Println("start HTTP GET with Range:", rng)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusPartialContent:
	case http.StatusRequestedRangeNotSatisfiable:
		return 0, io.EOF
	default:
		return 0, fmt.Errorf("range request for `%s' failed: %s", s.URL, resp.Status)
	}
	if s.last == nil {
		s.last = &bytes.Buffer{}
	} else {
		s.last.Reset()
	}
	if _, err := s.last.ReadFrom(resp.Body); err != nil {
		return 0, err
	}
	s.lastOffset = off

	n := copy(buf, s.last.Bytes())
	if n < len(buf) {
		return n, io.EOF
	}
	return n, nil
}

func (s *SeekingHTTP) Read(buf []byte) (int, error) {
	n, err := s.ReadAt(buf, s.offset)
	s.offset += int64(n)
	if n > 0 && err == io.EOF {
		err = nil
	}
	return n, err
}

// Seek sets the offset for the next Read.
func (s *SeekingHTTP) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		s.offset = offset
	case io.SeekCurrent:
		s.offset += offset
	case io.SeekEnd:
		size, err := s.Size()
		if err != nil {
			return 0, err
		}
		s.offset = size + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if s.offset < 0 {
		return 0, errors.New("negative position")
	}
	return s.offset, nil
}

// Size uses an HTTP HEAD to find out how many bytes are available in total.
func (s *SeekingHTTP) Size() (int64, error) {
	if s.size >= 0 {
		return s.size, nil
	}
	req, err := s.newreq(http.MethodHead)
	if err != nil {
		return 0, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HEAD request for `%s' failed: %s", s.URL, resp.Status)
	}
	if resp.ContentLength < 0 {
		return 0, errors.New("no content length for Size()")
	}
	s.size = resp.ContentLength
	return s.size, nil
}

// Close releases the cached response.
func (s *SeekingHTTP) Close() error {
	s.last = nil
	return nil
}
