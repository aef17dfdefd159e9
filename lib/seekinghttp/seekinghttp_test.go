package seekinghttp

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newServer(data []byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "data.bin", time.Time{}, bytes.NewReader(data))
	}))
}

func TestSeekingHTTP(t *testing.T) {
	data := []byte(strings.Repeat("abcdefghijklmnopqrstuvwxyz", 100))
	server := newServer(data)
	defer server.Close()

	s := New(server.URL)
	s.ChunkSize = 16

	if size, err := s.Size(); err != nil || size != int64(len(data)) {
		t.Fatalf("Size() = %d, %v", size, err)
	}
	if _, err := s.Seek(30, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 5)
	if _, err := io.ReadFull(s, buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "efghi" {
		t.Errorf("expected `efghi', got `%s'", buf)
	}
	// served from cache
	if _, err := io.ReadFull(s, buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "jklmn" {
		t.Errorf("expected `jklmn', got `%s'", buf)
	}
	if _, err := s.Seek(-3, io.SeekEnd); err != nil {
		t.Fatal(err)
	}
	n, err := io.ReadFull(s, buf)
	if n != 3 || err != io.ErrUnexpectedEOF {
		t.Errorf("expected short read at end of file, got %d, %v", n, err)
	}
	if string(buf[0:3]) != "xyz" {
		t.Errorf("expected `xyz', got `%s'", buf[0:3])
	}
}
