package httpc

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	kgzip "github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func fetch(t *testing.T, url string) []byte {
	t.Helper()
	resp, err := NewClient().Get(url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Encoding"); got != "" {
		t.Fatalf("Content-Encoding must be cleared after decoding, got %q", got)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return body
}

func TestTransport_DecodesGzip(t *testing.T) {
	const payload = "gzip payload"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ae := r.Header.Get("Accept-Encoding"); ae != acceptEncoding {
			t.Errorf("Accept-Encoding: got %q", ae)
		}
		w.Header().Set("Content-Encoding", "gzip")
		gw := kgzip.NewWriter(w)
		_, _ = gw.Write([]byte(payload))
		_ = gw.Close()
	}))
	defer srv.Close()

	if got := fetch(t, srv.URL); string(got) != payload {
		t.Fatalf("decoded body: got %q", got)
	}
}

func TestTransport_DecodesBrotli(t *testing.T) {
	const payload = "brotli payload"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		_, _ = bw.Write([]byte(payload))
		_ = bw.Close()
	}))
	defer srv.Close()

	if got := fetch(t, srv.URL); string(got) != payload {
		t.Fatalf("decoded body: got %q", got)
	}
}

func TestTransport_DecodesZstd(t *testing.T) {
	const payload = "zstd payload"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "zstd")
		zw, err := zstd.NewWriter(w)
		if err != nil {
			t.Errorf("zstd writer: %v", err)
			return
		}
		_, _ = zw.Write([]byte(payload))
		_ = zw.Close()
	}))
	defer srv.Close()

	if got := fetch(t, srv.URL); string(got) != payload {
		t.Fatalf("decoded body: got %q", got)
	}
}

func TestTransport_PassesThroughIdentity(t *testing.T) {
	const payload = "plain payload"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	if got := fetch(t, srv.URL); string(got) != payload {
		t.Fatalf("identity body: got %q", got)
	}
}
