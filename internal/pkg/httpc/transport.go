// Package httpc provides the shared outbound HTTP client used for platform
// REST calls. The transport advertises modern content encodings and
// transparently decompresses responses.
package httpc

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	kflate "github.com/klauspost/compress/flate"
	kgzip "github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	defaultTimeout = 30 * time.Second

	acceptEncoding = "gzip, deflate, br, zstd"
)

// NewClient builds an http.Client with the decoding transport and a sane
// request timeout. Callers relying on tighter latency bounds should wrap
// requests in their own context deadlines.
func NewClient() *http.Client {
	return &http.Client{
		Timeout:   defaultTimeout,
		Transport: NewTransport(nil),
	}
}

// NewTransport wraps base so responses compressed with gzip, deflate, br or
// zstd are decoded before the caller sees them. When base is nil a clone of
// http.DefaultTransport is used. DisableCompression is forced on so the
// standard library does not double-handle gzip.
func NewTransport(base *http.Transport) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}
	base.DisableCompression = true
	return &decodingTransport{base: base}
}

type decodingTransport struct {
	base http.RoundTripper
}

func (t *decodingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Respect an explicit Accept-Encoding set by the caller.
	if req.Header.Get("Accept-Encoding") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	encoding := strings.ToLower(resp.Header.Get("Content-Encoding"))
	if encoding == "" {
		return resp, nil
	}

	var body io.ReadCloser
	switch encoding {
	case "gzip":
		r, err := kgzip.NewReader(resp.Body)
		if err != nil {
			return resp, nil // undecodable, hand back the raw body
		}
		body = &decodedBody{reader: r, raw: resp.Body}
	case "deflate":
		body = &decodedBody{reader: kflate.NewReader(resp.Body), raw: resp.Body}
	case "br":
		body = &decodedBody{reader: brotli.NewReader(resp.Body), raw: resp.Body}
	case "zstd":
		r, err := zstd.NewReader(resp.Body)
		if err != nil {
			return resp, nil
		}
		body = &zstdBody{decoder: r, raw: resp.Body}
	default:
		return resp, nil
	}

	resp.Body = body
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length") // stale after decoding
	resp.ContentLength = -1
	return resp, nil
}

// decodedBody couples a decoder with the underlying response body so Close
// releases both.
type decodedBody struct {
	reader io.Reader
	raw    io.Closer
}

func (b *decodedBody) Read(p []byte) (int, error) {
	return b.reader.Read(p)
}

func (b *decodedBody) Close() error {
	if c, ok := b.reader.(io.Closer); ok {
		_ = c.Close()
	}
	return b.raw.Close()
}

// zstdBody exists because zstd.Decoder's Close returns nothing.
type zstdBody struct {
	decoder *zstd.Decoder
	raw     io.Closer
}

func (b *zstdBody) Read(p []byte) (int, error) {
	return b.decoder.Read(p)
}

func (b *zstdBody) Close() error {
	b.decoder.Close()
	return b.raw.Close()
}
