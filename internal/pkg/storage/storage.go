// Package storage puts product images into an S3-compatible bucket and
// builds the public URLs they are served from.
package storage

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
)

// ErrEmptyObject is returned when an upload has no bytes.
var ErrEmptyObject = errors.New("storage: empty object")

type Storage interface {
	io.Closer

	PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	// DeleteObject is idempotent: removing a missing key succeeds.
	DeleteObject(ctx context.Context, bucket, key string) error
}

type PutOptions struct {
	// Size is the content length, or -1 to stream an unknown length.
	Size         int64
	ContentType  string
	CacheControl string
	Metadata     map[string]string
}

type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
}

// nonEmpty rejects a zero-length upload before any request is sent. For an
// unknown size it peeks one byte and returns a reader that replays it.
func nonEmpty(r io.Reader, size int64) (io.Reader, error) {
	if r == nil || size == 0 {
		return nil, ErrEmptyObject
	}
	if size > 0 {
		return r, nil
	}

	br := bufio.NewReader(r)
	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyObject
		}
		return nil, err
	}
	return br, nil
}

// PublicURL joins a public base URL (CDN or bucket endpoint) with bucket and
// key. An empty or unparseable base yields a root-relative path.
func PublicURL(base, bucket, key string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	u, err := url.Parse(base)
	if base == "" || err != nil {
		return "/" + bucket + "/" + key
	}
	return u.JoinPath(bucket, key).String()
}
