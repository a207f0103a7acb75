package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{base: "https://cdn.quickcart.dev", want: "https://cdn.quickcart.dev/products/1/a.png"},
		{base: "https://cdn.quickcart.dev/", want: "https://cdn.quickcart.dev/products/1/a.png"},
		{base: "http://localhost:9000/media", want: "http://localhost:9000/media/products/1/a.png"},
		{base: "", want: "/products/1/a.png"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PublicURL(tt.base, "products", "1/a.png"), tt.base)
	}
}

func TestNewFromDriver_Unknown(t *testing.T) {
	_, err := NewFromDriver(context.Background(), "gcs", FactoryOptions{})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestNewFromDriver_MinIO(t *testing.T) {
	s, err := NewFromDriver(context.Background(), " MinIO ", FactoryOptions{
		MinIO: MinIOOptions{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"},
	})
	require.NoError(t, err)
	assert.IsType(t, &MinIOAdapter{}, s)

	_, err = s.PutObject(context.Background(), "b", "k", strings.NewReader(""), PutOptions{Size: 0})
	assert.ErrorIs(t, err, ErrEmptyObject)
}

func TestNonEmpty(t *testing.T) {
	_, err := nonEmpty(strings.NewReader(""), -1)
	assert.ErrorIs(t, err, ErrEmptyObject)

	_, err = nonEmpty(nil, 10)
	assert.ErrorIs(t, err, ErrEmptyObject)

	r, err := nonEmpty(strings.NewReader("png"), -1)
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "png", string(b), "peeked byte is replayed")
}

func TestNewFromDriver_S3WithEndpoint(t *testing.T) {
	s, err := NewFromDriver(context.Background(), "s3", FactoryOptions{
		S3: S3Options{Endpoint: "http://localhost:4566", AccessKey: "a", SecretKey: "b", UsePathStyle: true},
	})
	require.NoError(t, err)
	assert.IsType(t, &S3Adapter{}, s)
	assert.NoError(t, s.Close())
}
