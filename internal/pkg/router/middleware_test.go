package router

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxies_ClientIP(t *testing.T) {
	trusted := parseProxies([]string{"10.0.0.0/8", "::1", "not-an-ip", ""})

	tests := []struct {
		name   string
		remote string
		header http.Header
		want   string
	}{
		{
			name:   "untrusted peer ignores headers",
			remote: "203.0.113.9:5555",
			header: http.Header{"X-Forwarded-For": {"1.1.1.1"}},
			want:   "203.0.113.9",
		},
		{
			name:   "trusted peer honours true client ip",
			remote: "10.1.2.3:80",
			header: http.Header{"True-Client-Ip": {"198.51.100.7"}},
			want:   "198.51.100.7",
		},
		{
			name:   "forwarded for walked from the right",
			remote: "10.1.2.3:80",
			header: http.Header{"X-Forwarded-For": {"6.6.6.6, 198.51.100.7, 10.9.9.9"}},
			want:   "198.51.100.7",
		},
		{
			name:   "garbage hop stops the walk",
			remote: "[::1]:80",
			header: http.Header{"X-Forwarded-For": {"junk"}},
			want:   "::1",
		},
		{
			name:   "unparseable remote",
			remote: "pipe",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header[k] = v
			}

			got := trusted.clientIP(req)
			if tt.want == "" {
				assert.False(t, got.IsValid())
				return
			}
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestSanitizeCID(t *testing.T) {
	assert.Equal(t, "abc-123", sanitizeCID("  abc-123 "))
	assert.Equal(t, "evilSet-Cookie:x", sanitizeCID("evil\r\nSet-Cookie: x"))
	assert.Equal(t, "hasspace", sanitizeCID("has space"))
	assert.Equal(t, "cid-9", sanitizeCID("cid-\u00e99"), "non-ASCII runes are dropped")
	assert.Empty(t, sanitizeCID(" \t\r\n"))
	assert.Len(t, sanitizeCID(strings.Repeat("a", 300)), maxCorrelationIDLen)
}

func TestRouter_CorrelationIDEcho(t *testing.T) {
	r, _, _ := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	rec, _ := serve(t, r, req)
	assert.Equal(t, "req-42", rec.Header().Get(HeaderCorrelationID))

	rec, _ = serve(t, r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(HeaderCorrelationID))
}

func TestCapture_Truncates(t *testing.T) {
	var c capture
	c.Write(bytes.Repeat([]byte("a"), maxLoggedBodyBytes-1))
	c.Write([]byte("bc"))
	c.Write([]byte("d"))

	assert.True(t, c.truncated)
	assert.Equal(t, maxLoggedBodyBytes, c.buf.Len())
}

func TestLoggable(t *testing.T) {
	mask := map[string]struct{}{"password": {}}

	assert.Equal(t, map[string]any{"email": "a@x.com", "password": "***"},
		loggable("application/json", []byte(`{"email":"a@x.com","password":"pw"}`), false, mask))
	assert.Equal(t, "<multipart body omitted>", loggable("multipart/form-data; boundary=x", []byte("--x"), false, mask))
	assert.Equal(t, "<binary body omitted>", loggable("", []byte{0xff, 0xfe}, false, mask))
	assert.Nil(t, loggable("text/plain", nil, false, mask))
}

func TestPeekBody_Replays(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))

	head, truncated := peekBody(req)
	rest, err := io.ReadAll(req.Body)

	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, `{"a":1}`, string(head))
	assert.Equal(t, `{"a":1}`, string(rest))
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "skipped"))
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return &Request{Request: req}
}

func TestRequest_StreamSingleFile(t *testing.T) {
	gif := []byte("GIF89a\x01\x00\x01\x00")

	t.Run("sniffs and replays", func(t *testing.T) {
		up, err := multipartRequest(t, "image", "dot.gif", gif).StreamSingleFile("image")
		require.NoError(t, err)
		defer up.Close()

		got, err := io.ReadAll(up)
		require.NoError(t, err)
		assert.Equal(t, gif, got)
		assert.Equal(t, "image/gif", up.ContentType)
		assert.Equal(t, "dot.gif", up.Filename)
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := multipartRequest(t, "avatar", "dot.gif", gif).StreamSingleFile("image")
		assert.Error(t, err)
	})

	t.Run("not multipart", func(t *testing.T) {
		req := &Request{Request: httptest.NewRequest(http.MethodPut, "/", strings.NewReader("{}"))}
		req.Header.Set("Content-Type", "application/json")

		_, err := req.StreamSingleFile("image")
		assert.Error(t, err)
	})
}
