package router

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
)

// sniffLen is how much of an upload http.DetectContentType looks at.
const sniffLen = 512

// Request is the *http.Request handed to a Handler, plus parsing helpers
// that fail with goerror validation errors.
type Request struct {
	*http.Request
}

func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// GetParamID parses a positive integer path parameter.
func (r *Request) GetParamID(key string) (int64, error) {
	id, err := strconv.ParseInt(r.GetParam(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, goerror.NewInvalidFormat("Invalid ID")
	}
	return id, nil
}

func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// GetQueryInt32 parses an optional non-negative query value. Absent is 0.
func (r *Request) GetQueryInt32(key string) (int32, error) {
	raw := r.GetQuery(key)
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return 0, goerror.NewInvalidFormat("Invalid query " + key)
	}
	return int32(v), nil
}

func (r *Request) HeaderValue(key string) string {
	return strings.TrimSpace(r.Header.Get(key))
}

// DecodeBody decodes exactly one JSON value into dst. Unknown fields and
// trailing data are rejected.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}
	return nil
}

// Upload is a streamed multipart file. ContentType is sniffed from the
// leading bytes; the client-declared type is ignored.
type Upload struct {
	io.Reader
	Filename    string
	ContentType string

	part *multipart.Part
}

func (u *Upload) Close() error {
	return u.part.Close()
}

// StreamSingleFile returns the first part named name without buffering the
// body. Parts before it are drained.
func (r *Request) StreamSingleFile(name string) (*Upload, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, goerror.NewInvalidFormat("Invalid request content-type")
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	part, err := nextPartNamed(mr, name)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReaderSize(part, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		_ = part.Close()
		return nil, goerror.NewInvalidFormat()
	}

	return &Upload{
		Reader:      br,
		Filename:    part.FileName(),
		ContentType: http.DetectContentType(head),
		part:        part,
	}, nil
}

func nextPartNamed(mr *multipart.Reader, name string) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if err != nil {
			// io.EOF here means the field is missing.
			return nil, goerror.NewInvalidFormat()
		}
		if part.FormName() == name {
			return part, nil
		}

		_, errCopy := io.Copy(io.Discard, part)
		if errClose := part.Close(); errCopy == nil {
			errCopy = errClose
		}
		if errCopy != nil {
			return nil, goerror.NewInvalidFormat()
		}
	}
}
