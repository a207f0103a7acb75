package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shandysiswandi/quickcart/internal/pkg/authz"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/storage"
	"github.com/shandysiswandi/quickcart/internal/product/entity"
)

const (
	defaultImageMaxSize int64 = 5 << 20
	// Keys embed a fresh UUID per upload, so an object never changes.
	imageCacheControl = "public, max-age=31536000, immutable"
)

//nolint:gochecknoglobals // global for fast reuse
var imageContentTypeExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type ProductUpdateImageInput struct {
	ID          int64
	File        io.Reader
	ContentType string
}

func (s *Usecase) ProductUpdateImage(ctx context.Context, in ProductUpdateImageInput) (*entity.Product, error) {
	ctx, span := s.startSpan(ctx, "ProductUpdateImage")
	defer span.End()

	if in.File == nil {
		return nil, goerror.NewInvalidInput(nil, "image", "image file is required")
	}

	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	ext, ok := imageContentTypeExt[contentType]
	if !ok {
		return nil, goerror.NewInvalidInput(nil, "image", "unsupported image content type")
	}

	ownerID, err := s.owner(ctx, authz.ActWrite)
	if err != nil {
		return nil, err
	}

	if _, err := s.loadProduct(ctx, ownerID, in.ID); err != nil {
		return nil, err
	}

	bucket := strings.TrimSpace(s.cfg.GetString("modules.product.image_bucket"))
	baseURL := strings.TrimSpace(s.cfg.GetString("modules.product.image_base_url"))
	maxSize := s.cfg.GetInt64("modules.product.image_max_size_bytes")
	if maxSize <= 0 {
		maxSize = defaultImageMaxSize
	}
	key := fmt.Sprintf("products/%d/%d/%s%s", ownerID, in.ID, s.uuid.Generate(), ext)

	_, err = s.storage.PutObject(ctx, bucket, key, &maxBytesReader{r: in.File, max: maxSize}, storage.PutOptions{
		Size:         -1,
		ContentType:  contentType,
		CacheControl: imageCacheControl,
		Metadata: map[string]string{
			"account_id": strconv.FormatInt(ownerID, 10),
			"product_id": strconv.FormatInt(in.ID, 10),
		},
	})
	if errors.Is(err, entity.ErrImageTooLarge) {
		return nil, errImageTooLarge()
	}
	if errors.Is(err, storage.ErrEmptyObject) {
		return nil, goerror.NewInvalidInput(nil, "image", "image file is empty")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to upload product image", "product_id", in.ID, "error", err)
		return nil, goerror.NewUnavailable(err)
	}

	imageURL := storage.PublicURL(baseURL, bucket, key)
	p, err := s.repoDB.UpdateProduct(ctx, ownerID, in.ID, entity.ProductPatch{ImageURL: &imageURL})
	if err != nil {
		if errDel := s.storage.DeleteObject(ctx, bucket, key); errDel != nil {
			slog.WarnContext(ctx, "failed to remove orphan product image", "key", key, "error", errDel)
		}
		if errors.Is(err, goerror.ErrNotFound) {
			return nil, errProductNotFound()
		}
		slog.ErrorContext(ctx, "failed to repo update product image", "product_id", in.ID, "error", err)
		return nil, goerror.NewUnavailable(err)
	}

	return p, nil
}

type maxBytesReader struct {
	r     io.Reader
	max   int64
	read  int64
	buf   [1]byte
	ended bool
}

func (m *maxBytesReader) Read(p []byte) (int, error) {
	if m.read >= m.max {
		if m.ended {
			return 0, entity.ErrImageTooLarge
		}

		n, err := m.r.Read(m.buf[:])
		if n > 0 || err == nil {
			m.ended = true
			return 0, entity.ErrImageTooLarge
		}
		return 0, err
	}

	remaining := m.max - m.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := m.r.Read(p)
	m.read += int64(n)
	return n, err
}
