package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shandysiswandi/quickcart/internal/product/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, f *fixture, ownerID int64, titles ...string) []int64 {
	t.Helper()

	ids := make([]int64, 0, len(titles))
	for _, title := range titles {
		p, err := f.uc.ProductCreate(as(ownerID, "customer"), ProductCreateInput{Title: title})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	return ids
}

func TestUsecase_ProductList(t *testing.T) {
	f := newFixture(t)
	seed(t, f, 1, "a", "b", "c")
	seed(t, f, 2, "other")

	out, err := f.uc.ProductList(as(1, "auditor"), ProductListInput{Page: 2, Size: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(3), out.Total)
	assert.Equal(t, int32(2), out.Page)
	assert.Equal(t, int32(2), out.Size)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "a", out.Products[0].Title, "newest first")
}

func TestUsecase_ProductList_Defaults(t *testing.T) {
	f := newFixture(t)
	seed(t, f, 1, "a")

	out, err := f.uc.ProductList(as(1, "customer"), ProductListInput{Size: 1000})
	require.NoError(t, err)

	assert.Equal(t, int32(1), out.Page)
	assert.Equal(t, int32(defaultPageSize), out.Size)
	assert.Len(t, out.Products, 1)
}

func TestUsecase_ProductList_DeepPage(t *testing.T) {
	f := newFixture(t)
	seed(t, f, 1, "a")

	out, err := f.uc.ProductList(as(1, "customer"), ProductListInput{Page: 30_000_000, Size: 100})
	require.NoError(t, err)

	assert.Equal(t, int64(2_999_999_900), f.repo.lastFilter.Offset)
	assert.Equal(t, int32(30_000_000), out.Page)
	assert.Equal(t, int64(1), out.Total)
	assert.Empty(t, out.Products)
}

func TestUsecase_ProductList_StoreDown(t *testing.T) {
	f := newFixture(t)
	f.repo.err = errors.New("timeout")

	_, err := f.uc.ProductList(as(1, "customer"), ProductListInput{})

	assert.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
}

func TestUsecase_ProductDetail(t *testing.T) {
	f := newFixture(t)
	ids := seed(t, f, 1, "lamp")

	p, err := f.uc.ProductDetail(as(1, "customer"), ids[0])
	require.NoError(t, err)
	assert.Equal(t, "lamp", p.Title)

	_, err = f.uc.ProductDetail(as(2, "customer"), ids[0])
	assert.Equal(t, http.StatusNotFound, statusOf(t, err), "foreign product looks missing")
	assert.ErrorIs(t, err, entity.ErrProductNotFound)

	_, err = f.uc.ProductDetail(as(1, "customer"), 1)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = f.uc.ProductDetail(context.Background(), ids[0])
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}
