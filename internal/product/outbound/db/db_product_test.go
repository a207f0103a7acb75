package db

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/pgtest"
	"github.com/shandysiswandi/quickcart/internal/product/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_ProductLifecycle(t *testing.T) {
	pool := pgtest.NewPool(t)
	repo := NewDB(pool, instrument.NewNoop())
	ctx := context.Background()

	for _, id := range []int64{1, 2} {
		_, err := pool.Exec(ctx,
			`INSERT INTO accounts (id, email, password_hash, is_verified) VALUES ($1, $2, 'h', TRUE)`,
			id, "owner"+strconv.FormatInt(id, 10)+"@x.com")
		require.NoError(t, err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	newProduct := func(id, owner int64, title string) entity.Product {
		return entity.Product{
			ID:        id,
			OwnerID:   owner,
			Title:     title,
			Quantity:  entity.DefaultQuantity,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	require.NoError(t, repo.CreateProduct(ctx, newProduct(10, 1, "a")))
	require.NoError(t, repo.CreateProduct(ctx, newProduct(11, 1, "b")))
	require.NoError(t, repo.CreateProduct(ctx, newProduct(12, 1, "c")))
	require.NoError(t, repo.CreateProduct(ctx, newProduct(20, 2, "other")))

	t.Run("unknown owner", func(t *testing.T) {
		assert.ErrorIs(t, repo.CreateProduct(ctx, newProduct(30, 99, "x")), goerror.ErrNotFound)
	})

	t.Run("get is owner scoped", func(t *testing.T) {
		p, err := repo.GetProduct(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, "a", p.Title)
		assert.Equal(t, entity.DefaultQuantity, p.Quantity)
		assert.True(t, now.Equal(p.CreatedAt))

		_, err = repo.GetProduct(ctx, 2, 10)
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("list pages newest first", func(t *testing.T) {
		items, total, err := repo.ListProducts(ctx, entity.ProductListFilter{OwnerID: 1, Limit: 2, Offset: 0})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, items, 2)
		assert.Equal(t, int64(12), items[0].ID)
		assert.Equal(t, int64(11), items[1].ID)

		items, total, err = repo.ListProducts(ctx, entity.ProductListFilter{OwnerID: 1, Limit: 2, Offset: 4})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Empty(t, items)
	})

	t.Run("partial update", func(t *testing.T) {
		price := 9.5
		qty := int32(0)
		p, err := repo.UpdateProduct(ctx, 1, 10, entity.ProductPatch{Price: &price, Quantity: &qty})
		require.NoError(t, err)
		assert.Equal(t, "a", p.Title)
		assert.Equal(t, 9.5, p.Price)
		assert.Zero(t, p.Quantity)

		_, err = repo.UpdateProduct(ctx, 2, 10, entity.ProductPatch{Price: &price})
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteProduct(ctx, 2, 11), goerror.ErrNotFound)
		require.NoError(t, repo.DeleteProduct(ctx, 1, 11))
		assert.ErrorIs(t, repo.DeleteProduct(ctx, 1, 11), goerror.ErrNotFound)
	})
}
