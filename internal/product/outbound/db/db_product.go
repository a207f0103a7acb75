package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/product/entity"
)

const productColumns = `id, owner_id, title, description, price, quantity, image_url, created_at, updated_at`

const createProduct = `
INSERT INTO products (id, owner_id, title, description, price, quantity, image_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const getProduct = `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 AND id = $2`

const listProducts = `
SELECT ` + productColumns + ` FROM products
WHERE owner_id = $1
ORDER BY id DESC
LIMIT $2 OFFSET $3`

const countProducts = `SELECT COUNT(*) FROM products WHERE owner_id = $1`

const updateProduct = `
UPDATE products
SET title = COALESCE($3, title),
    description = COALESCE($4, description),
    price = COALESCE($5, price),
    quantity = COALESCE($6, quantity),
    image_url = COALESCE($7, image_url),
    updated_at = now()
WHERE owner_id = $1 AND id = $2
RETURNING ` + productColumns

const deleteProduct = `DELETE FROM products WHERE owner_id = $1 AND id = $2`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Quantity,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *DB) CreateProduct(ctx context.Context, p entity.Product) (err error) {
	ctx, end := s.tracer.Start(ctx, "CreateProduct")
	defer func() { end(err) }()

	_, err = s.conn.Exec(ctx, createProduct,
		p.ID,
		p.OwnerID,
		p.Title,
		p.Description,
		p.Price,
		p.Quantity,
		p.ImageURL,
		p.CreatedAt,
		p.UpdatedAt,
	)

	return s.mapError(err)
}

func (s *DB) GetProduct(ctx context.Context, ownerID, id int64) (_ *entity.Product, err error) {
	ctx, end := s.tracer.Start(ctx, "GetProduct")
	defer func() { end(err) }()

	p, err := scanProduct(s.conn.QueryRow(ctx, getProduct, ownerID, id))
	if err != nil {
		return nil, s.mapError(err)
	}

	return p, nil
}

func (s *DB) ListProducts(ctx context.Context, filter entity.ProductListFilter) (_ []entity.Product, _ int64, err error) {
	ctx, end := s.tracer.Start(ctx, "ListProducts")
	defer func() { end(err) }()

	var total int64
	if err = s.conn.QueryRow(ctx, countProducts, filter.OwnerID).Scan(&total); err != nil {
		return nil, 0, s.mapError(err)
	}

	rows, err := s.conn.Query(ctx, listProducts, filter.OwnerID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Product, error) {
		p, err := scanProduct(row)
		if err != nil {
			return entity.Product{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	return products, total, nil
}

func (s *DB) UpdateProduct(ctx context.Context, ownerID, id int64, patch entity.ProductPatch) (_ *entity.Product, err error) {
	ctx, end := s.tracer.Start(ctx, "UpdateProduct")
	defer func() { end(err) }()

	p, err := scanProduct(s.conn.QueryRow(ctx, updateProduct,
		ownerID,
		id,
		patch.Title,
		patch.Description,
		patch.Price,
		patch.Quantity,
		patch.ImageURL,
	))
	if err != nil {
		return nil, s.mapError(err)
	}

	return p, nil
}

func (s *DB) DeleteProduct(ctx context.Context, ownerID, id int64) (err error) {
	ctx, end := s.tracer.Start(ctx, "DeleteProduct")
	defer func() { end(err) }()

	tag, err := s.conn.Exec(ctx, deleteProduct, ownerID, id)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
