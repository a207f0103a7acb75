package inbound

import (
	"context"

	"github.com/shandysiswandi/quickcart/internal/pkg/router"
	"github.com/shandysiswandi/quickcart/internal/product/entity"
	"github.com/shandysiswandi/quickcart/internal/product/usecase"
)

type uc interface {
	ProductCreate(ctx context.Context, in usecase.ProductCreateInput) (*entity.Product, error)
	ProductList(ctx context.Context, in usecase.ProductListInput) (*usecase.ProductListOutput, error)
	ProductDetail(ctx context.Context, id int64) (*entity.Product, error)
	ProductUpdate(ctx context.Context, in usecase.ProductUpdateInput) (*entity.Product, error)
	ProductUpdateImage(ctx context.Context, in usecase.ProductUpdateImageInput) (*entity.Product, error)
	ProductDelete(ctx context.Context, id int64) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/products", end.ProductCreate)
	r.GET("/api/v1/products", end.ProductList)
	r.GET("/api/v1/products/:id", end.ProductDetail)
	r.PUT("/api/v1/products/:id", end.ProductUpdate)
	r.PUT("/api/v1/products/:id/image", end.ProductUpdateImage)
	r.DELETE("/api/v1/products/:id", end.ProductDelete)
}
