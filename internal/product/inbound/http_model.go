package inbound

import (
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/quickcart/internal/product/entity"
)

type ProductCreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Quantity    *int32   `json:"quantity"`
	ImageURL    string   `json:"image_url"`
}

type ProductUpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Quantity    *int32   `json:"quantity"`
	ImageURL    *string  `json:"image_url"`
}

type ProductResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int32     `json:"quantity"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductResponse(p entity.Product) ProductResponse {
	return ProductResponse{
		ID:          strconv.FormatInt(p.ID, 10),
		OwnerID:     strconv.FormatInt(p.OwnerID, 10),
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type ProductCreateResponse struct {
	ProductResponse
}

func (ProductCreateResponse) StatusCode() int {
	return http.StatusCreated
}

func (ProductCreateResponse) Message() string {
	return "Product created"
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
	// meta
	total int64
	size  int32
	page  int32
}

func newProductsResponse(items []entity.Product, total int64, size, page int32) ProductsResponse {
	return ProductsResponse{
		Products: lo.Map(items, func(p entity.Product, _ int) ProductResponse {
			return toProductResponse(p)
		}),
		total: total,
		size:  size,
		page:  page,
	}
}

func (r ProductsResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}

type ProductDeleteResponse struct{}

func (ProductDeleteResponse) Message() string {
	return "Product deleted"
}

func (ProductDeleteResponse) Data() any {
	return nil
}
