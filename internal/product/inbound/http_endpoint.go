package inbound

import (
	"log/slog"

	"github.com/shandysiswandi/quickcart/internal/pkg/router"
	"github.com/shandysiswandi/quickcart/internal/product/usecase"
)

// HTTPEndpoint exposes the owner-scoped product handlers.
type HTTPEndpoint struct {
	uc uc
}

// ProductCreate creates a product owned by the caller.
// @Summary Create product
// @Tags Product
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body ProductCreateRequest true "Product payload"
// @Success 201 {object} router.successResponse{data=ProductResponse} "Product created"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 409 {object} router.errorResponse "Duplicate request"
// @Router /api/v1/products [post]
func (h *HTTPEndpoint) ProductCreate(r *router.Request) (any, error) {
	var req ProductCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	p, err := h.uc.ProductCreate(r.Context(), usecase.ProductCreateInput{
		IdempotencyKey: r.HeaderValue("Idempotency-Key"),
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		Quantity:       req.Quantity,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		return nil, err
	}

	return ProductCreateResponse{ProductResponse: toProductResponse(*p)}, nil
}

// ProductList returns the caller's products, newest first.
// @Summary List products
// @Tags Product
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page, starting at 1"
// @Param size query int false "Page size, at most 100"
// @Success 200 {object} router.successResponse{data=ProductsResponse} "Product list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Router /api/v1/products [get]
func (h *HTTPEndpoint) ProductList(r *router.Request) (any, error) {
	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ProductList(r.Context(), usecase.ProductListInput{Page: page, Size: size})
	if err != nil {
		return nil, err
	}

	return newProductsResponse(resp.Products, resp.Total, resp.Size, resp.Page), nil
}

// ProductDetail returns one of the caller's products.
// @Summary Get product
// @Tags Product
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} router.successResponse{data=ProductResponse} "Product"
// @Failure 400 {object} router.errorResponse "Invalid ID"
// @Failure 404 {object} router.errorResponse "Product not found"
// @Router /api/v1/products/{id} [get]
func (h *HTTPEndpoint) ProductDetail(r *router.Request) (any, error) {
	id, err := r.GetParamID("id")
	if err != nil {
		return nil, err
	}

	p, err := h.uc.ProductDetail(r.Context(), id)
	if err != nil {
		return nil, err
	}

	return toProductResponse(*p), nil
}

// ProductUpdate changes only the supplied fields.
// @Summary Update product
// @Tags Product
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body ProductUpdateRequest true "Fields to change"
// @Success 200 {object} router.successResponse{data=ProductResponse} "Product"
// @Failure 400 {object} router.errorResponse "Invalid ID or validation error"
// @Failure 404 {object} router.errorResponse "Product not found"
// @Router /api/v1/products/{id} [put]
func (h *HTTPEndpoint) ProductUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamID("id")
	if err != nil {
		return nil, err
	}

	var req ProductUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	p, err := h.uc.ProductUpdate(r.Context(), usecase.ProductUpdateInput{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return nil, err
	}

	return toProductResponse(*p), nil
}

// ProductUpdateImage uploads the product image and stores its public URL.
// @Summary Upload product image
// @Tags Product
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Product ID"
// @Param image formData file true "JPEG, PNG, WebP or GIF image"
// @Success 200 {object} router.successResponse{data=ProductResponse} "Product"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 404 {object} router.errorResponse "Product not found"
// @Router /api/v1/products/{id}/image [put]
func (h *HTTPEndpoint) ProductUpdateImage(r *router.Request) (any, error) {
	ctx := r.Context()

	id, err := r.GetParamID("id")
	if err != nil {
		return nil, err
	}

	file, err := r.StreamSingleFile("image")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close upload", "error", err)
		}
	}()

	p, err := h.uc.ProductUpdateImage(ctx, usecase.ProductUpdateImageInput{
		ID:          id,
		File:        file,
		ContentType: file.ContentType,
	})
	if err != nil {
		return nil, err
	}

	return toProductResponse(*p), nil
}

// ProductDelete removes one of the caller's products.
// @Summary Delete product
// @Tags Product
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} router.successResponse "Product deleted"
// @Failure 400 {object} router.errorResponse "Invalid ID"
// @Failure 404 {object} router.errorResponse "Product not found"
// @Router /api/v1/products/{id} [delete]
func (h *HTTPEndpoint) ProductDelete(r *router.Request) (any, error) {
	id, err := r.GetParamID("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.ProductDelete(r.Context(), id); err != nil {
		return nil, err
	}

	return ProductDeleteResponse{}, nil
}
