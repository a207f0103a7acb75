package entity

import "time"

// Object is the casbin object guarded by product actions.
const Object = "product"

const DefaultQuantity int32 = 1

// Product is an item listed by its owning account.
type Product struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	Price       float64
	Quantity    int32
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductPatch holds the fields of a partial update; nil means unchanged.
type ProductPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Quantity    *int32
	ImageURL    *string
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil && p.Quantity == nil && p.ImageURL == nil
}

type ProductListFilter struct {
	OwnerID int64
	Limit   int32
	Offset  int64
}
