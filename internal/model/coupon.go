package model

import "time"

// Coupon is the persisted coupon entity. The id is assigned by the
// database; created_at is set once at insert and preserved across updates,
// updated_at is refreshed on every write.
type Coupon struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Discount  float64   `json:"discount"`
	ValidFrom time.Time `json:"valid_from"`
	ValidTo   time.Time `json:"valid_to"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CouponRequest is the DTO for creating or updating a coupon. It carries
// no identifier and no timestamps; those are owned by the server.
type CouponRequest struct {
	Code      string     `json:"code" validate:"required,notblank,max=50"`
	Discount  *float64   `json:"discount" validate:"required,gt=0,lte=100"`
	ValidFrom *time.Time `json:"valid_from" validate:"required"`
	ValidTo   *time.Time `json:"valid_to" validate:"required"`
}

// CouponResponse is the API-facing shape of a coupon.
type CouponResponse struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Discount  float64   `json:"discount"`
	ValidFrom time.Time `json:"valid_from"`
	ValidTo   time.Time `json:"valid_to"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// APIResponse is the uniform envelope around successful payloads.
type APIResponse struct {
	Status  string `json:"status"`
	Results any    `json:"results"`
}

// ErrorResponse is the uniform error body produced by the error handler.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Details   string    `json:"details"`
}

// FromRequest builds a new entity from a request DTO. Identifier and
// timestamps are left zero; the repository fills them on insert.
func FromRequest(req *CouponRequest) *Coupon {
	c := &Coupon{Code: req.Code}
	if req.Discount != nil {
		c.Discount = *req.Discount
	}
	if req.ValidFrom != nil {
		c.ValidFrom = *req.ValidFrom
	}
	if req.ValidTo != nil {
		c.ValidTo = *req.ValidTo
	}
	return c
}

// ToResponse converts a persisted entity to its API shape.
func ToResponse(c *Coupon) *CouponResponse {
	return &CouponResponse{
		ID:        c.ID,
		Code:      c.Code,
		Discount:  c.Discount,
		ValidFrom: c.ValidFrom,
		ValidTo:   c.ValidTo,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToResponseList converts a slice of entities, always returning a non-nil
// slice so an empty result serializes as [] rather than null.
func ToResponseList(coupons []Coupon) []CouponResponse {
	responses := make([]CouponResponse, 0, len(coupons))
	for i := range coupons {
		responses = append(responses, *ToResponse(&coupons[i]))
	}
	return responses
}
