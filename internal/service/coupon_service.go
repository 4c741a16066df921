package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tekup-dev/coupon-service/internal/model"
)

// CouponRepositoryInterface defines the interface for coupon data access.
type CouponRepositoryInterface interface {
	FindAll(ctx context.Context) ([]model.Coupon, error)
	FindByID(ctx context.Context, id int64) (*model.Coupon, error)
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	Insert(ctx context.Context, coupon *model.Coupon) error
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, id int64) error
}

// CouponCacheInterface defines the cache operations used on the read path
// and the invalidation hooks used on the write path. Implementations must
// treat the cache as best-effort: a miss or failure never blocks a request.
type CouponCacheInterface interface {
	GetByID(ctx context.Context, id int64) (*model.CouponResponse, bool)
	GetByCode(ctx context.Context, code string) (*model.CouponResponse, bool)
	Set(ctx context.Context, resp *model.CouponResponse)
	GetAll(ctx context.Context) ([]model.CouponResponse, bool)
	SetAll(ctx context.Context, responses []model.CouponResponse)
	Invalidate(ctx context.Context, id int64, codes ...string)
	InvalidateAll(ctx context.Context)
}

// CouponService provides business logic for coupon CRUD operations.
// Reads are cache-aside; every mutation invalidates the entries it affects,
// so storage stays authoritative.
type CouponService struct {
	repo  CouponRepositoryInterface
	cache CouponCacheInterface
}

// NewCouponService creates a new CouponService with the given repository and cache.
func NewCouponService(repo CouponRepositoryInterface, cache CouponCacheInterface) *CouponService {
	return &CouponService{repo: repo, cache: cache}
}

// List returns every coupon. Empty storage yields an empty slice, never an
// error.
func (s *CouponService) List(ctx context.Context) ([]model.CouponResponse, error) {
	if cached, ok := s.cache.GetAll(ctx); ok {
		return cached, nil
	}

	coupons, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}

	responses := model.ToResponseList(coupons)
	s.cache.SetAll(ctx, responses)
	return responses, nil
}

// GetByID returns the coupon with the given id.
// Returns ErrCouponNotFound if no coupon has that id.
func (s *CouponService) GetByID(ctx context.Context, id int64) (*model.CouponResponse, error) {
	if cached, ok := s.cache.GetByID(ctx, id); ok {
		return cached, nil
	}

	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get coupon %d: %w", id, err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	resp := model.ToResponse(coupon)
	s.cache.Set(ctx, resp)
	return resp, nil
}

// GetByCode returns the coupon with the given code.
// Returns ErrCouponNotFound if no coupon has that code.
func (s *CouponService) GetByCode(ctx context.Context, code string) (*model.CouponResponse, error) {
	if cached, ok := s.cache.GetByCode(ctx, code); ok {
		return cached, nil
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get coupon by code %s: %w", code, err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	resp := model.ToResponse(coupon)
	s.cache.Set(ctx, resp)
	return resp, nil
}

// Create persists a new coupon from the request.
// Returns ErrCouponExists if a coupon with the same code already exists.
// Returns ErrInvalidRequest if request data is nil or incomplete.
func (s *CouponService) Create(ctx context.Context, req *model.CouponRequest) (*model.CouponResponse, error) {
	// Defense-in-depth: check for nil pointers even though handler validates
	if req == nil || req.Discount == nil || req.ValidFrom == nil || req.ValidTo == nil {
		return nil, ErrInvalidRequest
	}

	// Pre-check before insert; the unique constraint on code catches the
	// race where two creates pass this check concurrently.
	existing, err := s.repo.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("check coupon code %s: %w", req.Code, err)
	}
	if existing != nil {
		return nil, ErrCouponExists
	}

	coupon := model.FromRequest(req)
	if err := s.repo.Insert(ctx, coupon); err != nil {
		return nil, err
	}

	s.cache.InvalidateAll(ctx)
	log.Info().Int64("coupon_id", coupon.ID).Str("code", coupon.Code).Msg("coupon created")
	return model.ToResponse(coupon), nil
}

// Update replaces every field of the coupon with id from the request,
// preserving only the identifier and created_at of the stored row.
// Returns ErrCouponNotFound if no coupon has that id, ErrCouponExists if
// the new code collides with another coupon.
func (s *CouponService) Update(ctx context.Context, id int64, req *model.CouponRequest) (*model.CouponResponse, error) {
	if req == nil || req.Discount == nil || req.ValidFrom == nil || req.ValidTo == nil {
		return nil, ErrInvalidRequest
	}

	// Existence check goes straight to storage: a cached entry must not
	// validate an update against a row that was deleted underneath it.
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get coupon %d: %w", id, err)
	}
	if existing == nil {
		return nil, ErrCouponNotFound
	}

	coupon := model.FromRequest(req)
	coupon.ID = id
	coupon.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, coupon); err != nil {
		return nil, err
	}

	// Drop both the old and new code entries; the code may have changed.
	s.cache.Invalidate(ctx, id, existing.Code, coupon.Code)
	log.Info().Int64("coupon_id", id).Str("code", coupon.Code).Msg("coupon updated")
	return model.ToResponse(coupon), nil
}

// Delete removes the coupon with the given id.
// Returns ErrCouponNotFound if no coupon has that id.
func (s *CouponService) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get coupon %d: %w", id, err)
	}
	if existing == nil {
		return ErrCouponNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, id, existing.Code)
	log.Info().Int64("coupon_id", id).Str("code", existing.Code).Msg("coupon deleted")
	return nil
}
