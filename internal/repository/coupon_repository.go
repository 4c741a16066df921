package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tekup-dev/coupon-service/internal/model"
	"github.com/tekup-dev/coupon-service/internal/service"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CouponRepository provides data access for coupons using pgx.
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a new CouponRepository with a custom pool interface.
// This is primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

const couponColumns = `id, code, discount, valid_from, valid_to, created_at, updated_at`

// FindAll retrieves every coupon ordered by id.
func (r *CouponRepository) FindAll(ctx context.Context) ([]model.Coupon, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+couponColumns+` FROM coupons ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("find all coupons: %w", err)
	}
	defer rows.Close()

	coupons := make([]model.Coupon, 0)
	for rows.Next() {
		var c model.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.Discount, &c.ValidFrom, &c.ValidTo, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan coupon row: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}
	return coupons, nil
}

// FindByID retrieves a coupon by its identifier.
// Returns nil, nil if the coupon is not found (service layer handles this).
func (r *CouponRepository) FindByID(ctx context.Context, id int64) (*model.Coupon, error) {
	return r.findOne(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id)
}

// FindByCode retrieves a coupon by its code.
// Returns nil, nil if the coupon is not found (service layer handles this).
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return r.findOne(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code)
}

func (r *CouponRepository) findOne(ctx context.Context, query string, arg any) (*model.Coupon, error) {
	var c model.Coupon
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.Code, &c.Discount, &c.ValidFrom, &c.ValidTo, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	return &c, nil
}

// Insert persists a new coupon. The database assigns id, created_at and
// updated_at; those are written back into the given entity.
// Returns service.ErrCouponExists if a coupon with the same code already exists.
func (r *CouponRepository) Insert(ctx context.Context, coupon *model.Coupon) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO coupons (code, discount, valid_from, valid_to)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		coupon.Code, coupon.Discount, coupon.ValidFrom, coupon.ValidTo,
	).Scan(&coupon.ID, &coupon.CreatedAt, &coupon.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return service.ErrCouponExists
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// Update replaces every mutable field of the coupon identified by coupon.ID
// and refreshes updated_at. created_at is never touched.
// Returns service.ErrCouponExists if the new code collides with another row,
// service.ErrCouponNotFound if no row has that id.
func (r *CouponRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE coupons
		 SET code = $1, discount = $2, valid_from = $3, valid_to = $4, updated_at = now()
		 WHERE id = $5
		 RETURNING updated_at`,
		coupon.Code, coupon.Discount, coupon.ValidFrom, coupon.ValidTo, coupon.ID,
	).Scan(&coupon.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.ErrCouponNotFound
		}
		if isUniqueViolation(err) {
			return service.ErrCouponExists
		}
		return fmt.Errorf("update coupon %d: %w", coupon.ID, err)
	}
	return nil
}

// Delete removes the coupon with the given id. Deleting a missing row is
// not an error here; existence is the service's concern.
func (r *CouponRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete coupon %d: %w", id, err)
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
