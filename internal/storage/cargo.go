package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/yukmarkazi/cargobot/core/logger"
	"github.com/yukmarkazi/cargobot/internal/models"
)

// Cargo is the cargo listing repository.
type Cargo struct {
	db *sqlx.DB
}

// NewCargo builds the cargo repository.
func NewCargo(db *sqlx.DB) *Cargo {
	return &Cargo{db: db}
}

const cargoColumns = `id, owner_id, from_region, to_region, cargo_type, weight_ton,
	volume_m3, price, load_date, payment_type, comment, status,
	posted_chats, post_failures, created_at, updated_at`

// Insert persists a new listing and returns its ID.
func (r *Cargo) Insert(ctx context.Context, l *models.CargoListing) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, `
		INSERT INTO cargo_listings
			(owner_id, from_region, to_region, cargo_type, weight_ton,
			 volume_m3, price, load_date, payment_type, comment, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		l.OwnerID, l.FromRegion, l.ToRegion, l.CargoType, l.WeightTon,
		l.VolumeM3, l.Price, l.LoadDate, l.PaymentType, l.Comment,
		models.ListingStatusActive)
	if err != nil {
		return 0, fmt.Errorf("cargo: insert: %w", err)
	}
	logger.SVCCargo.Info("listing created",
		"cargo_id", id, "region", l.FromRegion)
	return id, nil
}

// SetPostResult records the publication outcome once, right after
// the listing was fanned out.
func (r *Cargo) SetPostResult(ctx context.Context, id int64, posted []int64, failures []string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE cargo_listings SET
			posted_chats = $2, post_failures = $3, updated_at = now()
		WHERE id = $1`,
		id, pq.Int64Array(posted), pq.StringArray(failures))
	if err != nil {
		return fmt.Errorf("cargo: set post result %d: %w", id, err)
	}
	return nil
}

// ByID fetches one listing; ErrNotFound when it does not exist.
func (r *Cargo) ByID(ctx context.Context, id int64) (*models.CargoListing, error) {
	var l models.CargoListing
	err := r.db.GetContext(ctx, &l, `SELECT `+cargoColumns+` FROM cargo_listings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cargo: by id %d: %w", id, err)
	}
	return &l, nil
}

// OwnerStats summarizes one user's posting activity.
type OwnerStats struct {
	Total    int64           `db:"total"`
	Last30d  int64           `db:"last_30d"`
	AvgPrice sql.NullFloat64 `db:"avg_price"`
}

// StatsByOwner aggregates totals and average price for one owner.
func (r *Cargo) StatsByOwner(ctx context.Context, ownerID int64, now time.Time) (OwnerStats, error) {
	var s OwnerStats
	err := r.db.GetContext(ctx, &s, `
		SELECT
			count(*)                                    AS total,
			count(*) FILTER (WHERE created_at >= $2)    AS last_30d,
			avg(price)                                  AS avg_price
		FROM cargo_listings WHERE owner_id = $1`,
		ownerID, now.AddDate(0, 0, -30))
	if err != nil {
		return OwnerStats{}, fmt.Errorf("cargo: stats by owner %d: %w", ownerID, err)
	}
	return s, nil
}

// TotalCounts summarizes listing volume over standard windows.
type TotalCounts struct {
	Total int64 `db:"total"`
	Day   int64 `db:"day"`
	Week  int64 `db:"week"`
	Month int64 `db:"month"`
}

// Count aggregates listing totals for admin statistics.
func (r *Cargo) Count(ctx context.Context, now time.Time) (TotalCounts, error) {
	var c TotalCounts
	err := r.db.GetContext(ctx, &c, `
		SELECT
			count(*)                                 AS total,
			count(*) FILTER (WHERE created_at >= $1) AS day,
			count(*) FILTER (WHERE created_at >= $2) AS week,
			count(*) FILTER (WHERE created_at >= $3) AS month
		FROM cargo_listings`,
		now.Add(-24*time.Hour), now.AddDate(0, 0, -7), now.AddDate(0, 0, -30))
	if err != nil {
		return TotalCounts{}, fmt.Errorf("cargo: count: %w", err)
	}
	return c, nil
}

// RouteStats is one origin/destination pair's price picture.
type RouteStats struct {
	FromRegion string  `db:"from_region"`
	ToRegion   string  `db:"to_region"`
	Count      int64   `db:"cnt"`
	AvgPrice   float64 `db:"avg_price"`
	MinPrice   float64 `db:"min_price"`
	MaxPrice   float64 `db:"max_price"`
}

// MarketRoutes lists the busiest routes of the last `days` days.
func (r *Cargo) MarketRoutes(ctx context.Context, now time.Time, days, limit int) ([]RouteStats, error) {
	var rows []RouteStats
	err := r.db.SelectContext(ctx, &rows, `
		SELECT from_region, to_region,
			count(*)   AS cnt,
			avg(price) AS avg_price,
			min(price) AS min_price,
			max(price) AS max_price
		FROM cargo_listings
		WHERE created_at >= $1
		GROUP BY from_region, to_region
		ORDER BY cnt DESC
		LIMIT $2`,
		now.AddDate(0, 0, -days), limit)
	if err != nil {
		return nil, fmt.Errorf("cargo: market routes: %w", err)
	}
	return rows, nil
}
