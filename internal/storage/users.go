package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/core/logger"
	"github.com/yukmarkazi/cargobot/internal/models"
)

// Users is the user repository.
type Users struct {
	db *sqlx.DB
}

// NewUsers builds the user repository.
func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

const userColumns = `id, username, tg_first_name, tg_last_name, first_name, last_name,
	phone, role, lang, profile_completed, pro_until,
	car_type, capacity_ton, volume_m3, routes, price_per_km, note,
	created_at, updated_at`

// Ensure upserts the Telegram identity of the sender and returns the
// stored user. Registration fields are left untouched for existing rows.
func (r *Users) Ensure(ctx context.Context, from *tele.User) (*models.User, error) {
	var u models.User
	query := `
		INSERT INTO users (id, username, tg_first_name, tg_last_name)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (id) DO UPDATE SET
			username      = EXCLUDED.username,
			tg_first_name = EXCLUDED.tg_first_name,
			tg_last_name  = EXCLUDED.tg_last_name,
			updated_at    = now()
		RETURNING ` + userColumns
	if err := r.db.GetContext(ctx, &u, query, from.ID, from.Username, from.FirstName, from.LastName); err != nil {
		return nil, fmt.Errorf("users: ensure %d: %w", from.ID, err)
	}
	return &u, nil
}

// ByID fetches one user; ErrNotFound when the row does not exist.
func (r *Users) ByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("users: by id %d: %w", id, err)
	}
	return &u, nil
}

// SetLang persists the user's language choice.
func (r *Users) SetLang(ctx context.Context, id int64, lang string) error {
	if !models.ValidLang(lang) {
		return fmt.Errorf("users: invalid lang %q", lang)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET lang = $2, updated_at = now() WHERE id = $1`, id, lang)
	if err != nil {
		return fmt.Errorf("users: set lang %d: %w", id, err)
	}
	return nil
}

// CompleteRegistration writes the registration answers. Shippers are
// profile-complete immediately; drivers only after the vehicle form.
func (r *Users) CompleteRegistration(ctx context.Context, id int64, firstName, lastName, phone, role string, completed bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			first_name = $2, last_name = $3, phone = $4, role = $5,
			profile_completed = $6, updated_at = now()
		WHERE id = $1`,
		id, firstName, lastName, phone, role, completed)
	if err != nil {
		return fmt.Errorf("users: complete registration %d: %w", id, err)
	}
	return nil
}

// SetRole updates the role and the completion flag that goes with it.
func (r *Users) SetRole(ctx context.Context, id int64, role string, completed bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET role = $2, profile_completed = $3, updated_at = now()
		WHERE id = $1`,
		id, role, completed)
	if err != nil {
		return fmt.Errorf("users: set role %d: %w", id, err)
	}
	return nil
}

// SaveDriverProfile stores the vehicle form, switches the user to the
// driver role and marks the profile complete.
func (r *Users) SaveDriverProfile(ctx context.Context, id int64, p models.DriverProfile) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			role = $2, profile_completed = TRUE,
			car_type = $3, capacity_ton = $4, volume_m3 = $5,
			routes = $6, price_per_km = $7, note = $8,
			updated_at = now()
		WHERE id = $1`,
		id, models.RoleDriver,
		p.CarType, p.CapacityTon, p.VolumeM3, p.Routes, p.PricePerKm, p.Note)
	if err != nil {
		return fmt.Errorf("users: save driver profile %d: %w", id, err)
	}
	return nil
}

// ApplyPro extends the pro subscription by the given number of days,
// counting from whichever is later: now or the current expiry.
func (r *Users) ApplyPro(ctx context.Context, id int64, days int, now time.Time) (time.Time, error) {
	var until time.Time
	err := r.db.GetContext(ctx, &until, `
		UPDATE users SET
			pro_until = GREATEST(COALESCE(pro_until, $2), $2) + make_interval(days => $3),
			updated_at = now()
		WHERE id = $1
		RETURNING pro_until`,
		id, now, days)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("users: apply pro %d: %w", id, err)
	}
	logger.SVCUsers.Info("pro extended", "user_id", id, "days", days)
	return until, nil
}

// RemovePro clears the pro subscription; false when the user is unknown.
func (r *Users) RemovePro(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET pro_until = NULL, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("users: remove pro %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("users: remove pro %d: %w", id, err)
	}
	return n > 0, nil
}

// IDsByAudience lists recipient IDs for a broadcast, most recently
// active first.
func (r *Users) IDsByAudience(ctx context.Context, audience models.BroadcastAudience, now time.Time) ([]int64, error) {
	var (
		ids   []int64
		query string
		args  []any
	)
	switch audience {
	case models.AudienceDrivers:
		query = `SELECT id FROM users WHERE role = $1 ORDER BY updated_at DESC`
		args = []any{models.RoleDriver}
	case models.AudienceShippers:
		query = `SELECT id FROM users WHERE role = $1 ORDER BY updated_at DESC`
		args = []any{models.RoleShipper}
	case models.AudiencePro:
		query = `SELECT id FROM users WHERE pro_until > $1 ORDER BY updated_at DESC`
		args = []any{now}
	default:
		query = `SELECT id FROM users ORDER BY updated_at DESC`
	}
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("users: audience %s: %w", audience, err)
	}
	return ids, nil
}

// Recent lists the most recently active users.
func (r *Users) Recent(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY updated_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("users: recent: %w", err)
	}
	return users, nil
}

// Counts summarizes the user base for admin statistics.
type Counts struct {
	Total    int64 `db:"total"`
	Drivers  int64 `db:"drivers"`
	Shippers int64 `db:"shippers"`
	Pro      int64 `db:"pro"`
}

// Count aggregates user totals in one query.
func (r *Users) Count(ctx context.Context, now time.Time) (Counts, error) {
	var c Counts
	err := r.db.GetContext(ctx, &c, `
		SELECT
			count(*)                                        AS total,
			count(*) FILTER (WHERE role = 'driver')         AS drivers,
			count(*) FILTER (WHERE role = 'shipper')        AS shippers,
			count(*) FILTER (WHERE pro_until > $1)          AS pro
		FROM users`, now)
	if err != nil {
		return Counts{}, fmt.Errorf("users: count: %w", err)
	}
	return c, nil
}
