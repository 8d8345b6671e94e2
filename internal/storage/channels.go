package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yukmarkazi/cargobot/core/logger"
	"github.com/yukmarkazi/cargobot/internal/models"
)

// Channels stores publication targets: the catalog chat, per-region
// chats, and the mandatory subscription list.
type Channels struct {
	db *sqlx.DB
}

// NewChannels builds the channel repository.
func NewChannels(db *sqlx.DB) *Channels {
	return &Channels{db: db}
}

const catalogSettingName = "catalog_chat"

// RegionChatID returns the chat bound to a region. The second return
// is false when no chat is configured for it.
// EnsureRegions inserts a row for every canonical region that is
// missing one. Runs at startup so later additions to the region list
// need no migration.
func (r *Channels) EnsureRegions(ctx context.Context) error {
	for _, region := range models.Regions {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO region_channels (region)
			VALUES ($1)
			ON CONFLICT (region) DO NOTHING`, region)
		if err != nil {
			return fmt.Errorf("channels: ensure region %q: %w", region, err)
		}
	}
	return nil
}

func (r *Channels) RegionChatID(ctx context.Context, region string) (int64, bool, error) {
	var chatID sql.NullInt64
	err := r.db.GetContext(ctx, &chatID,
		`SELECT chat_id FROM region_channels WHERE region = $1`, region)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("channels: region chat %q: %w", region, err)
	}
	return chatID.Int64, chatID.Valid, nil
}

// SetRegionChat binds a chat to a region.
func (r *Channels) SetRegionChat(ctx context.Context, region string, chatID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO region_channels (region, chat_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (region) DO UPDATE SET chat_id = $2, updated_at = now()`,
		region, chatID)
	if err != nil {
		return fmt.Errorf("channels: set region chat %q: %w", region, err)
	}
	logger.SVCChannels.Info("region chat bound", "region", region, "chat_id", chatID)
	return nil
}

// Regions lists all region bindings in the canonical region order.
func (r *Channels) Regions(ctx context.Context) ([]models.RegionChannel, error) {
	rows := make([]models.RegionChannel, 0, len(models.Regions))
	byRegion := map[string]models.RegionChannel{}
	var stored []models.RegionChannel
	err := r.db.SelectContext(ctx, &stored,
		`SELECT region, chat_id, updated_at FROM region_channels`)
	if err != nil {
		return nil, fmt.Errorf("channels: regions: %w", err)
	}
	for _, rc := range stored {
		byRegion[rc.Region] = rc
	}
	for _, region := range models.Regions {
		if rc, ok := byRegion[region]; ok {
			rows = append(rows, rc)
		} else {
			rows = append(rows, models.RegionChannel{Region: region})
		}
	}
	return rows, nil
}

// CatalogChatID returns the catalog chat; false when not configured.
func (r *Channels) CatalogChatID(ctx context.Context) (int64, bool, error) {
	var chatID int64
	err := r.db.GetContext(ctx, &chatID,
		`SELECT chat_id FROM channel_settings WHERE name = $1`, catalogSettingName)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("channels: catalog chat: %w", err)
	}
	return chatID, true, nil
}

// SetCatalogChat binds the catalog chat.
func (r *Channels) SetCatalogChat(ctx context.Context, chatID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO channel_settings (name, chat_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET chat_id = $2, updated_at = now()`,
		catalogSettingName, chatID)
	if err != nil {
		return fmt.Errorf("channels: set catalog chat: %w", err)
	}
	logger.SVCChannels.Info("catalog chat bound", "chat_id", chatID)
	return nil
}

// MandatoryList returns required-subscription channels in display order.
func (r *Channels) MandatoryList(ctx context.Context) ([]models.MandatoryChannel, error) {
	var rows []models.MandatoryChannel
	err := r.db.SelectContext(ctx, &rows, `
		SELECT chat_id, title, username, url, position
		FROM mandatory_channels ORDER BY position, chat_id`)
	if err != nil {
		return nil, fmt.Errorf("channels: mandatory list: %w", err)
	}
	return rows, nil
}

// UpsertMandatory adds a required channel or refreshes its metadata.
// New channels go to the end of the list.
func (r *Channels) UpsertMandatory(ctx context.Context, ch models.MandatoryChannel) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mandatory_channels (chat_id, title, username, url, position)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(max(position), 0) + 1 FROM mandatory_channels))
		ON CONFLICT (chat_id) DO UPDATE SET
			title = $2, username = $3, url = $4`,
		ch.ChatID, ch.Title, ch.Username, ch.URL)
	if err != nil {
		return fmt.Errorf("channels: upsert mandatory %d: %w", ch.ChatID, err)
	}
	logger.SVCChannels.Info("mandatory channel saved", "chat_id", ch.ChatID, "title", ch.Title)
	return nil
}

// RemoveMandatory drops a required channel; false when it was absent.
func (r *Channels) RemoveMandatory(ctx context.Context, chatID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM mandatory_channels WHERE chat_id = $1`, chatID)
	if err != nil {
		return false, fmt.Errorf("channels: remove mandatory %d: %w", chatID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("channels: remove mandatory %d: %w", chatID, err)
	}
	if n > 0 {
		logger.SVCChannels.Info("mandatory channel removed", "chat_id", chatID)
	}
	return n > 0, nil
}
