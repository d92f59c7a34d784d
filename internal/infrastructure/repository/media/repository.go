package media

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	domain "media-studio/internal/domain/media"
	"media-studio/internal/infrastructure/database/entities"
	"media-studio/internal/utils/platformerrors"
)

// Repository persists the media index. Every mutation carries the
// (id, owner_id, status) predicate so the row count tells whether it applied.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

func (r *Repository) ListActiveByOwner(ctx context.Context, ownerID int) ([]*domain.MediaRecord, error) {
	var rows []entities.MediaRecord
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, string(domain.StatusActive)).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list media", err, "3c7e9a1b-5d2f-4e8a-9b6c-1f3d5a7e9c02")
	}
	out := make([]*domain.MediaRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapEntity(row))
	}
	return out, nil
}

// FindActive reads from the primary since its answer gates a mutation.
func (r *Repository) FindActive(ctx context.Context, id string, ownerID int) (*domain.MediaRecord, error) {
	var row entities.MediaRecord
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).
		Where("id = ? AND owner_id = ? AND status = ?", id, ownerID, string(domain.StatusActive)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to find media", err, "4d8f0b2c-6e3a-4f9b-8c7d-2a4e6b8f0d13")
	}
	return mapEntity(row), nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.MediaRecord, error) {
	var row entities.MediaRecord
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to get media by id", err, "5e9a1c3d-7f4b-4a0c-9d8e-3b5f7c9a1e24")
	}
	return mapEntity(row), nil
}

func (r *Repository) Create(ctx context.Context, record *domain.MediaRecord) error {
	row := toEntity(record)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		errorType := platformerrors.ErrorTypeDatabaseError
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			errorType = platformerrors.ErrorTypeConflict
		}
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, errorType,
			"failed to create media record", err, "6f0b2d4e-8a5c-4b1d-8e9f-4c6a8d0b2f35")
	}
	record.CreatedAt = row.CreatedAt
	record.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *Repository) MarkDeleted(ctx context.Context, id string, ownerID int, from domain.Status) (bool, error) {
	return r.update(ctx, id, ownerID, from, map[string]any{"status": string(domain.StatusDeleted)},
		"failed to delete media record", "7a1c3e5f-9b6d-4c2e-9f0a-5d7b9e1c3a46")
}

func (r *Repository) UpdateDisplay(ctx context.Context, id string, ownerID int, params domain.UpdateParams) (bool, error) {
	updates := map[string]any{}
	if params.DisplayName != nil {
		updates["display_name"] = *params.DisplayName
	}
	return r.update(ctx, id, ownerID, domain.StatusActive, updates,
		"failed to update media record", "8b2d4f6a-0c7e-4d3f-8a1b-6e8c0f2d4b57")
}

func (r *Repository) SetTransformedURL(ctx context.Context, id string, ownerID int, url string) (bool, error) {
	return r.update(ctx, id, ownerID, domain.StatusActive, map[string]any{"transformed_url": url},
		"failed to save transformed url", "9c3e5a7b-1d8f-4e4a-9b2c-7f9d1a3e5c68")
}

func (r *Repository) ListExpiredTemporary(ctx context.Context, before time.Time, limit int) ([]*domain.MediaRecord, error) {
	var rows []entities.MediaRecord
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).
		Where("status = ? AND created_at < ?", string(domain.StatusTemporary), before).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list expired temporary media", err, "0d4f6b8c-2e9a-4f5b-8c3d-8a0e2b4f6d79")
	}
	out := make([]*domain.MediaRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapEntity(row))
	}
	return out, nil
}

func (r *Repository) update(ctx context.Context, id string, ownerID int, from domain.Status, updates map[string]any, message, code string) (bool, error) {
	updates["updated_at"] = r.now()
	result := r.db.WithContext(ctx).
		Model(&entities.MediaRecord{}).
		Where("id = ? AND owner_id = ? AND status = ?", id, ownerID, string(from)).
		Updates(updates)
	if result.Error != nil {
		return false, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, message, result.Error, code)
	}
	return result.RowsAffected > 0, nil
}

func toEntity(record *domain.MediaRecord) entities.MediaRecord {
	return entities.MediaRecord{
		ID:             record.ID,
		OwnerID:        record.OwnerID,
		DisplayName:    record.DisplayName,
		RemoteURL:      record.RemoteURL,
		StoragePath:    record.StoragePath,
		TransformedURL: record.TransformedURL,
		Kind:           string(record.Kind),
		Width:          record.Width,
		Height:         record.Height,
		AudioCodec:     optional(record.AudioCodec),
		VideoCodec:     optional(record.VideoCodec),
		Status:         string(record.Status),
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

func mapEntity(row entities.MediaRecord) *domain.MediaRecord {
	return &domain.MediaRecord{
		ID:             row.ID,
		OwnerID:        row.OwnerID,
		DisplayName:    row.DisplayName,
		RemoteURL:      row.RemoteURL,
		StoragePath:    row.StoragePath,
		TransformedURL: row.TransformedURL,
		Kind:           domain.Kind(row.Kind),
		Width:          row.Width,
		Height:         row.Height,
		AudioCodec:     deref(row.AudioCodec),
		VideoCodec:     deref(row.VideoCodec),
		Status:         domain.Status(row.Status),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
