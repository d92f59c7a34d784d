package entities

import "time"

// MediaRecord is the persisted index row for one remote asset.
type MediaRecord struct {
	ID             string  `gorm:"type:varchar(64);primaryKey"`
	OwnerID        int     `gorm:"not null;default:0;index:idx_media_records_owner_status"`
	DisplayName    string  `gorm:"type:varchar(255);not null"`
	RemoteURL      string  `gorm:"type:text;not null"`
	StoragePath    string  `gorm:"type:text;not null;default:''"`
	TransformedURL string  `gorm:"type:text;not null;default:''"`
	Kind           string  `gorm:"type:varchar(16);not null"`
	Width          int     `gorm:"not null;default:0"`
	Height         int     `gorm:"not null;default:0"`
	AudioCodec     *string `gorm:"type:varchar(64)"`
	VideoCodec     *string `gorm:"type:varchar(64)"`
	Status         string  `gorm:"type:varchar(16);not null;index:idx_media_records_owner_status"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (MediaRecord) TableName() string {
	return "media_records"
}
