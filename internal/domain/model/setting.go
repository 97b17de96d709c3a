package model

import "time"

// Setting is one gateway configuration value. Keys are mode-prefixed
// ("sandbox_api_key", "live_webhook", ...) plus a global "mode" key,
// scoped by gateway slug.
type Setting struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Gateway   string    `gorm:"size:50;not null;uniqueIndex:idx_settings_gateway_key,priority:1" json:"gateway"`
	Key       string    `gorm:"size:100;not null;uniqueIndex:idx_settings_gateway_key,priority:2" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Setting) TableName() string {
	return "gateway_settings"
}
