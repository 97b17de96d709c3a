package model

import "time"

// Entry is a form entry row. Payment state lives in named meta buckets
// (EntryMeta), not in columns, mirroring the entries subsystem's
// schema.
type Entry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FormID    int64     `gorm:"not null;index" json:"form_id"`
	Status    string    `gorm:"size:50;not null;default:'pending'" json:"status"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Entry) TableName() string {
	return "entries"
}

// EntryMeta is one named meta value on an entry. Buckets ("payments",
// "notes") store JSON; lookup markers store "1". The (key, value)
// index is what makes marker-based entry lookup work.
type EntryMeta struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	EntryID int64  `gorm:"not null;uniqueIndex:idx_entry_meta_entry_key,priority:1" json:"entry_id"`
	Key     string `gorm:"size:191;not null;uniqueIndex:idx_entry_meta_entry_key,priority:2;index:idx_entry_meta_key_value,priority:1" json:"key"`
	Value   string `gorm:"type:text;index:idx_entry_meta_key_value,priority:2" json:"value"`
}

// TableName specifies the table name for GORM
func (EntryMeta) TableName() string {
	return "entry_meta"
}
