package kv

import "time"

// Entry is one JSON blob stored under a fixed key.
type Entry struct {
	Key       string    `json:"key" gorm:"primaryKey;column:entry_key;type:varchar(64)"`
	Value     string    `json:"value" gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Entry) TableName() string {
	return "kv_entries"
}
