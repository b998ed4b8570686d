package models

import "time"

// ProductionRecord is the one-per-ebook production tracking row. Repeat
// StartProduction calls reassign the manager in place.
type ProductionRecord struct {
	ProductionID int       `gorm:"primaryKey;column:production_id" json:"production_id"`
	EbookID      int       `gorm:"column:ebook_id;uniqueIndex" json:"ebook_id"`
	ManagerID    int       `gorm:"column:manager_id" json:"manager_id"`
	StartedAt    time.Time `gorm:"column:started_at" json:"started_at"`
}

// EbookAccessLog records reader interactions with published ebooks. UserID is
// null for anonymous readers.
type EbookAccessLog struct {
	LogID     int       `gorm:"primaryKey;column:log_id" json:"log_id"`
	EbookID   int       `gorm:"column:ebook_id;index" json:"ebook_id"`
	UserID    *int      `gorm:"column:user_id" json:"user_id,omitempty"`
	Action    string    `gorm:"column:action" json:"action"`
	IPAddress *string   `gorm:"column:ip_address" json:"ip_address,omitempty"`
	UserAgent *string   `gorm:"column:user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (ProductionRecord) TableName() string {
	return "ebook_production"
}

func (EbookAccessLog) TableName() string {
	return "ebook_access_logs"
}
