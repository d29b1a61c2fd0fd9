package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatbotQuery is the append-only audit record of a resolved chatbot query.
type ChatbotQuery struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Query     string    `gorm:"column:query;not null"`
	Response  string    `gorm:"column:response;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
