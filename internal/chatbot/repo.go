package chatbot

import (
	"context"

	"gorm.io/gorm"

	"github.com/teclegacy/marketplace-backend/pkg/db/models"
)

// Repository persists the append-only chatbot audit trail.
type Repository interface {
	Create(ctx context.Context, record *models.ChatbotQuery) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a chatbot audit repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, record *models.ChatbotQuery) error {
	return r.db.WithContext(ctx).Create(record).Error
}
