package repository

import (
	"context"

	"homeschool_hub_backend/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) error {
	return r.DB.WithContext(ctx).Create(msg).Error
}

// Conversation returns both directions between a and b, oldest first.
func (r *MessageRepository) Conversation(ctx context.Context, a, b string) ([]model.Message, error) {
	var list []model.Message
	err := r.DB.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("sent_at ASC").
		Find(&list).Error
	return list, err
}

// MarkRead flags every message from sender to recipient as read.
func (r *MessageRepository) MarkRead(ctx context.Context, recipientID, senderID string) error {
	return r.DB.WithContext(ctx).
		Model(&model.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND `read` = ?", recipientID, senderID, false).
		Update("read", true).Error
}

// ListInvolving returns every message sent or received by userID, newest first.
func (r *MessageRepository) ListInvolving(ctx context.Context, userID string) ([]model.Message, error) {
	var list []model.Message
	err := r.DB.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("sent_at DESC").
		Find(&list).Error
	return list, err
}
