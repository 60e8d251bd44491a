package service

import (
	"context"
	"log"

	"backend/internal/model"
	"backend/internal/websocket"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// NotificationService stores per-user notifications and mirrors them to the
// WebSocket hub. Delivery is best effort: a failed insert is logged, never
// propagated, so a transition can't fail because of a notification.
type NotificationService interface {
	Notifier
	ListForUser(ctx context.Context, userID string, page, limit int) ([]NotificationResponse, int64, error)
	MarkRead(ctx context.Context, userID, id string) error
}

type notificationService struct {
	db  *gorm.DB
	hub *websocket.Hub
}

// NewNotificationService creates a new NotificationService instance
func NewNotificationService(db *gorm.DB, hub *websocket.Hub) NotificationService {
	return &notificationService{db: db, hub: hub}
}

func (s *notificationService) NotifyUser(ctx context.Context, userID, title, message, kind string) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return
	}

	n := model.Notification{UserID: uid, Title: title, Message: message, Type: kind}
	// Insert outside any caller transaction: the transition already committed.
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		log.Println("failed to store notification:", err)
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(websocket.Event{
			Type:    "notification",
			UserID:  userID,
			Title:   title,
			Message: message,
		})
	}
}

func (s *notificationService) NotifyUsers(ctx context.Context, userIDs []string, title, message, kind string) {
	for _, id := range userIDs {
		s.NotifyUser(ctx, id, title, message, kind)
	}
}

func (s *notificationService) ListForUser(ctx context.Context, userID string, page, limit int) ([]NotificationResponse, int64, error) {
	var total int64
	query := s.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Notification
	offset := pagination.Offset(page, limit)
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	res := make([]NotificationResponse, 0, len(rows))
	for _, n := range rows {
		res = append(res, NotificationResponse{
			ID:        n.ID.String(),
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return res, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true).Error
}
