package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"
	"homeschool_hub_backend/pkg/logger"

	"go.uber.org/zap"
)

// Presence reports whether a user has a live connection. *MessageHub satisfies it.
type Presence interface {
	IsUserOnline(ctx context.Context, userID string) bool
}

// MessageService carries messages between a teacher and their own students.
// No other pair may talk.
type MessageService struct {
	Messages MessageStore
	Teachers TeacherStore
	Students StudentStore
	Notifier Notifier
	Presence Presence
}

func NewMessageService(messages MessageStore, teachers TeacherStore, students StudentStore, notifier Notifier, presence Presence) *MessageService {
	return &MessageService{
		Messages: messages,
		Teachers: teachers,
		Students: students,
		Notifier: notifier,
		Presence: presence,
	}
}

type SendMessageRequest struct {
	RecipientID string `json:"recipientId" binding:"required"`
	Content     string `json:"content" binding:"required,max=5000"`
}

// CanMessage reports whether one side is a student owned by the other.
func (s *MessageService) CanMessage(ctx context.Context, senderID, recipientID string) bool {
	if senderID == "" || recipientID == "" || senderID == recipientID {
		return false
	}
	if st, err := s.Students.FindByID(ctx, senderID); err == nil {
		return st.TeacherID == recipientID
	}
	if st, err := s.Students.FindByID(ctx, recipientID); err == nil {
		return st.TeacherID == senderID
	}
	return false
}

// Send stores the message, then pushes it to the recipient if connected.
// Push is best effort; the stored message is what counts.
func (s *MessageService) Send(ctx context.Context, senderID string, req SendMessageRequest) (*model.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, util.ErrEmptyMessage
	}
	if !s.CanMessage(ctx, senderID, req.RecipientID) {
		return nil, util.ErrInvalidRecipient
	}

	msg := &model.Message{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Content:     content,
		SentAt:      time.Now(),
	}
	if err := s.Messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.Deliver(ctx, msg.RecipientID, WSMessage{Type: WSTypeMessage, Data: msg})
	}
	logger.Log.Debug("Message sent", zap.String("messageId", msg.ID), zap.String("senderId", senderID))
	return msg, nil
}

// Conversation returns both directions with contactID, oldest first, and
// marks what contactID sent as read.
func (s *MessageService) Conversation(ctx context.Context, userID, contactID string) ([]model.Message, error) {
	if !s.CanMessage(ctx, userID, contactID) {
		return nil, util.ErrNotFound
	}
	list, err := s.Messages.Conversation(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}
	if err := s.Messages.MarkRead(ctx, userID, contactID); err != nil {
		logger.Log.Warn("Failed to mark messages read", zap.String("userId", userID), zap.Error(err))
	}
	return list, nil
}

type Contact struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Role   model.UserRole `json:"type"`
	Online bool           `json:"online"`
}

type ConversationSummary struct {
	Contact     Contact        `json:"contact"`
	LastMessage *model.Message `json:"lastMessage"`
	Unread      int            `json:"unread"`
}

// Conversations lists every contact the user may talk to: a teacher's
// students, or a student's teacher. Contacts without messages are included.
func (s *MessageService) Conversations(ctx context.Context, userID string, role model.UserRole, teacherID string) ([]ConversationSummary, error) {
	contacts, err := s.contacts(ctx, userID, role, teacherID)
	if err != nil {
		return nil, err
	}

	messages, err := s.Messages.ListInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]ConversationSummary, 0, len(contacts))
	index := make(map[string]int, len(contacts))
	for _, c := range contacts {
		if s.Presence != nil {
			c.Online = s.Presence.IsUserOnline(ctx, c.ID)
		}
		index[c.ID] = len(out)
		out = append(out, ConversationSummary{Contact: c})
	}

	// messages are newest first, so the first one seen per contact is the last sent
	for i := range messages {
		m := &messages[i]
		other := m.SenderID
		if other == userID {
			other = m.RecipientID
		}
		pos, ok := index[other]
		if !ok {
			continue
		}
		if out[pos].LastMessage == nil {
			out[pos].LastMessage = m
		}
		if m.RecipientID == userID && !m.Read {
			out[pos].Unread++
		}
	}
	return out, nil
}

func (s *MessageService) contacts(ctx context.Context, userID string, role model.UserRole, teacherID string) ([]Contact, error) {
	if role == model.Teacher {
		students, err := s.Students.ListByTeacher(ctx, userID)
		if err != nil {
			return nil, err
		}
		out := make([]Contact, 0, len(students))
		for i := range students {
			out = append(out, Contact{ID: students[i].ID, Name: students[i].FullName(), Role: model.Student})
		}
		return out, nil
	}

	teacher, err := s.Teachers.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return []Contact{}, nil
		}
		return nil, err
	}
	return []Contact{{ID: teacher.ID, Name: teacher.FullName(), Role: model.Teacher}}, nil
}
