package service

import (
	"context"
	"testing"
	"time"

	"homeschool_hub_backend/internal/model"
	"homeschool_hub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type onlineSet map[string]bool

func (o onlineSet) IsUserOnline(_ context.Context, id string) bool { return o[id] }

func newMessageFixture(t *testing.T) (*MessageService, *fakeMessages, *recordingNotifier) {
	t.Helper()
	teachers := newFakeTeachers()
	teachers.users["t1"] = model.User{UUIDBase: model.UUIDBase{ID: "t1"}, FirstName: "Ada", LastName: "Lovelace", Role: model.Teacher}
	teachers.users["t2"] = model.User{UUIDBase: model.UUIDBase{ID: "t2"}, FirstName: "Other", LastName: "Teacher", Role: model.Teacher}
	students := newFakeStudents(student("s1", "t1"), student("s2", "t1"), student("x", "t2"))

	messages := &fakeMessages{}
	notifier := &recordingNotifier{}
	svc := NewMessageService(messages, teachers, students, notifier, onlineSet{"t1": true})
	return svc, messages, notifier
}

func TestMessages_OnlyTeacherAndOwnStudent(t *testing.T) {
	svc, _, _ := newMessageFixture(t)
	ctx := context.Background()

	assert.True(t, svc.CanMessage(ctx, "t1", "s1"))
	assert.True(t, svc.CanMessage(ctx, "s1", "t1"))
	assert.False(t, svc.CanMessage(ctx, "s1", "s2"))
	assert.False(t, svc.CanMessage(ctx, "t1", "x"))
	assert.False(t, svc.CanMessage(ctx, "x", "t1"))
	assert.False(t, svc.CanMessage(ctx, "t1", "t2"))

	_, err := svc.Send(ctx, "s1", SendMessageRequest{RecipientID: "s2", Content: "hi"})
	assert.ErrorIs(t, err, util.ErrInvalidRecipient)

	_, err = svc.Send(ctx, "s1", SendMessageRequest{RecipientID: "t1", Content: "   "})
	assert.ErrorIs(t, err, util.ErrEmptyMessage)
}

func TestMessages_SendPushesToRecipient(t *testing.T) {
	svc, _, notifier := newMessageFixture(t)

	msg, err := svc.Send(context.Background(), "t1", SendMessageRequest{RecipientID: "s1", Content: " Great work! "})
	require.NoError(t, err)
	assert.Equal(t, "Great work!", msg.Content)
	assert.False(t, msg.Read)

	require.Len(t, notifier.sent["s1"], 1)
	assert.Equal(t, WSTypeMessage, notifier.sent["s1"][0].Type)
	assert.Equal(t, msg, notifier.sent["s1"][0].Data)
}

func TestMessages_ConversationOrderedAndMarkedRead(t *testing.T) {
	svc, messages, _ := newMessageFixture(t)
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, messages.Create(ctx, &model.Message{SenderID: "s1", RecipientID: "t1", Content: "second", SentAt: base.Add(time.Minute)}))
	require.NoError(t, messages.Create(ctx, &model.Message{SenderID: "t1", RecipientID: "s1", Content: "first", SentAt: base}))
	require.NoError(t, messages.Create(ctx, &model.Message{SenderID: "s2", RecipientID: "t1", Content: "elsewhere", SentAt: base}))

	list, err := svc.Conversation(ctx, "t1", "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Content)
	assert.Equal(t, "second", list[1].Content)

	for _, m := range messages.items {
		switch m.Content {
		case "second":
			assert.True(t, m.Read)
		case "first", "elsewhere":
			assert.False(t, m.Read)
		}
	}

	_, err = svc.Conversation(ctx, "t1", "x")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestMessages_ConversationsForTeacher(t *testing.T) {
	svc, messages, _ := newMessageFixture(t)
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, messages.Create(ctx, &model.Message{SenderID: "s1", RecipientID: "t1", Content: "old", SentAt: base}))
	require.NoError(t, messages.Create(ctx, &model.Message{SenderID: "t1", RecipientID: "s1", Content: "new", SentAt: base.Add(time.Minute)}))

	convs, err := svc.Conversations(ctx, "t1", model.Teacher, "")
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, "s1", convs[0].Contact.ID)
	require.NotNil(t, convs[0].LastMessage)
	assert.Equal(t, "new", convs[0].LastMessage.Content)
	assert.Equal(t, 1, convs[0].Unread)

	assert.Equal(t, "s2", convs[1].Contact.ID)
	assert.Nil(t, convs[1].LastMessage)
}

func TestMessages_ConversationsForStudent(t *testing.T) {
	svc, _, _ := newMessageFixture(t)

	convs, err := svc.Conversations(context.Background(), "s1", model.Student, "t1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "Ada Lovelace", convs[0].Contact.Name)
	assert.Equal(t, model.Teacher, convs[0].Contact.Role)
	assert.True(t, convs[0].Contact.Online)

	convs, err = svc.Conversations(context.Background(), "s1", model.Student, "gone")
	require.NoError(t, err)
	assert.Empty(t, convs)
}
