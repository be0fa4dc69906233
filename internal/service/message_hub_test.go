package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type allowPairs map[string]string

func (a allowPairs) CanMessage(_ context.Context, sender, recipient string) bool {
	return a[sender] == recipient || a[recipient] == sender
}

func startHub(t *testing.T) (*MessageHub, *httptest.Server) {
	t.Helper()
	hub := NewMessageHub(nil, func(*http.Request) bool { return true })
	go hub.Run()
	t.Cleanup(hub.Stop)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWs(w, r, r.URL.Query().Get("user"))
	}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, hub *MessageHub, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return hub.IsUserOnline(context.Background(), userID)
	}, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, body, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg WSMessage
	require.NoError(t, json.Unmarshal(body, &msg))
	return msg
}

func TestMessageHub_DeliverLocal(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, hub, srv, "student-1")

	hub.Deliver(context.Background(), "student-1", WSMessage{
		Type: WSTypeMessage,
		Data: map[string]interface{}{"content": "hello"},
	})

	msg := readMessage(t, conn)
	assert.Equal(t, WSTypeMessage, msg.Type)
	assert.Equal(t, "hello", msg.Data.(map[string]interface{})["content"])
}

func TestMessageHub_OfflineRecipientIsIgnored(t *testing.T) {
	hub, _ := startHub(t)

	assert.False(t, hub.IsUserOnline(context.Background(), "nobody"))
	assert.NotPanics(t, func() {
		hub.Deliver(context.Background(), "nobody", WSMessage{Type: WSTypeMessage})
	})
}

func TestMessageHub_TypingForwardedToContactOnly(t *testing.T) {
	hub, srv := startHub(t)
	hub.SetContactChecker(allowPairs{"teacher-1": "student-1"})

	teacher := dial(t, hub, srv, "teacher-1")
	student := dial(t, hub, srv, "student-1")
	stranger := dial(t, hub, srv, "stranger")

	require.NoError(t, stranger.WriteJSON(WSMessage{
		Type: WSTypeTyping,
		Data: map[string]interface{}{"recipientId": "student-1"},
	}))
	require.NoError(t, teacher.WriteJSON(WSMessage{
		Type: WSTypeTyping,
		Data: map[string]interface{}{"recipientId": "student-1"},
	}))

	msg := readMessage(t, student)
	assert.Equal(t, WSTypeTyping, msg.Type)
	assert.Equal(t, "teacher-1", msg.Data.(map[string]interface{})["senderId"])
}

func TestMessageHub_DisconnectGoesOffline(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, hub, srv, "student-2")

	conn.Close()
	assert.Eventually(t, func() bool {
		return !hub.IsUserOnline(context.Background(), "student-2")
	}, 2*time.Second, 10*time.Millisecond)
}
