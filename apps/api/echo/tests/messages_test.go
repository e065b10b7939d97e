package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafidain/schoollink/core/school"
	"github.com/rafidain/schoollink/storage/database/redisstore"
)

func Test_messageApi(t *testing.T) {
	a := setup(t)
	parent := a.token(t, "p1")

	a.run(t, []httpTest{
		{name: "conversation", method: http.MethodGet, path: "/v1/messages/t1", token: parent, wantCode: http.StatusOK,
			wantData: marchallObj(t, a.school.GetMessages("p1", "t1"))},
		{name: "empty conversation", method: http.MethodGet, path: "/v1/messages/t2", token: parent, wantCode: http.StatusOK,
			wantData: []byte(`[]`)},
		{name: "unknown contact", method: http.MethodGet, path: "/v1/messages/nobody", token: parent, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "unknown contact"})},
		{name: "self", method: http.MethodGet, path: "/v1/messages/p1", token: parent, wantCode: http.StatusNotFound},
		{name: "directory teacher without an account", method: http.MethodGet, path: "/v1/messages/t3", token: parent, wantCode: http.StatusOK,
			wantData: []byte(`[]`)},
		{name: "send: empty", method: http.MethodPost, path: "/v1/messages/t1", token: parent, body: []byte(`{"content":"   "}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"content":"message is empty"}`)},
	})

	t.Run("send", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/messages/t2", parent, []byte(`{"content":" Hello Ms. Marwa "}`))
		a.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var msg school.Message
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
		assert.Equal(t, "p1", msg.SenderID)
		assert.Equal(t, "t2", msg.RecipientID)
		assert.Equal(t, "Hello Ms. Marwa", msg.Content)

		msgs := a.school.GetMessages("t2", "p1")
		require.Len(t, msgs, 1)
		assert.Equal(t, msg.ID, msgs[0].ID)
	})

	t.Run("send to a directory teacher", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/messages/t4", a.token(t, "s1"), []byte(`{"content":"Is the essay due Monday?"}`))
		a.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		msgs := a.school.GetMessages("t4", "s1")
		require.Len(t, msgs, 1)
		assert.Equal(t, "s1", msgs[0].SenderID)
		assert.Equal(t, "Ali Hussein", msgs[0].SenderName)
	})

	t.Run("send survives a dropped client", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req, rec := newAuthRequest(http.MethodPost, "/v1/messages/t1", parent, []byte(`{"content":"still there?"}`))
		a.ServeHTTP(rec, req.WithContext(ctx))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var found int
		for _, m := range a.school.GetMessages("p1", "t1") {
			if m.Content == "still there?" {
				found++
			}
		}
		assert.Equal(t, 1, found)
	})

	t.Run("send to a bot", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/messages/mock_helper", parent, []byte(`{"content":"hi"}`))
		a.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		a.messenger.Wait()
		msgs := a.school.GetMessages("p1", "mock_helper")
		require.Len(t, msgs, 2)
		assert.Equal(t, "p1", msgs[0].SenderID)
		assert.Equal(t, "mock_helper", msgs[1].SenderID)
	})
}

func Test_messageApi_closedStore(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	a := setupWithStore(t, redisstore.NewStore(client, "test:"))
	parent := a.token(t, "p1")
	require.NoError(t, client.Close())

	req, rec := newAuthRequest(http.MethodPost, "/v1/messages/t1", parent, []byte(`{"content":"hello?"}`))
	a.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusInternalServerError, wantData: marchallObj(t, httpErr{Error: "Internal Server Error"})}, rec)

	select {
	case <-a.ShutdownSignal():
	case <-time.After(time.Second):
		t.Fatal("server did not ask to shut down")
	}
	assert.Len(t, a.school.GetMessages("p1", "t1"), 2)
}

type wsEvent struct {
	Type     string           `json:"type"`
	Messages []school.Message `json:"messages"`
	Error    string           `json:"error"`
}

func Test_messageApi_live(t *testing.T) {
	a := setup(t)
	srv := httptest.NewServer(a)
	defer srv.Close()

	dial := func(t *testing.T, contact, token string) *websocket.Conn {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/messages/" + contact + "/ws?token=" + token
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	}
	// next reads events until one satisfies ok.
	next := func(t *testing.T, conn *websocket.Conn, ok func(wsEvent) bool) wsEvent {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
		for {
			var evt wsEvent
			require.NoError(t, conn.ReadJSON(&evt))
			if ok(evt) {
				return evt
			}
		}
	}

	t.Run("no token", func(t *testing.T) {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/messages/t1/ws"
		_, res, err := websocket.DefaultDialer.Dial(url, nil)
		require.Error(t, err)
		require.NotNil(t, res)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("history, then both sides see new messages", func(t *testing.T) {
		parent := dial(t, "t1", a.token(t, "p1"))
		evt := next(t, parent, func(e wsEvent) bool { return e.Type == "messages" })
		assert.Len(t, evt.Messages, 2)

		teacher := dial(t, "p1", a.token(t, "t1"))
		next(t, teacher, func(e wsEvent) bool { return len(e.Messages) == 2 })

		require.NoError(t, parent.WriteJSON(map[string]string{"content": "See you on Thursday"}))

		isNew := func(e wsEvent) bool {
			return len(e.Messages) == 3 && e.Messages[2].Content == "See you on Thursday"
		}
		next(t, parent, isNew)
		evt = next(t, teacher, isNew)
		assert.Equal(t, "p1", evt.Messages[2].SenderID)
	})

	t.Run("empty message", func(t *testing.T) {
		conn := dial(t, "t2", a.token(t, "p1"))
		require.NoError(t, conn.WriteJSON(map[string]string{"content": ""}))
		evt := next(t, conn, func(e wsEvent) bool { return e.Type == "error" })
		assert.Equal(t, "message is empty", evt.Error)
	})

	t.Run("bot replies", func(t *testing.T) {
		conn := dial(t, "mock_helper", a.token(t, "s1"))
		require.NoError(t, conn.WriteJSON(map[string]string{"content": "When is the exam?"}))
		evt := next(t, conn, func(e wsEvent) bool { return len(e.Messages) == 2 })
		assert.Equal(t, "s1", evt.Messages[0].SenderID)
		assert.Equal(t, "mock_helper", evt.Messages[1].SenderID)
	})
}
