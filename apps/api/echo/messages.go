package echoapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/rafidain/schoollink/core/chat"
	"github.com/rafidain/schoollink/core/school"
	"github.com/rafidain/schoollink/core/user"
)

const wsWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type (
	// wsEvent is pushed to chat sockets.
	wsEvent struct {
		Type     string           `json:"type"` // messages | error
		Messages []school.Message `json:"messages,omitempty"`
		Error    string           `json:"error,omitempty"`
	}

	messageApi struct {
		*Deps
	}
)

func registerMessageAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := messageApi{deps}

	messages := g.Group("/messages", jwt)
	messages.GET("/:contactId", api.list)
	messages.POST("/:contactId", api.send)
	messages.GET("/:contactId/ws", api.live)
}

// participants resolves the current user and the :contactId contact.
// Directory teachers and bots need not be registered users.
func (api *messageApi) participants(ctx echo.Context) (self, other chat.Participant, err error) {
	usr, err := getContextUser(ctx, api.School)
	if err != nil {
		return self, other, err
	}
	self = chat.Participant{ID: usr.ID, Name: usr.Name}

	id := ctx.Param("contactId")
	if id == usr.ID {
		return self, other, errUnknownContact
	}
	if contact, ok := api.School.GetUserByID(id); ok {
		return self, chat.Participant{ID: contact.ID, Name: contact.Name}, nil
	}
	if t, ok := api.School.GetTeacherByID(id); ok {
		return self, chat.Participant{ID: t.ID, Name: t.Name}, nil
	}
	if api.Messenger.IsBot(id) {
		return self, chat.Participant{ID: id, Name: api.Conf.AppName + " Assistant"}, nil
	}
	return self, other, errUnknownContact
}

func (api *messageApi) list(ctx echo.Context) error {
	self, other, err := api.participants(ctx)
	if err != nil {
		return err
	}
	msgs := api.School.GetMessages(self.ID, other.ID)
	if msgs == nil {
		msgs = []school.Message{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *messageApi) send(ctx echo.Context) error {
	self, other, err := api.participants(ctx)
	if err != nil {
		return err
	}
	var data sendMessageRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	msg, err := api.Messenger.Send(ctx.Request().Context(), self, other, data.Content, nil)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, msg)
}

// live upgrades to a websocket that pushes the whole conversation on every change
// and accepts {"content": "..."} frames to send.
func (api *messageApi) live(ctx echo.Context) error {
	self, other, err := api.participants(ctx)
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return nil // the upgrader already replied
	}
	defer conn.Close()

	var wmu sync.Mutex
	write := func(evt wsEvent) {
		wmu.Lock()
		defer wmu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(evt); err != nil {
			api.Logger.Debug("writing chat event", err, user.User{ID: self.ID, Name: self.Name})
		}
	}

	reqCtx, cancel := context.WithCancel(ctx.Request().Context())
	defer cancel()

	conv := api.Messenger.Conversation(self, other)
	conv.OnUpdate = func(msgs []school.Message) {
		write(wsEvent{Type: "messages", Messages: msgs})
	}
	if err := conv.Open(reqCtx); err != nil {
		return errors.Wrap(err, "opening conversation")
	}
	defer conv.Close()

	for {
		var data sendMessageRequest
		if err := conn.ReadJSON(&data); err != nil {
			return nil // client went away
		}
		if _, err := conv.Send(reqCtx, data.Content); err != nil {
			write(wsEvent{Type: "error", Error: errors.Cause(err).Error()})
		}
	}
}
