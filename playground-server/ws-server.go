package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/retro-framework/glob-playground/framework/controller"
	"github.com/retro-framework/glob-playground/framework/ctxkey"
	"github.com/retro-framework/glob-playground/framework/session"
	"github.com/retro-framework/glob-playground/framework/types"
)

const (
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
	wsWriteWait = 10 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

type wsInbound struct {
	Type       string            `json:"type"`
	Value      string            `json:"value"`
	Candidates []types.Candidate `json:"candidates"`
}

type wsOutbound struct {
	Type    string             `json:"type"`
	Update  *controller.Update `json:"update,omitempty"`
	Message string             `json:"message,omitempty"`
}

// wsHandler attaches a websocket to the cookie's session, starting a
// new one when there is none. Inbound events are handled one at a time
// and every update is sent, in order, by a single writer.
func (s *server) wsHandler(w http.ResponseWriter, req *http.Request) {
	var (
		header http.Header
		sess   *session.Session
		err    error
	)
	if sess, err = lookupSession(s.store, req); err != nil {
		if sess, err = s.store.Create(req.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		header = http.Header{}
		header.Add("Set-Cookie", s.cookie(sess.ID).String())
	}

	conn, err := wsUpgrader.Upgrade(w, req, header)
	if err != nil {
		s.logger.Warnf("server(%s): websocket upgrade failed: %s", sess.ID, err)
		return
	}
	defer conn.Close()

	var (
		ctx, cancel = context.WithCancel(ctxkey.WithSessionID(req.Context(), sess.ID))
		writeCh     = make(chan wsOutbound, 32)
		writerDone  = make(chan struct{})
	)
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteJSON(out); err != nil {
					s.logger.Debugf("server(%s): websocket write failed: %s", sess.ID, err)
					cancel()
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	push := func(out wsOutbound) bool {
		select {
		case writeCh <- out:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !push(s.wsUpdate(sess.Do(ctx, snapshot))) {
		return
	}

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debugf("server(%s): websocket read failed: %s", sess.ID, err)
			}
			break
		}
		if !push(s.handleInbound(ctx, sess, in)) {
			break
		}
	}

	cancel()
	<-writerDone
}

func (s *server) wsUpdate(u controller.Update) wsOutbound {
	return wsOutbound{Type: "update", Update: &u}
}

func (s *server) handleInbound(ctx context.Context, sess *session.Session, in wsInbound) wsOutbound {
	var fn func(context.Context, *controller.Controller) controller.Update
	switch in.Type {
	case "ping":
		return wsOutbound{Type: "pong"}
	case "state":
		fn = snapshot
	case "pattern":
		fn = func(ctx context.Context, c *controller.Controller) controller.Update {
			return c.SetPattern(ctx, in.Value)
		}
	case "options":
		fn = func(ctx context.Context, c *controller.Controller) controller.Update {
			return c.SetOptionsText(ctx, in.Value)
		}
	case "candidates":
		cs := in.Candidates
		if cs == nil {
			cs = types.CandidatesFromLines(in.Value)
		}
		fn = func(ctx context.Context, c *controller.Controller) controller.Update {
			return c.SetCandidates(ctx, cs)
		}
	default:
		return wsOutbound{Type: "error", Message: "unknown message type " + in.Type}
	}
	return s.wsUpdate(sess.Do(ctx, fn))
}
