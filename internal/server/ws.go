package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pefman/hex-tactics/pkg/logger"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// watcher streams one battle's events to one websocket.
type watcher struct {
	hub          *Broadcaster
	conn         *websocket.Conn
	battleID     string
	subscriberID string
	send         chan Message
	log          *logrus.Entry
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.battle(w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	subscriberID, send := s.hub.Register(svc.BattleID())
	c := &watcher{
		hub:          s.hub,
		conn:         conn,
		battleID:     svc.BattleID(),
		subscriberID: subscriberID,
		send:         send,
		log:          logger.Component("ws").WithFields(logrus.Fields{"battle": svc.BattleID(), "subscriber": subscriberID}),
	}
	c.log.Info("watcher connected")

	go c.writePump()
	go c.readPump()
}

// readPump only keeps the connection alive; watchers do not send commands.
func (c *watcher) readPump() {
	defer func() {
		c.hub.Unregister(c.battleID, c.subscriberID)
		if err := c.conn.Close(); err != nil {
			c.log.WithError(err).Debug("close websocket")
		}
		c.log.Info("watcher disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("websocket read failed")
			}
			return
		}
	}
}

func (c *watcher) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
