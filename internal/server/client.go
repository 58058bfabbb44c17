package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kosmonet/neon-sub001/internal/engine"
	"github.com/kosmonet/neon-sub001/internal/metrics"
	"github.com/kosmonet/neon-sub001/internal/network"
	"github.com/kosmonet/neon-sub001/internal/spatial"
	"github.com/kosmonet/neon-sub001/pkg/api"
	"github.com/kosmonet/neon-sub001/pkg/logger"
	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
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

// Client - посредник между Websocket и инстансом мира.
// Клиент смотрит на прямоугольную область карты и после каждого тика
// получает снапшот сущностей внутри нее.
type Client struct {
	Instance *engine.Instance
	Conn     *websocket.Conn
	ID       string

	// Кадры вне тиков: ответ на VIEW и ошибки
	Send  chan api.ServerResponse
	ticks chan network.TickEvent

	mu   sync.Mutex
	view spatial.Rect // пустая область = вся карта

	log *logrus.Entry
}

func NewClient(inst *engine.Instance, conn *websocket.Conn) *Client {
	id := uuid.NewString()
	c := &Client{
		Instance: inst,
		Conn:     conn,
		ID:       id,
		Send:     make(chan api.ServerResponse, 16),
		ticks:    inst.Hub.Register(id),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "stream",
			"client_id": id,
			"world_id":  inst.ID(),
		}),
	}
	metrics.InstrumentStreamConnect()
	c.log.Info("Client connected")
	return c
}

func (c *Client) viewport() spatial.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *Client) setViewport(r spatial.Rect) {
	c.mu.Lock()
	c.view = r
	c.mu.Unlock()
}

// snapshot собирает кадр по текущей области просмотра
func (c *Client) snapshot() api.ServerResponse {
	snap := c.Instance.Snapshot(c.viewport())
	return api.NewSnapshotResponse(snap, c.Instance.World.Width, c.Instance.World.Height)
}

// push кладет кадр в очередь, не блокируя чтение
func (c *Client) push(msg api.ServerResponse) {
	select {
	case c.Send <- msg:
	default:
		c.log.Warn("Send buffer full, frame dropped")
	}
}

func (c *Client) pushError(text string) {
	c.push(api.ServerResponse{
		Type:    api.TypeError,
		WorldID: c.Instance.ID().String(),
		Error:   text,
	})
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		// Закрытие канала тиков остановит writePump
		c.Instance.Hub.Unregister(c.ID)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		metrics.InstrumentStreamDisconnect()
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Errorf("WS Error: %v", err)
			}
			return
		}

		var cmd api.ClientCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.pushError("malformed command: " + err.Error())
			continue
		}
		if err := cmd.Validate(); err != nil {
			c.pushError(err.Error())
			continue
		}

		switch cmd.Action {
		case api.ActionView:
			c.setViewport(cmd.Area.Rect())
			c.log.WithField("area", cmd.Area.Rect()).Debug("Viewport changed")
			c.push(c.snapshot())
		}
	}
}

// writePump отправляет кадры клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	// Первый кадр сразу после подключения
	if err := c.write(c.snapshot()); err != nil {
		return
	}

	for {
		select {
		case _, ok := <-c.ticks:
			if !ok {
				c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.write(c.snapshot()); err != nil {
				return
			}

		case msg := <-c.Send:
			if err := c.write(msg); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

func (c *Client) write(msg api.ServerResponse) error {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.WithError(err).Error("failed to encode frame")
		return err
	}
	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.log.WithError(err).Warn("failed to set write deadline")
	}
	if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.log.WithError(err).Debug("write message failed")
		return err
	}
	return nil
}
