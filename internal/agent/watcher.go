package agent

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/kosmonet/neon-sub001/internal/domain"
	"github.com/kosmonet/neon-sub001/pkg/api"
	"github.com/kosmonet/neon-sub001/pkg/logger"
	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"
)

// Watcher представляет собой внешний клиент потока /ws (Headless Agent).
// Он подключается к серверу так же, как обычный клиент, и ведет Mirror.
//
// Жизненный цикл:
//  1. Dial -> подключение к /ws?world=ID.
//  2. View -> (опционально) смена области просмотра.
//  3. Run -> чтение кадров до отмены контекста или разрыва соединения.
type Watcher struct {
	Mirror *Mirror

	conn   *websocket.Conn
	closed atomic.Bool
	log    *logrus.Entry
}

// Dial подключается к потоку. url - полный адрес вида ws://host/ws?world=ID.
func Dial(ctx context.Context, url string) (*Watcher, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s: %w", url, resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Watcher{
		Mirror: NewMirror(domain.DefaultFill),
		conn:   conn,
		log:    logger.WithComponent("watcher").WithField("url", url),
	}, nil
}

// View просит сервер переключить область просмотра
func (w *Watcher) View(area api.AreaPayload) error {
	cmd := api.ClientCommand{Action: api.ActionView, Area: &area}
	if err := cmd.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

// Run читает кадры, обновляет Mirror и отдает каждый кадр в handle (может быть nil).
// Возвращает nil при отмене ctx или штатном закрытии соединения сервером.
func (w *Watcher) Run(ctx context.Context, handle func(api.ServerResponse)) error {
	stop := context.AfterFunc(ctx, func() { w.conn.Close() })
	defer stop()

	for {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || w.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return err
		}

		var frame api.ServerResponse
		if err := json.Unmarshal(data, &frame); err != nil {
			w.log.WithError(err).Warn("Malformed frame skipped")
			continue
		}

		switch frame.Type {
		case api.TypeSnapshot:
			w.Mirror.Apply(frame)
		case api.TypeError:
			w.log.WithField("error", frame.Error).Warn("Server rejected command")
		}
		if handle != nil {
			handle(frame)
		}
	}
}

func (w *Watcher) Close() error {
	w.closed.Store(true)
	err := w.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if cerr := w.conn.Close(); err == nil {
		err = cerr
	}
	if errors.Is(err, websocket.ErrCloseSent) {
		return nil
	}
	return err
}
