package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"alert_bot/internal/helper"
	"alert_bot/internal/models"
	"alert_bot/internal/modules/config"
	healthsvc "alert_bot/internal/modules/health/service"
	"alert_bot/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
)

// этот интерфейс реализует Telegram-сервис
type ServiceNotifier interface {
	SendService(ctx context.Context, format string, args ...any)
}

// Conn — минимум от websocket-соединения, нужный стримеру.
// В тестах подменяется фейком.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer открывает соединение по URL стрима.
type Dialer func(url string) (Conn, error)

func gorillaDialer(url string) (Conn, error) {
	conn, _, err := (&websocket.Dialer{HandshakeTimeout: 10 * time.Second}).Dial(url, nil)
	return conn, err
}

// Client держит по одному kline-стриму Binance на каждый (symbol, timeframe),
// который требуется включённым правилам. Потерянное соединение просто
// выпадает из активного набора — его поднимет следующий проход Reconcile.
type Client struct {
	cfg   *config.Config
	n     ServiceNotifier
	state *healthsvc.State

	dial     Dialer
	http     *http.Client
	validate *validator.Validate

	out chan<- models.Candle

	mu    sync.Mutex
	conns map[models.StreamKey]Conn
}

func NewClient(cfg *config.Config, n ServiceNotifier, out chan<- models.Candle, state *healthsvc.State) *Client {
	return &Client{
		cfg:      cfg,
		n:        n,
		state:    state,
		dial:     gorillaDialer,
		http:     &http.Client{Timeout: 10 * time.Second},
		validate: validator.New(),
		out:      out,
		conns:    make(map[models.StreamKey]Conn),
	}
}

// SetDialer — для тестов.
func (c *Client) SetDialer(d Dialer) { c.dial = d }

// ActiveKeys — ключи с живым (по нашим данным) соединением.
func (c *Client) ActiveKeys() []models.StreamKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.StreamKey, 0, len(c.conns))
	for k := range c.conns {
		out = append(out, k)
	}
	return out
}

func (c *Client) remove(key models.StreamKey, conn Conn) {
	c.mu.Lock()
	// соединение могли уже заменить новым — убираем только своё
	if cur, ok := c.conns[key]; ok && cur == conn {
		delete(c.conns, key)
	}
	n := len(c.conns)
	c.mu.Unlock()

	_ = conn.Close()
	c.state.SetActiveStreams(n)
}

func (c *Client) streamURL(key models.StreamKey) string {
	return c.cfg.Feed.WSURL + "/ws/" + helper.KlineStream(key.Symbol, key.Timeframe)
}

// subscribe открывает стрим для ключа, если его ещё нет. Под мьютексом
// только регистрация; dial — вне, чтобы не держать остальных.
func (c *Client) subscribe(ctx context.Context, key models.StreamKey) error {
	c.mu.Lock()
	if _, ok := c.conns[key]; ok {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	url := c.streamURL(key)
	conn, err := c.dial(url)
	if err != nil {
		logger.Error("ws dial %s: %v", key, err)
		return err
	}

	c.mu.Lock()
	if _, ok := c.conns[key]; ok {
		// кто-то успел раньше — лишнее соединение закрываем
		c.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	c.conns[key] = conn
	n := len(c.conns)
	c.mu.Unlock()

	c.state.SetActiveStreams(n)
	logger.Info("ws connect %s", key)

	go c.readLoop(ctx, key, conn)
	return nil
}

// readLoop читает кадры до ошибки. Ошибка чтения не фатальна: стрим
// выбывает из активных, переподключение — забота Reconcile.
// Пинги Binance отбивает дефолтный ping-handler gorilla прямо в ReadMessage.
func (c *Client) readLoop(ctx context.Context, key models.StreamKey, conn Conn) {
	defer c.remove(key, conn)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			logger.Error("ws read %s: %v", key, err)
			if c.n != nil {
				c.n.SendService(ctx, "⚠️ WS: поток %s оборвался, ждём переподписку", key)
			}
			return
		}

		candle, err := c.parseKline(msg)
		if err != nil {
			// мусорный кадр — дропаем молча, соединение не трогаем
			logger.Info("ws frame %s dropped: %v", key, err)
			continue
		}

		select {
		case c.out <- candle:
		case <-ctx.Done():
			return
		}
	}
}
