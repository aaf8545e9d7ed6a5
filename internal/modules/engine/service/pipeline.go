package service

import (
	"context"
	"sync"
	"time"

	"alert_bot/internal/models"
	healthsvc "alert_bot/internal/modules/health/service"
	"alert_bot/pkg/logger"

	"github.com/opentracing/opentracing-go"
)

// EventStore — внешний стор событий: только append, без чтения.
type EventStore interface {
	AppendAlertEvent(ctx context.Context, event *models.AlertEvent) error
	AppendNotificationLog(ctx context.Context, entry *models.NotificationLog) error
}

// AlertNotifier — канал доставки. Ошибка отправки не фатальна:
// она уходит в NotificationLog и на этом всё.
type AlertNotifier interface {
	DispatchAlert(ctx context.Context, alert *models.TriggeredAlert) error
}

// Pipeline: свеча из фида -> буфер -> оценка -> диспатч сработок.
type Pipeline struct {
	capacity int
	buffers  *Buffers
	eval     *Evaluator
	events   EventStore
	n        AlertNotifier
	state    *healthsvc.State

	// только для graceful shutdown: даём долететь начатым диспатчам
	inflight sync.WaitGroup
}

func NewPipeline(
	capacity int,
	buffers *Buffers,
	eval *Evaluator,
	events EventStore,
	n AlertNotifier,
	state *healthsvc.State,
) *Pipeline {
	return &Pipeline{
		capacity: capacity,
		buffers:  buffers,
		eval:     eval,
		events:   events,
		n:        n,
		state:    state,
	}
}

// OnCandle обрабатывает одну свечу целиком. Незакрытые свечи
// выбрасываются сразу — ни в буфер, ни в оценку они не попадают.
func (p *Pipeline) OnCandle(ctx context.Context, c models.Candle) {
	if !c.Final {
		return
	}

	p.buffers.Append(c, p.capacity)
	p.state.TouchCandle(time.UnixMilli(c.CloseTime))

	span := opentracing.StartSpan("evaluate_candle")
	span.SetTag("symbol", c.Symbol)
	span.SetTag("timeframe", c.Timeframe)
	alerts := p.eval.Evaluate(ctx, c)
	span.Finish()

	if len(alerts) == 0 {
		return
	}
	p.state.AddAlertsFired(len(alerts))

	// сработки одной свечи улетают параллельно и независимо:
	// упавший диспатч не трогает соседей
	for i := range alerts {
		alert := alerts[i]
		p.inflight.Add(1)
		go func() {
			defer p.inflight.Done()
			p.dispatch(ctx, &alert)
		}()
	}
}

func (p *Pipeline) dispatch(ctx context.Context, alert *models.TriggeredAlert) {
	event := &models.AlertEvent{
		ID:          alert.ID,
		RuleID:      alert.Rule.ID,
		UserID:      alert.User.ID,
		Symbol:      alert.Rule.Symbol,
		Type:        alert.Rule.Type,
		Payload:     alert.Payload,
		TriggeredAt: alert.TriggeredAt,
	}
	if err := p.events.AppendAlertEvent(ctx, event); err != nil {
		logger.Error("append alert event %s: %v", alert.ID, err)
	}

	entry := &models.NotificationLog{
		AlertID:   alert.ID,
		UserID:    alert.User.ID,
		Status:    models.NotificationSent,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := p.n.DispatchAlert(ctx, alert); err != nil {
		entry.Status = models.NotificationFailed
		entry.Error = err.Error()
		p.state.IncSendFailed()
		logger.Error("dispatch alert %s rule=%d: %v", alert.ID, alert.Rule.ID, err)
	}
	if err := p.events.AppendNotificationLog(ctx, entry); err != nil {
		logger.Error("append notification log %s: %v", alert.ID, err)
	}
}

// Drain дожидается начатых диспатчей (best effort на останове).
func (p *Pipeline) Drain() {
	p.inflight.Wait()
}
