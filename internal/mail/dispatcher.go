package mail

import (
	"context"
	"sync"
	"time"

	"github.com/Baaaki/storefront/pkg/logger"
	"go.uber.org/zap"
)

const sendTimeout = 30 * time.Second

type Message struct {
	To       []string
	Subject  string
	HTMLBody string
	// Kind labels the message in logs
	Kind string
}

// Sender delivers one message synchronously
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer accepts messages for best-effort delivery off the request path
type Mailer interface {
	Enqueue(msg Message) bool
}

// Dispatcher hands messages to a fixed pool of workers through a bounded
// queue. Enqueue never blocks; delivery failures are logged and dropped.
type Dispatcher struct {
	sender Sender
	queue  chan Message
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sender Sender, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	d := &Dispatcher{
		sender: sender,
		queue:  make(chan Message, queueSize),
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	return d
}

// Enqueue reports whether the message was accepted
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		logger.Log.Warn("Mail dispatcher closed, dropping message",
			zap.String("kind", msg.Kind),
			zap.Strings("to", msg.To),
		)
		return false
	}

	select {
	case d.queue <- msg:
		return true
	default:
		logger.Log.Warn("Mail queue full, dropping message",
			zap.String("kind", msg.Kind),
			zap.Strings("to", msg.To),
		)
		return false
	}
}

// Close stops accepting messages and waits for queued ones to be sent
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		logger.Log.Error("Failed to send email",
			zap.String("kind", msg.Kind),
			zap.Strings("to", msg.To),
			zap.Error(err),
		)
		return
	}

	logger.Log.Info("Email sent",
		zap.String("kind", msg.Kind),
		zap.Strings("to", msg.To),
		zap.Duration("duration", time.Since(start)),
	)
}
