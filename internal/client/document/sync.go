package document

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/iudanet/zapsync/internal/client/events"
)

// syncWorker отправляет состояние документа в фоне.
// Запросы, пришедшие во время отправки, схлопываются в одну следующую отправку.
type syncWorker struct {
	doc         *Document
	newBackoff  func() retry.Backoff
	backoff     retry.Backoff
	nextAttempt time.Time
	requests    chan struct{}
	cancel      context.CancelFunc
	done        chan struct{}
	ctx         context.Context
	mu          sync.Mutex
}

func newSyncWorker(doc *Document, newBackoff func() retry.Backoff) *syncWorker {
	ctx, cancel := context.WithCancel(context.Background())
	return &syncWorker{
		doc:        doc,
		newBackoff: newBackoff,
		backoff:    newBackoff(),
		requests:   make(chan struct{}, 1),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

func (w *syncWorker) start() {
	go w.run()
}

// request ставит отправку в очередь, не блокируя вызывающего.
// В офлайне отправка пропускается без обращения к сети.
func (w *syncWorker) request() {
	if !w.doc.isOnline() {
		w.doc.logger.Debug("Offline, document sync skipped")
		return
	}
	select {
	case w.requests <- struct{}{}:
	default:
		// Отправка уже запрошена
	}
}

// stop отменяет текущую отправку и ждет завершения воркера
func (w *syncWorker) stop() {
	w.cancel()
	<-w.done
}

// resetBackoff снимает паузу после ошибки
func (w *syncWorker) resetBackoff() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.backoff = w.newBackoff()
	w.nextAttempt = time.Time{}
}

func (w *syncWorker) run() {
	defer close(w.done)

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.requests:
			w.syncOnce()
		}
	}
}

// syncOnce выполняет одну попытку отправки. Ошибки логируются
// и не влияют на локальное состояние документа.
func (w *syncWorker) syncOnce() {
	d := w.doc

	if d.remote == nil {
		return
	}
	if !d.isOnline() {
		d.logger.Debug("Offline, document sync skipped")
		return
	}

	w.mu.Lock()
	gated := d.now().Before(w.nextAttempt)
	w.mu.Unlock()
	if gated {
		d.logger.Debug("Document sync postponed after previous failure")
		return
	}

	update, err := d.Encode()
	if err != nil {
		d.logger.Error("Failed to encode document state", "error", err)
		return
	}

	err = d.remote.SyncDocument(w.ctx, d.docType, d.id, update)
	if w.ctx.Err() != nil {
		// Документ уничтожен во время отправки
		return
	}

	if err != nil {
		w.mu.Lock()
		delay, ok := w.backoff.Next()
		if !ok {
			w.backoff = w.newBackoff()
			delay, _ = w.backoff.Next()
		}
		w.nextAttempt = d.now().Add(delay)
		w.mu.Unlock()

		d.logger.Warn("Document sync failed", "error", err, "retry_after", delay)
		w.publish(events.EventDocumentSyncFailed, err)
		return
	}

	w.resetBackoff()
	d.logger.Debug("Document synced", "bytes", len(update))
	w.publish(events.EventDocumentSynced, nil)
}

func (w *syncWorker) publish(name events.Name, err error) {
	if w.doc.bus == nil {
		return
	}
	w.doc.bus.Publish(name, events.DocumentSync{Type: w.doc.docType, ID: w.doc.id, Err: err})
}
