package crdt

import (
	"sync"

	"github.com/google/uuid"
)

// LamportClock логические часы Лампорта одной реплики документа.
// Каждая реплика получает собственный nodeID, который разрешает конфликты
// при равных timestamp.
type LamportClock struct {
	nodeID  string     // уникальный идентификатор реплики
	counter int64      // монотонно возрастающий счетчик
	mu      sync.Mutex // мьютекс для потокобезопасности
}

// NewLamportClock создает часы со случайным nodeID (UUID)
func NewLamportClock() *LamportClock {
	return NewLamportClockWithNodeID(uuid.NewString())
}

// NewLamportClockWithNodeID создает часы с заданным nodeID.
// Используется в тестах, где нужен детерминированный порядок реплик.
func NewLamportClockWithNodeID(nodeID string) *LamportClock {
	return &LamportClock{nodeID: nodeID}
}

// Tick увеличивает счетчик для нового локального события
func (lc *LamportClock) Tick() int64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	lc.counter++
	return lc.counter
}

// Witness учитывает timestamp, полученный от другой реплики.
// После Witness следующий Tick гарантированно больше remote.
func (lc *LamportClock) Witness(remote int64) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if remote > lc.counter {
		lc.counter = remote
	}
}

// Now возвращает текущее значение счетчика без изменения
func (lc *LamportClock) Now() int64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	return lc.counter
}

// NodeID возвращает идентификатор реплики
func (lc *LamportClock) NodeID() string {
	return lc.nodeID
}
