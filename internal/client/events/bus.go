// Package events доставляет внутренние события клиента подписчикам.
package events

import (
	"sort"
	"sync"
	"time"
)

// Name тип события
type Name string

const (
	// EventSyncRequested публикуется при возврате в онлайн после офлайна
	EventSyncRequested Name = "sync.requested"
	// EventOnlineChanged публикуется при каждом изменении доступности сети
	EventOnlineChanged Name = "online.changed"
	// EventCacheChanged публикуется при изменении персистентного кэша
	EventCacheChanged Name = "cache.changed"
	// EventDocumentSynced публикуется после успешной отправки документа
	EventDocumentSynced Name = "document.synced"
	// EventDocumentSyncFailed публикуется при ошибке отправки документа
	EventDocumentSyncFailed Name = "document.sync_failed"
)

// Event событие шины. Payload зависит от Name.
type Event struct {
	Time    time.Time
	Payload any
	Name    Name
}

// OnlineChanged payload EventOnlineChanged
type OnlineChanged struct {
	Online bool
}

// CacheChanged payload EventCacheChanged
type CacheChanged struct {
	Reason  string // Reason put, persist, restore, reset
	Queries int
}

// DocumentSync payload EventDocumentSynced и EventDocumentSyncFailed
type DocumentSync struct {
	Err  error
	Type string
	ID   string
}

// Handler обработчик события
type Handler func(Event)

type subscription struct {
	handler Handler
	name    Name
	id      uint64
}

// Bus синхронная шина событий. Обработчики вызываются в горутине Publish
// в порядке подписки. Нулевое значение не готово к использованию, см. NewBus.
type Bus struct {
	subs   map[uint64]subscription
	now    func() time.Time
	nextID uint64
	mu     sync.RWMutex
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return &Bus{
		subs: make(map[uint64]subscription),
		now:  time.Now,
	}
}

// Subscribe регистрирует обработчик события name.
// Пустое name подписывает на все события. Возвращает функцию отписки.
func (b *Bus) Subscribe(name Name, handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[id] = subscription{id: id, name: name, handler: handler}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish доставляет событие всем подписчикам
func (b *Bus) Publish(name Name, payload any) {
	event := Event{Name: name, Payload: payload, Time: b.now()}

	for _, sub := range b.matching(name) {
		sub.handler(event)
	}
}

// matching возвращает подписчиков события в порядке подписки.
// Обработчики вызываются вне блокировки, поэтому могут отписываться и публиковать.
func (b *Bus) matching(name Name) []subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subs := make([]subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.name == "" || sub.name == name {
			subs = append(subs, sub)
		}
	}
	// id монотонно растет, сортировка восстанавливает порядок подписки
	sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	return subs
}

// Len возвращает количество активных подписок
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
