package crdt

import (
	"bytes"
	"encoding/json"
	"sort"
	"sync"

	"github.com/iudanet/zapsync/internal/models"
)

// LWWMap представляет документ как набор LWW-регистров по ключам.
// Конфликты разрешаются независимо для каждого ключа: побеждает запись
// с большим (Timestamp, NodeID). Удаление хранится как tombstone, чтобы
// старая запись другой реплики не "воскресила" поле.
type LWWMap struct {
	clock     *LamportClock
	registers map[string]*models.Register
	mu        sync.RWMutex
}

// NewLWWMap создает пустой документ с заданными часами
func NewLWWMap(clock *LamportClock) *LWWMap {
	return &LWWMap{
		clock:     clock,
		registers: make(map[string]*models.Register),
	}
}

// Set записывает значение ключа как новое локальное событие
func (m *LWWMap) Set(key string, value json.RawMessage) *models.Register {
	return m.write(key, value, false)
}

// Delete удаляет ключ (tombstone). Удаление отсутствующего ключа тоже
// фиксируется, чтобы перекрыть параллельную запись с меньшим timestamp.
func (m *LWWMap) Delete(key string) *models.Register {
	return m.write(key, nil, true)
}

func (m *LWWMap) write(key string, value json.RawMessage, deleted bool) *models.Register {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg := &models.Register{
		Key:       key,
		NodeID:    m.clock.NodeID(),
		Timestamp: m.clock.Tick(),
		Deleted:   deleted,
	}
	if !deleted {
		reg.Value = append(json.RawMessage(nil), value...)
	}

	m.registers[key] = reg
	return reg.Clone()
}

// Get возвращает значение ключа. false для отсутствующего или удаленного ключа.
func (m *LWWMap) Get(key string) (json.RawMessage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reg, ok := m.registers[key]
	if !ok || reg.Deleted {
		return nil, false
	}
	return append(json.RawMessage(nil), reg.Value...), true
}

// Data возвращает копию всех живых значений
func (m *LWWMap) Data() map[string]json.RawMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data := make(map[string]json.RawMessage, len(m.registers))
	for key, reg := range m.registers {
		if reg.Deleted {
			continue
		}
		data[key] = append(json.RawMessage(nil), reg.Value...)
	}
	return data
}

// Len возвращает количество живых ключей
func (m *LWWMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, reg := range m.registers {
		if !reg.Deleted {
			count++
		}
	}
	return count
}

// Apply применяет один регистр другой реплики.
// Возвращает true, если видимое состояние документа изменилось.
func (m *LWWMap) Apply(reg *models.Register) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.apply(reg)
}

func (m *LWWMap) apply(reg *models.Register) bool {
	if reg == nil || reg.Key == "" {
		return false
	}

	m.clock.Witness(reg.Timestamp)

	existing, ok := m.registers[reg.Key]
	if ok && !reg.IsNewerThan(existing) {
		return false
	}

	m.registers[reg.Key] = reg.Clone()

	// Новый tombstone для отсутствующего ключа не меняет видимые данные
	if !ok {
		return !reg.Deleted
	}
	if existing.Deleted && reg.Deleted {
		return false
	}
	if !existing.Deleted && !reg.Deleted && bytes.Equal(existing.Value, reg.Value) {
		return false
	}
	return true
}

// Merge объединяет состояние другой реплики.
// Операция коммутативна, ассоциативна и идемпотентна.
// Возвращает отсортированный список ключей, видимое значение которых изменилось.
func (m *LWWMap) Merge(state *models.DocumentState) []string {
	if state == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.clock.Witness(state.Clock)

	var changed []string
	for _, reg := range state.Registers {
		if m.apply(reg) {
			changed = append(changed, reg.Key)
		}
	}
	sort.Strings(changed)
	return changed
}

// State возвращает полное состояние документа, включая tombstones.
// Регистры отсортированы по ключу, чтобы кодирование было детерминированным.
func (m *LWWMap) State(docType, id string) *models.DocumentState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	registers := make([]*models.Register, 0, len(m.registers))
	for _, reg := range m.registers {
		registers = append(registers, reg.Clone())
	}
	sort.Slice(registers, func(i, j int) bool { return registers[i].Key < registers[j].Key })

	return &models.DocumentState{
		Type:      docType,
		ID:        id,
		Registers: registers,
		Clock:     m.clock.Now(),
	}
}
