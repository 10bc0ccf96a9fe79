package models

import (
	"encoding/json"
	"time"
)

// Snapshot представляет персистентный снимок кэша запросов.
// Хранится целиком под одним ключом локального KV хранилища.
type Snapshot struct {
	ClientState ClientState `json:"clientState"`
	Buster      string      `json:"buster"`    // Buster токен версии кэша; снимок с другим buster отбрасывается
	Timestamp   int64       `json:"timestamp"` // Timestamp время создания снимка (unix ms)
}

// ClientState состояние клиента: кэшированные запросы и отложенные мутации
type ClientState struct {
	Queries   []QueryRecord    `json:"queries"`
	Mutations []MutationRecord `json:"mutations"`
}

// QueryRecord представляет одну закэшированную запись запроса.
// Первый сегмент ключа определяет домен (contacts, automations, ...).
type QueryRecord struct {
	QueryHash string     `json:"queryHash"`
	QueryKey  []string   `json:"queryKey"`
	State     QueryState `json:"state"`
}

// QueryState данные и метаданные закэшированного запроса
type QueryState struct {
	Status        string          `json:"status"`
	Data          json.RawMessage `json:"data,omitempty"`
	DataUpdatedAt int64           `json:"dataUpdatedAt"` // DataUpdatedAt время последнего обновления (unix ms)
}

// MutationRecord представляет мутацию, ожидающую отправки на сервер
type MutationRecord struct {
	MutationKey []string      `json:"mutationKey"`
	State       MutationState `json:"state"`
}

// MutationState состояние отложенной мутации
type MutationState struct {
	Status      string          `json:"status"`
	Variables   json.RawMessage `json:"variables,omitempty"`
	SubmittedAt int64           `json:"submittedAt"`
}

// QueryStatus константы статусов запроса
const (
	QueryStatusSuccess = "success"
	QueryStatusError   = "error"
	QueryStatusPending = "pending"
)

// Domain возвращает домен записи (первый сегмент ключа) или пустую строку
func (q QueryRecord) Domain() string {
	if len(q.QueryKey) == 0 {
		return ""
	}
	return q.QueryKey[0]
}

// UpdatedAt возвращает время последнего обновления данных
func (q QueryRecord) UpdatedAt() time.Time {
	return time.UnixMilli(q.State.DataUpdatedAt)
}

// Age возвращает возраст записи относительно now
func (q QueryRecord) Age(now time.Time) time.Duration {
	return now.Sub(q.UpdatedAt())
}

// IsEmpty проверяет, что снимок не содержит ни запросов, ни мутаций
func (s *Snapshot) IsEmpty() bool {
	return s == nil || (len(s.ClientState.Queries) == 0 && len(s.ClientState.Mutations) == 0)
}

// Clone создает копию снимка. Срезы копируются, payload (json.RawMessage)
// разделяется, так как записи в кэше не изменяются на месте.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	queries := make([]QueryRecord, len(s.ClientState.Queries))
	copy(queries, s.ClientState.Queries)

	mutations := make([]MutationRecord, len(s.ClientState.Mutations))
	copy(mutations, s.ClientState.Mutations)

	return &Snapshot{
		Timestamp: s.Timestamp,
		Buster:    s.Buster,
		ClientState: ClientState{
			Queries:   queries,
			Mutations: mutations,
		},
	}
}

// NewQueryRecord создает запись запроса с хэшем, вычисленным из ключа
func NewQueryRecord(key []string, data json.RawMessage, updatedAt time.Time) QueryRecord {
	return QueryRecord{
		QueryKey:  key,
		QueryHash: HashQueryKey(key),
		State: QueryState{
			Status:        QueryStatusSuccess,
			Data:          data,
			DataUpdatedAt: updatedAt.UnixMilli(),
		},
	}
}

// HashQueryKey возвращает детерминированный хэш ключа запроса (JSON массива)
func HashQueryKey(key []string) string {
	if key == nil {
		key = []string{}
	}
	// json.Marshal для []string не может вернуть ошибку
	data, _ := json.Marshal(key)
	return string(data)
}
