// Package api описывает формат запросов и ответов backend API,
// которые использует клиент синхронизации.
package api

import (
	"encoding/json"
	"time"
)

// Пути backend API
const (
	PathHealth     = "/api/v1/health"
	PathCRDTSync   = "/api/v1/crdt/sync"
	PathCRDTState  = "/api/v1/crdt/state"
	PathMutations  = "/api/v1/mutations"
	ContentTypeBin = "application/octet-stream"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// MutationRequest представляет воспроизведение одной офлайн-мутации
type MutationRequest struct {
	CreatedAt time.Time       `json:"created_at"`
	ID        string          `json:"id"`   // ID идемпотентный ключ мутации
	Kind      string          `json:"kind"` // Kind тип операции, например "contacts.update"
	Payload   json.RawMessage `json:"payload"`
}

// MutationResponse представляет ответ на воспроизведение мутации
type MutationResponse struct {
	ID      string `json:"id"`
	Applied bool   `json:"applied"` // Applied false, если мутация уже была применена ранее
}
