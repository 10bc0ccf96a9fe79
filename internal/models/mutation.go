package models

import (
	"encoding/json"
	"time"
)

// PendingMutation представляет мутацию из офлайн-очереди.
// Мутации создаются, пока клиент офлайн, и воспроизводятся
// на сервере после восстановления соединения.
type PendingMutation struct {
	CreatedAt time.Time       `json:"created_at"`
	ID        string          `json:"id"`         // ID уникальный идентификатор мутации (UUID), используется сервером для идемпотентности
	Kind      string          `json:"kind"`       // Kind тип операции, например "contacts.update"
	LastError string          `json:"last_error"` // LastError текст последней ошибки воспроизведения
	Payload   json.RawMessage `json:"payload"`
	Seq       int64           `json:"seq"`      // Seq порядковый номер в очереди (FIFO)
	Attempts  int             `json:"attempts"` // Attempts количество неудачных попыток
}
