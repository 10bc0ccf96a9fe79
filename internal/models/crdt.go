package models

import "encoding/json"

// Register представляет одно поле CRDT документа (LWW-register).
// Каждый ключ документа хранится как отдельный регистр, конфликты
// разрешаются независимо для каждого ключа.
type Register struct {
	Key       string          `json:"key"`             // Key имя поля документа
	NodeID    string          `json:"node_id"`         // NodeID идентификатор узла (клиента), записавшего эту версию
	Value     json.RawMessage `json:"value,omitempty"` // Value значение поля в JSON
	Timestamp int64           `json:"timestamp"`       // Timestamp Lamport timestamp для упорядочивания событий
	Deleted   bool            `json:"deleted"`         // Deleted tombstone (true = поле удалено)
}

// DocumentType константы для типов сущностей, редактируемых через CRDT
const (
	DocumentTypeContact    = "contact"
	DocumentTypeAutomation = "automation"
	DocumentTypeCampaign   = "campaign"
	DocumentTypeTemplate   = "template"
)

// DocumentState полное состояние CRDT документа.
// Используется как бинарный update при синхронизации и как формат локальной реплики.
type DocumentState struct {
	Type      string      `json:"type"`
	ID        string      `json:"id"`
	Registers []*Register `json:"registers"`
	Clock     int64       `json:"clock"` // Clock максимальный Lamport timestamp отправителя
}

// IsNewerThan сравнивает два регистра и определяет, какой из них новее.
// Согласно алгоритму LWW (Last-Write-Wins):
// 1. Сначала сравнивается Timestamp (больший выигрывает)
// 2. При равных Timestamp сравнивается NodeID (лексикографически)
func (r *Register) IsNewerThan(other *Register) bool {
	if r.Timestamp > other.Timestamp {
		return true
	}
	if r.Timestamp < other.Timestamp {
		return false
	}
	// Timestamps равны - сравниваем NodeID для детерминизма
	return r.NodeID > other.NodeID
}

// Clone создает глубокую копию регистра
func (r *Register) Clone() *Register {
	var value json.RawMessage
	if r.Value != nil {
		value = make(json.RawMessage, len(r.Value))
		copy(value, r.Value)
	}

	return &Register{
		Key:       r.Key,
		NodeID:    r.NodeID,
		Value:     value,
		Timestamp: r.Timestamp,
		Deleted:   r.Deleted,
	}
}
