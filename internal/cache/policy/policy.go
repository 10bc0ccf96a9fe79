// Package policy описывает правила хранения закэшированных данных по доменам.
// Таблица политик является единственным источником правды и для слоя
// персистентного кэша, и для движка очистки: любой новый домен данных
// должен быть зарегистрирован здесь, чтобы участвовать в вытеснении.
package policy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Domain логическая категория закэшированных данных
type Domain string

const (
	DomainContacts      Domain = "contacts"
	DomainAutomations   Domain = "automations"
	DomainConversations Domain = "conversations"
	DomainAnalytics     Domain = "analytics"
	DomainMedia         Domain = "media"
	DomainTemplates     Domain = "templates"
	DomainCampaigns     Domain = "campaigns"
	DomainProfile       Domain = "profile"
)

// FieldSet набор полей, которые сохраняются при персистенции.
// Нулевое значение означает "все поля".
type FieldSet struct {
	allow map[string]struct{}
}

// AllFields сохраняет payload без изменений
var AllFields = FieldSet{}

// Fields создает allow-list полей
func Fields(names ...string) FieldSet {
	allow := make(map[string]struct{}, len(names))
	for _, name := range names {
		allow[name] = struct{}{}
	}
	return FieldSet{allow: allow}
}

// All сообщает, сохраняются ли все поля
func (f FieldSet) All() bool {
	return f.allow == nil
}

// Names возвращает отсортированный allow-list (nil для AllFields)
func (f FieldSet) Names() []string {
	if f.All() {
		return nil
	}
	names := make([]string, 0, len(f.allow))
	for name := range f.allow {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Allows проверяет, входит ли поле в набор
func (f FieldSet) Allows(name string) bool {
	if f.All() {
		return true
	}
	_, ok := f.allow[name]
	return ok
}

// Policy правила хранения для одного домена
type Policy struct {
	Fields   FieldSet
	MaxAge   time.Duration // MaxAge максимальный возраст записи
	MaxItems int           // MaxItems максимальное количество записей домена (0 = без ограничения)
	Persist  bool          // Persist переживает ли домен перезагрузку
}

// HasItemLimit сообщает, задан ли лимит количества записей
func (p Policy) HasItemLimit() bool {
	return p.MaxItems > 0
}

// Project применяет allow-list полей к payload.
// JSON объект обрезается до разрешенных полей, в массиве обрезается каждый объект.
// Прочие значения (и невалидный JSON) возвращаются без изменений.
func (p Policy) Project(payload json.RawMessage) json.RawMessage {
	if p.Fields.All() || len(payload) == 0 {
		return payload
	}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return payload
	}

	switch trimmed[0] {
	case '{':
		projected, err := p.projectObject(trimmed)
		if err != nil {
			return payload
		}
		return projected
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return payload
		}
		for i, item := range items {
			item = bytes.TrimSpace(item)
			if len(item) == 0 || item[0] != '{' {
				continue
			}
			projected, err := p.projectObject(item)
			if err != nil {
				return payload
			}
			items[i] = projected
		}
		out, err := json.Marshal(items)
		if err != nil {
			return payload
		}
		return out
	default:
		return payload
	}
}

func (p Policy) projectObject(data []byte) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for name := range fields {
		if !p.Fields.Allows(name) {
			delete(fields, name)
		}
	}
	return json.Marshal(fields)
}

// Classification результат сопоставления ключа запроса с таблицей политик.
// Known = false означает неизвестный домен: такие записи не вытесняются.
type Classification struct {
	Domain Domain
	Policy Policy
	Known  bool
}

// Evictable сообщает, применимы ли к записи правила вытеснения
func (c Classification) Evictable() bool {
	return c.Known
}

// Table неизменяемая таблица политик по доменам
type Table struct {
	policies map[Domain]Policy
}

// NewTable создает таблицу из набора политик. Карта копируется.
func NewTable(policies map[Domain]Policy) *Table {
	copied := make(map[Domain]Policy, len(policies))
	for domain, p := range policies {
		copied[domain] = p
	}
	return &Table{policies: copied}
}

// DefaultTable возвращает таблицу политик по умолчанию
func DefaultTable() *Table {
	return NewTable(map[Domain]Policy{
		DomainContacts: {
			Persist:  true,
			MaxAge:   24 * time.Hour,
			MaxItems: 1000,
			Fields:   Fields("id", "name", "phone", "email", "tags", "updated_at"),
		},
		DomainAutomations: {
			Persist:  true,
			MaxAge:   7 * 24 * time.Hour,
			MaxItems: 200,
			Fields:   AllFields,
		},
		DomainConversations: {
			Persist:  true,
			MaxAge:   6 * time.Hour,
			MaxItems: 100,
			Fields:   Fields("id", "contact_id", "last_message", "unread_count", "updated_at"),
		},
		// Аналитика быстро устаревает и не переживает перезагрузку
		DomainAnalytics: {
			Persist: false,
			MaxAge:  5 * time.Minute,
			Fields:  AllFields,
		},
		DomainMedia: {
			Persist:  false,
			MaxAge:   time.Hour,
			MaxItems: 50,
			Fields:   Fields("id", "url", "mime_type"),
		},
		DomainTemplates: {
			Persist:  true,
			MaxAge:   7 * 24 * time.Hour,
			MaxItems: 500,
			Fields:   AllFields,
		},
		DomainCampaigns: {
			Persist:  true,
			MaxAge:   24 * time.Hour,
			MaxItems: 200,
			Fields:   AllFields,
		},
		DomainProfile: {
			Persist:  true,
			MaxAge:   30 * 24 * time.Hour,
			MaxItems: 1,
			Fields:   AllFields,
		},
	})
}

// PolicyFor возвращает политику домена. Второй результат false для неизвестного домена.
func (t *Table) PolicyFor(domain string) (Policy, bool) {
	p, ok := t.policies[Domain(domain)]
	return p, ok
}

// Classify определяет домен по первому сегменту ключа запроса
func (t *Table) Classify(key []string) Classification {
	if len(key) == 0 {
		return Classification{}
	}
	domain := Domain(key[0])
	p, ok := t.policies[domain]
	return Classification{Domain: domain, Policy: p, Known: ok}
}

// Domains возвращает отсортированный список зарегистрированных доменов
func (t *Table) Domains() []Domain {
	domains := make([]Domain, 0, len(t.policies))
	for d := range t.policies {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i] < domains[j] })
	return domains
}

// Override описывает переопределение политики из конфигурации.
// Нулевые значения не меняют исходную политику.
type Override struct {
	Persist  *bool
	MaxAge   time.Duration
	MaxItems int
}

// WithOverrides возвращает новую таблицу с примененными переопределениями.
// Переопределения для незарегистрированных доменов добавляют новый домен.
func (t *Table) WithOverrides(overrides map[string]Override) *Table {
	policies := make(map[Domain]Policy, len(t.policies)+len(overrides))
	for d, p := range t.policies {
		policies[d] = p
	}

	for name, o := range overrides {
		d := Domain(name)
		p, ok := policies[d]
		if !ok {
			p = Policy{Persist: true, Fields: AllFields}
		}
		if o.Persist != nil {
			p.Persist = *o.Persist
		}
		if o.MaxAge > 0 {
			p.MaxAge = o.MaxAge
		}
		if o.MaxItems > 0 {
			p.MaxItems = o.MaxItems
		}
		policies[d] = p
	}

	return &Table{policies: policies}
}

// Validate проверяет корректность всех политик
func (t *Table) Validate() error {
	for _, d := range t.Domains() {
		p := t.policies[d]
		if d == "" {
			return fmt.Errorf("domain name cannot be empty")
		}
		if p.MaxAge <= 0 {
			return fmt.Errorf("domain %q: max age must be positive, got %s", d, p.MaxAge)
		}
		if p.MaxItems < 0 {
			return fmt.Errorf("domain %q: max items cannot be negative, got %d", d, p.MaxItems)
		}
	}
	return nil
}
