package document

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry держит открытые документы процесса: повторное открытие
// той же пары (type, id) возвращает уже открытый документ.
type Registry struct {
	docs map[string]*Document
	deps Deps
	mu   sync.Mutex
}

// NewRegistry creates a registry that opens documents with deps
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		docs: make(map[string]*Document),
		deps: deps,
	}
}

func registryKey(docType, id string) string {
	return docType + "/" + id
}

// Open возвращает открытый документ или открывает новый
func (r *Registry) Open(ctx context.Context, docType, id string) (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := registryKey(docType, id)
	if d, ok := r.docs[key]; ok {
		return d, nil
	}

	d, err := Open(ctx, docType, id, r.deps)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.onDestroy = func() { r.forget(key, d) }
	d.mu.Unlock()

	r.docs[key] = d
	return d, nil
}

func (r *Registry) forget(key string, d *Document) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.docs[key] == d {
		delete(r.docs, key)
	}
}

// Documents возвращает открытые документы, отсортированные по (type, id)
func (r *Registry) Documents() []*Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.docs))
	for key := range r.docs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	docs := make([]*Document, 0, len(keys))
	for _, key := range keys {
		docs = append(docs, r.docs[key])
	}
	return docs
}

// Len возвращает количество открытых документов
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

// FlushAll запрашивает отправку всех открытых документов
func (r *Registry) FlushAll() int {
	docs := r.Documents()
	for _, d := range docs {
		d.Flush()
	}
	return len(docs)
}

// Close уничтожает все открытые документы
func (r *Registry) Close() error {
	var errs []error
	for _, d := range r.Documents() {
		if err := d.Destroy(); err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", d.Type(), d.ID(), err))
		}
	}
	return errors.Join(errs...)
}
