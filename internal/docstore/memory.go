package docstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

// Memory is an in-process Store. It backs tests and local runs without a
// database; iteration order follows insertion order, matching the postgres
// implementation's created_at ordering.
type Memory struct {
	mu    sync.Mutex
	colls map[string][]Record

	// FailNext, when set, makes the next operation return the error and
	// resets it. Tests use it to simulate backend failures.
	FailNext error
}

// NewMemory returns an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{colls: make(map[string][]Record)}
}

func (m *Memory) takeErr() error {
	err := m.FailNext
	m.FailNext = nil
	return err
}

func (m *Memory) ListAll(_ context.Context, collection string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return nil, err
	}
	return copyRecords(m.colls[collection]), nil
}

func (m *Memory) GetByID(_ context.Context, collection, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return nil, err
	}
	for _, rec := range m.colls[collection] {
		if rec.ID == id {
			c := copyRecord(rec)
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) Create(_ context.Context, collection string, fields map[string]interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return "", err
	}
	rec := copyRecord(Record{ID: uuid.NewString(), Fields: fields})
	m.colls[collection] = append(m.colls[collection], rec)
	return rec.ID, nil
}

func (m *Memory) Update(_ context.Context, collection, id string, partial map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return err
	}
	for i, rec := range m.colls[collection] {
		if rec.ID == id {
			for k, v := range partial {
				m.colls[collection][i].Fields[k] = v
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return err
	}
	recs := m.colls[collection]
	for i, rec := range recs {
		if rec.ID == id {
			m.colls[collection] = append(recs[:i:i], recs[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *Memory) QueryByField(_ context.Context, collection, field string, value interface{}) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return nil, err
	}
	want := fmt.Sprintf("%v", value)
	var out []Record
	for _, rec := range m.colls[collection] {
		if got, ok := rec.Fields[field]; ok && fmt.Sprintf("%v", got) == want {
			out = append(out, copyRecord(rec))
		}
	}
	return out, nil
}

func copyRecord(rec Record) Record {
	fields := make(map[string]interface{}, len(rec.Fields))
	for k, v := range rec.Fields {
		fields[k] = v
	}
	return Record{ID: rec.ID, Fields: fields}
}

func copyRecords(recs []Record) []Record {
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, copyRecord(rec))
	}
	return out
}
