package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/zingerfi/zingerfi-server/types"
)

// MemoryRepository keeps documents in process memory with CouchDB revision semantics.
// Used when no CouchDB host is configured (development) and in tests.
type MemoryRepository struct {
	mu     sync.Mutex
	dbName string
	docs   map[string]memoryDoc
}

type memoryDoc struct {
	rev  string
	body map[string]interface{}
	seq  int
}

func NewMemoryRepository(dbName string) *MemoryRepository {
	return &MemoryRepository{dbName: dbName, docs: make(map[string]memoryDoc)}
}

// GetByID returns the document as JSON bytes
func (m *MemoryRepository) GetByID(ctx context.Context, id string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return json.Marshal(doc.body)
}

// Find supports equality selectors on top level fields only.
// Matches are sorted (ties broken by _id) before the limit is applied.
func (m *MemoryRepository) Find(ctx context.Context, selector map[string]interface{}, sortBy []SortField, limit int) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []map[string]interface{}
	for _, doc := range m.docs {
		if matches(doc.body, selector) {
			found = append(found, doc.body)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		for _, field := range sortBy {
			for name, direction := range field {
				c := compareValues(found[i][name], found[j][name])
				if c == 0 {
					continue
				}
				if direction == "desc" {
					return c > 0
				}
				return c < 0
			}
		}
		return fmt.Sprint(found[i]["_id"]) < fmt.Sprint(found[j]["_id"])
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	out := make([]json.RawMessage, 0, len(found))
	for _, body := range found {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// compareValues orders JSON numbers numerically and everything else by its string form
func compareValues(a, b interface{}) int {
	fa, aNum := a.(float64)
	fb, bNum := b.(float64)
	if aNum && bNum {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func matches(body, selector map[string]interface{}) bool {
	for k, v := range selector {
		if fmt.Sprint(body[k]) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

// Save enforces the same revision rules as CouchDB: create requires no _rev, update requires the current _rev
func (m *MemoryRepository) Save(ctx context.Context, docID string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return err
	}
	rev, _ := body["_rev"].(string)

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, exists := m.docs[docID]
	if exists && existing.rev != rev {
		return types.ErrConflict
	}
	if !exists && rev != "" {
		return types.ErrConflict
	}
	seq := existing.seq + 1
	newRev := fmt.Sprintf("%d-%s", seq, uuid.NewString()[:8])
	body["_id"] = docID
	body["_rev"] = newRev
	m.docs[docID] = memoryDoc{rev: newRev, body: body, seq: seq}
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return types.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *MemoryRepository) GetDBName() string {
	return m.dbName
}

func (m *MemoryRepository) GetClient() interface{} {
	return nil
}
