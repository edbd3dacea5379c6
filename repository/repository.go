package repository

import (
	"context"
	"encoding/json"
)

// Repository is a document store keyed by id.
// Save without a revision is a create and fails with types.ErrConflict if the document exists;
// Save with a revision is a conditional update and fails with types.ErrConflict if the revision is stale.
type Repository interface {
	GetByID(ctx context.Context, id string) (interface{}, error)
	Find(ctx context.Context, selector map[string]interface{}, sort []SortField, limit int) ([]json.RawMessage, error)
	Save(ctx context.Context, docID string, data interface{}) error
	Delete(ctx context.Context, id string) error
	GetDBName() string
	GetClient() interface{}
}

// SortField is one Mango sort entry, e.g. {"created": "desc"}
type SortField map[string]string

// DBSelector returns the repository of a database by name
type DBSelector interface {
	ChooseDB(dbName string) (Repository, error)
}
