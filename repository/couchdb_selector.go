package repository

import (
	"errors"

	"github.com/zingerfi/zingerfi-server/types"
)

const (
	SystemKeyPairs    = "system_keypairs"
	EncryptedMessages = "encrypted_messages"
	ConfideKeys       = "confide_keys"
)

// AllDatabases lists every database the server needs
var AllDatabases = []string{SystemKeyPairs, EncryptedMessages, ConfideKeys}

type CouchDBSelector struct {
	dbs []Repository
}

func NewCouchDBSelector() *CouchDBSelector {
	return &CouchDBSelector{}
}

// adds a database to the databse selector
func (c *CouchDBSelector) AddDB(db Repository) {
	c.dbs = append(c.dbs, db)
}

// returns the required database
func (c *CouchDBSelector) ChooseDB(dbName string) (Repository, error) {
	for i, r := range c.dbs {
		if r.GetDBName() == dbName {
			return c.dbs[i], nil
		}
	}
	return nil, types.ErrNotFound
}

// NewMemorySelector backs every database with a MemoryRepository
func NewMemorySelector() *CouchDBSelector {
	selector := NewCouchDBSelector()
	for _, dbName := range AllDatabases {
		selector.AddDB(NewMemoryRepository(dbName))
	}
	return selector
}

// NewCouchDBSelectorFor connects (and creates if missing) every database on one CouchDB server
func NewCouchDBSelectorFor(url, username, password string) (*CouchDBSelector, error) {
	selector := NewCouchDBSelector()
	var repoErr error
	for _, dbName := range AllDatabases {
		repo, err := NewCouchDBRepository(url, dbName, username, password, false)
		if err != nil {
			repoErr = errors.Join(repoErr, err)
			continue
		}
		selector.AddDB(repo)
	}
	if repoErr != nil {
		return nil, repoErr
	}
	return selector, nil
}
