package services

import (
	"github.com/zingerfi/zingerfi-server/repository"
	"github.com/zingerfi/zingerfi-server/types"
)

const testKeySecret = "test-key-encryption-secret"

func newTestSelector() *repository.CouchDBSelector {
	return repository.NewMemorySelector()
}

func newTestServices() (*SystemKeyPairService, *FastEncryptService, *ConfideKeyService) {
	selector := newTestSelector()
	keyPairService := NewSystemKeyPairService(selector, types.NewEnvironment(nil), testKeySecret)
	return keyPairService, NewFastEncryptService(selector, keyPairService), NewConfideKeyService(selector)
}
