package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-kit/log/level"
	"github.com/zingerfi/zingerfi-server/e2ee"
	"github.com/zingerfi/zingerfi-server/global"
	"github.com/zingerfi/zingerfi-server/repository"
	"github.com/zingerfi/zingerfi-server/types"
)

// ConfideKeyService is the directory of Confide public keys.
// The optional encrypted private key is stored as an opaque blob for multi-device use.
type ConfideKeyService struct {
	confideKeyRepo repository.Repository
}

func NewConfideKeyService(dbSelector repository.DBSelector) *ConfideKeyService {
	confideKeyRepo, err := dbSelector.ChooseDB(repository.ConfideKeys)
	if err != nil {
		panic(err)
	}
	return &ConfideKeyService{confideKeyRepo: confideKeyRepo}
}

// SaveKey publishes (or replaces) the owner's key
func (s *ConfideKeyService) SaveKey(ctx context.Context, owner *types.Identity, input *types.InputConfideKey) (*types.ConfideKey, error) {
	if owner == nil || owner.UserID == "" {
		return nil, types.ErrUnauthorized
	}
	if _, err := e2ee.ImportPublicKey(input.PublicKey); err != nil {
		return nil, types.ErrInvalidPublicKey
	}

	now := time.Now().UTC().UnixMilli()
	key := &types.ConfideKey{
		UserID:              owner.UserID,
		Email:               owner.Email,
		PublicKey:           input.PublicKey,
		EncryptedPrivateKey: input.EncryptedPrivateKey,
		Created:             now,
	}
	existing, err := s.GetOwnKey(ctx, owner.UserID)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		key.Rev = existing.Rev
		key.Created = existing.Created
		key.Modified = now
		if input.EncryptedPrivateKey == "" {
			key.EncryptedPrivateKey = existing.EncryptedPrivateKey
		}
	}
	if err := s.confideKeyRepo.Save(ctx, owner.UserID, key); err != nil {
		level.Error(global.Logger).Log("msg", "failed to save confide key", "userId", owner.UserID, "err", err)
		return nil, err
	}
	key.ID = owner.UserID
	return key, nil
}

// GetOwnKey returns the full document, including the encrypted private key
func (s *ConfideKeyService) GetOwnKey(ctx context.Context, userID string) (*types.ConfideKey, error) {
	response, err := s.confideKeyRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var key types.ConfideKey
	if mErr := repository.MapToObject(response, &key); mErr != nil {
		return nil, mErr
	}
	return &key, nil
}

// GetPublicKey returns only the shareable part of another user's key
func (s *ConfideKeyService) GetPublicKey(ctx context.Context, userID string) (*types.OutputConfidePublicKey, error) {
	key, err := s.GetOwnKey(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &types.OutputConfidePublicKey{
		UserID:    key.UserID,
		Email:     key.Email,
		PublicKey: key.PublicKey,
	}, nil
}
