package services

import (
	"context"
	"crypto/ecdh"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log/level"
	"github.com/redis/go-redis/v9"
	"github.com/zingerfi/zingerfi-server/e2ee"
	"github.com/zingerfi/zingerfi-server/global"
	"github.com/zingerfi/zingerfi-server/repository"
	"github.com/zingerfi/zingerfi-server/types"
)

const (
	activeKeyCacheKey      = "fastencrypt:active"
	defaultActiveKeyTTL    = 5 * time.Minute
	createActiveMaxRetries = 3
)

// SystemKeyPairService is the only holder of the FastEncrypt system private key.
// Versions live in the system_keypairs database as documents "v<version>"; the "active" document points at one of them.
type SystemKeyPairService struct {
	keyPairRepo repository.Repository
	env         *types.Environment
	secret      string
	cacheTTL    time.Duration
	opened      sync.Map // version -> *ecdh.PrivateKey
}

func NewSystemKeyPairService(dbSelector repository.DBSelector, env *types.Environment, keyEncryptionSecret string) *SystemKeyPairService {
	keyPairRepo, err := dbSelector.ChooseDB(repository.SystemKeyPairs)
	if err != nil {
		panic(err)
	}
	if keyEncryptionSecret == "" {
		panic("fastEncrypt.keyEncryptionSecret is required")
	}
	ttl := defaultActiveKeyTTL
	if global.Conf.FastEncrypt.CacheTTLSeconds > 0 {
		ttl = time.Duration(global.Conf.FastEncrypt.CacheTTLSeconds) * time.Second
	}
	if env == nil {
		env = &types.Environment{}
	}
	return &SystemKeyPairService{keyPairRepo: keyPairRepo, env: env, secret: keyEncryptionSecret, cacheTTL: ttl}
}

func versionDocID(version int) string {
	return fmt.Sprintf("v%d", version)
}

// GetOrCreateActiveKeyPair returns the active key pair, creating version 1 on first use.
// Creation is an insert-if-none write, so concurrent callers converge on a single pair.
// A cached result carries no sealed private key; decryption goes through GetKeyPair.
func (s *SystemKeyPairService) GetOrCreateActiveKeyPair(ctx context.Context) (*types.SystemKeyPair, error) {
	if cached := s.getFromCache(ctx); cached != nil {
		return cached, nil
	}
	for attempt := 0; attempt < createActiveMaxRetries; attempt++ {
		active, err := s.getActivePointer(ctx)
		if err == nil {
			pair, gErr := s.GetKeyPair(ctx, active.Version)
			if gErr != nil {
				return nil, gErr
			}
			s.putToCache(ctx, pair)
			return pair, nil
		}
		if !errors.Is(err, types.ErrNotFound) {
			return nil, err
		}

		pair, cErr := s.createVersion(ctx, 1)
		if cErr != nil && !errors.Is(cErr, types.ErrConflict) {
			return nil, cErr
		}
		if errors.Is(cErr, types.ErrConflict) {
			// another caller created version 1 first, use theirs
			pair, cErr = s.GetKeyPair(ctx, 1)
			if cErr != nil {
				return nil, cErr
			}
		}
		pErr := s.keyPairRepo.Save(ctx, types.ActiveKeyPairDocID, &types.ActiveKeyPair{
			Version:  pair.Version,
			Modified: time.Now().UTC().UnixMilli(),
		})
		if pErr != nil && !errors.Is(pErr, types.ErrConflict) {
			return nil, pErr
		}
		if pErr == nil {
			level.Info(global.Logger).Log("msg", "created system key pair", "version", pair.Version)
			s.putToCache(ctx, pair)
			return pair, nil
		}
		// pointer created concurrently, re-read it
	}
	return nil, fmt.Errorf("failed to resolve active system key pair: %w", types.ErrConflict)
}

// GetKeyPair returns any version, active or retired
func (s *SystemKeyPairService) GetKeyPair(ctx context.Context, version int) (*types.SystemKeyPair, error) {
	response, err := s.keyPairRepo.GetByID(ctx, versionDocID(version))
	if err != nil {
		return nil, err
	}
	var pair types.SystemKeyPair
	if mErr := repository.MapToObject(response, &pair); mErr != nil {
		return nil, mErr
	}
	return &pair, nil
}

// PrivateKey opens the sealed private key of a version. Opened keys are kept in process memory.
func (s *SystemKeyPairService) PrivateKey(pair *types.SystemKeyPair) (*ecdh.PrivateKey, error) {
	if key, ok := s.opened.Load(pair.Version); ok {
		return key.(*ecdh.PrivateKey), nil
	}
	exported, err := e2ee.OpenPrivateKey(s.secret, pair.EncryptedPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to open system private key v%d: %w", pair.Version, err)
	}
	key, err := e2ee.ImportPrivateKey(exported)
	if err != nil {
		return nil, err
	}
	s.opened.Store(pair.Version, key)
	return key, nil
}

// Rotate creates the next version and makes it active. Old versions stay readable for pending messages.
func (s *SystemKeyPairService) Rotate(ctx context.Context) (*types.SystemKeyPair, error) {
	active, err := s.getActivePointer(ctx)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return s.GetOrCreateActiveKeyPair(ctx)
		}
		return nil, err
	}
	previous, err := s.GetKeyPair(ctx, active.Version)
	if err != nil {
		return nil, err
	}
	next, err := s.createVersion(ctx, active.Version+1)
	if errors.Is(err, types.ErrConflict) {
		// the next version exists but the pointer still names the current one:
		// an earlier rotation stopped half way (or another instance is mid-rotation), finish it
		next, err = s.GetKeyPair(ctx, active.Version+1)
		if err == nil {
			level.Warn(global.Logger).Log("msg", "adopting unreferenced system key pair", "version", next.Version)
		}
	}
	if err != nil {
		return nil, err
	}

	active.Version = next.Version
	active.Modified = time.Now().UTC().UnixMilli()
	if err := s.keyPairRepo.Save(ctx, types.ActiveKeyPairDocID, active); err != nil {
		return nil, err
	}

	previous.IsActive = false
	if err := s.keyPairRepo.Save(ctx, versionDocID(previous.Version), previous); err != nil {
		level.Warn(global.Logger).Log("msg", "failed to retire system key pair", "version", previous.Version, "err", err)
	}
	s.deleteFromCache(ctx)
	level.Info(global.Logger).Log("msg", "rotated system key pair", "from", previous.Version, "to", next.Version)
	return next, nil
}

// RotateScheduled is the cron entry point for Rotate. Losing a race against another instance is not an error.
func (s *SystemKeyPairService) RotateScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := s.Rotate(ctx); err != nil {
		if errors.Is(err, types.ErrConflict) {
			level.Info(global.Logger).Log("msg", "system key pair already rotated by another instance")
			return
		}
		level.Error(global.Logger).Log("msg", "scheduled system key rotation failed", "err", err)
	}
}

func (s *SystemKeyPairService) getActivePointer(ctx context.Context) (*types.ActiveKeyPair, error) {
	response, err := s.keyPairRepo.GetByID(ctx, types.ActiveKeyPairDocID)
	if err != nil {
		return nil, err
	}
	var active types.ActiveKeyPair
	if mErr := repository.MapToObject(response, &active); mErr != nil {
		return nil, mErr
	}
	return &active, nil
}

// createVersion generates and stores a new version. Fails with ErrConflict if the version exists.
func (s *SystemKeyPairService) createVersion(ctx context.Context, version int) (*types.SystemKeyPair, error) {
	priv, err := e2ee.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	publicKey, err := e2ee.ExportPublicKey(priv.PublicKey())
	if err != nil {
		return nil, err
	}
	privateKey, err := e2ee.ExportPrivateKey(priv)
	if err != nil {
		return nil, err
	}
	sealed, err := e2ee.SealPrivateKey(s.secret, privateKey)
	if err != nil {
		return nil, err
	}
	pair := &types.SystemKeyPair{
		Version:             version,
		PublicKey:           publicKey,
		EncryptedPrivateKey: sealed,
		IsActive:            true,
		Created:             time.Now().UTC().UnixMilli(),
	}
	if err := s.keyPairRepo.Save(ctx, versionDocID(version), pair); err != nil {
		return nil, err
	}
	pair.ID = versionDocID(version)
	return pair, nil
}

// cache holds the public part only
func (s *SystemKeyPairService) getFromCache(ctx context.Context) *types.SystemKeyPair {
	if s.env.RedisClient == nil {
		return nil
	}
	val, cErr := s.env.RedisClient.Get(ctx, activeKeyCacheKey).Result()
	if cErr != nil {
		if cErr != redis.Nil {
			level.Warn(global.Logger).Log("msg", "failed to read active key from cache", "err", cErr)
		}
		return nil
	}
	var pair types.SystemKeyPair
	if err := json.Unmarshal([]byte(val), &pair); err != nil || pair.PublicKey == "" {
		return nil
	}
	return &pair
}

func (s *SystemKeyPairService) putToCache(ctx context.Context, pair *types.SystemKeyPair) {
	if s.env.RedisClient == nil {
		return
	}
	public := types.SystemKeyPair{Version: pair.Version, PublicKey: pair.PublicKey, IsActive: true, Created: pair.Created}
	b, err := json.Marshal(public)
	if err != nil {
		return
	}
	if cErr := s.env.RedisClient.Set(ctx, activeKeyCacheKey, string(b), s.cacheTTL).Err(); cErr != nil {
		level.Warn(global.Logger).Log("msg", "failed to cache active key", "err", cErr)
	}
}

func (s *SystemKeyPairService) deleteFromCache(ctx context.Context) {
	if s.env.RedisClient == nil {
		return
	}
	if cErr := s.env.RedisClient.Del(ctx, activeKeyCacheKey).Err(); cErr != nil {
		level.Warn(global.Logger).Log("msg", "failed to clear active key cache", "err", cErr)
	}
}
