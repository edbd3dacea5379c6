package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kit/log/level"
	"github.com/go-playground/validator/v10"
	"github.com/zingerfi/zingerfi-server/e2ee"
	"github.com/zingerfi/zingerfi-server/global"
	"github.com/zingerfi/zingerfi-server/metrics"
	"github.com/zingerfi/zingerfi-server/repository"
	"github.com/zingerfi/zingerfi-server/types"
	"github.com/zingerfi/zingerfi-server/util"
)

const listMessagesLimit = 100

// FastEncryptService creates FastEncrypt message records and is the one-time decryption gate.
type FastEncryptService struct {
	messageRepo    repository.Repository
	keyPairService *SystemKeyPairService
	validate       *validator.Validate
}

func NewFastEncryptService(dbSelector repository.DBSelector, keyPairService *SystemKeyPairService) *FastEncryptService {
	messageRepo, err := dbSelector.ChooseDB(repository.EncryptedMessages)
	if err != nil {
		panic(err)
	}
	return &FastEncryptService{
		messageRepo:    messageRepo,
		keyPairService: keyPairService,
		validate:       validator.New(),
	}
}

// InitMessage creates a pending record bound to recipientEmail and returns what the sender needs to encrypt
func (s *FastEncryptService) InitMessage(ctx context.Context, sender *types.Identity, recipientEmail string) (*types.OutputFastEncryptInit, error) {
	if sender == nil || sender.UserID == "" {
		return nil, types.ErrUnauthorized
	}
	if err := s.validate.Var(recipientEmail, "required,email"); err != nil {
		return nil, types.ErrInvalidEmail
	}
	recipient, err := util.NormalizeEmail(recipientEmail)
	if err != nil {
		return nil, err
	}

	pair, err := s.keyPairService.GetOrCreateActiveKeyPair(ctx)
	if err != nil {
		level.Error(global.Logger).Log("msg", "failed to get active system key pair", "err", err)
		return nil, fmt.Errorf("%w: %s", types.ErrInternal, err.Error())
	}

	messageUID := e2ee.NewMessageUID()
	record := &types.EncryptedMessage{
		SenderID:       sender.UserID,
		SenderEmail:    sender.Email,
		RecipientEmail: recipient,
		KeyPairVersion: pair.Version,
		IsDecrypted:    false,
		Created:        time.Now().UTC().UnixMilli(),
	}
	if err := s.messageRepo.Save(ctx, messageUID, record); err != nil {
		level.Error(global.Logger).Log("msg", "failed to save encrypted message record", "err", err)
		return nil, fmt.Errorf("%w: %s", types.ErrInternal, err.Error())
	}
	metrics.FastEncryptMessagesCreatedCount.Inc()

	return &types.OutputFastEncryptInit{
		MessageUID:      messageUID,
		SystemPublicKey: pair.PublicKey,
		KeyPairVersion:  pair.Version,
	}, nil
}

// Decrypt returns the plaintext of a FastEncrypt message to its intended recipient, exactly once.
// Check order: identity, existence, recipient, already decrypted, cryptography, conditional mark.
// The recipient check runs first so a wrong recipient never learns whether the message was read.
func (s *FastEncryptService) Decrypt(ctx context.Context, caller *types.Identity, input *types.InputFastEncryptDecrypt) (string, error) {
	plaintext, err := s.decrypt(ctx, caller, input)
	kind, _ := types.KindOf(err)
	if err == nil {
		kind = "ok"
	}
	metrics.FastEncryptDecryptTotal.WithLabelValues(string(kind)).Inc()
	return plaintext, err
}

func (s *FastEncryptService) decrypt(ctx context.Context, caller *types.Identity, input *types.InputFastEncryptDecrypt) (string, error) {
	if caller == nil || caller.Email == "" {
		return "", types.ErrUnauthorized
	}
	if err := s.validate.Struct(input); err != nil {
		return "", types.ErrBadRequest
	}

	record, err := s.GetMessage(ctx, input.MessageUID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", types.ErrNotFound
		}
		level.Error(global.Logger).Log("msg", "failed to load encrypted message record", "messageUid", input.MessageUID, "err", err)
		return "", fmt.Errorf("%w: %s", types.ErrInternal, err.Error())
	}

	if !util.SameEmail(caller.Email, record.RecipientEmail) {
		level.Warn(global.Logger).Log("msg", "decrypt attempt by non recipient", "messageUid", input.MessageUID, "caller", caller.UserID)
		return "", types.ErrForbidden
	}

	// early exit only, the conditional update below is what enforces one-time use
	if record.IsDecrypted {
		return "", types.ErrAlreadyDecrypted
	}

	pair, err := s.keyPairService.GetKeyPair(ctx, record.KeyPairVersion)
	if err != nil {
		level.Error(global.Logger).Log("msg", "failed to load system key pair", "version", record.KeyPairVersion, "err", err)
		return "", fmt.Errorf("%w: %s", types.ErrDecryptionFailure, err.Error())
	}
	systemPriv, err := s.keyPairService.PrivateKey(pair)
	if err != nil {
		level.Error(global.Logger).Log("msg", "failed to import system private key", "version", pair.Version, "err", err)
		return "", fmt.Errorf("%w: %s", types.ErrDecryptionFailure, err.Error())
	}

	plaintext, err := e2ee.FastDecrypt(systemPriv, input.EphemeralPublicKey, input.EncryptedData)
	if err != nil {
		level.Warn(global.Logger).Log("msg", "failed to decrypt message", "messageUid", input.MessageUID, "err", err)
		return "", fmt.Errorf("%w: %s", types.ErrDecryptionFailure, err.Error())
	}

	// compare-and-set on the revision read above: a concurrent decrypt that marked the record first makes this fail
	record.IsDecrypted = true
	record.DecryptedAt = time.Now().UTC().UnixMilli()
	if err := s.messageRepo.Save(ctx, input.MessageUID, record); err != nil {
		if errors.Is(err, types.ErrConflict) {
			return "", types.ErrAlreadyDecrypted
		}
		level.Error(global.Logger).Log("msg", "failed to mark message decrypted", "messageUid", input.MessageUID, "err", err)
		return "", fmt.Errorf("%w: %s", types.ErrInternal, err.Error())
	}
	return plaintext, nil
}

// GetMessage returns a record by message uid
func (s *FastEncryptService) GetMessage(ctx context.Context, messageUID string) (*types.EncryptedMessage, error) {
	response, err := s.messageRepo.GetByID(ctx, messageUID)
	if err != nil {
		return nil, err
	}
	var record types.EncryptedMessage
	if mErr := repository.MapToObject(response, &record); mErr != nil {
		return nil, mErr
	}
	return &record, nil
}

// ListSent returns the records created by sender, newest first, so the sender can see which messages were read
func (s *FastEncryptService) ListSent(ctx context.Context, sender *types.Identity) ([]*types.OutputSentMessage, error) {
	if sender == nil || sender.UserID == "" {
		return nil, types.ErrUnauthorized
	}
	records, err := s.findMessages(ctx, map[string]interface{}{"senderId": sender.UserID}, repository.SentMessagesSort)
	if err != nil {
		return nil, err
	}
	out := make([]*types.OutputSentMessage, 0, len(records))
	for _, record := range records {
		out = append(out, &types.OutputSentMessage{
			MessageUID:     record.ID,
			RecipientEmail: record.RecipientEmail,
			IsDecrypted:    record.IsDecrypted,
			DecryptedAt:    record.DecryptedAt,
			Created:        record.Created,
		})
	}
	return out, nil
}

// ListReceived returns the records bound to the caller's email, newest first
func (s *FastEncryptService) ListReceived(ctx context.Context, caller *types.Identity) ([]*types.OutputReceivedMessage, error) {
	if caller == nil || caller.Email == "" {
		return nil, types.ErrUnauthorized
	}
	recipient, err := util.CanonicalEmail(caller.Email)
	if err != nil {
		return nil, types.ErrUnauthorized
	}
	records, err := s.findMessages(ctx, map[string]interface{}{"recipientEmail": recipient}, repository.ReceivedMessagesSort)
	if err != nil {
		return nil, err
	}
	out := make([]*types.OutputReceivedMessage, 0, len(records))
	for _, record := range records {
		out = append(out, &types.OutputReceivedMessage{
			MessageUID:  record.ID,
			SenderEmail: record.SenderEmail,
			IsDecrypted: record.IsDecrypted,
			DecryptedAt: record.DecryptedAt,
			Created:     record.Created,
		})
	}
	return out, nil
}

func (s *FastEncryptService) findMessages(ctx context.Context, selector map[string]interface{}, sort []repository.SortField) ([]*types.EncryptedMessage, error) {
	docs, err := s.messageRepo.Find(ctx, selector, sort, listMessagesLimit)
	if err != nil {
		return nil, err
	}
	records := make([]*types.EncryptedMessage, 0, len(docs))
	for _, doc := range docs {
		var record types.EncryptedMessage
		if mErr := repository.MapToObject(doc, &record); mErr != nil {
			level.Warn(global.Logger).Log("msg", "skipping unreadable message record", "err", mErr)
			continue
		}
		records = append(records, &record)
	}
	return records, nil
}
