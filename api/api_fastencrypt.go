package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/zingerfi/zingerfi-server/api/interceptors"
	"github.com/zingerfi/zingerfi-server/services"
	"github.com/zingerfi/zingerfi-server/types"
)

type FastEncryptApi struct {
	fastEncryptService *services.FastEncryptService
	keyPairService     *services.SystemKeyPairService
	validate           *validator.Validate
}

func NewFastEncryptApi(fastEncryptService *services.FastEncryptService, keyPairService *services.SystemKeyPairService) *FastEncryptApi {
	return &FastEncryptApi{
		fastEncryptService: fastEncryptService,
		keyPairService:     keyPairService,
		validate:           validator.New(),
	}
}

// decryptErrorMessage is the only text a caller sees for a failed decrypt
func decryptErrorMessage(err error) string {
	switch {
	case errors.Is(err, types.ErrUnauthorized):
		return types.ErrUnauthorized.Error()
	case errors.Is(err, types.ErrNotFound):
		return "message not found"
	case errors.Is(err, types.ErrForbidden):
		return types.ErrForbidden.Error()
	case errors.Is(err, types.ErrAlreadyDecrypted):
		return types.ErrAlreadyDecrypted.Error()
	case errors.Is(err, types.ErrBadRequest):
		return "invalid input"
	default:
		return types.ErrDecryptionFailure.Error()
	}
}

// Init a FastEncrypt message
// @Security Bearer
// @Summary Create a message uid bound to the recipient email and return the system public key
// @Accept json
// @Produce json
// @Param input body types.InputFastEncryptInit true "recipient"
// @Success 200 {object} types.OutputFastEncryptInit
// @Failure 400 {object} types.OutputError "invalid input"
// @Failure 401 {object} types.OutputError "not authenticated"
// @Router /functions/v1/fastencrypt-init [post]
func (a *FastEncryptApi) Init(c *gin.Context) {
	identity := interceptors.GetIdentity(c)
	if identity == nil {
		ApiErrorf(c, http.StatusUnauthorized, types.KindUnauthorized, "not authenticated")
		return
	}
	var input types.InputFastEncryptInit
	if err := c.ShouldBindJSON(&input); err != nil {
		ApiErrorf(c, http.StatusBadRequest, types.KindBadRequest, "invalid input")
		return
	}
	if err := a.validate.Struct(input); err != nil {
		ApiErrorf(c, http.StatusBadRequest, types.KindBadRequest, ValidatorErrorToUser(err.(validator.ValidationErrors)))
		return
	}
	output, err := a.fastEncryptService.InitMessage(c.Request.Context(), identity, input.RecipientEmail)
	if err != nil {
		if errors.Is(err, types.ErrInvalidEmail) {
			ApiErrorFrom(c, err, "recipient_email is not a valid email")
			return
		}
		ApiErrorFrom(c, err, "failed to initialize message")
		return
	}
	c.JSON(http.StatusOK, output)
}

// Decrypt a FastEncrypt message (one time, recipient only)
// @Security Bearer
// @Summary Decrypt a FastEncrypt payload for its intended recipient, once
// @Accept json
// @Produce json
// @Param input body types.InputFastEncryptDecrypt true "parsed FEID payload"
// @Success 200 {object} types.OutputFastEncryptDecrypt
// @Failure 401 {object} types.OutputError "not authenticated"
// @Failure 403 {object} types.OutputError "not the intended recipient"
// @Failure 404 {object} types.OutputError "message not found"
// @Failure 409 {object} types.OutputError "message already decrypted"
// @Failure 500 {object} types.OutputError "failed to decrypt message"
// @Router /functions/v1/fastencrypt-decrypt [post]
func (a *FastEncryptApi) Decrypt(c *gin.Context) {
	identity := interceptors.GetIdentity(c)
	if identity == nil {
		ApiErrorf(c, http.StatusUnauthorized, types.KindUnauthorized, types.ErrUnauthorized.Error())
		return
	}
	var input types.InputFastEncryptDecrypt
	if err := c.ShouldBindJSON(&input); err != nil {
		ApiErrorf(c, http.StatusBadRequest, types.KindBadRequest, "invalid input")
		return
	}
	plaintext, err := a.fastEncryptService.Decrypt(c.Request.Context(), identity, &input)
	if err != nil {
		ApiErrorFrom(c, err, decryptErrorMessage(err))
		return
	}
	c.JSON(http.StatusOK, types.OutputFastEncryptDecrypt{DecryptedMessage: plaintext})
}

// Get the active system public key
// @Security Bearer
// @Produce json
// @Success 200 {object} types.OutputSystemPublicKey
// @Router /api/v1/fastencrypt/system-key [get]
func (a *FastEncryptApi) GetSystemPublicKey(c *gin.Context) {
	pair, err := a.keyPairService.GetOrCreateActiveKeyPair(c.Request.Context())
	if err != nil {
		ApiErrorf(c, http.StatusInternalServerError, types.KindInternal, "failed to get system key")
		return
	}
	c.JSON(http.StatusOK, types.OutputSystemPublicKey{PublicKey: pair.PublicKey, Version: pair.Version})
}

// List messages sent by the caller and whether they were read
// @Security Bearer
// @Produce json
// @Success 200 {array} types.OutputSentMessage
// @Router /api/v1/fastencrypt/sent [get]
func (a *FastEncryptApi) ListSent(c *gin.Context) {
	sent, err := a.fastEncryptService.ListSent(c.Request.Context(), interceptors.GetIdentity(c))
	if err != nil {
		ApiErrorFrom(c, err, "failed to list sent messages")
		return
	}
	c.JSON(http.StatusOK, sent)
}

// List messages sent to the caller's email, newest first
// @Security Bearer
// @Produce json
// @Success 200 {array} types.OutputReceivedMessage
// @Router /api/v1/fastencrypt/received [get]
func (a *FastEncryptApi) ListReceived(c *gin.Context) {
	received, err := a.fastEncryptService.ListReceived(c.Request.Context(), interceptors.GetIdentity(c))
	if err != nil {
		ApiErrorFrom(c, err, "failed to list received messages")
		return
	}
	c.JSON(http.StatusOK, received)
}
