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

type ConfideApi struct {
	confideKeyService *services.ConfideKeyService
	validate          *validator.Validate
}

func NewConfideApi(confideKeyService *services.ConfideKeyService) *ConfideApi {
	return &ConfideApi{
		confideKeyService: confideKeyService,
		validate:          validator.New(),
	}
}

// Publish the caller's Confide public key (and optionally the sealed private key)
// @Security Bearer
// @Accept json
// @Produce json
// @Param input body types.InputConfideKey true "keys"
// @Success 200 {object} types.ConfideKey
// @Failure 400 {object} types.OutputError "invalid public key"
// @Router /api/v1/confide/keys [put]
func (a *ConfideApi) PutKey(c *gin.Context) {
	identity := interceptors.GetIdentity(c)
	if identity == nil {
		ApiErrorf(c, http.StatusUnauthorized, types.KindUnauthorized, "not authenticated")
		return
	}
	var input types.InputConfideKey
	if err := c.ShouldBindJSON(&input); err != nil {
		ApiErrorf(c, http.StatusBadRequest, types.KindBadRequest, "invalid input")
		return
	}
	if err := a.validate.Struct(input); err != nil {
		ApiErrorf(c, http.StatusBadRequest, types.KindBadRequest, ValidatorErrorToUser(err.(validator.ValidationErrors)))
		return
	}
	key, err := a.confideKeyService.SaveKey(c.Request.Context(), identity, &input)
	if err != nil {
		if errors.Is(err, types.ErrInvalidPublicKey) {
			ApiErrorFrom(c, err, "invalid public key")
			return
		}
		ApiErrorFrom(c, err, "failed to save key")
		return
	}
	c.JSON(http.StatusOK, key)
}

// Get the caller's own key document, including the sealed private key
// @Security Bearer
// @Produce json
// @Success 200 {object} types.ConfideKey
// @Failure 404 {object} types.OutputError "key not found"
// @Router /api/v1/confide/keys/me [get]
func (a *ConfideApi) GetOwnKey(c *gin.Context) {
	identity := interceptors.GetIdentity(c)
	if identity == nil {
		ApiErrorf(c, http.StatusUnauthorized, types.KindUnauthorized, "not authenticated")
		return
	}
	key, err := a.confideKeyService.GetOwnKey(c.Request.Context(), identity.UserID)
	if err != nil {
		ApiErrorFrom(c, err, "key not found")
		return
	}
	c.JSON(http.StatusOK, key)
}

// Get another user's public key
// @Security Bearer
// @Produce json
// @Param userId path string true "user id"
// @Success 200 {object} types.OutputConfidePublicKey
// @Failure 404 {object} types.OutputError "key not found"
// @Router /api/v1/confide/keys/{userId} [get]
func (a *ConfideApi) GetPublicKey(c *gin.Context) {
	key, err := a.confideKeyService.GetPublicKey(c.Request.Context(), c.Param("userId"))
	if err != nil {
		ApiErrorFrom(c, err, "key not found")
		return
	}
	c.JSON(http.StatusOK, key)
}
