package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log/level"
	"github.com/zingerfi/zingerfi-server/global"
	"github.com/zingerfi/zingerfi-server/services"
)

type HealthCheckAPI struct {
	keyPairService *services.SystemKeyPairService
}

func NewHealthCheckAPI(keyPairService *services.SystemKeyPairService) *HealthCheckAPI {
	return &HealthCheckAPI{keyPairService: keyPairService}
}

// HealthCheck reports ok once the active system key pair can be read (or created)
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/healthcheck [get]
func (ha *HealthCheckAPI) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	pair, err := ha.keyPairService.GetOrCreateActiveKeyPair(ctx)
	if err != nil {
		level.Error(global.Logger).Log("msg", "healthcheck: system key pair unavailable", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "mode": global.Conf.Mode})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": global.Conf.Mode, "systemKeyVersion": pair.Version})
}
