package apiroutes

import (
	"crypto/ed25519"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zingerfi/zingerfi-server/api"
	restinterceptors "github.com/zingerfi/zingerfi-server/api/interceptors"
	"github.com/zingerfi/zingerfi-server/global"
	"github.com/zingerfi/zingerfi-server/metrics"
	"github.com/zingerfi/zingerfi-server/repository"
	"github.com/zingerfi/zingerfi-server/services"
	"github.com/zingerfi/zingerfi-server/types"
)

// REST API and function routes
func ConfigRoutes(router *gin.Engine, dbSelector repository.DBSelector, env *types.Environment, tokenPublicKey ed25519.PublicKey) *gin.Engine {
	// init metrics
	if global.Conf.Prometheus.Enabled {
		metrics.InitMetrics()

		authorized := router.Group("/metrics", gin.BasicAuth(gin.Accounts{
			global.Conf.Prometheus.Username: global.Conf.Prometheus.Password,
		}))

		authorized.GET("", gin.WrapH(promhttp.Handler()))
	}

	// SERVICE definitions
	keyPairService := services.NewSystemKeyPairService(dbSelector, env, global.Conf.FastEncrypt.KeyEncryptionSecret)
	fastEncryptService := services.NewFastEncryptService(dbSelector, keyPairService)
	confideKeyService := services.NewConfideKeyService(dbSelector)

	// API definitions
	healthCheckApi := api.NewHealthCheckAPI(keyPairService)
	fastEncryptApi := api.NewFastEncryptApi(fastEncryptService, keyPairService)
	confideApi := api.NewConfideApi(confideKeyService)

	jws := restinterceptors.JWSMiddleware(tokenPublicKey)

	// PUBLIC API
	publicApi := router.Group("/api", metrics.MetricsMiddleware())
	{
		publicApi.GET("/healthcheck", healthCheckApi.HealthCheck)
	}

	// NAMED FUNCTIONS
	functionsApi := router.Group("/functions/v1", metrics.MetricsMiddleware(), jws)
	{
		functionsApi.POST("/fastencrypt-init", fastEncryptApi.Init)
		functionsApi.POST("/fastencrypt-decrypt",
			restinterceptors.RateLimitMiddleware(global.RateLimiter, global.Conf.FastEncrypt.RateLimitPerSecond),
			fastEncryptApi.Decrypt)
	}

	rootApi := router.Group("/api/v1", metrics.MetricsMiddleware(), jws)
	{
		rootApi.GET("/fastencrypt/system-key", fastEncryptApi.GetSystemPublicKey)
		rootApi.GET("/fastencrypt/sent", fastEncryptApi.ListSent)
		rootApi.GET("/fastencrypt/received", fastEncryptApi.ListReceived)

		rootApi.PUT("/confide/keys", confideApi.PutKey)
		rootApi.GET("/confide/keys/me", confideApi.GetOwnKey)
		rootApi.GET("/confide/keys/:userId", confideApi.GetPublicKey)
	}

	return router
}
