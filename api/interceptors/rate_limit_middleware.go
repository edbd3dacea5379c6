package interceptors

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-kit/log/level"
	"github.com/go-redis/redis_rate/v10"
	"github.com/zingerfi/zingerfi-server/global"
	"github.com/zingerfi/zingerfi-server/types"
)

const (
	LimitRequestsPerSecond = 5
)

// RateLimitMiddleware limits requests per client fingerprint (ip, user agent, caller).
// It is a no-op when redis is not configured.
func RateLimitMiddleware(limiter *redis_rate.Limiter, perSecond int) gin.HandlerFunc {
	if perSecond <= 0 {
		perSecond = LimitRequestsPerSecond
	}
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		ip, ipErr := getIP(c)
		if ipErr != nil || ip == "" {
			ip = "unknown"
		}
		all := fmt.Sprintf("%s%s%s", ip, c.GetHeader("User-Agent"), c.FullPath())
		if identity := GetIdentity(c); identity != nil {
			all = fmt.Sprintf("%s%s", all, identity.UserID)
		}
		hash := xxhash.Sum64String(all)

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second*5)
		defer cancel()

		result, err := limiter.Allow(ctx, strconv.FormatUint(hash, 10), redis_rate.PerSecond(perSecond))
		if err != nil {
			level.Error(global.Logger).Log("msg", "rate limit check failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, types.OutputError{Error: "failed to perform rate limit check", Kind: types.KindInternal})
			return
		}
		if result.Allowed <= 0 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.OutputError{Error: "too many requests", Kind: types.KindRateLimited})
			return
		}

		c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit.Rate))
		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Writer.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(result.ResetAfter.Milliseconds())))
		c.Next()
	}
}
