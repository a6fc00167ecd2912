package server

import (
	"math"
	"strconv"
	"strings"

	authdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/auth/domain"
	obscontext "github.com/brjatoba92/loja-materiais-utilidades/internal/observability/context"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/observability/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	contextClaimsKey = "admin_claims"
	actorKindAdmin   = "admin"

	cachePublicCatalog = "public, max-age=300"
	cachePrivateStats  = "private, max-age=600"
)

// AuthRequired verifies the bearer token and stores its claims on the request.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			AbortWithError(c, authdomain.ErrMissingToken)
			return
		}

		claims, err := s.authsvc.Verify(c.Request.Context(), raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextClaimsKey, claims)
		c.Request = c.Request.WithContext(obscontext.WithActor(c.Request.Context(), actorKindAdmin, claims.ID))
		c.Next()
	}
}

// authorize must run after AuthRequired.
func (s *Server) authorize(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromContext(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if s.authzSvc == nil {
			AbortWithError(c, ErrForbidden)
			return
		}
		actor := actorKindAdmin + ":" + claims.ID
		if err := s.authzSvc.Authorize(c.Request.Context(), actor, claims.Role, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func claimsFromContext(c *gin.Context) (*authdomain.Claims, bool) {
	value, ok := c.Get(contextClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*authdomain.Claims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

func CacheControl(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Header("Vary", "Accept-Encoding")
		c.Next()
	}
}

func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}

// RateLimit admits requests per client IP through the injected limiter. A
// limiter failure lets the request through.
func (s *Server) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		endpoint := normalizeRateLimitEndpoint(c)
		res, err := s.limiter.Allow(ctx, "ip:"+c.ClientIP())
		if err != nil {
			logger.FromContext(ctx).Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		if res.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		}
		if !res.Allowed {
			retry := int(math.Ceil(res.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			logger.FromContext(ctx).Warn("rate limit exceeded",
				zap.String("endpoint", endpoint),
				zap.String("client_ip", c.ClientIP()),
			)
			s.obsMetrics.RecordRateLimitDenied(ctx, endpoint, "window")
			c.Header("Retry-After", strconv.Itoa(retry))
			AbortWithError(c, ErrRateLimited)
			return
		}

		s.obsMetrics.RecordRateLimitAllowed(ctx, endpoint)
		c.Next()
	}
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	endpoint := strings.TrimSpace(c.FullPath())
	if endpoint == "" {
		endpoint = strings.TrimSpace(c.Request.URL.Path)
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	return endpoint
}
