package middleware

import (
	"jumuia/shared"
	"jumuia/shared/constant"
	"jumuia/transport/http/response"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit       = "limiter"
	cacheKeyRateLimitPublic = "limiter:public"
)

// RateLimit counts requests per client in fixed windows. Anonymous writes (guest booking form,
// STK push) share a separate, smaller budget. A cache failure lets the request through.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := a.config.App.RateLimiter
			if !limiter.Enable {
				next.ServeHTTP(w, r)

				return
			}

			maxReqs := limiter.MaxRequests
			prefix := cacheKeyRateLimit

			if anonymousWrite(r) && limiter.PublicWriteMaxRequests > 0 {
				maxReqs = limiter.PublicWriteMaxRequests
				prefix = cacheKeyRateLimitPublic
			}

			cacheKey := shared.BuildCacheKey(prefix, a.getClientIP(r), a.getUA(r))

			count, err := a.cache.Increment(r.Context(), cacheKey, limiter.WindowSeconds)
			if err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)

				return
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(maxReqs))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, maxReqs-int(count))))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limiter.WindowSeconds))

			if int(count) > maxReqs {
				response.WithRequestLimitExceeded(w, limiter.WindowSeconds)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func anonymousWrite(r *http.Request) bool {
	return r.Method == http.MethodPost && r.Header.Get(constant.RequestHeaderAuthorization) == constant.Empty
}

func (a *appMiddleware) getUA(r *http.Request) string {
	ua := r.Header.Get(constant.RequestHeaderUserAgent)
	if ua == "" {
		ua = "unknown"
	}

	return ua
}

func (a *appMiddleware) getClientIP(r *http.Request) string {
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		// The first hop is the client.
		if commaIdx := strings.Index(xff, ","); commaIdx > 0 {
			return strings.TrimSpace(xff[:commaIdx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
