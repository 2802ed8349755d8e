package middleware

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rakhadn/tiketku/internal/config"
)

// NewRedisCache caches successful responses for the configured HTTP
// methods.  Entries are keyed by route (and query string when the key
// strategy asks for it) and evicted by Redis TTL only, so mutations do
// not need to invalidate anything: a stale read lives at most cfg.TTL.
// Redis failures fail open.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[c.Request().Method] {
				return next(c)
			}

			key := buildCacheKey(cfg, c)
			ctx := c.Request().Context()

			if raw, err := rdb.Get(ctx, key).Result(); err == nil {
				status, contentType, body, ok := decodePayload(raw)
				if ok {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(status, contentType, body)
				}
			}

			cap := &captureWriter{ResponseWriter: c.Response().Writer}
			c.Response().Writer = cap
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			status := cap.status
			if status == 0 {
				status = http.StatusOK
			}
			if status >= 200 && status < 300 && cap.buf.Len() > 0 && cap.buf.Len() <= cfg.MaxBodyBytes {
				contentType := c.Response().Header().Get(echo.HeaderContentType)
				payload := encodePayload(status, contentType, cap.buf.Bytes())
				rdb.Set(ctx, key, payload, cfg.TTL)
			}
			return nil
		}
	}
}

// captureWriter tees the response body so it can be stored after the
// handler runs.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *captureWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func buildCacheKey(cfg config.CacheConfig, c echo.Context) string {
	route := c.Request().Method + " " + c.Request().URL.Path
	parts := []string{cfg.Prefix, route}
	if strings.ToLower(cfg.KeyStrategy) == "route_query" {
		if q := c.Request().URL.RawQuery; q != "" {
			parts = append(parts, q)
		}
	}
	return strings.Join(parts, ":")
}

// Payload layout: "<status>|<base64 content-type>|<base64 body>".
func encodePayload(status int, contentType string, body []byte) string {
	return strconv.Itoa(status) + "|" +
		base64.StdEncoding.EncodeToString([]byte(contentType)) + "|" +
		base64.StdEncoding.EncodeToString(body)
}

func decodePayload(raw string) (int, string, []byte, bool) {
	parts := strings.SplitN(raw, "|", 3)
	if len(parts) != 3 {
		return 0, "", nil, false
	}
	status, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", nil, false
	}
	ct, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return 0, "", nil, false
	}
	body, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return 0, "", nil, false
	}
	return status, string(ct), body, true
}
