package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	memoryStorage "github.com/gofiber/storage/memory/v2"
	redisStorage "github.com/gofiber/storage/redis/v2"
	"github.com/rs/xid"

	"loadplan/internal/access"
	"loadplan/internal/config"
	log "loadplan/internal/infra/logging"
)

// APIKeyLocal is the fiber.Ctx local holding a validated X-API-Key.
const APIKeyLocal = "api_key"

// Register attaches the global middleware: CORS, request IDs, the health
// endpoint, API key authentication (when tokens is non-nil) and request
// logging.
func Register(app *fiber.App, tokens *access.TokenStore) {
	app.Use(cors.New())

	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return xid.New().String()
		},
	}))

	app.Use(healthcheck.New(healthcheck.Config{
		LivenessEndpoint: "/ops/health",
	}))

	if tokens != nil {
		app.Use(apiKeyAuth(tokens))
	}

	app.Use(func(c *fiber.Ctx) error {
		requestID := c.GetRespHeader(fiber.HeaderXRequestID)
		log.Info("Incoming request", "method", c.Method(), "path", c.Path(), "request_id", requestID)
		return c.Next()
	})
}

// apiKeyAuth validates X-API-Key when present. Requests without the header
// pass through and fall back to the form password.
func apiKeyAuth(tokens *access.TokenStore) fiber.Handler {
	return keyauth.New(keyauth.Config{
		KeyLookup:  "header:X-API-Key",
		ContextKey: APIKeyLocal,
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			if err := tokens.Validate(key); err != nil {
				return false, err
			}
			return true, nil
		},
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || c.Get("X-API-Key") == ""
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// keyauth may call the handler with a nil error.
			status := fiber.StatusUnauthorized
			if err == nil {
				err = fiber.ErrUnauthorized
			}
			if errors.Is(err, access.ErrTokenStoreNotReady) {
				status = fiber.StatusServiceUnavailable
			}
			return c.Status(status).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    status,
					"message": err.Error(),
				},
			})
		},
	})
}

// HasAPIKey reports whether apiKeyAuth accepted a key for this request.
func HasAPIKey(c *fiber.Ctx) bool {
	key, ok := c.Locals(APIKeyLocal).(string)
	return ok && key != ""
}

// NewLimiterStorage returns Redis-backed limiter storage when a Redis host
// is configured and reachable, in-memory storage otherwise.
func NewLimiterStorage(cfg config.Config) (store fiber.Storage) {
	store = memoryStorage.New()
	if cfg.Cache.RedisHost == "" {
		return store
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("Redis limiter store init panicked, falling back to memory", "panic", r)
		}
	}()
	store = redisStorage.New(redisStorage.Config{
		Addrs:    []string{cfg.Cache.RedisHost},
		Database: cfg.Cache.RateLimitDB,
	})
	log.Info("Using Redis for rate limiting", "addr", cfg.Cache.RedisHost, "db", cfg.Cache.RateLimitDB)
	return store
}

// RateLimiter limits document generation per API key (using the key's own
// limit) and per anonymous client (IP + User-Agent).
type RateLimiter struct {
	cfg    config.Config
	store  fiber.Storage
	tokens *access.TokenStore

	mu      sync.RWMutex
	byLimit map[int]fiber.Handler
	user    fiber.Handler
}

func NewRateLimiter(cfg config.Config, store fiber.Storage, tokens *access.TokenStore) *RateLimiter {
	rl := &RateLimiter{cfg: cfg, store: store, tokens: tokens, byLimit: make(map[int]fiber.Handler)}
	if cfg.RateLimiter.UserLimit > 0 {
		rl.user = limiter.New(limiter.Config{
			Max:               cfg.RateLimiter.UserLimit,
			Expiration:        cfg.RateLimiter.Interval,
			LimiterMiddleware: limiter.SlidingWindow{},
			Storage:           store,
			KeyGenerator:      clientKey,
			LimitReached: func(c *fiber.Ctx) error {
				log.Warn("Rate limit exceeded", "user", clientKey(c), "path", c.Path())
				return tooManyRequests(c)
			},
		})
	}
	return rl
}

// Handler returns the middleware. API key holders skip the client limiter.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key, ok := c.Locals(APIKeyLocal).(string); ok && key != "" {
			limit := 0
			if rl.tokens != nil {
				limit = rl.tokens.RateLimit(key)
			}
			if limit <= 0 {
				return c.Next()
			}
			return rl.tokenLimiter(limit)(c)
		}
		if rl.user == nil {
			return c.Next()
		}
		return rl.user(c)
	}
}

func (rl *RateLimiter) tokenLimiter(limit int) fiber.Handler {
	rl.mu.RLock()
	h, ok := rl.byLimit[limit]
	rl.mu.RUnlock()
	if ok {
		return h
	}

	h = limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        rl.cfg.RateLimiter.Interval,
		LimiterMiddleware: limiter.SlidingWindow{},
		Storage:           rl.store,
		KeyGenerator: func(c *fiber.Ctx) string {
			key, _ := c.Locals(APIKeyLocal).(string)
			return "token:" + key
		},
		LimitReached: func(c *fiber.Ctx) error {
			key, _ := c.Locals(APIKeyLocal).(string)
			log.Warn("Rate limit exceeded", "token", key, "path", c.Path())
			return tooManyRequests(c)
		},
	})

	rl.mu.Lock()
	if existing, ok := rl.byLimit[limit]; ok {
		h = existing
	} else {
		rl.byLimit[limit] = h
	}
	rl.mu.Unlock()
	return h
}

func clientKey(c *fiber.Ctx) string {
	sum := sha256.Sum256([]byte(c.IP() + c.Get(fiber.HeaderUserAgent)))
	return "user:" + hex.EncodeToString(sum[:])
}

func tooManyRequests(c *fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    fiber.StatusTooManyRequests,
			"message": "Too Many Requests",
		},
	})
}
