package router

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mnorov/todo-api/config"
	"github.com/mnorov/todo-api/database"
	"github.com/mnorov/todo-api/handlers"
	"github.com/mnorov/todo-api/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const userCacheTTL = 24 * time.Hour

// Protect resolves the caller from the Authorization bearer token and parks
// the full user record in locals before any handler runs. User lookups go
// through the Redis cache when one is configured.
func Protect(users database.UserStore, rcache *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return handlers.ErrorResponse(c, fiber.StatusUnauthorized, "Not authorized, no token")
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := new(jwt.RegisteredClaims)
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return []byte(config.GetEnv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			return handlers.ErrorResponse(c, fiber.StatusUnauthorized, "Not authorized, token failed")
		}

		userID, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			return handlers.ErrorResponse(c, fiber.StatusUnauthorized, "Not authorized, token failed")
		}

		ctx := c.Context()
		var user models.User

		if rcache != nil {
			err = rcache.Get(ctx, claims.Subject, &user)
			if err == nil {
				c.Locals(handlers.LocalsUserKey, &user)
				return c.Next()
			}
			if err != cache.ErrCacheMiss {
				l.WithError(err).Error("failed getting user from cache")
			}
		}

		found, err := users.FindByID(ctx, userID)
		if err != nil {
			if err == database.ErrNotFound {
				return handlers.ErrorResponse(c, fiber.StatusUnauthorized, "Not authorized, token failed")
			}
			l.WithError(err).Error("[UserDB] failed resolving caller")
			return handlers.ErrorResponse(c, fiber.StatusInternalServerError, "Server Error")
		}

		if rcache != nil {
			if err = rcache.Set(&cache.Item{
				Ctx:   ctx,
				Key:   claims.Subject,
				Value: found,
				TTL:   userCacheTTL,
			}); err != nil {
				l.WithError(err).Error("failed setting user in cache")
			}
		}

		c.Locals(handlers.LocalsUserKey, found)
		return c.Next()
	}
}
