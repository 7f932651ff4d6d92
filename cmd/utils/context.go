package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type contextKey string

const UserIDKey contextKey = "userID"

const activeCacheTTL = 10 * time.Minute

func GetUserIDFromContext(ctx context.Context) (uint, error) {
	userID, ok := ctx.Value(UserIDKey).(uint)
	if !ok {
		return 0, errors.New("user ID not found in context")
	}
	return userID, nil
}

func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// Authenticator validates bearer tokens and rejects users that have been
// deactivated since the token was issued. The active flag is cached in Redis
// when a client is configured.
type Authenticator struct {
	db     *gorm.DB
	cache  *redis.Client
	secret []byte
	ttl    time.Duration
}

func NewAuthenticator(db *gorm.DB, cache *redis.Client, secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{db: db, cache: cache, secret: []byte(secret), ttl: ttl}
}

func (a *Authenticator) IssueToken(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) parse(tokenString string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.New("invalid user ID in token")
	}
	return uint(userID), nil
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		userID, err := a.parse(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		active, err := a.isActive(r.Context(), userID)
		if err != nil {
			log.Printf("Error checking user %d status: %v", userID, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if !active {
			http.Error(w, "Session invalidated", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// bearerToken reads the Authorization header, falling back to the token query
// parameter used by browser websocket clients.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get("token")
}

func activeCacheKey(userID uint) string {
	return fmt.Sprintf("user:%d:active", userID)
}

func (a *Authenticator) isActive(ctx context.Context, userID uint) (bool, error) {
	if a.cache != nil {
		cached, err := a.cache.Get(ctx, activeCacheKey(userID)).Result()
		if err == nil {
			return cached == "1", nil
		}
		if !errors.Is(err, redis.Nil) {
			log.Printf("Redis read failed, falling back to database: %v", err)
		}
	}

	var user models.User
	if err := a.db.WithContext(ctx).Select("id", "active").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if a.cache != nil {
		value := "0"
		if user.Active {
			value = "1"
		}
		if err := a.cache.Set(ctx, activeCacheKey(userID), value, activeCacheTTL).Err(); err != nil {
			log.Printf("Redis write failed: %v", err)
		}
	}
	return user.Active, nil
}

// Invalidate drops the cached active flag so the next request re-reads it.
func (a *Authenticator) Invalidate(ctx context.Context, userID uint) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Del(ctx, activeCacheKey(userID)).Err(); err != nil {
		log.Printf("Redis delete failed for user %d: %v", userID, err)
	}
}
