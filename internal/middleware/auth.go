package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/model"
	"restaurant-pos/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// Claims is the JWT payload issued at login.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// SignToken issues a signed 24h bearer token for the given identity.
func SignToken(username, role, name string) (string, error) {
	claims := Claims{
		Username: username,
		Role:     role,
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(GetJWTSecret())
}

func parseBearer(c *gin.Context) (*Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, jwt.ErrTokenMalformed
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, jwt.ErrTokenMalformed
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return GetJWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims *Claims) {
	c.Set("username", claims.Username)
	c.Set("userRole", claims.Role)
	c.Set("userName", claims.Name)
}

// RequireAuth validates the bearer token and stores the caller identity
// on the request context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "unauthorized", "Authentication required"))
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth records the caller identity when a valid bearer token is
// present but lets anonymous requests through. Used on QR self-ordering
// routes where guests place orders without an account.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := parseBearer(c); err == nil {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

// RequireAdmin allows only callers whose role is the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "unauthorized", "Authentication required"))
			return
		}
		if claims.Role != model.AdminRole {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "forbidden", "Admin access required"))
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// --- Permission-based middleware ---

// permCacheEntry stores a cached effective set for a role with TTL
type permCacheEntry struct {
	set       auth.EffectiveSet
	expiresAt time.Time
}

var (
	permCache    sync.Map // roleName -> permCacheEntry
	permCacheTTL = 5 * time.Minute
)

// permResolver is set via InitPermissionMiddleware
var permResolver *auth.Resolver

// InitPermissionMiddleware sets the resolver used by RequirePermission.
func InitPermissionMiddleware(r *auth.Resolver) {
	permResolver = r
}

// RequirePermission validates the JWT and checks that the caller's role
// grants every named permission. Admin passes via the wildcard set.
func RequirePermission(requiredPerms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "unauthorized", "Authentication required"))
			return
		}
		setIdentity(c, claims)

		set, err := effectiveSetForRole(c.Request.Context(), claims.Role)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Error(http.StatusServiceUnavailable, "storage", "Failed to verify permissions"))
			return
		}

		for _, required := range requiredPerms {
			if !set.Has(required) {
				c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "forbidden", "Access denied: missing permission '"+required+"'"))
				return
			}
		}

		c.Next()
	}
}

func effectiveSetForRole(ctx context.Context, roleName string) (auth.EffectiveSet, error) {
	if entry, ok := permCache.Load(roleName); ok {
		cached := entry.(permCacheEntry)
		if time.Now().Before(cached.expiresAt) {
			return cached.set, nil
		}
	}

	if permResolver == nil {
		return auth.EffectiveSet{}, auth.ErrResolverNotReady
	}

	set, err := permResolver.ResolveEffectivePermissions(ctx, roleName)
	if err != nil {
		return auth.EffectiveSet{}, err
	}

	permCache.Store(roleName, permCacheEntry{
		set:       set,
		expiresAt: time.Now().Add(permCacheTTL),
	})
	return set, nil
}

// EffectiveSetForRole exposes cached resolution for handlers (the
// /my-permissions endpoint).
func EffectiveSetForRole(ctx context.Context, roleName string) (auth.EffectiveSet, error) {
	return effectiveSetForRole(ctx, roleName)
}

// ClearPermissionCache removes the cached set for a role, or all roles
// when the name is empty. Called after role or grant mutations.
func ClearPermissionCache(roleName string) {
	if roleName == "" {
		permCache.Range(func(key, _ interface{}) bool {
			permCache.Delete(key)
			return true
		})
	} else {
		permCache.Delete(roleName)
	}
}
