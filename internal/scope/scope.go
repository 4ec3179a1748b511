// Package scope resolves the externally supplied account parameter into
// an active user and restricts all owned-resource queries to it.
package scope

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jaiparmani/ToolBoxWebServices/internal/apperr"
	"github.com/jaiparmani/ToolBoxWebServices/models"
)

const contextKey = "scope.account"

// Param is the query parameter carrying the acting account id.
const Param = "account"

type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve maps a raw account id to an active user. An empty value fails
// with ErrMissingScope; an unparsable id, an unknown id, or an inactive
// account all fail with ErrInvalidScope.
func (r *Resolver) Resolve(raw string) (*models.User, error) {
	if raw == "" {
		return nil, apperr.ErrMissingScope
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInvalidScope, "account %q", raw)
	}
	var u models.User
	err = r.db.Where("id = ? AND is_active = ?", id, true).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.ErrInvalidScope, "account %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Middleware validates the account parameter when it is present and
// attaches the resolved user to the request context. Endpoints that
// require a scope enforce presence themselves via Require; list
// endpoints tolerate its absence.
func Middleware(r *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query(Param)
		if raw == "" {
			c.Next()
			return
		}
		user, err := r.Resolve(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid or inactive account provided"})
			return
		}
		c.Set(contextKey, user)
		c.Next()
	}
}

// FromContext returns the resolved account, if any.
func FromContext(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}

// Require returns the resolved account or ErrMissingScope.
func Require(c *gin.Context) (*models.User, error) {
	u, ok := FromContext(c)
	if !ok {
		return nil, apperr.ErrMissingScope
	}
	return u, nil
}

// Owned narrows a query to records owned by the given user. Every
// read and write path for owned resources goes through this, so a
// lookup for another account's record behaves exactly like a miss.
func Owned(db *gorm.DB, userID uint) *gorm.DB {
	return db.Where("user_id = ?", userID)
}
