package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crmhub/internal/models"
	"crmhub/internal/services"
)

func getStringFromCtx(c *gin.Context, key string) (string, bool) {
	v, ok := c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func getUserAndRole(c *gin.Context) (userID string, role models.Role) {
	if s, ok := getStringFromCtx(c, "user_id"); ok {
		userID = s
	}
	if s, ok := getStringFromCtx(c, "role"); ok {
		role = models.Role(s)
	}
	return
}

// loadActor resolves the authenticated user record. Aborts with 401 when the
// token subject no longer exists or was deactivated mid-session.
func loadActor(c *gin.Context, users services.UserService) (*models.User, bool) {
	userID, _ := getUserAndRole(c)
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return nil, false
	}
	actor, err := users.GetUserByID(c.Request.Context(), userID)
	if err != nil || actor == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return nil, false
	}
	if !actor.IsActive {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account is deactivated"})
		return nil, false
	}
	return actor, true
}

type pageParams struct {
	Page  int
	Limit int
}

func (p pageParams) Offset() int { return (p.Page - 1) * p.Limit }

func parsePagination(c *gin.Context) pageParams {
	p := pageParams{Page: 1, Limit: 20}
	if v, ok := c.GetQuery("page"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Page = n
		}
	}
	if v, ok := c.GetQuery("limit"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Limit = n
		}
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

// paginated writes the standard list envelope.
func paginated(c *gin.Context, data interface{}, p pageParams, total int) {
	pages := 0
	if total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"pagination": gin.H{
			"page":  p.Page,
			"limit": p.Limit,
			"total": total,
			"pages": pages,
		},
	})
}
