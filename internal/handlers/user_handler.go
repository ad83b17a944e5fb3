package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crmhub/internal/models"
	"crmhub/internal/services"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// @Summary      Provision user
// @Description  Creates an account with generated credentials and delivers them by email/SMS
// @Tags         Users
// @Router       /users [post]
func (h *UserHandler) ProvisionUser(c *gin.Context) {
	adminID, _ := getUserAndRole(c)

	var req services.ProvisionUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[user][provision] by=%s email=%q role=%s", adminID, req.Email, req.Role)

	user, creds, err := h.service.ProvisionUser(c.Request.Context(), req)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[user][provision][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	log.Printf("[user][provision][ok] id=%s role=%s", user.ID, user.Role)

	// credentials are shown once; only the hash is stored
	c.JSON(http.StatusCreated, gin.H{
		"user":        user,
		"credentials": creds,
	})
}

// @Summary  List users
// @Tags     Users
// @Router   /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	p := parsePagination(c)

	var filter models.UserFilter
	if v, ok := c.GetQuery("role"); ok {
		role := models.Role(v)
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}
		filter.Role = &role
	}
	if v, ok := c.GetQuery("is_active"); ok {
		active := v == "true" || v == "1"
		filter.IsActive = &active
	}

	users, err := h.service.ListUsers(c.Request.Context(), filter, p.Limit, p.Offset())
	if err != nil {
		log.Printf("[user][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// @Summary  Get user
// @Tags     Users
// @Router   /users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, err := h.service.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

// @Summary  Update user
// @Tags     Users
// @Router   /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	target, err := h.service.GetUserByID(c.Request.Context(), id)
	if err != nil || target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FirstName != nil {
		target.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		target.LastName = *req.LastName
	}
	if req.Phone != nil {
		target.Phone = *req.Phone
	}
	if req.Email != nil {
		target.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	if err := h.service.UpdateUser(c.Request.Context(), target); err != nil {
		log.Printf("[user][update][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	log.Printf("[user][update][ok] id=%s", id)
	c.JSON(http.StatusOK, target)
}

// @Summary      Deactivate user
// @Description  Soft delete; the account is kept for audit but can no longer log in
// @Tags         Users
// @Router       /users/{id} [delete]
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	id := c.Param("id")
	target, err := h.service.GetUserByID(c.Request.Context(), id)
	if err != nil || target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := h.service.DeactivateUser(c.Request.Context(), id); err != nil {
		log.Printf("[user][deactivate][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate user"})
		return
	}
	log.Printf("[user][deactivate][ok] id=%s", id)
	c.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}

// @Summary  Total user count
// @Tags     Users
// @Router   /users/count [get]
func (h *UserHandler) GetUserCount(c *gin.Context) {
	n, err := h.service.GetUserCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// @Summary  User count by role
// @Tags     Users
// @Router   /users/count/role/{role} [get]
func (h *UserHandler) GetUserCountByRole(c *gin.Context) {
	role, err := models.ParseRole(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}
	n, err := h.service.GetUserCountByRole(c.Request.Context(), role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role, "count": n})
}
