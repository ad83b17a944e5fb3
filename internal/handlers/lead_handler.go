package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"crmhub/internal/models"
	"crmhub/internal/services"
)

type LeadHandler struct {
	service *services.LeadService
}

func NewLeadHandler(service *services.LeadService) *LeadHandler {
	return &LeadHandler{service: service}
}

type leadRequest struct {
	FirstName string            `json:"first_name" binding:"required"`
	LastName  string            `json:"last_name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Company   string            `json:"company"`
	JobTitle  string            `json:"job_title"`
	Source    string            `json:"source"`
	Status    models.LeadStatus `json:"status"`
	OwnerID   string            `json:"owner_id"`
}

// @Summary  Create lead
// @Tags     Leads
// @Router   /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ownerID := req.OwnerID
	if ownerID == "" {
		ownerID = userID
	}

	lead := &models.Lead{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		JobTitle:  req.JobTitle,
		Source:    req.Source,
		Status:    req.Status,
		OwnerID:   ownerID,
	}
	if err := h.service.Create(c.Request.Context(), lead); err != nil {
		log.Printf("[lead][create][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lead"})
		return
	}
	log.Printf("[lead][create][ok] id=%s score=%d rating=%s", lead.ID, lead.Score, lead.Rating)
	c.JSON(http.StatusCreated, lead)
}

// @Summary  List leads
// @Tags     Leads
// @Router   /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	p := parsePagination(c)

	var filter models.LeadFilter
	if v, ok := c.GetQuery("status"); ok {
		st := models.LeadStatus(v)
		filter.Status = &st
	}
	if v, ok := c.GetQuery("rating"); ok {
		rt := models.LeadRating(v)
		filter.Rating = &rt
	}
	if v, ok := c.GetQuery("owner_id"); ok {
		filter.OwnerID = &v
	}

	leads, err := h.service.List(c.Request.Context(), filter, p.Limit, p.Offset())
	if err != nil {
		log.Printf("[lead][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list leads"})
		return
	}
	c.JSON(http.StatusOK, leads)
}

// @Summary  Get lead
// @Tags     Leads
// @Router   /leads/{id} [get]
func (h *LeadHandler) GetByID(c *gin.Context) {
	lead, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("[lead][getByID][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get lead"})
		return
	}
	if lead == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
		return
	}
	c.JSON(http.StatusOK, lead)
}

// @Summary  Update lead
// @Tags     Leads
// @Router   /leads/{id} [put]
func (h *LeadHandler) Update(c *gin.Context) {
	id := c.Param("id")
	lead, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get lead"})
		return
	}
	if lead == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
		return
	}

	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lead.FirstName = req.FirstName
	lead.LastName = req.LastName
	lead.Email = req.Email
	lead.Phone = req.Phone
	lead.Company = req.Company
	lead.JobTitle = req.JobTitle
	lead.Source = req.Source
	if req.Status != "" {
		lead.Status = req.Status
	}
	if req.OwnerID != "" {
		lead.OwnerID = req.OwnerID
	}

	// score and rating are recomputed on every write
	if err := h.service.Update(c.Request.Context(), lead); err != nil {
		log.Printf("[lead][update][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lead"})
		return
	}
	log.Printf("[lead][update][ok] id=%s score=%d rating=%s", lead.ID, lead.Score, lead.Rating)
	c.JSON(http.StatusOK, lead)
}

// @Summary  Delete lead
// @Tags     Leads
// @Router   /leads/{id} [delete]
func (h *LeadHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[lead][delete][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete lead"})
		return
	}
	log.Printf("[lead][delete][ok] id=%s", id)
	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted"})
}
