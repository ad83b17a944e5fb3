package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"crmhub/internal/models"
	"crmhub/internal/services"
)

type TaskHandler struct {
	service     services.TaskService
	userService services.UserService
}

func NewTaskHandler(service services.TaskService, userService services.UserService) *TaskHandler {
	return &TaskHandler{service: service, userService: userService}
}

// writeTaskError maps the task error taxonomy onto HTTP statuses with the
// fixed message strings clients rely on.
func writeTaskError(c *gin.Context, op string, err error) {
	var (
		unauthorized  *models.UnauthorizedError
		badAssignee   *models.InvalidAssigneeError
		taskNotFound  *models.TaskNotFoundError
		userNotFound  *models.AssigneeNotFoundError
		badTransition *models.InvalidStatusTransitionError
		missingNote   *models.MissingCompletionNoteError
		badDueDate    *models.InvalidDueDateError
		inactiveUser  *models.InactiveAssigneeError
	)
	switch {
	case errors.As(err, &unauthorized):
		log.Printf("[task][%s][deny] %v", op, err)
		c.JSON(http.StatusForbidden, gin.H{"error": models.MsgUnauthorized})
	case errors.As(err, &badAssignee):
		log.Printf("[task][%s][deny] %v", op, err)
		c.JSON(http.StatusForbidden, gin.H{"error": models.MsgInvalidAssignee})
	case errors.As(err, &taskNotFound):
		log.Printf("[task][%s][404] %v", op, err)
		c.JSON(http.StatusNotFound, gin.H{"error": models.MsgTaskNotFound})
	case errors.As(err, &userNotFound):
		log.Printf("[task][%s][404] %v", op, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Assigned user not found"})
	case errors.As(err, &badTransition):
		log.Printf("[task][%s][err] %v", op, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": models.MsgInvalidStatusTransition})
	case errors.As(err, &missingNote):
		log.Printf("[task][%s][err] %v", op, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": models.MsgMissingCompletionNote})
	case errors.As(err, &badDueDate):
		log.Printf("[task][%s][err] %v", op, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": models.MsgInvalidDueDate})
	case errors.As(err, &inactiveUser):
		log.Printf("[task][%s][err] %v", op, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[task][%s][err] %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// @Summary  Create task
// @Tags     Tasks
// @Router   /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := loadActor(c, h.userService)
	if !ok {
		return
	}
	var req models.CreateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[task][create] by=%s assignee=%s title=%q priority=%q", actor.ID, req.AssignedToID, req.Title, req.Priority)

	task, err := h.service.Create(c.Request.Context(), *actor, req)
	if err != nil {
		writeTaskError(c, "create", err)
		return
	}
	log.Printf("[task][create][ok] id=%s assignee=%s", task.ID, task.AssignedToID)
	c.JSON(http.StatusCreated, task)
}

// @Summary  List tasks
// @Tags     Tasks
// @Router   /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	actor, ok := loadActor(c, h.userService)
	if !ok {
		return
	}
	p := parsePagination(c)
	filter := parseTaskFilter(c)

	tasks, total, err := h.service.List(c.Request.Context(), *actor, filter, p.Limit, p.Offset())
	if err != nil {
		writeTaskError(c, "list", err)
		return
	}
	log.Printf("[task][list][ok] by=%s count=%d total=%d", actor.ID, len(tasks), total)
	paginated(c, tasks, p, total)
}

func parseTaskFilter(c *gin.Context) models.TaskFilter {
	var filter models.TaskFilter
	if v, ok := c.GetQuery("status"); ok {
		for _, s := range strings.Split(v, ",") {
			filter.Statuses = append(filter.Statuses, models.TaskStatus(s))
		}
	}
	if v, ok := c.GetQuery("priority"); ok {
		for _, s := range strings.Split(v, ",") {
			filter.Priorities = append(filter.Priorities, models.TaskPriority(s))
		}
	}
	if v, ok := c.GetQuery("assigned_to"); ok {
		filter.AssignedTo = strings.Split(v, ",")
	}
	if v, ok := c.GetQuery("created_by"); ok {
		filter.CreatedBy = strings.Split(v, ",")
	}
	if v, ok := c.GetQuery("search"); ok {
		filter.Search = v
	}
	if v, ok := c.GetQuery("overdue"); ok {
		filter.Overdue = v == "true" || v == "1"
	}
	if v, ok := c.GetQuery("date_from"); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.DateFrom = &t
		}
	}
	if v, ok := c.GetQuery("date_to"); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.DateTo = &t
		}
	}
	return filter
}

// @Summary  Get task
// @Tags     Tasks
// @Router   /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	actor, ok := loadActor(c, h.userService)
	if !ok {
		return
	}
	task, err := h.service.GetByID(c.Request.Context(), *actor, c.Param("id"))
	if err != nil {
		writeTaskError(c, "getByID", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary  Update task
// @Tags     Tasks
// @Router   /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	actor, ok := loadActor(c, h.userService)
	if !ok {
		return
	}
	var req models.UpdateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.Update(c.Request.Context(), *actor, c.Param("id"), req)
	if err != nil {
		writeTaskError(c, "update", err)
		return
	}
	log.Printf("[task][update][ok] id=%s by=%s", task.ID, actor.ID)
	c.JSON(http.StatusOK, task)
}

// @Summary  Delete task
// @Tags     Tasks
// @Router   /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	actor, ok := loadActor(c, h.userService)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), *actor, id); err != nil {
		writeTaskError(c, "delete", err)
		return
	}
	log.Printf("[task][delete][ok] id=%s by=%s", id, actor.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// @Summary  Update task status
// @Tags     Tasks
// @Router   /tasks/{id}/status [post]
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	actor, ok := loadActor(c, h.userService)
	if !ok {
		return
	}
	var req struct {
		Status         models.TaskStatus `json:"status" binding:"required"`
		CompletionNote string            `json:"completion_note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.MsgInvalidStatusTransition})
		return
	}

	task, err := h.service.UpdateStatus(c.Request.Context(), *actor, c.Param("id"), req.Status, req.CompletionNote)
	if err != nil {
		writeTaskError(c, "status", err)
		return
	}
	log.Printf("[task][status][ok] id=%s status=%s by=%s", task.ID, task.Status, actor.ID)
	c.JSON(http.StatusOK, task)
}

// @Summary  Reassign task
// @Tags     Tasks
// @Router   /tasks/{id}/assign [post]
func (h *TaskHandler) UpdateAssignee(c *gin.Context) {
	actor, ok := loadActor(c, h.userService)
	if !ok {
		return
	}
	var req struct {
		AssignedToID string `json:"assigned_to_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.UpdateAssignee(c.Request.Context(), *actor, c.Param("id"), req.AssignedToID)
	if err != nil {
		writeTaskError(c, "assign", err)
		return
	}
	log.Printf("[task][assign][ok] id=%s assignee=%s by=%s", task.ID, task.AssignedToID, actor.ID)
	c.JSON(http.StatusOK, task)
}

// @Summary  Add task comment
// @Tags     Tasks
// @Router   /tasks/{id}/comments [post]
func (h *TaskHandler) AddComment(c *gin.Context) {
	actor, ok := loadActor(c, h.userService)
	if !ok {
		return
	}
	var req struct {
		Comment string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), *actor, c.Param("id"), req.Comment)
	if err != nil {
		writeTaskError(c, "comment", err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// @Summary  List task comments
// @Tags     Tasks
// @Router   /tasks/{id}/comments [get]
func (h *TaskHandler) ListComments(c *gin.Context) {
	actor, ok := loadActor(c, h.userService)
	if !ok {
		return
	}
	p := parsePagination(c)
	comments, total, err := h.service.ListComments(c.Request.Context(), *actor, c.Param("id"), p.Limit, p.Offset())
	if err != nil {
		writeTaskError(c, "comments", err)
		return
	}
	paginated(c, comments, p, total)
}

// @Summary  List assignable users
// @Tags     Tasks
// @Router   /tasks/assignable-users [get]
func (h *TaskHandler) AssignableUsers(c *gin.Context) {
	actor, ok := loadActor(c, h.userService)
	if !ok {
		return
	}
	users, err := h.service.AssignableUsers(c.Request.Context(), *actor)
	if err != nil {
		writeTaskError(c, "assignable", err)
		return
	}
	c.JSON(http.StatusOK, users)
}
