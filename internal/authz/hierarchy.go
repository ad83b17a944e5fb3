package authz

import (
	"sort"

	"crmhub/internal/models"
)

// roleHierarchy maps each role to the set of roles it may assign tasks to.
// ADMIN deliberately includes ADMIN: one admin may assign to another.
var roleHierarchy = map[models.Role][]models.Role{
	models.RoleAdmin:   {models.RoleAdmin, models.RoleEditor, models.RoleViewer, models.RolePartner},
	models.RoleEditor:  {models.RoleViewer, models.RolePartner},
	models.RoleViewer:  {models.RolePartner},
	models.RolePartner: {},
}

// CanAssignTo reports whether assignerRole may assign tasks to assigneeRole.
func CanAssignTo(assignerRole, assigneeRole models.Role) bool {
	for _, r := range roleHierarchy[assignerRole] {
		if r == assigneeRole {
			return true
		}
	}
	return false
}

// ValidateTaskAssignment is CanAssignTo with an error carrying both roles.
// Used at task creation and on every assignee change.
func ValidateTaskAssignment(assignerRole, assigneeRole models.Role) error {
	if !CanAssignTo(assignerRole, assigneeRole) {
		return &models.InvalidAssigneeError{
			AssignerRole: assignerRole,
			AssigneeRole: assigneeRole,
		}
	}
	return nil
}

// GetAssignableUsers filters candidates down to the ones the actor may assign
// tasks to. The actor itself and inactive users are always excluded. Input
// order is preserved; callers wanting role ordering apply SortUsersByRole.
func GetAssignableUsers(actor models.User, candidates []models.User) []models.User {
	out := make([]models.User, 0, len(candidates))
	for _, u := range candidates {
		if u.ID == actor.ID || !u.IsActive {
			continue
		}
		if CanAssignTo(actor.Role, u.Role) {
			out = append(out, u)
		}
	}
	return out
}

// CanViewTask: creator, assignee, or any admin.
func CanViewTask(actor models.User, task *models.Task) bool {
	if actor.ID == task.CreatedByID || actor.ID == task.AssignedToID {
		return true
	}
	return actor.Role == models.RoleAdmin
}

// CanEditTask: creator or admin. The assignee alone may only change status
// (see CanUpdateTaskStatus), not title/description/assignee.
func CanEditTask(actor models.User, task *models.Task) bool {
	return actor.ID == task.CreatedByID || actor.Role == models.RoleAdmin
}

// CanUpdateTaskStatus: assignee, creator, or admin.
func CanUpdateTaskStatus(actor models.User, task *models.Task) bool {
	if actor.ID == task.AssignedToID || actor.ID == task.CreatedByID {
		return true
	}
	return actor.Role == models.RoleAdmin
}

// CanDeleteTask: creator or admin.
func CanDeleteTask(actor models.User, task *models.Task) bool {
	return actor.ID == task.CreatedByID || actor.Role == models.RoleAdmin
}

// SortUsersByRole returns a copy sorted by hierarchy level, highest first.
// Never applied implicitly by GetAssignableUsers.
func SortUsersByRole(users []models.User) []models.User {
	out := make([]models.User, len(users))
	copy(out, users)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Role.Level() > out[j].Role.Level()
	})
	return out
}

// FilterTasksByPermissions drops tasks the actor may not view.
func FilterTasksByPermissions(actor models.User, tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for i := range tasks {
		if CanViewTask(actor, &tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	return out
}
