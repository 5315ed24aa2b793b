package task

import (
	"strings"

	"github.com/deppfellow/storefront/internal/model"
	"github.com/deppfellow/storefront/internal/validation"
)

// Task is a single to-do item. Completed is nil until a client sets it.
type Task struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Completed *bool  `json:"completed,omitempty"`
}

// ------------------------------------------------------------

type CreateTaskPayload struct {
	Name      string `json:"name" validate:"required"`
	Completed *bool  `json:"completed"`
}

func (p *CreateTaskPayload) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	return model.Validate.Struct(p)
}

// ------------------------------------------------------------

type GetTaskByIDPayload struct {
	ID string `param:"id" validate:"required"`
}

func (p *GetTaskByIDPayload) Validate() error {
	return model.Validate.Struct(p)
}

// ------------------------------------------------------------

// UpdateTaskPayload is a partial update: only non-nil fields are applied.
type UpdateTaskPayload struct {
	ID        string  `param:"id" json:"-" validate:"required"`
	Name      *string `json:"name" validate:"omitempty,min=1"`
	Completed *bool   `json:"completed"`
}

func (p *UpdateTaskPayload) Validate() error {
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		p.Name = &trimmed
		if trimmed == "" {
			return validation.CustomValidationErrors{{Field: "name", Message: "must not be empty"}}
		}
	}

	if p.Name == nil && p.Completed == nil {
		return validation.CustomValidationErrors{{Field: "body", Message: "provide at least one of: name, completed"}}
	}

	return model.Validate.Struct(p)
}

// Update is the store-facing form of UpdateTaskPayload.
type Update struct {
	Name      *string
	Completed *bool
}

func (p *UpdateTaskPayload) ToUpdate() Update {
	return Update{Name: p.Name, Completed: p.Completed}
}

// ------------------------------------------------------------

type DeleteTaskPayload struct {
	ID string `param:"id" validate:"required"`
}

func (p *DeleteTaskPayload) Validate() error {
	return model.Validate.Struct(p)
}

// ------------------------------------------------------------

type ListTasksPayload struct{}

func (p *ListTasksPayload) Validate() error {
	return nil
}

// DeletedResponse confirms a delete.
type DeletedResponse struct {
	Message string `json:"message"`
}
