package models

import (
	"time"
)

// Todo one persisted record. ID is assigned by the store and never reused.
type Todo struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	Task      string    `gorm:"not null"`
	DueDate   string    `gorm:"not null;default:''"`
	Completed bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (Todo) TableName() string {
	return "todos"
}

// TodoPatch partial update; nil fields are left untouched.
type TodoPatch struct {
	Task      *string
	DueDate   *string
	Completed *bool
}

// IsEmpty true when no field is set
func (p TodoPatch) IsEmpty() bool {
	return p.Task == nil && p.DueDate == nil && p.Completed == nil
}

// Apply copies the present fields onto t.
func (p TodoPatch) Apply(t *Todo) {
	if p.Task != nil {
		t.Task = *p.Task
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
