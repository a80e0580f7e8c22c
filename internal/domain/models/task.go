// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task statuses. Toggle flips between the two; there is no terminal state.
const (
	TaskPending   = "pending"
	TaskCompleted = "completed"
)

// DefaultTaskSubject is used when a task is created without a subject.
const DefaultTaskSubject = "General"

// IsValidPriority reports whether p is a known priority.
func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// IsValidTaskStatus reports whether s is a known task status.
func IsValidTaskStatus(s string) bool {
	return s == TaskPending || s == TaskCompleted
}

// Task is a dated to-do, optionally scoped to a group.
type Task struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Subject     string              `bson:"subject" json:"subject"`
	SubjectCI   string              `bson:"subject_ci" json:"-"`
	DueAt       time.Time           `bson:"due_at" json:"dueDate"`
	Priority    string              `bson:"priority" json:"priority"` // low | medium | high
	Status      string              `bson:"status" json:"status"`     // pending | completed
	GroupID     *primitive.ObjectID `bson:"group_id,omitempty" json:"groupId,omitempty"`
	AssigneeIDs []PrincipalID       `bson:"assignee_ids" json:"assigneeIds"`
	CreatorID   PrincipalID         `bson:"creator_id" json:"creatorId"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsAssignee reports whether id is assigned to the task.
func (t Task) IsAssignee(id PrincipalID) bool {
	return ContainsPrincipal(t.AssigneeIDs, id)
}

// TaskProgress summarizes completion for a principal's tasks.
type TaskProgress struct {
	Total      int64             `json:"total"`
	Completed  int64             `json:"completed"`
	Pending    int64             `json:"pending"`
	Percentage int               `json:"percentage"`
	BySubject  []SubjectProgress `json:"bySubject"`
}

// SubjectProgress is one row of TaskProgress.BySubject.
type SubjectProgress struct {
	Subject    string `bson:"_id" json:"subject"`
	Total      int64  `bson:"total" json:"total"`
	Completed  int64  `bson:"completed" json:"completed"`
	Percentage int    `bson:"-" json:"percentage"`
}
