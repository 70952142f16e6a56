package models

import "strings"

// Status is the closed set of task states.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Priority is the closed set of task priorities.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var (
	statuses   = []Status{StatusPending, StatusInProgress, StatusCompleted}
	priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}
)

func (s Status) Valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (p Priority) Valid() bool {
	for _, v := range priorities {
		if p == v {
			return true
		}
	}
	return false
}

// AllowedStatuses lists the status values for validation messages.
func AllowedStatuses() string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// AllowedPriorities lists the priority values for validation messages.
func AllowedPriorities() string {
	names := make([]string, len(priorities))
	for i, p := range priorities {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// Task is the managed record. The ID is assigned by the document store on
// creation and is never accepted from clients.
type Task struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Deadline    string   `json:"deadline"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
}
