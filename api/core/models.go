package core

import "time"

type Priority string // low|medium|high

type Role string // assignee|reviewer

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Assignment struct {
	User       User      `json:"user"`
	Role       Role      `json:"role"`
	AssignedAt time.Time `json:"assigned_at"`
}

type Todo struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Description   *string      `json:"description"`
	Completed     bool         `json:"completed"`
	DueDate       *string      `json:"due_date"` // YYYY-MM-DD
	Priority      Priority     `json:"priority"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	AssignedUsers []Assignment `json:"assigned_users"`
}

type TodoInput struct {
	Title       string
	Description *string
	Completed   bool
	DueDate     *string
	Priority    *string
}

// TodoPatch carries the fields present in the request. Replace marks a full
// update, which must carry a title; omitted optional fields stay as they are.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *string
	Priority    *string
	Replace     bool
}

type ListTodosFilter struct {
	Search    string
	Ordering  []string
	Completed *bool
	Priority  string
	Limit     int
	Offset    int
}

type AssignUserInput struct {
	UserID int64
	Role   string
}
