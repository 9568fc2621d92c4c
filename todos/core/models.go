package core

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities low < medium < high.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

type Role string

const (
	RoleAssignee Role = "assignee"
	RoleReviewer Role = "reviewer"
)

func (r Role) Valid() bool {
	return r == RoleAssignee || r == RoleReviewer
}

const TitleMaxLength = 200

const DueDateLayout = "2006-01-02"

type Todo struct {
	ID          int64      `db:"id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"` // Nil when not set
	Completed   bool       `db:"completed"`
	DueDate     *time.Time `db:"due_date"`
	Priority    Priority   `db:"priority"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`

	Assignments []Assignment `db:"-"`
}

// User is owned by the identity subsystem, the core only reads it.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
}

type Assignment struct {
	TodoID     int64     `db:"todo_id"`
	User       User      `db:"user"`
	Role       Role      `db:"role"`
	AssignedAt time.Time `db:"assigned_at"`
}
