package todos

import (
	"google.golang.org/protobuf/types/known/fieldmaskpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type User struct {
	Id       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Assignment struct {
	User       *User                  `json:"user"`
	Role       string                 `json:"role"`
	AssignedAt *timestamppb.Timestamp `json:"assigned_at"`
}

type Todo struct {
	Id            int64                  `json:"id"`
	Title         string                 `json:"title"`
	Description   *string                `json:"description,omitempty"` // nil => NULL
	Completed     bool                   `json:"completed"`
	DueDate       string                 `json:"due_date,omitempty"` // YYYY-MM-DD, "" => no date
	Priority      string                 `json:"priority"`
	CreatedAt     *timestamppb.Timestamp `json:"created_at"`
	UpdatedAt     *timestamppb.Timestamp `json:"updated_at"`
	AssignedUsers []*Assignment          `json:"assigned_users"`
}

type CreateTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Completed   bool    `json:"completed"`
	DueDate     string  `json:"due_date,omitempty"`
	Priority    *string `json:"priority,omitempty"` // nil => medium
}

type GetTodoRequest struct {
	Id int64 `json:"id"`
}

type ListTodosRequest struct {
	Search    string   `json:"search,omitempty"`
	Ordering  []string `json:"ordering,omitempty"` // "title", "-created_at", ...
	Completed *bool    `json:"completed,omitempty"`
	Priority  string   `json:"priority,omitempty"`
	Limit     int32    `json:"limit,omitempty"`
	Offset    int32    `json:"offset,omitempty"`
}

type ListTodosResponse struct {
	Todos []*Todo `json:"todos"`
}

// UpdateTodoRequest patches the fields named in UpdateMask. Without a mask the
// patch is inferred from the fields that are set.
type UpdateTodoRequest struct {
	Id          int64                  `json:"id"`
	Title       *string                `json:"title,omitempty"`
	Description *string                `json:"description,omitempty"`
	Completed   *bool                  `json:"completed,omitempty"`
	DueDate     *string                `json:"due_date,omitempty"`
	Priority    *string                `json:"priority,omitempty"`
	UpdateMask  *fieldmaskpb.FieldMask `json:"update_mask,omitempty"`
}

type DeleteTodoRequest struct {
	Id int64 `json:"id"`
}

type AssignUserRequest struct {
	TodoId int64  `json:"todo_id"`
	UserId int64  `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

type AssignUserResponse struct {
	Assignment *Assignment `json:"assignment"`
	Created    bool        `json:"created"`
}
