package rest

type CreateTodoIn struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	DueDate     *string `json:"due_date"` // YYYY-MM-DD
	Priority    *string `json:"priority"` // low|medium|high
}

// UpdateTodoIn serves PUT and PATCH. id, created_at, updated_at and
// assigned_users are read only and silently ignored.
type UpdateTodoIn struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"` // "" - очистить
	Completed   *bool   `json:"completed,omitempty"`
	DueDate     *string `json:"due_date,omitempty"` // "" - очистить
	Priority    *string `json:"priority,omitempty"`
}

type AssignUserIn struct {
	UserID *int64 `json:"user_id"`
	Role   string `json:"role"` // assignee|reviewer, пусто - assignee
}
