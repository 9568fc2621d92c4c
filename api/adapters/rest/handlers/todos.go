package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"todo-tracker/api/adapters/rest"
	"todo-tracker/api/core"
	"todo-tracker/api/pkg/res"
)

// pathID reads the todo id; an id that cannot exist is reported as not found.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeBody treats an empty body as an empty JSON object.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func NewListTodosHandler(log *slog.Logger, svc core.Todos, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		f := core.ListTodosFilter{
			Search:   q.Get("search"),
			Ordering: q["ordering"],
			Priority: q.Get("priority"),
		}

		if v := q.Get("completed"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				rest.WriteFieldErr(w, "completed", "must be a boolean")
				return
			}
			f.Completed = &b
		}

		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				rest.WriteFieldErr(w, "limit", "must be a non-negative integer")
				return
			}
			f.Limit = n
		}
		if v := q.Get("offset"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				rest.WriteFieldErr(w, "offset", "must be a non-negative integer")
				return
			}
			f.Offset = n
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		items, err := svc.ListTodos(ctx, f)
		if err != nil {
			rest.WriteErr(log, w, err)
			return
		}
		res.Json(w, map[string]any{"todos": items}, http.StatusOK)
	}
}

func NewGetTodoHandler(log *slog.Logger, svc core.Todos, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			res.Error(w, "todo not found", http.StatusNotFound)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.GetTodo(ctx, id)
		if err != nil {
			rest.WriteErr(log, w, err)
			return
		}
		res.Json(w, t, http.StatusOK)
	}
}

func NewCreateTodoHandler(log *slog.Logger, svc core.Todos, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in rest.CreateTodoIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.CreateTodo(ctx, core.TodoInput{
			Title:       in.Title,
			Description: in.Description,
			Completed:   in.Completed,
			DueDate:     in.DueDate,
			Priority:    in.Priority,
		})
		if err != nil {
			rest.WriteErr(log, w, err)
			return
		}
		res.Json(w, t, http.StatusCreated)
	}
}

// NewUpdateTodoHandler serves PATCH, and PUT when replace is set: PUT requires
// a title. Both leave omitted fields untouched.
func NewUpdateTodoHandler(log *slog.Logger, svc core.Todos, timeout time.Duration, replace bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			res.Error(w, "todo not found", http.StatusNotFound)
			return
		}

		var in rest.UpdateTodoIn
		if err := decodeBody(r, &in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p := core.TodoPatch{
			Title:       in.Title,
			Description: in.Description,
			Completed:   in.Completed,
			DueDate:     in.DueDate,
			Priority:    in.Priority,
			Replace:     replace,
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.UpdateTodo(ctx, id, p)
		if err != nil {
			rest.WriteErr(log, w, err)
			return
		}
		res.Json(w, t, http.StatusOK)
	}
}

func NewDeleteTodoHandler(log *slog.Logger, svc core.Todos, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			res.Error(w, "todo not found", http.StatusNotFound)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.DeleteTodo(ctx, id); err != nil {
			rest.WriteErr(log, w, err)
			return
		}
		res.NoContent(w)
	}
}

// NewAssignUserHandler answers 201 for both a new assignment and a role
// change, existing clients rely on it.
func NewAssignUserHandler(log *slog.Logger, svc core.Todos, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			res.Error(w, "todo not found", http.StatusNotFound)
			return
		}

		var in rest.AssignUserIn
		if err := decodeBody(r, &in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// user_id == 0 is rejected by the todos service after the todo lookup
		var userID int64
		if in.UserID != nil {
			userID = *in.UserID
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		a, created, err := svc.AssignUser(ctx, id, core.AssignUserInput{UserID: userID, Role: in.Role})
		if err != nil {
			rest.WriteErr(log, w, err)
			return
		}

		log.Debug("user assigned", "todo_id", id, "user_id", userID, "role", a.Role, "created", created)
		res.Json(w, a, http.StatusCreated)
	}
}
