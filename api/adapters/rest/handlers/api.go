package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"todo-tracker/api/adapters/rest"
	"todo-tracker/api/core"
)

func Register(mux *http.ServeMux, log *slog.Logger, deps core.Deps, timeout time.Duration) {
	// ping
	mux.Handle("GET /ping", NewPingHandler(log, map[string]core.Pinger{"todos": deps.Todos}, timeout))

	// todos
	handle(mux, "GET", "/todos", NewListTodosHandler(log, deps.Todos, timeout))
	handle(mux, "POST", "/todos", NewCreateTodoHandler(log, deps.Todos, timeout))
	handle(mux, "GET", "/todos/{id}", NewGetTodoHandler(log, deps.Todos, timeout))
	handle(mux, "PUT", "/todos/{id}", NewUpdateTodoHandler(log, deps.Todos, timeout, true))
	handle(mux, "PATCH", "/todos/{id}", NewUpdateTodoHandler(log, deps.Todos, timeout, false))
	handle(mux, "DELETE", "/todos/{id}", NewDeleteTodoHandler(log, deps.Todos, timeout))
	handle(mux, "POST", "/todos/{id}/assign-user", NewAssignUserHandler(log, deps.Todos, timeout))
}

// NewRouter wires the routes behind the request id and access log middleware.
func NewRouter(log *slog.Logger, deps core.Deps, timeout time.Duration) http.Handler {
	mux := http.NewServeMux()
	Register(mux, log, deps, timeout)
	return rest.RequestID(rest.AccessLog(log, mux))
}

// handle serves the path with and without the trailing slash.
func handle(mux *http.ServeMux, method, path string, h http.Handler) {
	mux.Handle(method+" "+path, h)
	mux.Handle(method+" "+path+"/{$}", h)
}
