package todos

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/fieldmaskpb"

	apicore "todo-tracker/api/core"
	"todo-tracker/api/pkg/reqid"
	todospb "todo-tracker/proto/todos"
)

const requestIDKey = "x-request-id"

// fullMask marks a PUT: the todos service then requires a title.
var fullMask = []string{"title", "description", "completed", "due_date", "priority"}

type Client struct {
	log  *slog.Logger
	conn *grpc.ClientConn

	todos todospb.TodosServiceClient
}

func NewClient(address string, log *slog.Logger) (*Client, error) {
	conn, err := grpc.NewClient(
		address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(requestIDInterceptor),
	)
	if err != nil {
		return nil, fmt.Errorf("new grpc client for %s: %w", address, err)
	}

	return NewClientFromConn(conn, log), nil
}

func NewClientFromConn(conn *grpc.ClientConn, log *slog.Logger) *Client {
	return &Client{
		log:   log,
		conn:  conn,
		todos: todospb.NewTodosServiceClient(conn),
	}
}

func (c *Client) Close() error { return c.conn.Close() }

// requestIDInterceptor forwards the http request id to the todos service.
func requestIDInterceptor(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	if id := reqid.FromContext(ctx); id != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, requestIDKey, id)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// ---- Pinger

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.todos.Ping(ctx, &emptypb.Empty{})
	return mapGRPCErr(err)
}

// ---- Todos

func (c *Client) CreateTodo(ctx context.Context, in apicore.TodoInput) (apicore.Todo, error) {
	req := &todospb.CreateTodoRequest{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		Priority:    in.Priority,
	}
	if in.DueDate != nil {
		req.DueDate = *in.DueDate
	}

	resp, err := c.todos.CreateTodo(ctx, req)
	if err != nil {
		return apicore.Todo{}, mapGRPCErr(err)
	}
	return todoFromPB(resp), nil
}

func (c *Client) GetTodo(ctx context.Context, id int64) (apicore.Todo, error) {
	resp, err := c.todos.GetTodo(ctx, &todospb.GetTodoRequest{Id: id})
	if err != nil {
		return apicore.Todo{}, mapGRPCErr(err)
	}
	return todoFromPB(resp), nil
}

func (c *Client) ListTodos(ctx context.Context, f apicore.ListTodosFilter) ([]apicore.Todo, error) {
	resp, err := c.todos.ListTodos(ctx, &todospb.ListTodosRequest{
		Search:    f.Search,
		Ordering:  f.Ordering,
		Completed: f.Completed,
		Priority:  f.Priority,
		Limit:     int32(f.Limit),
		Offset:    int32(f.Offset),
	})
	if err != nil {
		return nil, mapGRPCErr(err)
	}

	out := make([]apicore.Todo, 0, len(resp.Todos))
	for _, it := range resp.Todos {
		out = append(out, todoFromPB(it))
	}
	return out, nil
}

func (c *Client) UpdateTodo(ctx context.Context, id int64, p apicore.TodoPatch) (apicore.Todo, error) {
	req := &todospb.UpdateTodoRequest{
		Id:          id,
		Title:       p.Title,
		Description: p.Description,
		Completed:   p.Completed,
		DueDate:     p.DueDate,
		Priority:    p.Priority,
	}
	if p.Replace {
		req.UpdateMask = &fieldmaskpb.FieldMask{Paths: fullMask}
	}

	resp, err := c.todos.UpdateTodo(ctx, req)
	if err != nil {
		return apicore.Todo{}, mapGRPCErr(err)
	}
	return todoFromPB(resp), nil
}

func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	_, err := c.todos.DeleteTodo(ctx, &todospb.DeleteTodoRequest{Id: id})
	return mapGRPCErr(err)
}

func (c *Client) AssignUser(ctx context.Context, todoID int64, in apicore.AssignUserInput) (apicore.Assignment, bool, error) {
	resp, err := c.todos.AssignUser(ctx, &todospb.AssignUserRequest{
		TodoId: todoID,
		UserId: in.UserID,
		Role:   in.Role,
	})
	if err != nil {
		return apicore.Assignment{}, false, mapGRPCErr(err)
	}
	return assignmentFromPB(resp.Assignment), resp.Created, nil
}

// ---- mapping

func todoFromPB(t *todospb.Todo) apicore.Todo {
	out := apicore.Todo{
		ID:            t.Id,
		Title:         t.Title,
		Description:   t.Description,
		Completed:     t.Completed,
		Priority:      apicore.Priority(t.Priority),
		CreatedAt:     t.CreatedAt.AsTime(),
		UpdatedAt:     t.UpdatedAt.AsTime(),
		AssignedUsers: make([]apicore.Assignment, 0, len(t.AssignedUsers)),
	}
	if t.DueDate != "" {
		d := t.DueDate
		out.DueDate = &d
	}
	for _, a := range t.AssignedUsers {
		out.AssignedUsers = append(out.AssignedUsers, assignmentFromPB(a))
	}
	return out
}

func assignmentFromPB(a *todospb.Assignment) apicore.Assignment {
	if a == nil {
		return apicore.Assignment{}
	}
	out := apicore.Assignment{
		Role:       apicore.Role(a.Role),
		AssignedAt: a.AssignedAt.AsTime(),
	}
	if a.User != nil {
		out.User = apicore.User{
			ID:       a.User.Id,
			Username: a.User.Username,
			Email:    a.User.Email,
		}
	}
	return out
}

func mapGRPCErr(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %v", apicore.ErrUnavailable, err)
	}

	switch st.Code() {
	case codes.InvalidArgument:
		for _, d := range st.Details() {
			br, ok := d.(*errdetails.BadRequest)
			if !ok || len(br.GetFieldViolations()) == 0 {
				continue
			}
			v := br.GetFieldViolations()[0]
			return &apicore.ValidationError{Field: v.GetField(), Message: v.GetDescription()}
		}
		return fmt.Errorf("%w: %s", apicore.ErrBadArguments, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", apicore.ErrNotFound, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", apicore.ErrUnavailable, st.Message())
	default:
		return fmt.Errorf("todos service: %s", st.Message())
	}
}
