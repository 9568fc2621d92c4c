package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"

	todospb "todo-tracker/proto/todos"
	"todo-tracker/todos/core"
)

// RequestIDKey is the metadata key the gateway uses to forward request ids.
const RequestIDKey = "x-request-id"

type Server struct {
	todospb.UnimplementedTodosServiceServer

	log     *slog.Logger
	service *core.Service
}

func NewServer(log *slog.Logger, service *core.Service) *Server {
	return &Server{log: log, service: service}
}

// LoggingInterceptor logs every call together with the forwarded request id.
func LoggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		attrs := []any{
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		}
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(RequestIDKey); len(ids) > 0 {
				attrs = append(attrs, "request_id", ids[0])
			}
		}
		log.Debug("grpc call", attrs...)
		return resp, err
	}
}

func (s *Server) Ping(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.service.Ping(ctx); err != nil {
		s.log.Error("ping failed", "error", err)
		return nil, status.Error(codes.Internal, "ping failed")
	}
	return &emptypb.Empty{}, nil
}

// Todos

func (s *Server) CreateTodo(ctx context.Context, req *todospb.CreateTodoRequest) (*todospb.Todo, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	in := core.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	// absent => medium, "" is rejected like any other unknown choice
	if req.Priority != nil {
		priority, err := core.ParsePriority(*req.Priority)
		if err != nil {
			return nil, s.mapErr(err)
		}
		in.Priority = priority
	}

	if req.DueDate != "" {
		d, err := core.ParseDueDate(req.DueDate)
		if err != nil {
			return nil, s.mapErr(err)
		}
		in.DueDate = &d
	}

	t, err := s.service.CreateTodo(ctx, in)
	if err != nil {
		return nil, s.mapErr(err)
	}

	return todoToPB(t), nil
}

func (s *Server) GetTodo(ctx context.Context, req *todospb.GetTodoRequest) (*todospb.Todo, error) {
	if req == nil || req.Id <= 0 {
		return nil, status.Error(codes.NotFound, core.ErrTodoNotFound.Error())
	}

	t, err := s.service.GetTodo(ctx, req.Id)
	if err != nil {
		return nil, s.mapErr(err)
	}

	return todoToPB(t), nil
}

func (s *Server) ListTodos(ctx context.Context, req *todospb.ListTodosRequest) (*todospb.ListTodosResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	f := core.ListTodosFilter{
		Search:    req.Search,
		Ordering:  core.ParseOrdering(req.Ordering...),
		Completed: req.Completed,
		Limit:     int(req.Limit),
		Offset:    int(req.Offset),
	}

	if req.Priority != "" {
		p, err := core.ParsePriority(req.Priority)
		if err != nil {
			return nil, s.mapErr(err)
		}
		f.Priority = &p
	}

	items, err := s.service.ListTodos(ctx, f)
	if err != nil {
		return nil, s.mapErr(err)
	}

	out := make([]*todospb.Todo, 0, len(items))
	for _, t := range items {
		out = append(out, todoToPB(t))
	}

	return &todospb.ListTodosResponse{Todos: out}, nil
}

func (s *Server) UpdateTodo(ctx context.Context, req *todospb.UpdateTodoRequest) (*todospb.Todo, error) {
	if req == nil || req.Id <= 0 {
		return nil, status.Error(codes.NotFound, core.ErrTodoNotFound.Error())
	}

	patch, err := todoPatchFromPB(req)
	if err != nil {
		return nil, s.mapErr(err)
	}

	updated, err := s.service.PatchTodo(ctx, req.Id, patch)
	if err != nil {
		return nil, s.mapErr(err)
	}

	return todoToPB(updated), nil
}

func (s *Server) DeleteTodo(ctx context.Context, req *todospb.DeleteTodoRequest) (*emptypb.Empty, error) {
	if req == nil || req.Id <= 0 {
		return nil, status.Error(codes.NotFound, core.ErrTodoNotFound.Error())
	}

	if err := s.service.DeleteTodo(ctx, req.Id); err != nil {
		return nil, s.mapErr(err)
	}

	return &emptypb.Empty{}, nil
}

// Assignments

func (s *Server) AssignUser(ctx context.Context, req *todospb.AssignUserRequest) (*todospb.AssignUserResponse, error) {
	if req == nil || req.TodoId <= 0 {
		return nil, status.Error(codes.NotFound, core.ErrTodoNotFound.Error())
	}

	a, created, err := s.service.AssignUser(ctx, req.TodoId, req.UserId, req.Role)
	if err != nil {
		return nil, s.mapErr(err)
	}

	return &todospb.AssignUserResponse{
		Assignment: assignmentToPB(a),
		Created:    created,
	}, nil
}

// Helpers

func todoToPB(t core.Todo) *todospb.Todo {
	out := &todospb.Todo{
		Id:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Completed:     t.Completed,
		Priority:      string(t.Priority),
		CreatedAt:     timestamppb.New(t.CreatedAt),
		UpdatedAt:     timestamppb.New(t.UpdatedAt),
		AssignedUsers: make([]*todospb.Assignment, 0, len(t.Assignments)),
	}
	if t.DueDate != nil {
		out.DueDate = t.DueDate.Format(core.DueDateLayout)
	}
	for _, a := range t.Assignments {
		out.AssignedUsers = append(out.AssignedUsers, assignmentToPB(a))
	}
	return out
}

func assignmentToPB(a core.Assignment) *todospb.Assignment {
	return &todospb.Assignment{
		User: &todospb.User{
			Id:       a.User.ID,
			Username: a.User.Username,
			Email:    a.User.Email,
		},
		Role:       string(a.Role),
		AssignedAt: timestamppb.New(a.AssignedAt),
	}
}

var updatableFields = []string{"title", "description", "completed", "due_date", "priority"}

// todoPatchFromPB builds the patch from the fields that are set. A non-empty
// update_mask limits the patch to the named fields and makes a masked title
// mandatory, so a full update still has to carry one. Masked optional fields
// that are not set keep their stored values.
func todoPatchFromPB(req *todospb.UpdateTodoRequest) (core.TodoPatch, error) {
	var p core.TodoPatch

	paths := req.UpdateMask.GetPaths()
	if len(paths) == 0 {
		paths = updatableFields
	}

	for _, path := range paths {
		switch path {
		case "title":
			if req.Title == nil {
				if len(req.UpdateMask.GetPaths()) > 0 {
					return p, core.NewValidationError("title", "this field is required")
				}
				continue
			}
			if strings.TrimSpace(*req.Title) == "" {
				return p, core.NewValidationError("title", "this field may not be blank")
			}
			p.Title = req.Title

		case "description":
			p.Description = req.Description

		case "completed":
			p.Completed = req.Completed

		case "due_date":
			if req.DueDate == nil {
				continue
			}
			d, err := core.ParseDueDate(*req.DueDate)
			if err != nil {
				return p, err
			}
			p.DueDate = &d

		case "priority":
			if req.Priority == nil {
				continue
			}
			pr, err := core.ParsePriority(*req.Priority)
			if err != nil {
				return p, err
			}
			p.Priority = &pr

		default:
			return p, core.NewValidationError("update_mask", fmt.Sprintf("unknown field %q", path))
		}
	}

	return p, nil
}

func invalidArgument(v *core.ValidationError) error {
	st := status.New(codes.InvalidArgument, v.Error())
	detailed, err := st.WithDetails(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{
			{Field: v.Field, Description: v.Message},
		},
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

func (s *Server) mapErr(err error) error {
	var verr *core.ValidationError

	switch {
	case errors.As(err, &verr):
		return invalidArgument(verr)
	case errors.Is(err, core.ErrTodoInvalidArgs):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, core.ErrTodoNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, core.ErrUserNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")

	default:
		// ErrConstraint lands here too: it is a server side fault
		s.log.Error("internal error", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
