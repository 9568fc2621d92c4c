package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"
	"google.golang.org/grpc"

	todospb "todo-tracker/proto/todos"
	"todo-tracker/todos/adapters/db"
	todogrpc "todo-tracker/todos/adapters/grpc"
	"todo-tracker/todos/adapters/users"
	"todo-tracker/todos/config"
	"todo-tracker/todos/core"
)

func main() {
	// config
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "todos-service server configuration file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	// logger
	log := mustMakeLogger(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	log.Info("starting todos-service server")

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// database adapter
	storage, err := db.New(log, cfg.DBAddress)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer func(storage *db.DB) {
		if err := storage.Close(); err != nil {
			log.Error("failed to close db connection", "error", err)
		}
	}(storage)

	if err := storage.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate db: %w", err)
	}

	// users directory, cached when redis is configured
	var directory core.Users = storage
	if cfg.Redis.Address != "" {
		client, err := users.NewRedisClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		directory = users.NewCache(log, storage, client, cfg.Redis.UsersTTL)
		log.Info("users cache enabled", "redis", cfg.Redis.Address, "ttl", cfg.Redis.UsersTTL)
	}

	// service
	todosService := core.NewService(storage, directory)

	// grpc
	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s := grpc.NewServer(grpc.UnaryInterceptor(todogrpc.LoggingInterceptor(log)))

	// grpc handler
	handler := todogrpc.NewServer(log, todosService)
	todospb.RegisterTodosServiceServer(s, handler)

	go func() {
		<-ctx.Done()
		log.Debug("shutting down todos-service server")
		s.GracefulStop()
	}()

	log.Info("todos-service gRPC server is running", "address", cfg.Address)

	// blocking
	if err := s.Serve(listener); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

func mustMakeLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
