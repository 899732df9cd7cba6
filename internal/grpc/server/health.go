// Package server поднимает gRPC-сервер со стандартным сервисом health
// для проверок оркестратора.
//
// Статус сервиса обновляется фоновой проверкой хранилища: при недоступной базе
// сервер отвечает NOT_SERVING.
package server

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/subscription-wallet/internal/lib/sl"
)

// ServiceName имя сервиса в протоколе health.
const ServiceName = "subscription-wallet"

// Pinger проверяемая зависимость.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer gRPC-сервер с сервисом health.
type HealthServer struct {
	grpcServer *grpc.Server
	health     *health.Server
	listener   net.Listener
	store      Pinger
	interval   time.Duration
	log        *slog.Logger
}

// NewHealthServer слушает address и регистрирует сервис health.
func NewHealthServer(address string, store Pinger, interval time.Duration, log *slog.Logger) (*HealthServer, error) {
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}
	return newHealthServer(lis, store, interval, log), nil
}

func newHealthServer(lis net.Listener, store Pinger, interval time.Duration, log *slog.Logger) *HealthServer {
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	return &HealthServer{
		grpcServer: grpcServer,
		health:     hs,
		listener:   lis,
		store:      store,
		interval:   interval,
		log:        log,
	}
}

// Addr адрес, на котором слушает сервер.
func (s *HealthServer) Addr() string {
	return s.listener.Addr().String()
}

// Run обслуживает запросы до отмены ctx.
func (s *HealthServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	s.check(ctx)
	go s.watch(ctx)

	go func() {
		s.log.Info("gRPC health server listening on", slog.String("address", s.Addr()))
		errCh <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *HealthServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *HealthServer) check(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	pingCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()
	if err := s.store.Ping(pingCtx); err != nil {
		s.log.Warn("storage ping failed", sl.Err(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
