// Package grpcserver is the thin-client front door. It only
// authenticates upstream (the login travels with the request) and
// marshals between the wire shape and the gateway's submission contract.
package grpcserver

import (
	"context"
	"encoding/json"
	"net"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"google.golang.org/grpc"

	"github.com/overmesh/gridexec/gateway"
	"github.com/overmesh/gridexec/pb"
	derror "github.com/overmesh/gridexec/pkg/errors"
)

// Server serves the GridExec gRPC service over a gateway.
type Server struct {
	gw  *gateway.Gateway
	srv *grpc.Server
}

// New creates a Server with logging and panic-recovery interceptors.
func New(gw *gateway.Gateway) *Server {
	srv := grpc.NewServer(grpc_middleware.WithUnaryServerChain(
		grpc_zap.UnaryServerInterceptor(log.L()),
		grpc_recovery.UnaryServerInterceptor(),
	))

	s := &Server{
		gw:  gw,
		srv: srv,
	}
	pb.RegisterGridExecServer(srv, s)
	return s
}

// Serve blocks serving the listener until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

// Stop gracefully stops the server.
func (s *Server) Stop() {
	s.srv.GracefulStop()
}

// SubmitTask handles both synchronous and asynchronous submissions.
// Engine errors travel in the response payload, not as transport errors.
func (s *Server) SubmitTask(ctx context.Context, req *pb.SubmitTaskRequest) (*pb.SubmitTaskResponse, error) {
	argument, err := decodeArgument(req.Argument)
	if err != nil {
		return &pb.SubmitTaskResponse{Error: toPBError(err)}, nil
	}

	subject := s.gw.Attach(req.Login)
	greq := gateway.Request{
		TaskName:    req.TaskName,
		Argument:    argument,
		Timeout:     time.Duration(req.TimeoutMs) * time.Millisecond,
		Reducer:     req.Reducer,
		TargetNodes: req.TargetNodes,
	}

	if req.Async {
		handleID, err := s.gw.SubmitAsync(subject, greq)
		if err != nil {
			return &pb.SubmitTaskResponse{Error: toPBError(err)}, nil
		}
		return &pb.SubmitTaskResponse{HandleId: handleID}, nil
	}

	result, err := s.gw.SubmitSync(ctx, subject, greq)
	if err != nil {
		return &pb.SubmitTaskResponse{Error: toPBError(err)}, nil
	}
	encoded, err := encodeResult(result)
	if err != nil {
		return &pb.SubmitTaskResponse{Error: toPBError(err)}, nil
	}
	return &pb.SubmitTaskResponse{Result: encoded}, nil
}

// TaskResult reports an asynchronous submission's outcome. While the
// task is still in flight it returns finished=false; the caller polls.
func (s *Server) TaskResult(ctx context.Context, req *pb.TaskResultRequest) (*pb.TaskResultResponse, error) {
	resolved, err := s.gw.Resolved(req.HandleId)
	if err != nil {
		return &pb.TaskResultResponse{Error: toPBError(err)}, nil
	}
	if !resolved {
		return &pb.TaskResultResponse{Finished: false}, nil
	}

	result, err := s.gw.Result(ctx, req.HandleId)
	if err != nil {
		return &pb.TaskResultResponse{Finished: true, Error: toPBError(err)}, nil
	}
	encoded, err := encodeResult(result)
	if err != nil {
		return &pb.TaskResultResponse{Finished: true, Error: toPBError(err)}, nil
	}
	return &pb.TaskResultResponse{Finished: true, Result: encoded}, nil
}

func decodeArgument(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	var argument any
	if err := json.Unmarshal([]byte(raw), &argument); err != nil {
		return nil, errors.Trace(err)
	}
	return argument, nil
}

func encodeResult(result any) (string, error) {
	if result == nil {
		return "", nil
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		return "", errors.Trace(err)
	}
	return string(encoded), nil
}

func toPBError(err error) *pb.Error {
	return &pb.Error{
		Kind:    derror.KindOf(err),
		Message: err.Error(),
	}
}
