// Package client is the lightweight binary client for the gRPC front
// door. The login it carries is assumed to be authenticated by the
// deployment's upstream access layer.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pingcap/errors"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/overmesh/gridexec/pb"
	derror "github.com/overmesh/gridexec/pkg/errors"
)

const submitRetryInterval = 100 * time.Millisecond

// Config configures a Client.
type Config struct {
	// Addr is the gRPC front door address.
	Addr string
	// Login is the authenticated identity submitted tasks run as.
	Login string
	// DialTimeout bounds the initial connection attempt.
	DialTimeout time.Duration
}

// TaskError is an engine error reconstructed from the wire. Kind is one
// of the engine's taxonomy kinds.
type TaskError struct {
	Kind    string
	Message string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsTimeout reports whether the error is a task timeout.
func (e *TaskError) IsTimeout() bool {
	return e.Kind == derror.KindTaskTimedOut
}

// Client submits tasks through the gRPC front door.
type Client struct {
	cfg  Config
	conn *grpc.ClientConn
	cli  pb.GridExecClient
}

// NewClient dials the front door and returns a ready Client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}

	conn, err := grpc.DialContext(ctx, cfg.Addr, grpc.WithInsecure(), grpc.WithBlock())
	if err != nil {
		return nil, errors.Trace(err)
	}

	return &Client{
		cfg:  cfg,
		conn: conn,
		cli:  pb.NewGridExecClient(conn),
	}, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return errors.Trace(c.conn.Close())
}

// Execute submits a task synchronously and blocks until its terminal
// state, returning the reduced result or the terminal error.
func (c *Client) Execute(ctx context.Context, taskName string, argument any, timeout time.Duration) (any, error) {
	resp, err := c.submitWithRetry(ctx, taskName, argument, timeout, false)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fromPBError(resp.Error)
	}
	return decodeResult(resp.Result)
}

// ExecuteAsync submits a task asynchronously and returns the handle ID
// its result is retrievable under.
func (c *Client) ExecuteAsync(ctx context.Context, taskName string, argument any, timeout time.Duration) (string, error) {
	resp, err := c.submitWithRetry(ctx, taskName, argument, timeout, true)
	if err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fromPBError(resp.Error)
	}
	return resp.HandleId, nil
}

// Result polls an asynchronous submission. finished is false while the
// task is still in flight.
func (c *Client) Result(ctx context.Context, handleID string) (finished bool, result any, err error) {
	resp, err := c.cli.TaskResult(ctx, &pb.TaskResultRequest{HandleId: handleID})
	if err != nil {
		return false, nil, errors.Trace(err)
	}
	if resp.Error != nil {
		return resp.Finished, nil, fromPBError(resp.Error)
	}
	if !resp.Finished {
		return false, nil, nil
	}
	result, err = decodeResult(resp.Result)
	return true, result, err
}

// WaitResult polls Result until the task concludes or the context is
// done.
func (c *Client) WaitResult(ctx context.Context, handleID string) (any, error) {
	rl := rate.NewLimiter(rate.Every(submitRetryInterval), 1)
	for {
		if err := rl.Wait(ctx); err != nil {
			return nil, errors.Trace(err)
		}
		finished, result, err := c.Result(ctx, handleID)
		if err != nil {
			return nil, err
		}
		if finished {
			return result, nil
		}
	}
}

// submitWithRetry retries transient transport failures with a paced
// limiter. Engine errors are not retried.
func (c *Client) submitWithRetry(
	ctx context.Context, taskName string, argument any, timeout time.Duration, async bool,
) (*pb.SubmitTaskResponse, error) {
	encoded, err := encodeArgument(argument)
	if err != nil {
		return nil, err
	}

	req := &pb.SubmitTaskRequest{
		TaskName:  taskName,
		Argument:  encoded,
		Login:     c.cfg.Login,
		TimeoutMs: timeout.Milliseconds(),
		Async:     async,
	}

	rl := rate.NewLimiter(rate.Every(submitRetryInterval), 1)
	for {
		if err := rl.Wait(ctx); err != nil {
			return nil, errors.Trace(err)
		}

		resp, err := c.cli.SubmitTask(ctx, req)
		if err == nil {
			return resp, nil
		}
		if status.Code(err) != codes.Unavailable {
			return nil, errors.Trace(err)
		}
		// transient; retry after the limiter paces us
	}
}

func encodeArgument(argument any) (string, error) {
	if argument == nil {
		return "", nil
	}
	encoded, err := json.Marshal(argument)
	if err != nil {
		return "", errors.Trace(err)
	}
	return string(encoded), nil
}

func decodeResult(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, errors.Trace(err)
	}
	return result, nil
}

func fromPBError(pbErr *pb.Error) error {
	return &TaskError{
		Kind:    pbErr.Kind,
		Message: pbErr.Message,
	}
}
