package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bjj-foundation/internal/dataset"
	"bjj-foundation/internal/quiz"

	"connectrpc.com/connect"
)

// jsonCodec replaces connect's protojson codec so handlers can exchange plain
// Go structs.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}
	return nil
}

func handlerOptions(opts ...connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
}

// toConnectError maps service errors onto connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, dataset.ErrDatasetUnavailable):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, quiz.ErrAttemptNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, quiz.ErrInvalidStage):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, quiz.ErrInvalidOption), errors.Is(err, quiz.ErrInvalidState):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}
	return connect.NewError(connect.CodeInternal, err)
}
