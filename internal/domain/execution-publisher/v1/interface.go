package executionpublisherv1

import "context"

// ExecutionPublisher defines the interface for publishing execution events.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=executionpublisherv1_mock
type ExecutionPublisher interface {
	// PublishExecution publishes one executed order to the execution topic.
	PublishExecution(ctx context.Context, event *ExecutionEvent) error
}
