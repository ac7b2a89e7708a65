package event

import "context"

// NopPublisher satisfies EventPublisher when messaging is disabled in config.
type NopPublisher struct{}

var _ EventPublisher = NopPublisher{}

func (NopPublisher) PublishCustomerRegistered(ctx context.Context, event CustomerRegisteredEvent) error {
	return nil
}

func (NopPublisher) PublishLoanApproved(ctx context.Context, event LoanApprovedEvent) error {
	return nil
}
