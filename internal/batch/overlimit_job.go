package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/infrastructure/monitoring"
)

// OverLimitAuditJob scans for customers whose current debt exceeds their
// approved limit. Those customers score zero on every future eligibility
// check, so the nightly report and gauge give operators early sight of them.
type OverLimitAuditJob struct {
	customerRepo customer.CustomerRepository
	logger       *slog.Logger
}

func NewOverLimitAuditJob(customerRepo customer.CustomerRepository, logger *slog.Logger) *OverLimitAuditJob {
	if customerRepo == nil || logger == nil {
		panic("OverLimitAuditJob dependencies cannot be nil")
	}
	return &OverLimitAuditJob{
		customerRepo: customerRepo,
		logger:       logger.With("job", "OverLimitAudit"),
	}
}

func (j *OverLimitAuditJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting over-limit customer audit job.")

	customers, err := j.customerRepo.FindOverLimit(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list over-limit customers, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list over-limit customers: %w", err)
	}

	for _, cust := range customers {
		j.logger.WarnContext(ctx, "Customer debt exceeds approved limit.",
			slog.Int64("customerID", cust.CustomerID),
			slog.Float64("currentDebt", cust.CurrentDebt),
			slog.Float64("approvedLimit", cust.ApprovedLimit))
	}

	monitoring.SetOverLimitCustomers(len(customers))

	j.logger.InfoContext(ctx, "Over-limit customer audit job finished.",
		slog.Int("over_limit_count", len(customers)),
		slog.Duration("duration", time.Since(startTime)))
	return nil
}
