package dashboard

import (
	"context"

	"staysure-portal-be/internal/dto"
	"staysure-portal-be/internal/entity"
	"staysure-portal-be/internal/pkg/logger"
	"staysure-portal-be/internal/repository/specification"
	"staysure-portal-be/internal/repository/unitofwork"
)

// Aggregator computes the back-office dashboard numbers: case counts per
// status, money already collected, and money still in the pipeline.
type Aggregator struct {
	logger logger.ILogger
}

func NewAggregator(logger logger.ILogger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// GetStats runs the aggregate queries for the dashboard. Callers are
// expected to cache the result; this hits several tables.
func (a *Aggregator) GetStats(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.AdminDashboardStats, error) {
	byStatus, err := uow.ApplicationRepository().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	statusCounts := make(map[string]int, len(byStatus))
	for status, count := range byStatus {
		statusCounts[status] = int(count)
		total += int(count)
	}

	collected, err := uow.ApplicationRepository().SumCollectedRevenue(ctx)
	if err != nil {
		return nil, err
	}

	pipeline, err := uow.ApplicationRepository().SumPipelineAmount(ctx)
	if err != nil {
		return nil, err
	}

	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	activeUsers, err := uow.UserRepository().Count(ctx, specification.ByStatus{Status: string(entity.UserStatusActive)})
	if err != nil {
		return nil, err
	}

	return &dto.AdminDashboardStats{
		TotalApplications: total,
		ByStatus:          statusCounts,
		CollectedRevenue:  int(collected),
		PipelineAmount:    int(pipeline),
		TotalUsers:        int(totalUsers),
		ActiveUsers:       int(activeUsers),
	}, nil
}
