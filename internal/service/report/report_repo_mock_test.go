package report

import (
	"context"
	"sync"
	"time"

	"github.com/aerotrack/partledger/internal/domain"
)

var _ reportRepo = &reportRepoMock{}

type reportRepoMock struct {
	PartAvailabilityFunc func(ctx context.Context) ([]domain.PartAvailability, error)
	TopUsedPartsFunc     func(ctx context.Context, n int, from time.Time, to time.Time) ([]domain.PartUsage, error)
	OperatorStatsFunc    func(ctx context.Context, from time.Time, to time.Time) ([]domain.OperatorStats, error)

	calls struct {
		PartAvailability []struct {
			Ctx context.Context
		}
		TopUsedParts []struct {
			Ctx  context.Context
			N    int
			From time.Time
			To   time.Time
		}
		OperatorStats []struct {
			Ctx  context.Context
			From time.Time
			To   time.Time
		}
	}
	lockPartAvailability sync.RWMutex
	lockTopUsedParts     sync.RWMutex
	lockOperatorStats    sync.RWMutex
}

func (mock *reportRepoMock) PartAvailability(ctx context.Context) ([]domain.PartAvailability, error) {
	if mock.PartAvailabilityFunc == nil {
		panic("reportRepoMock.PartAvailabilityFunc: method is nil but reportRepo.PartAvailability was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockPartAvailability.Lock()
	mock.calls.PartAvailability = append(mock.calls.PartAvailability, callInfo)
	mock.lockPartAvailability.Unlock()
	return mock.PartAvailabilityFunc(ctx)
}

func (mock *reportRepoMock) PartAvailabilityCalls() []struct {
	Ctx context.Context
} {
	mock.lockPartAvailability.RLock()
	calls := mock.calls.PartAvailability
	mock.lockPartAvailability.RUnlock()
	return calls
}

func (mock *reportRepoMock) TopUsedParts(ctx context.Context, n int, from time.Time, to time.Time) ([]domain.PartUsage, error) {
	if mock.TopUsedPartsFunc == nil {
		panic("reportRepoMock.TopUsedPartsFunc: method is nil but reportRepo.TopUsedParts was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		N    int
		From time.Time
		To   time.Time
	}{Ctx: ctx, N: n, From: from, To: to}
	mock.lockTopUsedParts.Lock()
	mock.calls.TopUsedParts = append(mock.calls.TopUsedParts, callInfo)
	mock.lockTopUsedParts.Unlock()
	return mock.TopUsedPartsFunc(ctx, n, from, to)
}

func (mock *reportRepoMock) TopUsedPartsCalls() []struct {
	Ctx  context.Context
	N    int
	From time.Time
	To   time.Time
} {
	mock.lockTopUsedParts.RLock()
	calls := mock.calls.TopUsedParts
	mock.lockTopUsedParts.RUnlock()
	return calls
}

func (mock *reportRepoMock) OperatorStats(ctx context.Context, from time.Time, to time.Time) ([]domain.OperatorStats, error) {
	if mock.OperatorStatsFunc == nil {
		panic("reportRepoMock.OperatorStatsFunc: method is nil but reportRepo.OperatorStats was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		From time.Time
		To   time.Time
	}{Ctx: ctx, From: from, To: to}
	mock.lockOperatorStats.Lock()
	mock.calls.OperatorStats = append(mock.calls.OperatorStats, callInfo)
	mock.lockOperatorStats.Unlock()
	return mock.OperatorStatsFunc(ctx, from, to)
}

func (mock *reportRepoMock) OperatorStatsCalls() []struct {
	Ctx  context.Context
	From time.Time
	To   time.Time
} {
	mock.lockOperatorStats.RLock()
	calls := mock.calls.OperatorStats
	mock.lockOperatorStats.RUnlock()
	return calls
}
