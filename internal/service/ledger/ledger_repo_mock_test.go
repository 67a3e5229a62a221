package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/aerotrack/partledger/internal/domain"
)

var _ ledgerRepo = &ledgerRepoMock{}

type ledgerRepoMock struct {
	GetByDateFunc          func(ctx context.Context, date time.Time) (*domain.DailyLedger, error)
	GetByDateForUpdateFunc func(ctx context.Context, date time.Time) (*domain.DailyLedger, error)
	GetLatestBeforeFunc    func(ctx context.Context, date time.Time) (*domain.DailyLedger, error)
	InsertFunc             func(ctx context.Context, l domain.DailyLedger) (*domain.DailyLedger, error)
	UpdateFunc             func(ctx context.Context, l domain.DailyLedger) (*domain.DailyLedger, error)
	DeleteFunc             func(ctx context.Context, date time.Time) error
	ListRangeFunc          func(ctx context.Context, from time.Time, to time.Time) ([]domain.DailyLedger, error)
	AddAdjustmentFunc      func(ctx context.Context, a domain.LedgerAdjustment) error
	AdjustmentsFunc        func(ctx context.Context, date time.Time) ([]domain.LedgerAdjustment, error)

	calls struct {
		GetByDate []struct {
			Ctx  context.Context
			Date time.Time
		}
		GetByDateForUpdate []struct {
			Ctx  context.Context
			Date time.Time
		}
		GetLatestBefore []struct {
			Ctx  context.Context
			Date time.Time
		}
		Insert []struct {
			Ctx context.Context
			L   domain.DailyLedger
		}
		Update []struct {
			Ctx context.Context
			L   domain.DailyLedger
		}
		Delete []struct {
			Ctx  context.Context
			Date time.Time
		}
		ListRange []struct {
			Ctx  context.Context
			From time.Time
			To   time.Time
		}
		AddAdjustment []struct {
			Ctx context.Context
			A   domain.LedgerAdjustment
		}
		Adjustments []struct {
			Ctx  context.Context
			Date time.Time
		}
	}
	lockGetByDate          sync.RWMutex
	lockGetByDateForUpdate sync.RWMutex
	lockGetLatestBefore    sync.RWMutex
	lockInsert             sync.RWMutex
	lockUpdate             sync.RWMutex
	lockDelete             sync.RWMutex
	lockListRange          sync.RWMutex
	lockAddAdjustment      sync.RWMutex
	lockAdjustments        sync.RWMutex
}

func (mock *ledgerRepoMock) GetByDate(ctx context.Context, date time.Time) (*domain.DailyLedger, error) {
	if mock.GetByDateFunc == nil {
		panic("ledgerRepoMock.GetByDateFunc: method is nil but ledgerRepo.GetByDate was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Date time.Time
	}{Ctx: ctx, Date: date}
	mock.lockGetByDate.Lock()
	mock.calls.GetByDate = append(mock.calls.GetByDate, callInfo)
	mock.lockGetByDate.Unlock()
	return mock.GetByDateFunc(ctx, date)
}

func (mock *ledgerRepoMock) GetByDateCalls() []struct {
	Ctx  context.Context
	Date time.Time
} {
	mock.lockGetByDate.RLock()
	calls := mock.calls.GetByDate
	mock.lockGetByDate.RUnlock()
	return calls
}

func (mock *ledgerRepoMock) GetByDateForUpdate(ctx context.Context, date time.Time) (*domain.DailyLedger, error) {
	if mock.GetByDateForUpdateFunc == nil {
		panic("ledgerRepoMock.GetByDateForUpdateFunc: method is nil but ledgerRepo.GetByDateForUpdate was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Date time.Time
	}{Ctx: ctx, Date: date}
	mock.lockGetByDateForUpdate.Lock()
	mock.calls.GetByDateForUpdate = append(mock.calls.GetByDateForUpdate, callInfo)
	mock.lockGetByDateForUpdate.Unlock()
	return mock.GetByDateForUpdateFunc(ctx, date)
}

func (mock *ledgerRepoMock) GetByDateForUpdateCalls() []struct {
	Ctx  context.Context
	Date time.Time
} {
	mock.lockGetByDateForUpdate.RLock()
	calls := mock.calls.GetByDateForUpdate
	mock.lockGetByDateForUpdate.RUnlock()
	return calls
}

func (mock *ledgerRepoMock) GetLatestBefore(ctx context.Context, date time.Time) (*domain.DailyLedger, error) {
	if mock.GetLatestBeforeFunc == nil {
		panic("ledgerRepoMock.GetLatestBeforeFunc: method is nil but ledgerRepo.GetLatestBefore was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Date time.Time
	}{Ctx: ctx, Date: date}
	mock.lockGetLatestBefore.Lock()
	mock.calls.GetLatestBefore = append(mock.calls.GetLatestBefore, callInfo)
	mock.lockGetLatestBefore.Unlock()
	return mock.GetLatestBeforeFunc(ctx, date)
}

func (mock *ledgerRepoMock) GetLatestBeforeCalls() []struct {
	Ctx  context.Context
	Date time.Time
} {
	mock.lockGetLatestBefore.RLock()
	calls := mock.calls.GetLatestBefore
	mock.lockGetLatestBefore.RUnlock()
	return calls
}

func (mock *ledgerRepoMock) Insert(ctx context.Context, l domain.DailyLedger) (*domain.DailyLedger, error) {
	if mock.InsertFunc == nil {
		panic("ledgerRepoMock.InsertFunc: method is nil but ledgerRepo.Insert was just called")
	}
	callInfo := struct {
		Ctx context.Context
		L   domain.DailyLedger
	}{Ctx: ctx, L: l}
	mock.lockInsert.Lock()
	mock.calls.Insert = append(mock.calls.Insert, callInfo)
	mock.lockInsert.Unlock()
	return mock.InsertFunc(ctx, l)
}

func (mock *ledgerRepoMock) InsertCalls() []struct {
	Ctx context.Context
	L   domain.DailyLedger
} {
	mock.lockInsert.RLock()
	calls := mock.calls.Insert
	mock.lockInsert.RUnlock()
	return calls
}

func (mock *ledgerRepoMock) Update(ctx context.Context, l domain.DailyLedger) (*domain.DailyLedger, error) {
	if mock.UpdateFunc == nil {
		panic("ledgerRepoMock.UpdateFunc: method is nil but ledgerRepo.Update was just called")
	}
	callInfo := struct {
		Ctx context.Context
		L   domain.DailyLedger
	}{Ctx: ctx, L: l}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, l)
}

func (mock *ledgerRepoMock) UpdateCalls() []struct {
	Ctx context.Context
	L   domain.DailyLedger
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *ledgerRepoMock) Delete(ctx context.Context, date time.Time) error {
	if mock.DeleteFunc == nil {
		panic("ledgerRepoMock.DeleteFunc: method is nil but ledgerRepo.Delete was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Date time.Time
	}{Ctx: ctx, Date: date}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, date)
}

func (mock *ledgerRepoMock) DeleteCalls() []struct {
	Ctx  context.Context
	Date time.Time
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *ledgerRepoMock) ListRange(ctx context.Context, from time.Time, to time.Time) ([]domain.DailyLedger, error) {
	if mock.ListRangeFunc == nil {
		panic("ledgerRepoMock.ListRangeFunc: method is nil but ledgerRepo.ListRange was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		From time.Time
		To   time.Time
	}{Ctx: ctx, From: from, To: to}
	mock.lockListRange.Lock()
	mock.calls.ListRange = append(mock.calls.ListRange, callInfo)
	mock.lockListRange.Unlock()
	return mock.ListRangeFunc(ctx, from, to)
}

func (mock *ledgerRepoMock) ListRangeCalls() []struct {
	Ctx  context.Context
	From time.Time
	To   time.Time
} {
	mock.lockListRange.RLock()
	calls := mock.calls.ListRange
	mock.lockListRange.RUnlock()
	return calls
}

func (mock *ledgerRepoMock) AddAdjustment(ctx context.Context, a domain.LedgerAdjustment) error {
	if mock.AddAdjustmentFunc == nil {
		panic("ledgerRepoMock.AddAdjustmentFunc: method is nil but ledgerRepo.AddAdjustment was just called")
	}
	callInfo := struct {
		Ctx context.Context
		A   domain.LedgerAdjustment
	}{Ctx: ctx, A: a}
	mock.lockAddAdjustment.Lock()
	mock.calls.AddAdjustment = append(mock.calls.AddAdjustment, callInfo)
	mock.lockAddAdjustment.Unlock()
	return mock.AddAdjustmentFunc(ctx, a)
}

func (mock *ledgerRepoMock) AddAdjustmentCalls() []struct {
	Ctx context.Context
	A   domain.LedgerAdjustment
} {
	mock.lockAddAdjustment.RLock()
	calls := mock.calls.AddAdjustment
	mock.lockAddAdjustment.RUnlock()
	return calls
}

func (mock *ledgerRepoMock) Adjustments(ctx context.Context, date time.Time) ([]domain.LedgerAdjustment, error) {
	if mock.AdjustmentsFunc == nil {
		panic("ledgerRepoMock.AdjustmentsFunc: method is nil but ledgerRepo.Adjustments was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Date time.Time
	}{Ctx: ctx, Date: date}
	mock.lockAdjustments.Lock()
	mock.calls.Adjustments = append(mock.calls.Adjustments, callInfo)
	mock.lockAdjustments.Unlock()
	return mock.AdjustmentsFunc(ctx, date)
}

func (mock *ledgerRepoMock) AdjustmentsCalls() []struct {
	Ctx  context.Context
	Date time.Time
} {
	mock.lockAdjustments.RLock()
	calls := mock.calls.Adjustments
	mock.lockAdjustments.RUnlock()
	return calls
}
