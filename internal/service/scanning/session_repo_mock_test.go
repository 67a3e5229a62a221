package scanning

import (
	"context"
	"sync"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/google/uuid"
)

var _ sessionRepo = &sessionRepoMock{}

type sessionRepoMock struct {
	CreateFunc       func(ctx context.Context, s *domain.ScanningSession) error
	GetFunc          func(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error)
	GetForUpdateFunc func(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error)
	AppendScanFunc   func(ctx context.Context, sessionID uuid.UUID, seq int, it domain.ScannedItem) error
	SaveFunc         func(ctx context.Context, s *domain.ScanningSession) error
	ListFunc         func(ctx context.Context, filter domain.SessionFilter) ([]domain.ScanningSession, int, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			S   *domain.ScanningSession
		}
		Get []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
		GetForUpdate []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
		AppendScan []struct {
			Ctx       context.Context
			SessionID uuid.UUID
			Seq       int
			It        domain.ScannedItem
		}
		Save []struct {
			Ctx context.Context
			S   *domain.ScanningSession
		}
		List []struct {
			Ctx    context.Context
			Filter domain.SessionFilter
		}
	}
	lockCreate       sync.RWMutex
	lockGet          sync.RWMutex
	lockGetForUpdate sync.RWMutex
	lockAppendScan   sync.RWMutex
	lockSave         sync.RWMutex
	lockList         sync.RWMutex
}

func (mock *sessionRepoMock) Create(ctx context.Context, s *domain.ScanningSession) error {
	if mock.CreateFunc == nil {
		panic("sessionRepoMock.CreateFunc: method is nil but sessionRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   *domain.ScanningSession
	}{Ctx: ctx, S: s}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, s)
}

func (mock *sessionRepoMock) CreateCalls() []struct {
	Ctx context.Context
	S   *domain.ScanningSession
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *sessionRepoMock) Get(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error) {
	if mock.GetFunc == nil {
		panic("sessionRepoMock.GetFunc: method is nil but sessionRepo.Get was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{Ctx: ctx, Id: id}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, id)
}

func (mock *sessionRepoMock) GetCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *sessionRepoMock) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error) {
	if mock.GetForUpdateFunc == nil {
		panic("sessionRepoMock.GetForUpdateFunc: method is nil but sessionRepo.GetForUpdate was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{Ctx: ctx, Id: id}
	mock.lockGetForUpdate.Lock()
	mock.calls.GetForUpdate = append(mock.calls.GetForUpdate, callInfo)
	mock.lockGetForUpdate.Unlock()
	return mock.GetForUpdateFunc(ctx, id)
}

func (mock *sessionRepoMock) GetForUpdateCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
} {
	mock.lockGetForUpdate.RLock()
	calls := mock.calls.GetForUpdate
	mock.lockGetForUpdate.RUnlock()
	return calls
}

func (mock *sessionRepoMock) AppendScan(ctx context.Context, sessionID uuid.UUID, seq int, it domain.ScannedItem) error {
	if mock.AppendScanFunc == nil {
		panic("sessionRepoMock.AppendScanFunc: method is nil but sessionRepo.AppendScan was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		SessionID uuid.UUID
		Seq       int
		It        domain.ScannedItem
	}{Ctx: ctx, SessionID: sessionID, Seq: seq, It: it}
	mock.lockAppendScan.Lock()
	mock.calls.AppendScan = append(mock.calls.AppendScan, callInfo)
	mock.lockAppendScan.Unlock()
	return mock.AppendScanFunc(ctx, sessionID, seq, it)
}

func (mock *sessionRepoMock) AppendScanCalls() []struct {
	Ctx       context.Context
	SessionID uuid.UUID
	Seq       int
	It        domain.ScannedItem
} {
	mock.lockAppendScan.RLock()
	calls := mock.calls.AppendScan
	mock.lockAppendScan.RUnlock()
	return calls
}

func (mock *sessionRepoMock) Save(ctx context.Context, s *domain.ScanningSession) error {
	if mock.SaveFunc == nil {
		panic("sessionRepoMock.SaveFunc: method is nil but sessionRepo.Save was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   *domain.ScanningSession
	}{Ctx: ctx, S: s}
	mock.lockSave.Lock()
	mock.calls.Save = append(mock.calls.Save, callInfo)
	mock.lockSave.Unlock()
	return mock.SaveFunc(ctx, s)
}

func (mock *sessionRepoMock) SaveCalls() []struct {
	Ctx context.Context
	S   *domain.ScanningSession
} {
	mock.lockSave.RLock()
	calls := mock.calls.Save
	mock.lockSave.RUnlock()
	return calls
}

func (mock *sessionRepoMock) List(ctx context.Context, filter domain.SessionFilter) ([]domain.ScanningSession, int, error) {
	if mock.ListFunc == nil {
		panic("sessionRepoMock.ListFunc: method is nil but sessionRepo.List was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Filter domain.SessionFilter
	}{Ctx: ctx, Filter: filter}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, filter)
}

func (mock *sessionRepoMock) ListCalls() []struct {
	Ctx    context.Context
	Filter domain.SessionFilter
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}
