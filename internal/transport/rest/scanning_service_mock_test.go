package rest

import (
	"context"
	"sync"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/internal/service/scanning"
	"github.com/google/uuid"
)

var _ scanningService = &scanningServiceMock{}

type scanningServiceMock struct {
	CreateSessionFunc    func(ctx context.Context, input scanning.CreateSessionInput) (*domain.ScanningSession, error)
	GetSessionFunc       func(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error)
	ListSessionsFunc     func(ctx context.Context, input scanning.ListSessionsInput) ([]domain.ScanningSession, int, error)
	AddScannedItemFunc   func(ctx context.Context, sessionID uuid.UUID, payload scanning.ScanPayload) (*scanning.ScanResult, error)
	CompleteSessionFunc  func(ctx context.Context, id uuid.UUID, notes string) (*domain.ScanningSession, error)
	CancelSessionFunc    func(ctx context.Context, id uuid.UUID, reason string) (*domain.ScanningSession, error)
	AuthorizeSessionFunc func(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error)

	calls struct {
		CreateSession []struct {
			Ctx   context.Context
			Input scanning.CreateSessionInput
		}
		GetSession []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
		ListSessions []struct {
			Ctx   context.Context
			Input scanning.ListSessionsInput
		}
		AddScannedItem []struct {
			Ctx       context.Context
			SessionID uuid.UUID
			Payload   scanning.ScanPayload
		}
		CompleteSession []struct {
			Ctx   context.Context
			Id    uuid.UUID
			Notes string
		}
		CancelSession []struct {
			Ctx    context.Context
			Id     uuid.UUID
			Reason string
		}
		AuthorizeSession []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
	}
	lockCreateSession    sync.RWMutex
	lockGetSession       sync.RWMutex
	lockListSessions     sync.RWMutex
	lockAddScannedItem   sync.RWMutex
	lockCompleteSession  sync.RWMutex
	lockCancelSession    sync.RWMutex
	lockAuthorizeSession sync.RWMutex
}

func (mock *scanningServiceMock) CreateSession(ctx context.Context, input scanning.CreateSessionInput) (*domain.ScanningSession, error) {
	if mock.CreateSessionFunc == nil {
		panic("scanningServiceMock.CreateSessionFunc: method is nil but scanningService.CreateSession was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input scanning.CreateSessionInput
	}{Ctx: ctx, Input: input}
	mock.lockCreateSession.Lock()
	mock.calls.CreateSession = append(mock.calls.CreateSession, callInfo)
	mock.lockCreateSession.Unlock()
	return mock.CreateSessionFunc(ctx, input)
}

func (mock *scanningServiceMock) CreateSessionCalls() []struct {
	Ctx   context.Context
	Input scanning.CreateSessionInput
} {
	mock.lockCreateSession.RLock()
	calls := mock.calls.CreateSession
	mock.lockCreateSession.RUnlock()
	return calls
}

func (mock *scanningServiceMock) GetSession(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error) {
	if mock.GetSessionFunc == nil {
		panic("scanningServiceMock.GetSessionFunc: method is nil but scanningService.GetSession was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{Ctx: ctx, Id: id}
	mock.lockGetSession.Lock()
	mock.calls.GetSession = append(mock.calls.GetSession, callInfo)
	mock.lockGetSession.Unlock()
	return mock.GetSessionFunc(ctx, id)
}

func (mock *scanningServiceMock) GetSessionCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
} {
	mock.lockGetSession.RLock()
	calls := mock.calls.GetSession
	mock.lockGetSession.RUnlock()
	return calls
}

func (mock *scanningServiceMock) ListSessions(ctx context.Context, input scanning.ListSessionsInput) ([]domain.ScanningSession, int, error) {
	if mock.ListSessionsFunc == nil {
		panic("scanningServiceMock.ListSessionsFunc: method is nil but scanningService.ListSessions was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input scanning.ListSessionsInput
	}{Ctx: ctx, Input: input}
	mock.lockListSessions.Lock()
	mock.calls.ListSessions = append(mock.calls.ListSessions, callInfo)
	mock.lockListSessions.Unlock()
	return mock.ListSessionsFunc(ctx, input)
}

func (mock *scanningServiceMock) ListSessionsCalls() []struct {
	Ctx   context.Context
	Input scanning.ListSessionsInput
} {
	mock.lockListSessions.RLock()
	calls := mock.calls.ListSessions
	mock.lockListSessions.RUnlock()
	return calls
}

func (mock *scanningServiceMock) AddScannedItem(ctx context.Context, sessionID uuid.UUID, payload scanning.ScanPayload) (*scanning.ScanResult, error) {
	if mock.AddScannedItemFunc == nil {
		panic("scanningServiceMock.AddScannedItemFunc: method is nil but scanningService.AddScannedItem was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		SessionID uuid.UUID
		Payload   scanning.ScanPayload
	}{Ctx: ctx, SessionID: sessionID, Payload: payload}
	mock.lockAddScannedItem.Lock()
	mock.calls.AddScannedItem = append(mock.calls.AddScannedItem, callInfo)
	mock.lockAddScannedItem.Unlock()
	return mock.AddScannedItemFunc(ctx, sessionID, payload)
}

func (mock *scanningServiceMock) AddScannedItemCalls() []struct {
	Ctx       context.Context
	SessionID uuid.UUID
	Payload   scanning.ScanPayload
} {
	mock.lockAddScannedItem.RLock()
	calls := mock.calls.AddScannedItem
	mock.lockAddScannedItem.RUnlock()
	return calls
}

func (mock *scanningServiceMock) CompleteSession(ctx context.Context, id uuid.UUID, notes string) (*domain.ScanningSession, error) {
	if mock.CompleteSessionFunc == nil {
		panic("scanningServiceMock.CompleteSessionFunc: method is nil but scanningService.CompleteSession was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Id    uuid.UUID
		Notes string
	}{Ctx: ctx, Id: id, Notes: notes}
	mock.lockCompleteSession.Lock()
	mock.calls.CompleteSession = append(mock.calls.CompleteSession, callInfo)
	mock.lockCompleteSession.Unlock()
	return mock.CompleteSessionFunc(ctx, id, notes)
}

func (mock *scanningServiceMock) CompleteSessionCalls() []struct {
	Ctx   context.Context
	Id    uuid.UUID
	Notes string
} {
	mock.lockCompleteSession.RLock()
	calls := mock.calls.CompleteSession
	mock.lockCompleteSession.RUnlock()
	return calls
}

func (mock *scanningServiceMock) CancelSession(ctx context.Context, id uuid.UUID, reason string) (*domain.ScanningSession, error) {
	if mock.CancelSessionFunc == nil {
		panic("scanningServiceMock.CancelSessionFunc: method is nil but scanningService.CancelSession was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Id     uuid.UUID
		Reason string
	}{Ctx: ctx, Id: id, Reason: reason}
	mock.lockCancelSession.Lock()
	mock.calls.CancelSession = append(mock.calls.CancelSession, callInfo)
	mock.lockCancelSession.Unlock()
	return mock.CancelSessionFunc(ctx, id, reason)
}

func (mock *scanningServiceMock) CancelSessionCalls() []struct {
	Ctx    context.Context
	Id     uuid.UUID
	Reason string
} {
	mock.lockCancelSession.RLock()
	calls := mock.calls.CancelSession
	mock.lockCancelSession.RUnlock()
	return calls
}

func (mock *scanningServiceMock) AuthorizeSession(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error) {
	if mock.AuthorizeSessionFunc == nil {
		panic("scanningServiceMock.AuthorizeSessionFunc: method is nil but scanningService.AuthorizeSession was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{Ctx: ctx, Id: id}
	mock.lockAuthorizeSession.Lock()
	mock.calls.AuthorizeSession = append(mock.calls.AuthorizeSession, callInfo)
	mock.lockAuthorizeSession.Unlock()
	return mock.AuthorizeSessionFunc(ctx, id)
}

func (mock *scanningServiceMock) AuthorizeSessionCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
} {
	mock.lockAuthorizeSession.RLock()
	calls := mock.calls.AuthorizeSession
	mock.lockAuthorizeSession.RUnlock()
	return calls
}
