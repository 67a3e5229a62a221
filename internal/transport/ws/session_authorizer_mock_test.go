package ws

import (
	"context"
	"sync"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/google/uuid"
)

var _ sessionAuthorizer = &sessionAuthorizerMock{}

type sessionAuthorizerMock struct {
	AuthorizeSessionFunc func(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error)

	calls struct {
		AuthorizeSession []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
	}
	lockAuthorizeSession sync.RWMutex
}

func (mock *sessionAuthorizerMock) AuthorizeSession(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error) {
	if mock.AuthorizeSessionFunc == nil {
		panic("sessionAuthorizerMock.AuthorizeSessionFunc: method is nil but sessionAuthorizer.AuthorizeSession was just called")
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

func (mock *sessionAuthorizerMock) AuthorizeSessionCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
} {
	mock.lockAuthorizeSession.RLock()
	calls := mock.calls.AuthorizeSession
	mock.lockAuthorizeSession.RUnlock()
	return calls
}
