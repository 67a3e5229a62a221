package scanning

import (
	"context"
	"sync"

	"github.com/aerotrack/partledger/internal/domain"
)

var _ partCatalog = &partCatalogMock{}

type partCatalogMock struct {
	FindPartByNumberFunc func(ctx context.Context, number string) (*domain.Part, error)

	calls struct {
		FindPartByNumber []struct {
			Ctx    context.Context
			Number string
		}
	}
	lockFindPartByNumber sync.RWMutex
}

func (mock *partCatalogMock) FindPartByNumber(ctx context.Context, number string) (*domain.Part, error) {
	if mock.FindPartByNumberFunc == nil {
		panic("partCatalogMock.FindPartByNumberFunc: method is nil but partCatalog.FindPartByNumber was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Number string
	}{Ctx: ctx, Number: number}
	mock.lockFindPartByNumber.Lock()
	mock.calls.FindPartByNumber = append(mock.calls.FindPartByNumber, callInfo)
	mock.lockFindPartByNumber.Unlock()
	return mock.FindPartByNumberFunc(ctx, number)
}

func (mock *partCatalogMock) FindPartByNumberCalls() []struct {
	Ctx    context.Context
	Number string
} {
	mock.lockFindPartByNumber.RLock()
	calls := mock.calls.FindPartByNumber
	mock.lockFindPartByNumber.RUnlock()
	return calls
}
