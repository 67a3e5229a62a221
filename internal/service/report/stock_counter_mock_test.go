package report

import (
	"context"
	"sync"
)

var _ stockCounter = &stockCounterMock{}

type stockCounterMock struct {
	CountInStockFunc func(ctx context.Context) (int, error)

	calls struct {
		CountInStock []struct {
			Ctx context.Context
		}
	}
	lockCountInStock sync.RWMutex
}

func (mock *stockCounterMock) CountInStock(ctx context.Context) (int, error) {
	if mock.CountInStockFunc == nil {
		panic("stockCounterMock.CountInStockFunc: method is nil but stockCounter.CountInStock was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockCountInStock.Lock()
	mock.calls.CountInStock = append(mock.calls.CountInStock, callInfo)
	mock.lockCountInStock.Unlock()
	return mock.CountInStockFunc(ctx)
}

func (mock *stockCounterMock) CountInStockCalls() []struct {
	Ctx context.Context
} {
	mock.lockCountInStock.RLock()
	calls := mock.calls.CountInStock
	mock.lockCountInStock.RUnlock()
	return calls
}
