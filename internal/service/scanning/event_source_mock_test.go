package scanning

import (
	"sync"

	"github.com/aerotrack/partledger/internal/broadcast"
)

var _ eventSource = &eventSourceMock{}

type eventSourceMock struct {
	SubscribeFunc func(filter broadcast.Filter) *broadcast.Subscription

	calls struct {
		Subscribe []struct {
			Filter broadcast.Filter
		}
	}
	lockSubscribe sync.RWMutex
}

func (mock *eventSourceMock) Subscribe(filter broadcast.Filter) *broadcast.Subscription {
	if mock.SubscribeFunc == nil {
		panic("eventSourceMock.SubscribeFunc: method is nil but eventSource.Subscribe was just called")
	}
	callInfo := struct {
		Filter broadcast.Filter
	}{Filter: filter}
	mock.lockSubscribe.Lock()
	mock.calls.Subscribe = append(mock.calls.Subscribe, callInfo)
	mock.lockSubscribe.Unlock()
	return mock.SubscribeFunc(filter)
}

func (mock *eventSourceMock) SubscribeCalls() []struct {
	Filter broadcast.Filter
} {
	mock.lockSubscribe.RLock()
	calls := mock.calls.Subscribe
	mock.lockSubscribe.RUnlock()
	return calls
}
