package scanning

import (
	"context"
	"sync"

	"github.com/aerotrack/partledger/internal/domain"
)

var _ eventClaimer = &eventClaimerMock{}

type eventClaimerMock struct {
	ClaimFunc func(ctx context.Context, event domain.ScanEvent) (bool, error)

	calls struct {
		Claim []struct {
			Ctx   context.Context
			Event domain.ScanEvent
		}
	}
	lockClaim sync.RWMutex
}

func (mock *eventClaimerMock) Claim(ctx context.Context, event domain.ScanEvent) (bool, error) {
	if mock.ClaimFunc == nil {
		panic("eventClaimerMock.ClaimFunc: method is nil but eventClaimer.Claim was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Event domain.ScanEvent
	}{Ctx: ctx, Event: event}
	mock.lockClaim.Lock()
	mock.calls.Claim = append(mock.calls.Claim, callInfo)
	mock.lockClaim.Unlock()
	return mock.ClaimFunc(ctx, event)
}

func (mock *eventClaimerMock) ClaimCalls() []struct {
	Ctx   context.Context
	Event domain.ScanEvent
} {
	mock.lockClaim.RLock()
	calls := mock.calls.Claim
	mock.lockClaim.RUnlock()
	return calls
}
