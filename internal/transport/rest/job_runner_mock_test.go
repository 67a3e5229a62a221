package rest

import (
	"context"
	"sync"

	"github.com/aerotrack/partledger/internal/scheduler"
)

var _ jobRunner = &jobRunnerMock{}

type jobRunnerMock struct {
	JobsFunc    func() []scheduler.JobStatus
	TriggerFunc func(ctx context.Context, name string) error

	calls struct {
		Jobs []struct{}
		Trigger []struct {
			Ctx  context.Context
			Name string
		}
	}
	lockJobs    sync.RWMutex
	lockTrigger sync.RWMutex
}

func (mock *jobRunnerMock) Jobs() []scheduler.JobStatus {
	if mock.JobsFunc == nil {
		panic("jobRunnerMock.JobsFunc: method is nil but jobRunner.Jobs was just called")
	}
	callInfo := struct{}{}
	mock.lockJobs.Lock()
	mock.calls.Jobs = append(mock.calls.Jobs, callInfo)
	mock.lockJobs.Unlock()
	return mock.JobsFunc()
}

func (mock *jobRunnerMock) JobsCalls() []struct{} {
	mock.lockJobs.RLock()
	calls := mock.calls.Jobs
	mock.lockJobs.RUnlock()
	return calls
}

func (mock *jobRunnerMock) Trigger(ctx context.Context, name string) error {
	if mock.TriggerFunc == nil {
		panic("jobRunnerMock.TriggerFunc: method is nil but jobRunner.Trigger was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Name string
	}{Ctx: ctx, Name: name}
	mock.lockTrigger.Lock()
	mock.calls.Trigger = append(mock.calls.Trigger, callInfo)
	mock.lockTrigger.Unlock()
	return mock.TriggerFunc(ctx, name)
}

func (mock *jobRunnerMock) TriggerCalls() []struct {
	Ctx  context.Context
	Name string
} {
	mock.lockTrigger.RLock()
	calls := mock.calls.Trigger
	mock.lockTrigger.RUnlock()
	return calls
}
