package scanning

import (
	"context"
	"sync"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/internal/service/inventory"
)

var _ inventoryService = &inventoryServiceMock{}

type inventoryServiceMock struct {
	RegisterFunc   func(ctx context.Context, input inventory.RegisterInput) (*domain.InventoryItem, error)
	TransitionFunc func(ctx context.Context, input inventory.TransitionInput) (*inventory.TransitionResult, error)
	GetFunc        func(ctx context.Context, itemID string) (*domain.InventoryItem, error)

	calls struct {
		Register []struct {
			Ctx   context.Context
			Input inventory.RegisterInput
		}
		Transition []struct {
			Ctx   context.Context
			Input inventory.TransitionInput
		}
		Get []struct {
			Ctx    context.Context
			ItemID string
		}
	}
	lockRegister   sync.RWMutex
	lockTransition sync.RWMutex
	lockGet        sync.RWMutex
}

func (mock *inventoryServiceMock) Register(ctx context.Context, input inventory.RegisterInput) (*domain.InventoryItem, error) {
	if mock.RegisterFunc == nil {
		panic("inventoryServiceMock.RegisterFunc: method is nil but inventoryService.Register was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input inventory.RegisterInput
	}{Ctx: ctx, Input: input}
	mock.lockRegister.Lock()
	mock.calls.Register = append(mock.calls.Register, callInfo)
	mock.lockRegister.Unlock()
	return mock.RegisterFunc(ctx, input)
}

func (mock *inventoryServiceMock) RegisterCalls() []struct {
	Ctx   context.Context
	Input inventory.RegisterInput
} {
	mock.lockRegister.RLock()
	calls := mock.calls.Register
	mock.lockRegister.RUnlock()
	return calls
}

func (mock *inventoryServiceMock) Transition(ctx context.Context, input inventory.TransitionInput) (*inventory.TransitionResult, error) {
	if mock.TransitionFunc == nil {
		panic("inventoryServiceMock.TransitionFunc: method is nil but inventoryService.Transition was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input inventory.TransitionInput
	}{Ctx: ctx, Input: input}
	mock.lockTransition.Lock()
	mock.calls.Transition = append(mock.calls.Transition, callInfo)
	mock.lockTransition.Unlock()
	return mock.TransitionFunc(ctx, input)
}

func (mock *inventoryServiceMock) TransitionCalls() []struct {
	Ctx   context.Context
	Input inventory.TransitionInput
} {
	mock.lockTransition.RLock()
	calls := mock.calls.Transition
	mock.lockTransition.RUnlock()
	return calls
}

func (mock *inventoryServiceMock) Get(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	if mock.GetFunc == nil {
		panic("inventoryServiceMock.GetFunc: method is nil but inventoryService.Get was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ItemID string
	}{Ctx: ctx, ItemID: itemID}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, itemID)
}

func (mock *inventoryServiceMock) GetCalls() []struct {
	Ctx    context.Context
	ItemID string
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}
