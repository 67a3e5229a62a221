package rest

import (
	"context"
	"sync"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/internal/service/inventory"
	"github.com/google/uuid"
)

var _ inventoryService = &inventoryServiceMock{}

type inventoryServiceMock struct {
	RegisterFunc   func(ctx context.Context, input inventory.RegisterInput) (*domain.InventoryItem, error)
	TransitionFunc func(ctx context.Context, input inventory.TransitionInput) (*inventory.TransitionResult, error)
	GetFunc        func(ctx context.Context, itemID string) (*domain.InventoryItem, error)
	ListByPartFunc func(ctx context.Context, partID uuid.UUID) ([]domain.InventoryItem, error)
	HistoryFunc    func(ctx context.Context, itemID string) ([]domain.ItemEvent, error)

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
		ListByPart []struct {
			Ctx    context.Context
			PartID uuid.UUID
		}
		History []struct {
			Ctx    context.Context
			ItemID string
		}
	}
	lockRegister   sync.RWMutex
	lockTransition sync.RWMutex
	lockGet        sync.RWMutex
	lockListByPart sync.RWMutex
	lockHistory    sync.RWMutex
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

func (mock *inventoryServiceMock) ListByPart(ctx context.Context, partID uuid.UUID) ([]domain.InventoryItem, error) {
	if mock.ListByPartFunc == nil {
		panic("inventoryServiceMock.ListByPartFunc: method is nil but inventoryService.ListByPart was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		PartID uuid.UUID
	}{Ctx: ctx, PartID: partID}
	mock.lockListByPart.Lock()
	mock.calls.ListByPart = append(mock.calls.ListByPart, callInfo)
	mock.lockListByPart.Unlock()
	return mock.ListByPartFunc(ctx, partID)
}

func (mock *inventoryServiceMock) ListByPartCalls() []struct {
	Ctx    context.Context
	PartID uuid.UUID
} {
	mock.lockListByPart.RLock()
	calls := mock.calls.ListByPart
	mock.lockListByPart.RUnlock()
	return calls
}

func (mock *inventoryServiceMock) History(ctx context.Context, itemID string) ([]domain.ItemEvent, error) {
	if mock.HistoryFunc == nil {
		panic("inventoryServiceMock.HistoryFunc: method is nil but inventoryService.History was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ItemID string
	}{Ctx: ctx, ItemID: itemID}
	mock.lockHistory.Lock()
	mock.calls.History = append(mock.calls.History, callInfo)
	mock.lockHistory.Unlock()
	return mock.HistoryFunc(ctx, itemID)
}

func (mock *inventoryServiceMock) HistoryCalls() []struct {
	Ctx    context.Context
	ItemID string
} {
	mock.lockHistory.RLock()
	calls := mock.calls.History
	mock.lockHistory.RUnlock()
	return calls
}
