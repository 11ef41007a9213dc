// Written in mockgen's output format for the Catalog interface in
// github.com/aussiebroadwan/bndylive/internal/live/service. `go generate ./internal/mocks`
// replaces it with the generated version.

package mocks

import (
	context "context"
	reflect "reflect"

	domain "github.com/aussiebroadwan/bndylive/internal/live/domain"
	gomock "go.uber.org/mock/gomock"
)

// MockCatalog is a mock of Catalog interface.
type MockCatalog struct {
	ctrl     *gomock.Controller
	recorder *MockCatalogMockRecorder
	isgomock struct{}
}

// MockCatalogMockRecorder is the mock recorder for MockCatalog.
type MockCatalogMockRecorder struct {
	mock *MockCatalog
}

// NewMockCatalog creates a new mock instance.
func NewMockCatalog(ctrl *gomock.Controller) *MockCatalog {
	mock := &MockCatalog{ctrl: ctrl}
	mock.recorder = &MockCatalogMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCatalog) EXPECT() *MockCatalogMockRecorder {
	return m.recorder
}

// CheckConflicts mocks base method.
func (m *MockCatalog) CheckConflicts(ctx context.Context, e domain.Event) (domain.ConflictVerdict, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CheckConflicts", ctx, e)
	ret0, _ := ret[0].(domain.ConflictVerdict)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CheckConflicts indicates an expected call of CheckConflicts.
func (mr *MockCatalogMockRecorder) CheckConflicts(ctx, e any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CheckConflicts", reflect.TypeOf((*MockCatalog)(nil).CheckConflicts), ctx, e)
}

// CreateEvent mocks base method.
func (m *MockCatalog) CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateEvent", ctx, e)
	ret0, _ := ret[0].(domain.Event)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CreateEvent indicates an expected call of CreateEvent.
func (mr *MockCatalogMockRecorder) CreateEvent(ctx, e any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateEvent", reflect.TypeOf((*MockCatalog)(nil).CreateEvent), ctx, e)
}

// CreateVenue mocks base method.
func (m *MockCatalog) CreateVenue(ctx context.Context, v domain.Venue) (domain.Venue, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateVenue", ctx, v)
	ret0, _ := ret[0].(domain.Venue)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CreateVenue indicates an expected call of CreateVenue.
func (mr *MockCatalogMockRecorder) CreateVenue(ctx, v any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateVenue", reflect.TypeOf((*MockCatalog)(nil).CreateVenue), ctx, v)
}
