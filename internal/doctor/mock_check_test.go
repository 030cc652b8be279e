package doctor

import (
	"context"

	mock "github.com/stretchr/testify/mock"
)

// MockCheck is a mock implementation of Check.
type MockCheck struct {
	mock.Mock
}

type MockCheck_Expecter struct {
	mock *mock.Mock
}

func (_m *MockCheck) EXPECT() *MockCheck_Expecter {
	return &MockCheck_Expecter{mock: &_m.Mock}
}

// NewMockCheck creates a new instance of MockCheck. It also registers a
// testing interface on the mock and a cleanup function to assert the
// mocks expectations.
func NewMockCheck(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCheck {
	m := &MockCheck{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Category provides a mock function for the type MockCheck
func (_m *MockCheck) Category() string {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Category")
	}

	var r0 string
	if rf, ok := ret.Get(0).(func() string); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(string)
	}

	return r0
}

// MockCheck_Category_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Category'
type MockCheck_Category_Call struct {
	*mock.Call
}

// Category is a helper method to define mock.On call
func (_e *MockCheck_Expecter) Category() *MockCheck_Category_Call {
	return &MockCheck_Category_Call{Call: _e.mock.On("Category")}
}

func (_c *MockCheck_Category_Call) Return(_a0 string) *MockCheck_Category_Call {
	_c.Call.Return(_a0)
	return _c
}

// Name provides a mock function for the type MockCheck
func (_m *MockCheck) Name() string {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Name")
	}

	var r0 string
	if rf, ok := ret.Get(0).(func() string); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(string)
	}

	return r0
}

// MockCheck_Name_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Name'
type MockCheck_Name_Call struct {
	*mock.Call
}

// Name is a helper method to define mock.On call
func (_e *MockCheck_Expecter) Name() *MockCheck_Name_Call {
	return &MockCheck_Name_Call{Call: _e.mock.On("Name")}
}

func (_c *MockCheck_Name_Call) Return(_a0 string) *MockCheck_Name_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockCheck_Name_Call) Maybe() *MockCheck_Name_Call {
	_c.Call.Maybe()
	return _c
}

// Run provides a mock function with given fields: ctx
func (_m *MockCheck) Run(ctx context.Context) *CheckResult {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Run")
	}

	var r0 *CheckResult
	if rf, ok := ret.Get(0).(func(context.Context) *CheckResult); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*CheckResult)
	}

	return r0
}

// MockCheck_Run_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Run'
type MockCheck_Run_Call struct {
	*mock.Call
}

// Run is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockCheck_Expecter) Run(ctx interface{}) *MockCheck_Run_Call {
	return &MockCheck_Run_Call{Call: _e.mock.On("Run", ctx)}
}

func (_c *MockCheck_Run_Call) Return(_a0 *CheckResult) *MockCheck_Run_Call {
	_c.Call.Return(_a0)
	return _c
}
