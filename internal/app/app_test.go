package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/mock/gomock"

	"github.com/ska-mid/dish-manager-core/internal/app/bus"
	"github.com/ska-mid/dish-manager-core/internal/app/cli"
	"github.com/ska-mid/dish-manager-core/internal/config/logger"
)

// mockLifecycle implements fx.Lifecycle for testing
type mockLifecycle struct {
	onAppend func(fx.Hook)
}

func (m *mockLifecycle) Append(hook fx.Hook) {
	if m.onAppend != nil {
		m.onAppend(hook)
	}
}

// mockShutdowner implements fx.Shutdowner for testing
type mockShutdowner struct {
	called bool
}

func (m *mockShutdowner) Shutdown(...fx.ShutdownOption) error {
	m.called = true
	return nil
}

func Test_NewApp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCLI := cli.NewMockCLI(ctrl)

	application := NewApp(mockCLI, bus.NoOp(), logger.Noop(), &mockShutdowner{})

	assert.NotNil(t, application)
	assert.Equal(t, mockCLI, application.cli)
}

func Test_execute(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		before   func(mockCLI *cli.MockCLI)
		expected int
	}{
		{
			name: "Success",
			args: []string{"version"},
			before: func(mockCLI *cli.MockCLI) {
				mockCLI.EXPECT().Run([]string{"version"}).Return(0, nil)
			},
			expected: 0,
		},
		{
			name: "Failure",
			args: []string{"run"},
			before: func(mockCLI *cli.MockCLI) {
				mockCLI.EXPECT().Run([]string{"run"}).Return(1, errors.New("tui failed"))
			},
			expected: 1,
		},
		{
			name: "With no arguments",
			args: []string{},
			before: func(mockCLI *cli.MockCLI) {
				mockCLI.EXPECT().Run([]string{}).Return(0, nil)
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCLI := cli.NewMockCLI(ctrl)
			tt.before(mockCLI)

			app := &App{
				cli: mockCLI,
				log: logger.Noop(),
			}

			assert.Equal(t, tt.expected, app.execute(tt.args))
		})
	}
}

func Test_Register_AppendsLifecycleHooks(t *testing.T) {
	var hooks []fx.Hook

	lc := &mockLifecycle{onAppend: func(h fx.Hook) { hooks = append(hooks, h) }}

	application := &App{
		event: bus.NoOp(),
		log:   logger.Noop(),
	}

	Register(lc, application)

	assert.Len(t, hooks, 1)
	assert.NotNil(t, hooks[0].OnStart)
	assert.NotNil(t, hooks[0].OnStop)

	assert.NoError(t, hooks[0].OnStop(t.Context()))
}
