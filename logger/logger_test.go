package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
	}{
		{name: "JSON output mode", jsonOutput: true, verbosity: 0},
		{name: "Console output mode", jsonOutput: false, verbosity: 2},
		{name: "Console trace with caller", jsonOutput: false, verbosity: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			assert.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)

			Logger = zap.NewNop().Sugar()
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(2))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(9))
	assert.Equal(t, "Trace (-vvv)", LevelName(3))
	assert.True(t, ShouldLogTrace(3))
	assert.False(t, ShouldLogTrace(2))
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(0, OutputResults))
	assert.False(t, ShouldOutput(0, OutputPassSummaries))
	assert.True(t, ShouldOutput(1, OutputPassSummaries))
	assert.False(t, ShouldOutput(2, OutputRenameDecisions))
	assert.True(t, ShouldOutput(3, OutputRenameDecisions))
	assert.False(t, ShouldOutput(3, OutputCategory(999)))
	assert.Equal(t, "graph-dump", CategoryName(OutputGraphDump))
}

func TestLoggerFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	original := Logger
	Logger = zap.New(core).Sugar()
	defer func() { Logger = original }()

	ctx := WithBuildID(context.Background(), "b-1")
	ctx = WithComponent(ctx, "pipeline")
	LoggerFromContext(ctx).Infow("built")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "b-1", fields[FieldBuildID])
	assert.Equal(t, "pipeline", fields[FieldComponent])
}

func TestComponentLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	original := Logger
	Logger = zap.New(core).Sugar()
	defer func() { Logger = original }()

	ChildLogger(ComponentLogger("shape"), FieldPass, "diamond").Warnw("conflict")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "shape", entry.LoggerName)
	assert.Equal(t, "diamond", entry.ContextMap()[FieldPass])
}
