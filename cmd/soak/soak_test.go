package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/plus3/screenspace/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Scene.AssetRoot = t.TempDir()
	cfg.Soak.Duration = 50 * time.Millisecond
	cfg.Soak.Hold = 3
	return cfg
}

func TestRunRandom(t *testing.T) {
	report, err := run(context.Background(), testConfig(t), "", false, zap.NewNop())
	require.NoError(t, err)

	assert.True(t, report.Passed(), "first violation: %s", report.Checks.FirstViolation)
	assert.Positive(t, report.Checks.Frames)
	assert.Positive(t, report.Checks.MovingFrames)
	assert.Equal(t, report.Checks.Frames, report.Checks.MovingFrames+report.Checks.IdleFrames)
	assert.Equal(t, 4, report.Scheduler.SystemCount)

	var out bytes.Buffer
	require.NoError(t, report.Generate(&out))
	assert.Contains(t, out.String(), "**Status:** PASS")
	assert.Contains(t, out.String(), "InvariantSystem")
}

func TestRunScriptRelative(t *testing.T) {
	cfg := testConfig(t)
	cfg.Movement.Relative = true
	cfg.Movement.Speed = 2

	report, err := run(context.Background(), cfg, "w+d*5,a+d*5", false, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, report.Passed(), "first violation: %s", report.Checks.FirstViolation)
	assert.Positive(t, report.Checks.IdleFrames)
	assert.Contains(t, report.Source, "10 frames")
}

func TestRunBadScript(t *testing.T) {
	_, err := run(context.Background(), testConfig(t), "w*x", false, zap.NewNop())
	assert.Error(t, err)
}

func TestReportFailure(t *testing.T) {
	r := &Report{Checks: CheckResults{Violations: 2, FirstViolation: "distance mismatch", MaxError: 0.5}}
	assert.False(t, r.Passed())
}
