package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/apierr"
	"github.com/hay-kot/stride/internal/core/config"
	"github.com/hay-kot/stride/internal/core/credential"
)

type fakeProbe struct {
	typesErr    error
	settingsErr error
}

func (f fakeProbe) Types(context.Context) ([]activity.ActivityType, error) {
	if f.typesErr != nil {
		return nil, f.typesErr
	}
	return []activity.ActivityType{{ID: 1, Name: "Running"}, {ID: 2, Name: "Cycling"}}, nil
}

func (f fakeProbe) Settings(context.Context) (activity.Settings, error) {
	return activity.Settings{}, f.settingsErr
}

func statuses(r Result) map[string]Status {
	out := make(map[string]Status, len(r.Items))
	for _, it := range r.Items {
		out[it.Label] = it.Status
	}
	return out
}

func TestConfigCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults without file", func(t *testing.T) {
		cfg, err := config.Load("", t.TempDir())
		require.NoError(t, err)

		r := NewConfigCheck(cfg, filepath.Join(t.TempDir(), "missing.yaml")).Run(ctx)
		got := statuses(r)
		assert.Equal(t, StatusWarn, got["Config file"])
		assert.Equal(t, StatusPass, got["Config valid"])
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("catalog:\n  page_size: 5\n"), 0o644))

		cfg, err := config.Load(path, t.TempDir())
		require.NoError(t, err)
		cfg.Catalog.PageSize = 500

		got := statuses(NewConfigCheck(cfg, path).Run(ctx))
		assert.Equal(t, StatusPass, got["Config file"])
		assert.Equal(t, StatusFail, got["catalog.page_size"])
	})

	t.Run("nil config", func(t *testing.T) {
		got := statuses(NewConfigCheck(nil, "").Run(ctx))
		assert.Equal(t, StatusFail, got["Config loaded"])
	})
}

func TestCredentialCheck(t *testing.T) {
	ctx := context.Background()

	got := statuses(NewCredentialCheck(credential.Static("tok"), "flag").Run(ctx))
	assert.Equal(t, StatusPass, got["Token"])

	got = statuses(NewCredentialCheck(credential.Static(""), "flag").Run(ctx))
	assert.Equal(t, StatusFail, got["Token"])
}

func TestAPICheck(t *testing.T) {
	tests := []struct {
		name      string
		probe     fakeProbe
		reachable Status
		auth      Status
	}{
		{"healthy", fakeProbe{}, StatusPass, StatusPass},
		{"no token", fakeProbe{settingsErr: credential.ErrMissing}, StatusPass, StatusWarn},
		{"token rejected", fakeProbe{settingsErr: &apierr.Error{Status: 401}}, StatusPass, StatusFail},
		{"server error", fakeProbe{settingsErr: &apierr.Error{Status: 500}}, StatusPass, StatusFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statuses(NewAPICheck(tt.probe, "http://api").Run(context.Background()))
			assert.Equal(t, tt.reachable, got["Reachable"])
			assert.Equal(t, tt.auth, got["Authenticated"])
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		r := NewAPICheck(fakeProbe{typesErr: errors.New("connection refused")}, "http://api").Run(context.Background())
		require.Len(t, r.Items, 1)
		assert.Equal(t, StatusFail, r.Items[0].Status)
	})
}

type slowCheck struct{}

func (slowCheck) Name() string { return "slow" }

func (slowCheck) Run(ctx context.Context) Result {
	<-ctx.Done()
	return Result{Name: "slow", Items: []CheckItem{fail("Deadline", ctx.Err().Error())}}
}

func TestRunAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := RunAll(ctx, []Check{slowCheck{}})
	require.Len(t, results, 1)
	assert.Equal(t, StatusFail, results[0].Items[0].Status)
}

func TestRunAllAndSummary(t *testing.T) {
	checks := []Check{
		NewCredentialCheck(credential.Static("tok"), "flag"),
		NewAPICheck(fakeProbe{settingsErr: credential.ErrMissing}, "http://api"),
	}

	results := RunAll(context.Background(), checks)
	require.Len(t, results, 2)
	assert.Equal(t, "Credentials", results[0].Name)
	assert.Equal(t, "API", results[1].Name)

	text, err := results[0].Items[0].Status.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "pass", string(text))

	passed, warned, failed := Summary(results)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 0, failed)
}
