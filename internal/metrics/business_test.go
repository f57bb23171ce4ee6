package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findSample returns the value of the first sample with name whose labels
// include every pair in labels.
func findSample(t *testing.T, samples []Sample, name string, labels map[string]string) (float64, bool) {
	t.Helper()
	for _, s := range samples {
		if s.Name != name {
			continue
		}
		matched := true
		for k, v := range labels {
			if s.Labels[k] != v {
				matched = false
				break
			}
		}
		if matched {
			return s.Value, true
		}
	}
	return 0, false
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusSuccess, StatusOf(nil))
	assert.Equal(t, StatusError, StatusOf(errors.New("boom")))
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)
	assert.NotNil(t, businessMetrics)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)
	assert.NotPanics(t, func() {
		noOpMetrics.RecordOperation(context.Background(), "alias", "alias_get", StatusSuccess)
		noOpMetrics.RecordDuration(context.Background(), "alias", "alias_get", time.Millisecond, StatusError)
	})
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "alias", "alias_get", StatusSuccess)
	bm.RecordOperation(ctx, "alias", "alias_get", StatusSuccess)
	bm.RecordOperation(ctx, "alias", "alias_get", StatusError)
	bm.RecordOperation(ctx, "alias", "alias_resolve", StatusSuccess)
	bm.RecordDuration(ctx, "alias", "alias_get", 5*time.Millisecond, StatusSuccess)
	bm.RecordDuration(ctx, "alias", "alias_get", 7*time.Millisecond, StatusSuccess)

	samples, err := provider.Snapshot()
	require.NoError(t, err)

	value, ok := findSample(t, samples, "integration_test_operations_total",
		map[string]string{"domain": "alias", "operation": "alias_get", "status": StatusSuccess})
	require.True(t, ok)
	assert.Equal(t, float64(2), value)

	value, ok = findSample(t, samples, "integration_test_operations_total",
		map[string]string{"operation": "alias_get", "status": StatusError})
	require.True(t, ok)
	assert.Equal(t, float64(1), value)

	value, ok = findSample(t, samples, "integration_test_operations_total",
		map[string]string{"operation": "alias_resolve"})
	require.True(t, ok)
	assert.Equal(t, float64(1), value)

	value, ok = findSample(t, samples, "integration_test_operation_duration_seconds_count",
		map[string]string{"operation": "alias_get", "status": StatusSuccess})
	require.True(t, ok)
	assert.Equal(t, float64(2), value)
}

func TestObserve(t *testing.T) {
	provider, err := NewProvider("observe_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "observe_test")
	require.NoError(t, err)

	ctx := context.Background()
	Observe(ctx, bm, DomainBootstrap, "master_setup", time.Now(), nil)
	Observe(ctx, bm, DomainBootstrap, "master_setup", time.Now(), errors.New("mismatch"))

	samples, err := provider.Snapshot()
	require.NoError(t, err)

	for _, status := range []string{StatusSuccess, StatusError} {
		value, ok := findSample(t, samples, "observe_test_operations_total",
			map[string]string{"domain": DomainBootstrap, "operation": "master_setup", "status": status})
		require.True(t, ok, status)
		assert.Equal(t, float64(1), value)

		value, ok = findSample(t, samples, "observe_test_operation_duration_seconds_count",
			map[string]string{"operation": "master_setup", "status": status})
		require.True(t, ok, status)
		assert.Equal(t, float64(1), value)
	}
}
