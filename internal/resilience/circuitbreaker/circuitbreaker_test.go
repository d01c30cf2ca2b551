package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Name:             "test-circuit",
		MaxRequests:      2,
		Interval:         10 * time.Second,
		Timeout:          100 * time.Millisecond,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

func TestNew(t *testing.T) {
	cb := New(testConfig())

	require.NotNil(t, cb)
	assert.Equal(t, "test-circuit", cb.Name())
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.False(t, cb.IsOpen())
}

func TestCircuitBreaker_Execute(t *testing.T) {
	cb := New(testConfig())

	result, err := cb.Execute(func() (interface{}, error) {
		return "success", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "success", result)

	testErr := errors.New("test error")
	result, err = cb.Execute(func() (interface{}, error) {
		return nil, testErr
	})
	assert.Same(t, testErr, err)
	assert.Nil(t, result)
}

func TestRun_Typed(t *testing.T) {
	cb := New(testConfig())

	n, err := Run(cb, func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	b, err := Run(cb, func() ([]byte, error) { return nil, errors.New("boom") })
	assert.EqualError(t, err, "boom")
	assert.Nil(t, b)
}

func TestCircuitBreaker_TripsOpen(t *testing.T) {
	cb := New(testConfig())
	testErr := errors.New("test error")

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, testErr })
		assert.Same(t, testErr, err)
	}

	assert.True(t, cb.IsOpen())

	called := false
	_, err := Run(cb, func() (string, error) {
		called = true
		return "", nil
	})
	assert.False(t, called, "function should not be called when circuit is open")
	assert.ErrorIs(t, err, ErrOpen)
	assert.True(t, IsRejection(err))
	assert.False(t, IsRejection(testErr))
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	cb := New(testConfig())

	for i := 0; i < 6; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, errors.New("down") })
	}
	require.True(t, cb.IsOpen())

	time.Sleep(150 * time.Millisecond)

	for i := 0; i < 2; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
		require.NoError(t, err)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_MinRequests(t *testing.T) {
	cfg := testConfig()
	cfg.MinRequests = 10
	cb := New(cfg)

	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, errors.New("fail") })
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_IsSuccessfulIgnoresExpectedErrors(t *testing.T) {
	notFound := errors.New("not found")
	cfg := testConfig()
	cfg.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, notFound) }
	cb := New(cfg)

	for i := 0; i < 10; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, notFound })
		assert.ErrorIs(t, err, notFound)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestPresets(t *testing.T) {
	tests := []struct {
		cfg  Config
		name string
	}{
		{DefaultConfig("x"), "x"},
		{ClaudeAPIConfig(), "claude-api"},
		{OpenAIAPIConfig(), "openai-api"},
		{ImageFetchConfig(), "image-fetch"},
		{DatasetFetchConfig(), "dataset-fetch"},
		{StorageConfig(), "object-storage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.cfg.Name)
			assert.Positive(t, tt.cfg.MaxRequests)
			assert.Positive(t, tt.cfg.Timeout)
			assert.Positive(t, tt.cfg.MinRequests)
			assert.Greater(t, tt.cfg.FailureThreshold, 0.0)
			assert.LessOrEqual(t, tt.cfg.FailureThreshold, 1.0)
		})
	}
}
