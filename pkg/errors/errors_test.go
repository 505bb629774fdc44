package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			err:      New(CodeInvalidInput, "row offsets not sorted"),
			expected: "[INVALID_INPUT] row offsets not sorted",
		},
		{
			name:     "with underlying error",
			err:      Wrap(CodeDeviceFailure, "kernel launch failed", errors.New("queue closed")),
			expected: "[DEVICE_FAILURE] kernel launch failed: queue closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Wrap(CodeResourceExhaustion, "allocation failed", underlying)

	unwrapped := err.Unwrap()
	assert.Equal(t, underlying, unwrapped)
}

func TestAppError_Is(t *testing.T) {
	err1 := New(CodeInvalidInput, "error 1")
	err2 := New(CodeInvalidInput, "error 2")
	err3 := New(CodeUnsupported, "error 3")

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, CodeInvalidInput, GetErrorCode(InvalidInput("bad", nil)))
	assert.Equal(t, CodeNotInitialized, GetErrorCode(NotInitialized("frontier not built")))
	assert.Equal(t, CodeResourceExhaustion, GetErrorCode(ResourceExhaustion("oom", nil)))
	assert.Equal(t, CodeDeviceFailure, GetErrorCode(DeviceFailure("device gone", nil)))
	assert.Equal(t, CodeUnsupported, GetErrorCode(Unsupported("weighted TC")))
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsInvalidInput(ErrInvalidInput))
	assert.False(t, IsInvalidInput(ErrUnsupported))

	assert.True(t, IsNotInitialized(ErrNotInitialized))
	assert.True(t, IsResourceExhaustion(ErrResourceExhaustion))
	assert.True(t, IsDeviceFailure(ErrDeviceFailure))
	assert.True(t, IsUnsupported(ErrUnsupported))

	assert.False(t, IsInvalidInput(nil))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ErrResourceExhaustion))
	assert.True(t, IsFatal(ErrDeviceFailure))
	assert.False(t, IsFatal(ErrInvalidInput))
	assert.False(t, IsFatal(ErrNotInitialized))
	assert.False(t, IsFatal(ErrUnsupported))
	assert.False(t, IsFatal(errors.New("plain")))
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "app error",
			err:      New(CodeInvalidInput, "bad input"),
			expected: CodeInvalidInput,
		},
		{
			name:     "wrapped app error",
			err:      Wrap(CodeUnsupported, "unsupported", errors.New("inner")),
			expected: CodeUnsupported,
		},
		{
			name:     "standard error",
			err:      errors.New("standard error"),
			expected: CodeUnknown,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: CodeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorCode(tt.err))
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "app error",
			err:      New(CodeInvalidInput, "bad graph file"),
			expected: "bad graph file",
		},
		{
			name:     "standard error",
			err:      errors.New("standard error"),
			expected: "standard error",
		},
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorMessage(tt.err))
		})
	}
}
