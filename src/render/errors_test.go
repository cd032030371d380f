package render

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vulkan-go/vulkan"
)

func TestNewError(t *testing.T) {
	require.NoError(t, NewError(vulkan.Success))

	err := NewError(vulkan.ErrorDeviceLost)
	require.Error(t, err)
	require.Contains(t, err.Error(), "vulkan error")
	// annotated with the caller, not this helper
	require.Contains(t, err.Error(), "errors_test.go")
}

func TestIsError(t *testing.T) {
	require.False(t, IsError(vulkan.Success))
	require.True(t, IsError(vulkan.ErrorOutOfDate))
}

func TestCheckError(t *testing.T) {
	var err error
	func() {
		defer CheckError(&err)
		panic("swapchain gone")
	}()
	require.Error(t, err)
	require.Contains(t, err.Error(), "swapchain gone")

	err = nil
	func() {
		defer CheckError(&err)
	}()
	require.NoError(t, err)
}

func TestOrPanic(t *testing.T) {
	ran := false
	require.NotPanics(t, func() {
		OrPanic(nil, func() { ran = true })
	})
	require.False(t, ran)

	require.Panics(t, func() {
		OrPanic(NewError(vulkan.ErrorDeviceLost), func() { ran = true })
	})
	require.True(t, ran)
}
