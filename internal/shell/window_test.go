package shell

import (
	"testing"

	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowVisibilityAndFocus(t *testing.T) {
	rt, err := NewBuilder().
		Window(WindowConfig{Label: "main"}).
		Window(WindowConfig{Label: "other", Visible: true}).
		Build()
	require.NoError(t, err)

	main, _ := rt.Lookup("main")
	other, _ := rt.Lookup("other")

	assert.Error(t, main.SetFocus(), "hidden windows cannot take focus")

	require.NoError(t, other.SetFocus())
	require.NoError(t, main.Show())
	require.NoError(t, main.SetFocus())

	assert.True(t, main.IsFocused())
	assert.False(t, other.IsFocused())

	require.NoError(t, main.Hide())
	assert.False(t, main.IsVisible())
	assert.False(t, main.IsFocused())
}

func TestWindowGeometry(t *testing.T) {
	w, err := newWindow(WindowConfig{Label: "main", Title: "Desk", Width: 800, Height: 600, X: 5, Y: 6})
	require.NoError(t, err)

	assert.Equal(t, "Desk", w.Title())
	assert.Equal(t, types.Position{X: 5, Y: 6}, w.Position())
	assert.Equal(t, types.Size{Width: 800, Height: 600}, w.Size())

	w.SetPosition(types.Position{X: 1, Y: 2})
	require.NoError(t, w.SetSize(types.Size{Width: 100, Height: 50}))
	assert.Error(t, w.SetSize(types.Size{Width: -1}))

	snap := w.Snapshot()
	assert.Equal(t, "main", snap.Label)
	assert.Equal(t, types.Position{X: 1, Y: 2}, snap.Position)
	assert.Equal(t, types.Size{Width: 100, Height: 50}, snap.Size)

	_, err = newWindow(WindowConfig{Label: "x", Width: -5})
	assert.Error(t, err)
}

func TestWindowRestore(t *testing.T) {
	w, err := newWindow(WindowConfig{Label: "main", Width: 800, Height: 600})
	require.NoError(t, err)

	w.Restore(types.WindowSnapshot{
		Label:    "main",
		Visible:  true,
		Position: types.Position{X: 40, Y: 50},
		Size:     types.Size{Width: 0, Height: 0},
	})

	assert.True(t, w.IsVisible())
	assert.Equal(t, types.Position{X: 40, Y: 50}, w.Position())
	assert.Equal(t, types.Size{Width: 800, Height: 600}, w.Size(), "zero size keeps the configured one")
}
