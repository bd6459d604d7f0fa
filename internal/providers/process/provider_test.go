package process

import (
	"context"
	"testing"
	"time"

	"github.com/GriffinCanCode/deskshell/internal/domain/commands"
	"github.com/GriffinCanCode/deskshell/internal/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorder struct {
	codes    []int
	restarts int
}

func (r *recorder) RequestExit(code int) { r.codes = append(r.codes, code) }
func (r *recorder) RequestRestart()      { r.restarts++ }

func TestExitValidatesCode(t *testing.T) {
	rec := &recorder{}
	exit := Commands(rec)[0]

	_, err := exit.Execute(context.Background(), map[string]interface{}{"code": 2.0})
	require.NoError(t, err)
	_, err = exit.Execute(context.Background(), nil)
	require.NoError(t, err)

	for _, bad := range []interface{}{1.5, -1.0, 256.0, "3"} {
		_, err = exit.Execute(context.Background(), map[string]interface{}{"code": bad})
		assert.ErrorIs(t, err, commands.ErrInvalidArgument, "code %v", bad)
	}
	assert.Equal(t, []int{2, 0}, rec.codes)
}

func TestRestartEndsRunLoop(t *testing.T) {
	rt, err := shell.NewBuilder().WithLogger(zap.NewNop()).Provider(New()).Build()
	require.NoError(t, err)

	done := make(chan shell.ExitStatus, 1)
	go func() { done <- rt.Run(context.Background()) }()

	_, err = rt.Commands().Execute(context.Background(), "restart", nil)
	require.NoError(t, err)

	select {
	case status := <-done:
		assert.True(t, status.Restart)
	case <-time.After(2 * time.Second):
		t.Fatal("run loop did not stop")
	}
}
