//go:build !windows

package jobpipe_test

import (
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhofe/jobpipe"
)

func TestRegistry_TrapSignals(t *testing.T) {
	r, statuses := newRegistry(t)
	require.True(t, statuses["extract"].Finished())

	stop := r.TrapSignals(syscall.SIGUSR1)
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

	require.Eventually(t, func() bool {
		return statuses["load"].Code() == jobpipe.CodeErrorSigterm
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, jobpipe.CodeErrorSigterm, statuses["transform"].Code())
	assert.Equal(t, jobpipe.CodeFinished, statuses["extract"].Code())
}

func TestRegistry_TrapSignalsOnce(t *testing.T) {
	r, statuses := newRegistry(t)

	stop := r.TrapSignals(syscall.SIGUSR2)
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR2))
	require.Eventually(t, func() bool {
		return statuses["load"].Code() == jobpipe.CodeErrorSigterm
	}, 2*time.Second, 10*time.Millisecond)

	require.True(t, statuses["load"].Retry())

	// keep the second signal from terminating the test binary
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR2)
	defer signal.Stop(sigCh)

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR2))
	select {
	case <-sigCh:
	case <-time.After(2 * time.Second):
		t.Fatal("signal not delivered")
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, jobpipe.CodeRetry, statuses["load"].Code())
}
