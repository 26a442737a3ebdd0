package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoRunsFunction(t *testing.T) {
	done := make(chan struct{})
	Go(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}
}

func TestHandleCrashIgnoresNil(t *testing.T) {
	called := false
	SetCrashCleanup(func() { called = true })
	t.Cleanup(func() { SetCrashCleanup(nil) })

	assert.NotPanics(t, func() { HandleCrash(nil) })
	assert.False(t, called)
}
