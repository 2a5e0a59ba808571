package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserLocks_DifferentUsersDoNotBlock(t *testing.T) {
	l := newUserLocks()
	unlockA := l.lock(1)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := l.lock(2)
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for another user blocked")
	}
}

func TestUserLocks_SameUserWaits(t *testing.T) {
	l := newUserLocks()
	unlock := l.lock(1)

	acquired := make(chan struct{})
	go func() {
		u := l.lock(1)
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first is held")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}

	assert.Eventually(t, func() bool { return l.size() == 0 }, time.Second, 5*time.Millisecond)
}
