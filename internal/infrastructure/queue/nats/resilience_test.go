package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

func TestClassifyNATSError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
		record    bool
	}{
		{"nil", nil, false, false},
		{"cancelled", context.Canceled, false, false},
		{"no servers", nats.ErrNoServers, true, true},
		{"timeout", nats.ErrTimeout, true, true},
		{"closed", nats.ErrConnectionClosed, true, true},
		{"other", errors.New("bad subject"), false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict := classifyNATSError(tc.err)
			if verdict.Retryable != tc.retryable || verdict.RecordFailure != tc.record {
				t.Errorf("verdict = %+v", verdict)
			}
		})
	}
}

func TestWrapTemporaryIfNeeded(t *testing.T) {
	if err := wrapTemporaryIfNeeded(nil); err != nil {
		t.Fatalf("nil should pass through, got %v", err)
	}

	wrapped := wrapTemporaryIfNeeded(nats.ErrTimeout)
	if !domain.IsKind(wrapped, domain.ErrTemporary) {
		t.Errorf("timeout should become temporary, got %v", wrapped)
	}

	permanent := errors.New("bad subject")
	if got := wrapTemporaryIfNeeded(permanent); !errors.Is(got, permanent) || domain.IsKind(got, domain.ErrTemporary) {
		t.Errorf("permanent error changed: %v", got)
	}

	already := domain.WrapError(domain.ErrTemporary, "publish", errors.New("x"))
	if got := wrapTemporaryIfNeeded(already); got != already {
		t.Errorf("temporary error rewrapped: %v", got)
	}
}
