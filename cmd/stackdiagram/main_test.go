package main

import (
	"context"
	"fmt"
	"testing"

	derrors "github.com/matzehuels/stackdiagram/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"interrupted", fmt.Errorf("render: %w", context.Canceled), exitInterrupted},
		{"unknown ref", derrors.New(derrors.ErrCodeReference, "edge 0: unknown ref %q", "db"), exitBadManifest},
		{"scope", derrors.New(derrors.ErrCodeScope, "cluster still open"), exitBadManifest},
		{"manifest", derrors.New(derrors.ErrCodeInvalidManifest, "manifest has no name"), exitBadManifest},
		{"rejected graph", derrors.New(derrors.ErrCodeMalformedGraph, "syntax error"), exitBadManifest},
		{"no graphviz", derrors.New(derrors.ErrCodeBackendMissing, "dot not found"), exitBackend},
		{"write", derrors.New(derrors.ErrCodeWriteFailure, "disk full"), exitFailure},
		{"plain", fmt.Errorf("boom"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
