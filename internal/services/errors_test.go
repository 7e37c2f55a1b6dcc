package services_test

import (
	"errors"
	"strings"
	"testing"

	"songsync/internal/services"
)

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := services.Wrap(services.ErrNetwork, "metadataapi", "range query", "request failed", cause)
	if !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected network marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	if !strings.Contains(err.Error(), "metadataapi: range query: request failed") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapDefaultsDetail(t *testing.T) {
	err := services.Wrap(services.ErrProtocol, " ", "", "", nil)
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected default detail, got %q", err.Error())
	}
}

func TestKindClassifiesMarkers(t *testing.T) {
	cases := map[string]error{
		"protocol":      services.Wrap(services.ErrProtocol, "x", "y", "", nil),
		"network":       services.Wrap(services.ErrNetwork, "x", "y", "", nil),
		"rejected":      services.Wrap(services.ErrRejected, "x", "y", "", nil),
		"validation":    services.Wrap(services.ErrValidation, "x", "y", "", nil),
		"configuration": services.Wrap(services.ErrConfiguration, "x", "y", "", nil),
		"not_found":     services.Wrap(services.ErrNotFound, "x", "y", "", nil),
		"unknown":       errors.New("plain"),
		"":              nil,
	}
	for want, err := range cases {
		if got := services.Kind(err); got != want {
			t.Fatalf("Kind(%v) = %q, want %q", err, got, want)
		}
	}
}
