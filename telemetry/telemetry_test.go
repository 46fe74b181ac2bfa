package telemetry_test

import (
	"context"
	"testing"

	"github.com/danielhkuo/pollbot/telemetry"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), "pollbot-test", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address; nothing is exported because no spans are recorded.
	shutdown, err := telemetry.Setup(context.Background(), "pollbot-test", "http://192.0.2.1:4318")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
