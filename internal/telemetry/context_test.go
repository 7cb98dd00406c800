package telemetry_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/petasbytes/stepagent/internal/telemetry"
)

func TestTurnID_RoundTrip(t *testing.T) {
	ctx := telemetry.WithTurnID(context.Background(), "turn-123")
	got, ok := telemetry.TurnIDFromContext(ctx)
	if !ok || got != "turn-123" {
		t.Fatalf("want turn-123,true; got %q,%v", got, ok)
	}
}

func TestTurnID_EmptyIDRejectedOnRead(t *testing.T) {
	ctx := telemetry.WithTurnID(context.Background(), "")
	if got, ok := telemetry.TurnIDFromContext(ctx); ok || got != "" {
		t.Fatalf("want empty,false; got %q,%v", got, ok)
	}
}

func TestTurnID_MissingValue(t *testing.T) {
	if got, ok := telemetry.TurnIDFromContext(context.Background()); ok || got != "" {
		t.Fatalf("want empty,false; got %q,%v", got, ok)
	}
}

func TestTurnID_LastWriteWins(t *testing.T) {
	ctx := telemetry.WithTurnID(telemetry.WithTurnID(context.Background(), "t1"), "t2")
	if got, _ := telemetry.TurnIDFromContext(ctx); got != "t2" {
		t.Fatalf("want t2; got %q", got)
	}
}

func TestTurnID_ParentCancellationPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	child := telemetry.WithTurnID(parent, "t1")
	cancel()

	select {
	case <-child.Done():
	case <-time.After(100 * time.Millisecond):
		t.Fatal("child context did not observe parent cancellation")
	}
}

func TestEnsureTurnID_KeepsExisting(t *testing.T) {
	ctx := telemetry.WithTurnID(context.Background(), "turn-keep")
	got, id := telemetry.EnsureTurnID(ctx)
	if id != "turn-keep" || got != ctx {
		t.Fatalf("expected existing id and same ctx; got %q", id)
	}
}

func TestEnsureTurnID_GeneratesUnique(t *testing.T) {
	ctx1, id1 := telemetry.EnsureTurnID(context.Background())
	_, id2 := telemetry.EnsureTurnID(context.Background())
	if !strings.HasPrefix(id1, "turn-") || id1 == id2 {
		t.Fatalf("expected distinct turn- ids, got %q and %q", id1, id2)
	}
	if got, ok := telemetry.TurnIDFromContext(ctx1); !ok || got != id1 {
		t.Fatalf("generated id not stored on ctx: %q,%v", got, ok)
	}
}
