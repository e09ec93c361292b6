package amqp

import (
	"testing"
	"time"
)

func TestPurchaseSyncMessageRoundTrip(t *testing.T) {
	msg := NewPurchaseSyncMessage("abc-123")
	if msg.ID != "abc-123" {
		t.Fatalf("id = %q", msg.ID)
	}
	if msg.Timestamp.IsZero() {
		t.Fatalf("timestamp not set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := PurchaseSyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != msg.ID {
		t.Fatalf("round trip id = %q, want %q", got.ID, msg.ID)
	}
	if !got.Timestamp.Truncate(time.Millisecond).Equal(msg.Timestamp.Truncate(time.Millisecond)) {
		t.Fatalf("round trip timestamp drifted: %v vs %v", got.Timestamp, msg.Timestamp)
	}
}

func TestPurchaseSyncMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := PurchaseSyncMessageFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
