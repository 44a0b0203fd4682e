package amqp

import "testing"

func TestReconEventMessageRoundTrip(t *testing.T) {
	msg := NewReconEventMessage(OpImport, "u1", map[string]int{"transactions": 12, "skipped": 3})

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	back, err := ReconEventMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if back.Operation != OpImport || back.OwnerID != "u1" {
		t.Errorf("round trip lost fields: %+v", back)
	}
	if back.Counts["transactions"] != 12 {
		t.Errorf("counts lost: %+v", back.Counts)
	}
}

func TestReconEventMessageFromJSONInvalid(t *testing.T) {
	if _, err := ReconEventMessageFromJSON([]byte("{")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
