package contracts

import (
	"encoding/json"
	"testing"
)

func TestParsePhase(t *testing.T) {
	tests := []struct {
		input   string
		want    Phase
		wantErr bool
	}{
		{"0", PhaseIdea, false},
		{"1", PhaseEarlyLive, false},
		{"2", PhaseMatureLive, false},
		{"idea", PhaseIdea, false},
		{"Early_Live", PhaseEarlyLive, false},
		{"mature-live", PhaseMatureLive, false},
		{" earlylive ", PhaseEarlyLive, false},
		{"3", 0, true},
		{"-1", 0, true},
		{"retired", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePhase(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePhase(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParsePhase(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPhase_IsLive(t *testing.T) {
	if PhaseIdea.IsLive() {
		t.Error("Idea must not be live")
	}
	if !PhaseEarlyLive.IsLive() || !PhaseMatureLive.IsLive() {
		t.Error("EarlyLive and MatureLive must be live")
	}
}

func TestPhase_UnmarshalJSON(t *testing.T) {
	var rec ProductRecord
	if err := json.Unmarshal([]byte(`{"phase":2}`), &rec); err != nil {
		t.Fatalf("numeric phase: %v", err)
	}
	if rec.Phase != PhaseMatureLive {
		t.Errorf("Expected MatureLive, got %v", rec.Phase)
	}

	if err := json.Unmarshal([]byte(`{"phase":"early_live"}`), &rec); err != nil {
		t.Fatalf("named phase: %v", err)
	}
	if rec.Phase != PhaseEarlyLive {
		t.Errorf("Expected EarlyLive, got %v", rec.Phase)
	}

	if err := json.Unmarshal([]byte(`{"phase":7}`), &rec); err == nil {
		t.Error("Expected error for out-of-range phase")
	}
}

func TestPhase_MarshalsAsNumber(t *testing.T) {
	data, err := json.Marshal(ProductRecord{Phase: PhaseEarlyLive})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"phase":1}` {
		t.Errorf("Unexpected JSON: %s", data)
	}
}
