package model

import (
	"testing"
	"time"
)

func TestUpdateStatusDisplay(t *testing.T) {
	tests := []struct {
		status UpdateStatus
		want   string
	}{
		{UpdateStatus{}, "-"},
		{Checking(), "..."},
		{UpToDate(), "ok"},
		{BehindBy(12), "+12"},
		{CheckError("network unreachable"), "?"},
	}
	for _, tt := range tests {
		if got := tt.status.Display(); got != tt.want {
			t.Errorf("Display() = %q, want %q", got, tt.want)
		}
	}
}

func TestStatusMessageExpiry(t *testing.T) {
	if Info("hold").Expired() {
		t.Error("Info messages must never expire")
	}
	if Success("done").Expired() {
		t.Error("fresh Success message already expired")
	}

	m := StatusMessage{Text: "old", Expires: time.Now().Add(-time.Second)}
	if !m.Expired() {
		t.Error("past-deadline message not expired")
	}
}
