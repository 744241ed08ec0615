package interview

import "testing"

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("  Transcribing ")
	if err != nil {
		t.Fatalf("parse status: %v", err)
	}
	if status != StatusTranscribing {
		t.Fatalf("expected transcribing, got %q", status)
	}

	if _, err := ParseStatus("ripping"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestStatusPredicates(t *testing.T) {
	cases := []struct {
		status     Status
		terminal   bool
		processing bool
	}{
		{StatusUploaded, false, false},
		{StatusQueued, false, true},
		{StatusTranscribing, false, true},
		{StatusAnalysing, false, true},
		{StatusCompleted, true, false},
		{StatusFailed, true, false},
	}
	for _, tc := range cases {
		if got := tc.status.IsTerminal(); got != tc.terminal {
			t.Errorf("%s: IsTerminal = %v, want %v", tc.status, got, tc.terminal)
		}
		if got := tc.status.IsProcessing(); got != tc.processing {
			t.Errorf("%s: IsProcessing = %v, want %v", tc.status, got, tc.processing)
		}
	}
}

func TestStatusRankOrdering(t *testing.T) {
	order := []Status{StatusUploaded, StatusQueued, StatusTranscribing, StatusAnalysing, StatusCompleted}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Fatalf("expected %s to rank above %s", order[i], order[i-1])
		}
	}
	if StatusFailed.Rank() != StatusCompleted.Rank() {
		t.Fatalf("failed should rank with completed, got %d vs %d", StatusFailed.Rank(), StatusCompleted.Rank())
	}
	if Status("bogus").Rank() != -1 {
		t.Fatal("unknown status should rank -1")
	}
}

func TestSentimentPrefersAnalysis(t *testing.T) {
	iv := Interview{SentimentOverall: "positive"}
	if got := iv.Sentiment(); got != "positive" {
		t.Fatalf("expected early sentiment, got %q", got)
	}
	iv.Analysis = &Analysis{SentimentOverall: "neutral"}
	if got := iv.Sentiment(); got != "neutral" {
		t.Fatalf("expected analysis sentiment, got %q", got)
	}
}
