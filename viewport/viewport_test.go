package viewport

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFullForm(t *testing.T) {
	v := Parse("4;C2:0.25:0.75:0")
	if v.PageNumber != 4 {
		t.Fatalf("page %d, want 4", v.PageNumber)
	}
	if !v.RePos.Enabled {
		t.Fatalf("rePos should be enabled")
	}
	if v.RePos.X != 0.25 || v.RePos.Y != 0.75 {
		t.Fatalf("pos (%v,%v), want (0.25,0.75)", v.RePos.X, v.RePos.Y)
	}
	if v.RePos.Anchor != AnchorTopLeft {
		t.Fatalf("anchor %d, want TopLeft", v.RePos.Anchor)
	}
	if v.AutoFit.Enabled {
		t.Fatalf("autoFit should be disabled")
	}
	if got := v.String(); got != "4;C2:0.25:0.75:0" {
		t.Fatalf("serialized %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []Viewport{
		New(0),
		New(12),
		{PageNumber: 3, RePos: RePos{Enabled: true, X: 0.5, Y: 0.5, Anchor: AnchorCenter}},
		{PageNumber: 7, AutoFit: AutoFit{Enabled: true, Width: true}},
		{
			PageNumber: 42,
			RePos:      RePos{Enabled: true, X: 0.125, Y: 1, Anchor: AnchorTopLeft},
			AutoFit:    AutoFit{Enabled: true, Width: true, Height: true},
		},
	}
	for _, want := range cases {
		t.Run(want.String(), func(t *testing.T) {
			got := Parse(want.String())
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("round trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLegacyCenterToken(t *testing.T) {
	v := Parse("2;C1:0.1:0.9")
	if !v.RePos.Enabled || v.RePos.Anchor != AnchorCenter {
		t.Fatalf("C1 token should enable centered rePos, got %+v", v.RePos)
	}
}

func TestParseGarbage(t *testing.T) {
	if v := Parse("not-a-page"); v.IsValid() {
		t.Fatalf("garbage should parse to an invalid viewport, got %+v", v)
	}
}

func TestHistoryPushTruncatesForward(t *testing.T) {
	h := NewHistory()
	h.SetCurrent(New(0))
	h.Push(New(1))
	h.Push(New(2))
	h.Push(New(3))
	if !h.Back() || !h.Back() {
		t.Fatalf("two back steps should succeed")
	}
	if h.Current().PageNumber != 1 {
		t.Fatalf("cursor on page %d, want 1", h.Current().PageNumber)
	}
	h.Push(New(9))
	if h.Current().PageNumber != 9 {
		t.Fatalf("cursor on page %d, want 9", h.Current().PageNumber)
	}
	if h.Forward() {
		t.Fatalf("forward entries must be discarded by Push")
	}
	if h.Len() != 3 {
		t.Fatalf("history length %d, want 3", h.Len())
	}
}

func TestHistoryCap(t *testing.T) {
	h := NewHistory()
	h.SetCurrent(New(0))
	for i := 1; i <= MaxSteps+50; i++ {
		h.Push(New(i))
	}
	if h.Len() > MaxSteps {
		t.Fatalf("history length %d exceeds cap %d", h.Len(), MaxSteps)
	}
	if h.Cursor() != h.Len()-1 {
		t.Fatalf("cursor %d not at tail %d", h.Cursor(), h.Len()-1)
	}
	if got := h.Current().PageNumber; got != MaxSteps+50 {
		t.Fatalf("current page %d, want %d", got, MaxSteps+50)
	}
}

func TestHistoryBackForwardBounds(t *testing.T) {
	h := NewHistory()
	if h.Back() {
		t.Fatalf("back on single-entry history should fail")
	}
	if h.Forward() {
		t.Fatalf("forward on single-entry history should fail")
	}
}

func TestHistoryRecentBounded(t *testing.T) {
	h := NewHistory()
	h.SetCurrent(New(0))
	for i := 1; i < 40; i++ {
		h.Push(New(i))
	}
	recent := h.Recent()
	if len(recent) != SavedSteps {
		t.Fatalf("recent length %d, want %d", len(recent), SavedSteps)
	}
	if recent[len(recent)-1].PageNumber != 39 {
		t.Fatalf("last recent entry is page %d, want 39", recent[len(recent)-1].PageNumber)
	}
}

func TestHistoryRestore(t *testing.T) {
	h := NewHistory()
	var entries []Viewport
	for i := 0; i < 5; i++ {
		entries = append(entries, Parse(fmt.Sprintf("%d;C2:0.5:0.5:1", i)))
	}
	h.Restore(entries)
	if h.Len() != 5 || h.Cursor() != 4 {
		t.Fatalf("restored len=%d cursor=%d", h.Len(), h.Cursor())
	}
	h.Restore(nil)
	if h.Len() != 1 || h.Current().IsValid() {
		t.Fatalf("empty restore should reset to one invalid entry")
	}
}
