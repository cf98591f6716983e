package generator

import "testing"

func TestRegistryOrdersByPriority(t *testing.T) {
	r := NewRegistry()
	r.Register(Entry{Name: "slow", MIME: "application/pdf", Priority: 1})
	r.Register(Entry{Name: "fast", MIME: "application/pdf", Priority: 5})
	r.Register(Entry{Name: "other", MIME: "image/tiff", Priority: 9})

	got := r.CandidatesFor("application/pdf")
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].Name != "fast" || got[1].Name != "slow" {
		t.Fatalf("order %s,%s", got[0].Name, got[1].Name)
	}
	if len(r.CandidatesFor("text/plain")) != 0 {
		t.Fatalf("unknown mime should have no candidates")
	}
}

func TestRegistryStableTies(t *testing.T) {
	r := NewRegistry()
	r.Register(Entry{Name: "a", MIME: "application/pdf", Priority: 3})
	r.Register(Entry{Name: "b", MIME: "application/pdf", Priority: 3})
	got := r.CandidatesFor("application/pdf")
	if got[0].Name != "a" {
		t.Fatalf("ties must keep registration order, got %s first", got[0].Name)
	}
}

func TestPixmapRequestSwapAndBytes(t *testing.T) {
	req := NewPixmapRequest(1, 0, 300, 400, 0, true)
	if req.Bytes() != 4*300*400 {
		t.Fatalf("bytes %d", req.Bytes())
	}
	if req.PixelCount() != 120000 {
		t.Fatalf("pixels %d", req.PixelCount())
	}
	req.Swap()
	if req.Width != 400 || req.Height != 300 {
		t.Fatalf("swap gave %dx%d", req.Width, req.Height)
	}
}

func TestPrintErrorMessages(t *testing.T) {
	if PrintNoError.Message() != "" {
		t.Fatalf("no-error must map to empty message")
	}
	seen := map[string]bool{}
	for e := PrintTempFileError; e <= PrintUnknownError; e++ {
		msg := e.Message()
		if msg == "" {
			t.Fatalf("error %d has no message", e)
		}
		if seen[msg] {
			t.Fatalf("duplicate message %q", msg)
		}
		seen[msg] = true
	}
}
