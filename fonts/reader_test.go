package fonts

import (
	"testing"

	"github.com/wudi/docview/event"
	"github.com/wudi/docview/generator"
)

type fakeProvider struct {
	byPage map[int][]generator.FontRef
	calls  []int
}

func (p *fakeProvider) FontsForPage(n int) []generator.FontRef {
	p.calls = append(p.calls, n)
	return p.byPage[n]
}

func TestReaderEnumeratesAndDedupes(t *testing.T) {
	p := &fakeProvider{byPage: map[int][]generator.FontRef{
		0: {{Name: "Helvetica"}, {Name: "Courier", Embedded: true}},
		1: {{Name: "Helvetica"}},
		2: {{Name: "Symbol"}},
	}}

	var fonts []Info
	var progress []int
	ended := 0
	r := NewReader(p, event.ImmediateLoop{}, 3, nil, Callbacks{
		Font:     func(i Info) { fonts = append(fonts, i) },
		Progress: func(pc int) { progress = append(progress, pc) },
		Ended:    func() { ended++ },
	})

	if !r.Start() {
		t.Fatalf("start failed")
	}
	if r.Running() {
		t.Fatalf("immediate loop must finish synchronously")
	}
	if ended != 1 {
		t.Fatalf("ended fired %d times", ended)
	}
	if len(fonts) != 3 {
		t.Fatalf("got %d fonts, want 3 (duplicate must be dropped)", len(fonts))
	}
	if fonts[0].Name != "Helvetica" || fonts[0].FirstPage != 0 {
		t.Fatalf("first font %+v", fonts[0])
	}
	if fonts[2].Name != "Symbol" || fonts[2].FirstPage != 2 {
		t.Fatalf("third font %+v", fonts[2])
	}
	want := []int{33, 66, 100}
	for i, pc := range progress {
		if pc != want[i] {
			t.Fatalf("progress %v, want %v", progress, want)
		}
	}
}

func TestReaderStop(t *testing.T) {
	p := &fakeProvider{byPage: map[int][]generator.FontRef{}}
	loop := event.NewRunLoop()

	ended := make(chan struct{})
	r := NewReader(p, loop, 1000, nil, Callbacks{
		Ended: func() { close(ended) },
	})
	if !r.Start() {
		t.Fatalf("start failed")
	}
	r.Stop()
	go func() {
		<-ended
		loop.Stop()
	}()
	loop.Run()

	if len(p.calls) > 1 {
		t.Fatalf("stop must halt enumeration, saw %d pages", len(p.calls))
	}
	if r.Running() {
		t.Fatalf("reader still running after stop")
	}
}

func TestReaderRejectsConcurrentStart(t *testing.T) {
	p := &fakeProvider{byPage: map[int][]generator.FontRef{}}
	loop := event.NewRunLoop()
	r := NewReader(p, loop, 5, nil, Callbacks{})
	if !r.Start() {
		t.Fatalf("start failed")
	}
	if r.Start() {
		t.Fatalf("second start must be rejected while running")
	}
	loop.Stop()
	loop.Run()
}

func TestDescribeRejectsGarbage(t *testing.T) {
	if fam := describe([]byte("definitely not a font")); fam != "" {
		t.Fatalf("garbage data described as %q", fam)
	}
	if fam := describe(nil); fam != "" {
		t.Fatalf("nil data described as %q", fam)
	}
}
