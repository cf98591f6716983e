package scripting

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeHost struct {
	pageCount int
	current   int
	gone      []int
	alerts    []string
	info      map[string]string
}

func (h *fakeHost) PageCount() int {
	return h.pageCount
}

func (h *fakeHost) CurrentPage() int {
	return h.current
}

func (h *fakeHost) GotoPage(n int) {
	h.gone = append(h.gone, n)
}

func (h *fakeHost) Info(key string) string {
	return h.info[key]
}

func (h *fakeHost) Alert(msg string) {
	h.alerts = append(h.alerts, msg)
}

func TestExecuteWithHost(t *testing.T) {
	host := &fakeHost{pageCount: 12, current: 3, info: map[string]string{"title": "Report"}}
	e := NewEngine()
	if err := e.Bind(host); err != nil {
		t.Fatalf("bind: %v", err)
	}

	got, err := e.Execute(context.Background(), `doc.numPages`)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got != int64(12) {
		t.Fatalf("numPages = %v", got)
	}

	if _, err := e.Execute(context.Background(), `doc.pageNum = doc.numPages - 1`); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(host.gone) != 1 || host.gone[0] != 11 {
		t.Fatalf("goto calls %v", host.gone)
	}

	if _, err := e.Execute(context.Background(), `app.alert(doc.info("title"))`); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(host.alerts) != 1 || host.alerts[0] != "Report" {
		t.Fatalf("alerts %v", host.alerts)
	}
}

func TestExecuteScriptError(t *testing.T) {
	e := NewEngine()
	if _, err := e.Execute(context.Background(), `not valid js (`); err == nil {
		t.Fatalf("syntax error must surface")
	}
}

func TestExecuteInterrupted(t *testing.T) {
	e := NewEngine()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := e.Execute(ctx, `for(;;){}`)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}
