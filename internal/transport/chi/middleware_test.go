package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/forumsearch/internal/usecase/health"
)

func TestWideEvent_CarriesSearchFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := &mockSearcher{resp: &result.Response{Page: &result.Page{MatchCount: 7, PageCount: 1}}}
	h := NewServer(s, &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}}, zap.New(core)).Router(nil)

	rr := get(t, h, "/api/search?term=x&in=titles")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("http_request entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["domain"] != "titles" || fields["uid"] != int64(5) || fields["match_count"] != int64(7) {
		t.Errorf("fields = %v", fields)
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("level = %v", entries[0].Level)
	}
}

func TestWideEvent_AuthRejection(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := NewServer(&mockSearcher{}, &mockHealth{}, zap.New(core)).Router([]string{"secret"})

	get(t, h, "/api/search?term=x")

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 || entries[0].ContextMap()["auth_error"] != "missing authorization header" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestWideEvent_ServerErrorLoggedAsError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := NewServer(panicSearcher{}, &mockHealth{}, zap.New(core)).Router(nil)

	get(t, h, "/api/search?term=x")

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 || entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("entries = %+v", entries)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Error("panic not logged")
	}
}

func TestAnnotate_OutsideRequestIsNoop(t *testing.T) {
	annotate(context.Background(), zap.String("k", "v"))
}

func TestRecoverer_ReraisesAbortHandler(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rvr := recover(); rvr != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", rvr)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))
}
