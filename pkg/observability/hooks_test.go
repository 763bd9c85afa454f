package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSynthesisHooks{}
	s.OnGenerateStart(ctx, "gemini", "structured")
	s.OnGenerateComplete(ctx, "gemini", "structured", time.Second, nil)
	s.OnMerge(ctx, 2, 1, 3, 0)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "generation")
	c.OnCacheMiss(ctx, "generation")
	c.OnCacheSet(ctx, "generation", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/api/sessions/default/prompt")
	h.OnResponse(ctx, "POST", "/api/sessions/default/prompt", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Synthesis().(NoopSynthesisHooks); !ok {
		t.Error("Synthesis() should return NoopSynthesisHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customSynthesis := &testSynthesisHooks{}
	SetSynthesisHooks(customSynthesis)
	if Synthesis() != customSynthesis {
		t.Error("SetSynthesisHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Synthesis().(NoopSynthesisHooks); !ok {
		t.Error("Reset() should restore NoopSynthesisHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testSynthesisHooks{}
	SetSynthesisHooks(custom)
	SetSynthesisHooks(nil)

	if Synthesis() != custom {
		t.Error("SetSynthesisHooks(nil) should be ignored")
	}

	Reset()
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	rec := &testSynthesisHooks{}
	SetSynthesisHooks(rec)

	Synthesis().OnMerge(context.Background(), 2, 1, 3, 1)
	if rec.merges != 1 || rec.created != 2 {
		t.Errorf("merges = %d created = %d", rec.merges, rec.created)
	}
}

type testSynthesisHooks struct {
	NoopSynthesisHooks
	merges, created int
}

func (h *testSynthesisHooks) OnMerge(_ context.Context, created, _, _, _ int) {
	h.merges++
	h.created += created
}

type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
