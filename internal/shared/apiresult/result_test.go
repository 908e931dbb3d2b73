package apiresult

import (
	"errors"
	"testing"
)

func TestNormalizeUsesDefaultMessageWhenUpstreamOmitsIt(t *testing.T) {
	res := Normalize(&Upstream{Status: 200, Body: map[string]any{"data": map[string]any{"id": "1"}}}, "OK")
	if !res.Success {
		t.Fatal("expected success result")
	}
	if res.Message != "OK" {
		t.Fatalf("expected default message, got %q", res.Message)
	}
	if res.Status != 200 {
		t.Fatalf("expected status 200, got %d", res.Status)
	}
}

func TestNormalizePrefersUpstreamMessage(t *testing.T) {
	res := Normalize(&Upstream{Status: 201, Body: map[string]any{"message": "Criado."}}, "OK")
	if res.Message != "Criado." {
		t.Fatalf("expected upstream message, got %q", res.Message)
	}
	if res.Status != 201 {
		t.Fatalf("expected status 201, got %d", res.Status)
	}
}

func TestNormalizeBlankUpstreamMessageFallsBack(t *testing.T) {
	res := Normalize(&Upstream{Body: map[string]any{"message": "   "}}, "OK")
	if res.Message != "OK" {
		t.Fatalf("blank message must fall back, got %q", res.Message)
	}
	if res.Status != 200 {
		t.Fatalf("zero status must default to 200, got %d", res.Status)
	}
}

func TestNormalizeNilUpstream(t *testing.T) {
	res := Normalize(nil, "OK")
	if !res.Success || res.Message != "OK" || res.Status != 200 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestNormalizeErrorUsesUpstreamMessage(t *testing.T) {
	err := NewUpstreamError(404, map[string]any{"message": "Not found"})
	res := NormalizeError(err, "fallback")
	if res.Success {
		t.Fatal("expected failure result")
	}
	if res.Message != "Not found" {
		t.Fatalf("expected upstream message, got %q", res.Message)
	}
	if res.Status != 404 {
		t.Fatalf("expected status 404, got %d", res.Status)
	}
}

func TestNormalizeErrorFallsBackToErrorField(t *testing.T) {
	err := NewUpstreamError(422, map[string]any{"error": "campo inválido"})
	if res := NormalizeError(err, "fallback"); res.Message != "campo inválido" {
		t.Fatalf("expected error field, got %q", res.Message)
	}
}

func TestNormalizeErrorTransportFailure(t *testing.T) {
	res := NormalizeError(NewTransportError(errors.New("dial tcp: refused")), "Erro ao processar a solicitação.")
	if res.Status != 500 {
		t.Fatalf("transport failure must report 500, got %d", res.Status)
	}
	if res.Message != "Erro ao processar a solicitação." {
		t.Fatalf("expected default message, got %q", res.Message)
	}
}

func TestNormalizeErrorPlainError(t *testing.T) {
	res := NormalizeError(errors.New("boom"), "fallback")
	if res.Success || res.Status != 500 || res.Message != "fallback" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestUpstreamPageMeta(t *testing.T) {
	up := &Upstream{Body: map[string]any{
		"data": []any{},
		"meta": map[string]any{"page": float64(2), "limit": float64(20), "total": float64(57), "sort": "createdAt,desc"},
	}}
	meta := up.PageMeta()
	if meta == nil {
		t.Fatal("expected page meta")
	}
	if meta.Page != 2 || meta.PageSize != 20 || meta.Total != 57 || meta.Sort != "createdAt,desc" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestUpstreamErrorTaxonomy(t *testing.T) {
	if !NewUpstreamError(401, nil).Unauthorized() || !NewUpstreamError(403, nil).Unauthorized() {
		t.Fatal("401/403 must be unauthorized")
	}
	if !NewUpstreamError(500, nil).ServerFault() {
		t.Fatal("500 must be a server fault")
	}
	if !NewTransportError(nil).Transport() {
		t.Fatal("status 0 must be transport")
	}
}
