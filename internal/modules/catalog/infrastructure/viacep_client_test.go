package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pratoJaEdge/internal/shared/apiresult"
)

func TestAddressByCEPStripsFormatting(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"cep": "50030-230", "localidade": "Recife"})
	}))
	defer srv.Close()

	client := NewViaCEPClient(srv.URL, time.Second, nil)
	up, err := client.AddressByCEP(context.Background(), " 50030-230 ")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if gotPath != "/50030230/json/" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if up.Body["localidade"] != "Recife" {
		t.Fatalf("unexpected body: %v", up.Body)
	}
}

func TestAddressByCEPRejectsMalformedInput(t *testing.T) {
	client := NewViaCEPClient("http://viacep.invalid", time.Second, nil)
	_, err := client.AddressByCEP(context.Background(), "12ab")
	var ue *apiresult.UpstreamError
	if !errors.As(err, &ue) || ue.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAddressByCEPUnknownCodeBecomes404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"erro": true})
	}))
	defer srv.Close()

	client := NewViaCEPClient(srv.URL, time.Second, nil)
	_, err := client.AddressByCEP(context.Background(), "99999999")
	var ue *apiresult.UpstreamError
	if !errors.As(err, &ue) || ue.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}
