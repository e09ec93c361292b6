package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quantofoi/internal/core"
	"quantofoi/internal/pricelookup"
	"quantofoi/internal/purchases/memory"
)

type fakeStore struct {
	purchases []core.Purchase
	appendErr error
	updateN   int
	updateErr error
	degraded  bool
}

func (f *fakeStore) List(_ context.Context) ([]core.Purchase, error) {
	return f.purchases, nil
}

func (f *fakeStore) Append(_ context.Context, in core.PurchaseInput) (core.Purchase, error) {
	if f.appendErr != nil {
		return core.Purchase{}, f.appendErr
	}
	p, err := in.Purchase("srv-1")
	if err != nil {
		return core.Purchase{}, err
	}
	f.purchases = append(f.purchases, p)
	return p, nil
}

func (f *fakeStore) UpdateDescription(_ context.Context, sku, descricao string) (int, error) {
	return f.updateN, f.updateErr
}

func (f *fakeStore) Degraded() bool { return f.degraded }

func newTestServer(store *fakeStore) *Server {
	return NewServer(":0", store, pricelookup.New(pricelookup.DefaultCatalog()))
}

func TestIndexAndHealth(t *testing.T) {
	srv := newTestServer(&fakeStore{purchases: memory.SamplePurchases()})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Quanto foi?") {
		t.Fatalf("index body missing heading")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestReadyReportsDegradedBackend(t *testing.T) {
	srv := newTestServer(&fakeStore{degraded: true})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for degraded backend, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "degraded") {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestListProducts(t *testing.T) {
	srv := newTestServer(&fakeStore{purchases: memory.SamplePurchases()})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/produtos", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}

	var resp struct {
		Produtos []struct {
			Descricao string  `json:"descricao"`
			Preco     float64 `json:"preco"`
			Data      string  `json:"data"`
		} `json:"produtos"`
		Total int `json:"total"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 3 || len(resp.Produtos) != 3 {
		t.Fatalf("total=%d len=%d, want 3", resp.Total, len(resp.Produtos))
	}
	if resp.Produtos[0].Data != "2025-06-29" {
		t.Fatalf("data = %q", resp.Produtos[0].Data)
	}
}

func TestListProductsFiltered(t *testing.T) {
	srv := newTestServer(&fakeStore{purchases: memory.SamplePurchases()})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/produtos?busca=ovo&filtro=name", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}

	var resp struct {
		Total int `json:"total"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("filtered total = %d, want 1", resp.Total)
	}
}

func TestCreatePurchaseJSON(t *testing.T) {
	store := &fakeStore{}
	srv := newTestServer(store)

	body := `{"descricao":"Leite integral","sku":"7896283800818","preco":4.69,"data":"2025-06-29","local":"Mercado"}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/produtos", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var created struct {
		ID    string  `json:"id"`
		Preco float64 `json:"preco"`
		Data  string  `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != "srv-1" {
		t.Fatalf("id = %q", created.ID)
	}
	if created.Preco != 4.69 {
		t.Fatalf("preco = %v", created.Preco)
	}
	if created.Data != "2025-06-29" {
		t.Fatalf("data = %q", created.Data)
	}
	if len(store.purchases) != 1 || store.purchases[0].Preco.Cents != 469 {
		t.Fatalf("stored = %+v", store.purchases)
	}
}

func TestCreatePurchaseStringPrice(t *testing.T) {
	store := &fakeStore{}
	srv := newTestServer(store)

	body := `{"descricao":"Café","preco":"21,90","data":"2025-06-29"}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/produtos", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if store.purchases[0].Preco.Cents != 2190 {
		t.Fatalf("cents = %d", store.purchases[0].Preco.Cents)
	}
	if store.purchases[0].Local != core.DefaultLocal {
		t.Fatalf("local = %q, want placeholder", store.purchases[0].Local)
	}
}

func TestCreatePurchaseForm(t *testing.T) {
	store := &fakeStore{}
	srv := newTestServer(store)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/produtos",
		strings.NewReader("descricao=Ovos&sku=7898936507457&preco=12,90&data=2025-06-29"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if store.purchases[0].Preco.Cents != 1290 {
		t.Fatalf("cents = %d", store.purchases[0].Preco.Cents)
	}
}

func TestCreatePurchaseValidation(t *testing.T) {
	srv := newTestServer(&fakeStore{})

	tests := []struct {
		name string
		body string
	}{
		{"invalid price", `{"descricao":"x","preco":"abc","data":"2025-06-29"}`},
		{"negative price", `{"descricao":"x","preco":-1,"data":"2025-06-29"}`},
		{"empty description", `{"descricao":"","preco":4.69,"data":"2025-06-29"}`},
		{"brazilian date shape", `{"descricao":"x","preco":4.69,"data":"29/06/2025"}`},
		{"impossible date", `{"descricao":"x","preco":4.69,"data":"2025-02-30"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/produtos", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			srv.Handler.ServeHTTP(rr, req)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestCreatePurchaseStoreFailure(t *testing.T) {
	srv := newTestServer(&fakeStore{appendErr: errors.New("upstream down")})

	body := `{"descricao":"Leite","preco":4.69,"data":"2025-06-29"}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/produtos", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
}

func TestUpdateDescription(t *testing.T) {
	srv := newTestServer(&fakeStore{updateN: 2})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/produtos/7896283800818/descricao",
		strings.NewReader(`{"descricao":"Leite Jussara 1L"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("status=%d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Atualizados int `json:"atualizados"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Atualizados != 2 {
		t.Fatalf("atualizados = %d", resp.Atualizados)
	}
}

func TestUpdateDescriptionUnknownSKU(t *testing.T) {
	srv := newTestServer(&fakeStore{updateN: 0})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/produtos/0000000000000/descricao",
		strings.NewReader(`{"descricao":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestAnalysis(t *testing.T) {
	srv := newTestServer(&fakeStore{purchases: memory.SamplePurchases()})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/produtos/7896283800818/analise", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("status=%d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		SKU        string `json:"sku"`
		MediaCents int64  `json:"media_centavos"`
		DeltaCents int64  `json:"delta_centavos"`
		MaisBarato bool   `json:"mais_barato"`
		Historico  []struct {
			Veredito string `json:"veredito"`
		} `json:"historico"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SKU != "7896283800818" {
		t.Fatalf("sku = %q", resp.SKU)
	}
	// Two milk purchases at 469 each: average 469, delta 0, both at the
	// inclusive good-deal boundary.
	if resp.MediaCents != 469 || resp.DeltaCents != 0 || !resp.MaisBarato {
		t.Fatalf("media=%d delta=%d barato=%v", resp.MediaCents, resp.DeltaCents, resp.MaisBarato)
	}
	for i, h := range resp.Historico {
		if h.Veredito != "boa_oferta" {
			t.Fatalf("historico[%d] veredito = %q", i, h.Veredito)
		}
	}
}

func TestAnalysisUnknownProduct(t *testing.T) {
	srv := newTestServer(&fakeStore{purchases: memory.SamplePurchases()})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/produtos/9999999999999/analise", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestHistory(t *testing.T) {
	purchases := memory.SamplePurchases()
	older := core.PurchaseInput{
		Descricao: "Pão francês",
		Preco:     core.Money{Cents: 850},
		Data:      core.NewDate(2025, 6, 10),
	}
	p, err := older.Purchase("old-1")
	if err != nil {
		t.Fatalf("build purchase: %v", err)
	}
	purchases = append(purchases, p)
	srv := newTestServer(&fakeStore{purchases: purchases})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/historico", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}

	var resp struct {
		Dias []struct {
			Data       string `json:"data"`
			TotalCents int64  `json:"total_centavos"`
		} `json:"dias"`
		TotalCentavos int64 `json:"total_centavos"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Dias) != 2 {
		t.Fatalf("dias = %d, want 2", len(resp.Dias))
	}
	if resp.Dias[0].Data != "2025-06-29" || resp.Dias[1].Data != "2025-06-10" {
		t.Fatalf("order = %q, %q", resp.Dias[0].Data, resp.Dias[1].Data)
	}
	if resp.Dias[0].TotalCents != 2228 {
		t.Fatalf("day total = %d, want 2228", resp.Dias[0].TotalCents)
	}
	if resp.TotalCentavos != 3078 {
		t.Fatalf("grand total = %d, want 3078", resp.TotalCentavos)
	}
}

func TestCurrentPrice(t *testing.T) {
	srv := newTestServer(&fakeStore{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/current-price?sku=7896283800818", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}

	var resp struct {
		SKU           string `json:"sku"`
		PrecoCentavos int64  `json:"preco_centavos"`
		Fonte         string `json:"fonte"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SKU != "7896283800818" || resp.PrecoCentavos != 489 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Fonte != pricelookup.SourceCatalog {
		t.Fatalf("fonte = %q", resp.Fonte)
	}
}

func TestCurrentPriceMissingQuery(t *testing.T) {
	srv := newTestServer(&fakeStore{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/current-price", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestWriteInvalidatesGroupCache(t *testing.T) {
	store := &fakeStore{}
	srv := newTestServer(store)

	// Prime the cache with an empty snapshot.
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/produtos", nil))

	body := `{"descricao":"Leite","preco":4.69,"data":"2025-06-29"}`
	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/produtos", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d", rr.Code)
	}

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/produtos", nil))
	var resp struct {
		Total int `json:"total"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("total after write = %d, want 1", resp.Total)
	}
}
