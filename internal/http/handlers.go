package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"quantofoi/internal/aggregate"
	"quantofoi/internal/compare"
	"quantofoi/internal/core"
	"quantofoi/internal/pricelookup"
)

const storeTimeout = 7 * time.Second

const groupsCacheKey = "groups"

// loadGroups reads the full snapshot and partitions it by product,
// serving from cache when fresh.
func (s *Server) loadGroups(ctx context.Context) ([]aggregate.ProductGroup, error) {
	if groups, ok := s.groupsCache.Get(groupsCacheKey); ok {
		return groups, nil
	}

	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	purchases, err := s.store.List(cctx)
	if err != nil {
		return nil, err
	}

	groups := aggregate.GroupByProduct(purchases)
	s.groupsCache.Set(groupsCacheKey, groups)
	return groups, nil
}

func (s *Server) invalidateDerived(sku string) {
	s.groupsCache.Delete(groupsCacheKey)
	if sku != "" {
		s.analysisCache.Delete(strings.ToLower(sku))
	}
}

// handleListProducts returns all purchases, optionally filtered with
// busca (term) and filtro (name|sku|both) applied per product group.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	groups, err := s.loadGroups(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List purchases error", "error", err)
		writeJSONError(w, http.StatusBadGateway, "não foi possível carregar as compras")
		return
	}

	term := sanitizeInput(r.URL.Query().Get("busca"))
	mode := aggregate.ParseFilterMode(r.URL.Query().Get("filtro"))
	groups = aggregate.FilterGroups(groups, term, mode)

	var purchases []core.Purchase
	for _, g := range groups {
		purchases = append(purchases, g.Purchases...)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"produtos": toPurchaseJSONList(purchases),
		"total":    len(purchases),
	})
}

// createRequest accepts the JSON creation payload. preco arrives either
// as a number (reais) or as a decimal string ("4,69" or "4.69").
type createRequest struct {
	Descricao string          `json:"descricao"`
	SKU       string          `json:"sku"`
	Preco     json.RawMessage `json:"preco"`
	Data      string          `json:"data"`
	Local     string          `json:"local"`
}

func (req createRequest) precoCents() (int64, error) {
	raw := strings.TrimSpace(string(req.Preco))
	if raw == "" || raw == "null" {
		return 0, core.ErrInvalidAmount
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(req.Preco, &s); err != nil {
			return 0, core.ErrInvalidAmount
		}
		return core.ParseDecimalToCents(s)
	}
	var v float64
	if err := json.Unmarshal(req.Preco, &v); err != nil {
		return 0, core.ErrInvalidAmount
	}
	m := core.MoneyFromReais(v)
	return m.Cents, nil
}

func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	in, err := s.parseCreateRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := in.Validate(); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	cctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()
	p, err := s.store.Append(cctx, in)
	if err != nil {
		// Validation already passed; a failed write is an upstream
		// problem. No optimistic insert.
		slog.ErrorContext(r.Context(), "Purchase append error",
			"error", err, "descricao", in.Descricao, "preco_cents", in.Preco.Cents)
		writeJSONError(w, http.StatusBadGateway, "não foi possível salvar a compra")
		return
	}

	s.invalidateDerived(p.SKU)
	writeJSON(w, http.StatusCreated, toPurchaseJSON(p))
}

// parseCreateRequest accepts JSON from API callers and form posts from
// the index page.
func (s *Server) parseCreateRequest(r *http.Request) (core.PurchaseInput, error) {
	var descricao, sku, local, dataStr string
	var cents int64

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return core.PurchaseInput{}, errors.New("corpo da requisição inválido")
		}
		c, err := req.precoCents()
		if err != nil {
			return core.PurchaseInput{}, errors.New("preço inválido")
		}
		descricao = sanitizeInput(req.Descricao)
		sku = sanitizeInput(req.SKU)
		local = sanitizeInput(req.Local)
		dataStr = strings.TrimSpace(req.Data)
		cents = c
	} else {
		if err := r.ParseForm(); err != nil {
			return core.PurchaseInput{}, errors.New("corpo da requisição inválido")
		}
		c, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("preco")))
		if err != nil {
			return core.PurchaseInput{}, errors.New("preço inválido")
		}
		descricao = sanitizeInput(r.Form.Get("descricao"))
		sku = sanitizeInput(r.Form.Get("sku"))
		local = sanitizeInput(r.Form.Get("local"))
		dataStr = strings.TrimSpace(r.Form.Get("data"))
		cents = c
	}

	now := time.Now()
	data := core.NewDate(now.Year(), int(now.Month()), now.Day())
	if dataStr != "" {
		parsed, err := core.ParseISODate(dataStr)
		if err != nil {
			return core.PurchaseInput{}, err
		}
		data = parsed
	}

	return core.PurchaseInput{
		Descricao: descricao,
		SKU:       sku,
		Preco:     core.Money{Cents: cents},
		Data:      data,
		Local:     local,
	}, nil
}

type updateDescriptionRequest struct {
	Descricao string `json:"descricao"`
}

func (s *Server) handleUpdateDescription(w http.ResponseWriter, r *http.Request) {
	sku := strings.TrimSpace(r.PathValue("sku"))
	if sku == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "sku obrigatório")
		return
	}

	var req updateDescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "corpo da requisição inválido")
		return
	}
	descricao := sanitizeInput(req.Descricao)
	if descricao == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "descrição obrigatória")
		return
	}

	cctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()
	n, err := s.store.UpdateDescription(cctx, sku, descricao)
	if err != nil {
		slog.ErrorContext(r.Context(), "Description update error", "error", err, "sku", sku)
		writeJSONError(w, http.StatusBadGateway, "não foi possível atualizar a descrição")
		return
	}
	if n == 0 {
		writeJSONError(w, http.StatusNotFound, "sku desconhecido")
		return
	}

	s.invalidateDerived(sku)
	writeJSON(w, http.StatusOK, map[string]int{"atualizados": n})
}

// analysisJSON is the wire shape of a product comparison.
type analysisJSON struct {
	Descricao      string         `json:"descricao"`
	SKU            string         `json:"sku"`
	Ultima         purchaseJSON   `json:"ultima_compra"`
	MediaCents     int64          `json:"media_centavos"`
	Media          string         `json:"media"`
	TotalCents     int64          `json:"total_centavos"`
	Total          string         `json:"total"`
	DeltaCents     int64          `json:"delta_centavos"`
	MaisBarato     bool           `json:"mais_barato"`
	Historico      []historicoRow `json:"historico"`
	TotalDeCompras int            `json:"total_de_compras"`
}

type historicoRow struct {
	purchaseJSON
	Veredito string `json:"veredito"`
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	sku := strings.TrimSpace(r.PathValue("sku"))
	if sku == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "sku obrigatório")
		return
	}

	cacheKey := strings.ToLower(sku)
	analysis, ok := s.analysisCache.Get(cacheKey)
	if !ok {
		groups, err := s.loadGroups(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Analysis load error", "error", err, "sku", sku)
			writeJSONError(w, http.StatusBadGateway, "não foi possível carregar as compras")
			return
		}

		var found *aggregate.ProductGroup
		for i := range groups {
			if strings.EqualFold(groups[i].SKU, sku) {
				found = &groups[i]
				break
			}
		}
		if found == nil {
			writeJSONError(w, http.StatusNotFound, "produto desconhecido")
			return
		}

		analysis, err = compare.Analyze(found.Descricao, found.Purchases)
		if err != nil {
			// A group always carries at least one purchase, so this is
			// an internal inconsistency rather than user error.
			slog.ErrorContext(r.Context(), "Analysis error", "error", err, "sku", sku)
			writeJSONError(w, http.StatusInternalServerError, "falha na análise")
			return
		}
		s.analysisCache.Set(cacheKey, analysis)
	}

	resp := analysisJSON{
		Descricao:      analysis.Descricao,
		SKU:            analysis.SKU,
		Ultima:         toPurchaseJSON(analysis.Latest),
		MediaCents:     analysis.Average.Cents,
		Media:          analysis.Average.BRL(),
		TotalCents:     analysis.Total.Cents,
		Total:          analysis.Total.BRL(),
		DeltaCents:     analysis.DeltaCents,
		MaisBarato:     analysis.Cheaper,
		TotalDeCompras: len(analysis.History),
	}
	resp.Historico = make([]historicoRow, len(analysis.History))
	for i, cp := range analysis.History {
		resp.Historico[i] = historicoRow{
			purchaseJSON: toPurchaseJSON(cp.Purchase),
			Veredito:     string(cp.Verdict),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type historyDayJSON struct {
	Data       string         `json:"data"`
	DataBR     string         `json:"data_br"`
	TotalCents int64          `json:"total_centavos"`
	Total      string         `json:"total"`
	Compras    []purchaseJSON `json:"compras"`
}

// handleHistory returns purchases grouped by day, most recent day first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	cctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()
	purchases, err := s.store.List(cctx)
	if err != nil {
		slog.ErrorContext(r.Context(), "History load error", "error", err)
		writeJSONError(w, http.StatusBadGateway, "não foi possível carregar o histórico")
		return
	}

	byDate := aggregate.GroupByDate(purchases)
	days := make([]historyDayJSON, 0, len(byDate))
	for _, key := range aggregate.SortedDatesDesc(byDate) {
		dayPurchases := byDate[key]
		total := aggregate.Total(dayPurchases)
		day := historyDayJSON{
			Data:       key,
			TotalCents: total.Cents,
			Total:      total.BRL(),
			Compras:    toPurchaseJSONList(dayPurchases),
		}
		if d, err := core.ParseISODate(key); err == nil {
			day.DataBR = d.BR()
		}
		days = append(days, day)
	}

	stats := aggregate.Summarize(purchases)
	writeJSON(w, http.StatusOK, map[string]any{
		"dias":              days,
		"total_gasto":       stats.TotalSpent.BRL(),
		"total_centavos":    stats.TotalSpent.Cents,
		"total_de_compras":  stats.PurchaseCount,
		"produtos_unicos":   stats.DistinctCount,
		"media_por_compra":  stats.AveragePerBuy.BRL(),
		"media_em_centavos": stats.AveragePerBuy.Cents,
	})
}

// handleCurrentPrice resolves a current market price for SKU prefill.
func (s *Server) handleCurrentPrice(w http.ResponseWriter, r *http.Request) {
	product := sanitizeInput(r.URL.Query().Get("product"))
	sku := sanitizeInput(r.URL.Query().Get("sku"))

	result, err := s.prices.Lookup(r.Context(), product, sku)
	if err != nil {
		if errors.Is(err, pricelookup.ErrMissingQuery) {
			writeJSONError(w, http.StatusBadRequest, "informe product ou sku")
			return
		}
		slog.ErrorContext(r.Context(), "Price lookup error", "error", err, "product", product, "sku", sku)
		writeJSONError(w, http.StatusInternalServerError, "falha na consulta de preço")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"descricao":      result.Descricao,
		"sku":            result.SKU,
		"preco":          result.CurrentPreco.Reais(),
		"preco_centavos": result.CurrentPreco.Cents,
		"fonte":          result.Source,
	})
}

// indexRow is one product line on the index page.
type indexRow struct {
	Descricao string
	SKU       string
	Compras   int
	Total     string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	groups, err := s.loadGroups(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Index load error", "error", err)
		groups = nil
	}

	var purchases []core.Purchase
	for _, g := range groups {
		purchases = append(purchases, g.Purchases...)
	}
	stats := aggregate.Summarize(purchases)

	rows := make([]indexRow, len(groups))
	for i, g := range groups {
		rows[i] = indexRow{
			Descricao: g.Descricao,
			SKU:       g.SKU,
			Compras:   len(g.Purchases),
			Total:     g.Total().BRL(),
		}
	}

	now := time.Now()
	data := struct {
		Rows           []indexRow
		TotalGasto     string
		TotalCompras   int
		TotalProdutos  int
		MediaPorCompra string
		Hoje           string
	}{
		Rows:           rows,
		TotalGasto:     stats.TotalSpent.BRL(),
		TotalCompras:   stats.PurchaseCount,
		TotalProdutos:  stats.DistinctCount,
		MediaPorCompra: stats.AveragePerBuy.BRL(),
		Hoje:           core.NewDate(now.Year(), int(now.Month()), now.Day()).ISO(),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
