package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"quantofoi/internal/core"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"erro": msg})
}

// purchaseJSON is the wire shape for one purchase. The first six fields
// are the remote API contract; the formatted ones are display extras that
// remote clients ignore.
type purchaseJSON struct {
	ID        string  `json:"id"`
	Descricao string  `json:"descricao"`
	SKU       string  `json:"sku"`
	Preco     float64 `json:"preco"`
	Data      string  `json:"data"`
	Local     string  `json:"local"`

	PrecoFormatado string `json:"preco_formatado"`
	DataBR         string `json:"data_br"`
}

func toPurchaseJSON(p core.Purchase) purchaseJSON {
	return purchaseJSON{
		ID:             p.ID,
		Descricao:      p.Descricao,
		SKU:            p.SKU,
		Preco:          p.Preco.Reais(),
		Data:           p.Data.ISO(),
		Local:          p.Local,
		PrecoFormatado: p.Preco.BRL(),
		DataBR:         p.Data.BR(),
	}
}

func toPurchaseJSONList(ps []core.Purchase) []purchaseJSON {
	out := make([]purchaseJSON, len(ps))
	for i, p := range ps {
		out[i] = toPurchaseJSON(p)
	}
	return out
}
