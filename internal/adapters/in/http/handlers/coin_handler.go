// internal/adapters/in/http/handlers/coin_handler.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	usecase "memecoin/internal/application/usecase"
	"memecoin/internal/domain/coin"
)

const (
	// multipartOverhead leaves room for the text fields and part headers.
	multipartOverhead = 1 << 20

	successMessage = "Meme coin generated successfully!"
)

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// CoinService is the application surface the handler drives.
type CoinService interface {
	IssueCoin(ctx context.Context, in usecase.IssueCoinInput) (*coin.MintResult, error)
	EstimateCost(ctx context.Context) (decimal.Decimal, error)
	ObserveCoin(ctx context.Context, mintAddress string) (*coin.Observation, error)
	RecentIssuances(ctx context.Context, limit int) ([]coin.IssuanceRecord, error)
	GetIssuance(ctx context.Context, id string) (*coin.IssuanceRecord, error)
}

type CoinHandler struct {
	svc           CoinService
	maxImageBytes int64
}

func NewCoinHandler(svc CoinService, maxImageBytes int) *CoinHandler {
	return &CoinHandler{svc: svc, maxImageBytes: int64(maxImageBytes)}
}

// Routes mounts the coin endpoints under /api.
func (h *CoinHandler) Routes(r chi.Router) {
	r.Get("/estimate-cost", h.EstimateCost)
	r.Post("/generate-meme-coin", h.GenerateMemeCoin)
	r.Get("/coins/{mintAddress}", h.GetCoin)
	r.Get("/issuances", h.ListIssuances)
	r.Get("/issuances/{id}", h.GetIssuance)
}

// GET /api/estimate-cost
func (h *CoinHandler) EstimateCost(w http.ResponseWriter, r *http.Request) {
	cost, err := h.svc.EstimateCost(r.Context())
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cost": cost.InexactFloat64()})
}

// POST /api/generate-meme-coin (multipart)
func (h *CoinHandler) GenerateMemeCoin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxImageBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			badRequest(w, fmt.Sprintf("image must be at most %d bytes", h.maxImageBytes))
			return
		}
		badRequest(w, "invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	f, fh, err := r.FormFile("image")
	if err != nil {
		badRequest(w, "image file is required")
		return
	}
	defer f.Close()

	name := strings.TrimSpace(r.FormValue("name"))
	symbol := strings.TrimSpace(r.FormValue("symbol"))
	description := strings.TrimSpace(r.FormValue("description"))
	supplyRaw := strings.TrimSpace(r.FormValue("supply"))
	if name == "" || symbol == "" || description == "" || supplyRaw == "" {
		badRequest(w, "name, symbol, description and supply are required")
		return
	}

	supply, err := strconv.ParseUint(supplyRaw, 10, 64)
	if err != nil || supply == 0 {
		badRequest(w, "supply must be a positive integer")
		return
	}

	if fh.Size > h.maxImageBytes {
		badRequest(w, fmt.Sprintf("image must be at most %d bytes", h.maxImageBytes))
		return
	}
	data, err := io.ReadAll(io.LimitReader(f, h.maxImageBytes+1))
	if err != nil {
		badRequest(w, "failed to read image")
		return
	}
	if len(data) == 0 {
		badRequest(w, "image file is empty")
		return
	}

	mimeType := imageMimeType(fh.Header.Get("Content-Type"), data)
	if !allowedImageTypes[mimeType] {
		badRequest(w, fmt.Sprintf("unsupported image type %q", mimeType))
		return
	}

	fileName := sanitizeFileName(fh.Filename)
	if fileName == "" {
		fileName = "image"
	}

	res, err := h.svc.IssueCoin(r.Context(), usecase.IssueCoinInput{
		Name:          name,
		Symbol:        symbol,
		Description:   description,
		Image:         data,
		ImageFileName: fileName,
		MimeType:      mimeType,
		Supply:        supply,
	})
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     successMessage,
		"mintAddress": res.MintAddress,
		"explorerUrl": res.ExplorerURL,
	})
}

// GET /api/coins/{mintAddress}
func (h *CoinHandler) GetCoin(w http.ResponseWriter, r *http.Request) {
	addr := strings.TrimSpace(chi.URLParam(r, "mintAddress"))
	if !coin.IsValidAddress(addr) {
		badRequest(w, "invalid mint address")
		return
	}
	obs, err := h.svc.ObserveCoin(r.Context(), addr)
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, obs)
}

// GET /api/issuances?limit=N
func (h *CoinHandler) ListIssuances(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 20)
	recs, err := h.svc.RecentIssuances(r.Context(), limit)
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": recs})
}

// GET /api/issuances/{id}
func (h *CoinHandler) GetIssuance(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetIssuance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// imageMimeType trusts the declared part type unless it is missing or generic.
func imageMimeType(declared string, data []byte) string {
	ct := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return ct
}
