package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docpress/internal/core/types"
	"docpress/internal/domain/document"
	"docpress/internal/infrastructure/http/v1/dto"
	"docpress/internal/render"
	"docpress/pkg/logger"
	"docpress/pkg/sequence"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	repo := document.NewMemoryRepository()
	allocator := sequence.New(sequence.NewMemoryStore())

	clock := func() time.Time {
		return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	}
	svc := document.NewService(repo, allocator).WithClock(clock)

	settings := render.DefaultSettings()
	renderer := render.New(settings, render.Company{
		Name:   "Acme Consulting Ltd",
		Email:  "accounts@acme.example",
		TaxID:  "P051234567X",
		Phone:  "+254 700 000 001",
	})

	return NewRouter(RouterConfig{
		Logger:          logger.Default(),
		DocumentService: svc,
		Renderer:        renderer,
		TaxPolicy: document.TaxPolicy{
			Rate:    types.MustMoney("0.16"),
			Include: true,
		},
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeDoc(t *testing.T, w *httptest.ResponseRecorder) dto.DocumentResponse {
	t.Helper()
	var resp dto.DocumentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func quotationPayload() dto.CreateDocumentRequest {
	return dto.CreateDocumentRequest{
		Type: "quotation",
		Customer: dto.CustomerPayload{
			Name:  "Jomo Enterprises",
			Phone: "+254 700 000 000",
		},
		Items: []dto.LineItemPayload{
			{Name: "Consulting", Quantity: 2, UnitPrice: types.MustMoney("1000")},
		},
	}
}

func TestDocumentLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	// Create a draft.
	w := doJSON(t, router, http.MethodPost, "/api/v1/documents", quotationPayload())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created dto.IDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	// Draft carries computed totals, no number.
	w = doJSON(t, router, http.MethodGet, "/api/v1/documents/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := decodeDoc(t, w)
	assert.Empty(t, doc.Number)
	assert.True(t, doc.Subtotal.Equal(types.MustMoney("2000")))
	assert.True(t, doc.TaxAmount.Equal(types.MustMoney("320")))
	assert.True(t, doc.GrandTotal.Equal(types.MustMoney("2320")))

	// Peek previews without burning.
	w = doJSON(t, router, http.MethodGet, "/api/v1/sequences/quotation/peek", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var peek dto.NumberResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &peek))
	assert.Equal(t, "QUO-0501-01", peek.Number)

	// Finalize allocates the previewed number.
	w = doJSON(t, router, http.MethodPost, "/api/v1/documents/"+created.ID+"/finalize", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	doc = decodeDoc(t, w)
	assert.Equal(t, "QUO-0501-01", doc.Number)

	// Second finalize is rejected, no number burned.
	w = doJSON(t, router, http.MethodPost, "/api/v1/documents/"+created.ID+"/finalize", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/sequences/quotation/peek", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &peek))
	assert.Equal(t, "QUO-0501-02", peek.Number)

	// Convert keeps the sequence suffix and swaps the prefix.
	w = doJSON(t, router, http.MethodPost, "/api/v1/documents/"+created.ID+"/convert",
		dto.ConvertDocumentRequest{TargetType: "invoice"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	converted := decodeDoc(t, w)
	assert.Equal(t, "INV-0501-01", converted.Number)
	assert.Equal(t, "QUO-0501-01", converted.SourceNumber)
	assert.Equal(t, "draft", converted.Status)

	// Conversion never touches the invoice counter.
	w = doJSON(t, router, http.MethodGet, "/api/v1/sequences/invoice/peek", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &peek))
	assert.Equal(t, "INV-0501-01", peek.Number)

	// Render produces a PDF attachment.
	w = doJSON(t, router, http.MethodPost, "/api/v1/documents/"+created.ID+"/render", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "QUO-0501-01.pdf")
	require.GreaterOrEqual(t, w.Body.Len(), 4)
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestCreateRejectsInvalidBody(t *testing.T) {
	router := newTestRouter(t)

	payload := quotationPayload()
	payload.Items = nil

	w := doJSON(t, router, http.MethodPost, "/api/v1/documents", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUnknownDocument(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/documents/018f3a2b-0000-7000-8000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/documents/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateFinalizedDocumentRejected(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/documents", quotationPayload())
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.IDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodPost, "/api/v1/documents/"+created.ID+"/finalize", nil)
	require.Equal(t, http.StatusOK, w.Code)

	update := dto.UpdateDocumentRequest{
		Customer: dto.CustomerPayload{Name: "Jomo Enterprises"},
		Items: []dto.LineItemPayload{
			{Name: "Consulting", Quantity: 1, UnitPrice: types.MustMoney("500")},
		},
	}
	w = doJSON(t, router, http.MethodPut, "/api/v1/documents/"+created.ID, update)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPeekUnknownType(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/sequences/receipt/peek", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
