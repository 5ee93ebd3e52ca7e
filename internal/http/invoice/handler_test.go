package invoice_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mpereira/invoicer/internal/auth"
	authHandler "github.com/mpereira/invoicer/internal/http/auth"
	invoiceHandler "github.com/mpereira/invoicer/internal/http/invoice"
	"github.com/mpereira/invoicer/internal/invoice"
)

func newTestRouter(t *testing.T, repo invoice.Repository) (http.Handler, string, uuid.UUID) {
	t.Helper()

	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	authSvc := auth.NewService(nil, issuer)

	userID := uuid.New()
	token, err := issuer.Issue(userID)
	require.NoError(t, err)

	handler := invoiceHandler.NewHandler(invoice.NewService(repo))

	r := chi.NewRouter()
	r.Route("/invoices", func(r chi.Router) {
		r.Use(authHandler.Middleware(authSvc))
		handler.Routes(r)
	})

	return r, token, userID
}

func TestHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	ctr := invoice.NewMockCreateTx(ctrl)

	repo.EXPECT().BeginCreate(gomock.Any(), gomock.Any()).Return(ctr, nil)
	ctr.EXPECT().CountCreatedOn(gomock.Any(), gomock.Any()).Return(0, nil)
	ctr.EXPECT().
		CreateInvoiceWithItems(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
			inv.ID = uuid.New()
			inv.CreatedAt = time.Now()
			return nil
		})
	ctr.EXPECT().Commit().Return(nil)
	ctr.EXPECT().Rollback().Return(nil)

	router, token, _ := newTestRouter(t, repo)

	body := `{
		"customer_id": "` + uuid.NewString() + `",
		"due_date": "2025-09-01",
		"items": [{"name": "Widget", "qty": 2, "price": "100.00"}]
	}`

	req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Number string `json:"invoice_number"`
		Total  string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, invoice.FormatNumber(time.Now().UTC(), 1), resp.Number)
	assert.Equal(t, "200.00", resp.Total)
}

func TestHandler_Create_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: an invalid payload must not reach the repository.
	repo := invoice.NewMockRepository(ctrl)
	router, token, _ := newTestRouter(t, repo)

	body := `{"customer_id": "` + uuid.NewString() + `", "due_date": "2025-09-01", "items": []}`

	req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Message)
	assert.Contains(t, resp.Errors, "items")
}

func TestHandler_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	router, token, userID := newTestRouter(t, repo)

	id := uuid.New()
	repo.EXPECT().GetInvoice(gomock.Any(), id, userID).Return(nil, invoice.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/invoices/"+id.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_MissingToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _, _ := newTestRouter(t, invoice.NewMockRepository(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_BadToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _, _ := newTestRouter(t, invoice.NewMockRepository(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
