package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coopstack/loanledger/internal/domain"
	"github.com/coopstack/loanledger/internal/ledgerview"
	"github.com/coopstack/loanledger/internal/service"
)

type mockViewService struct {
	grid    *ledgerview.Grid
	entries []domain.LedgerEntry
	total   int
	err     error
}

func (m *mockViewService) Grid(_ context.Context, _ uuid.UUID) (*ledgerview.Grid, error) {
	return m.grid, m.err
}

func (m *mockViewService) AccountEntries(_ context.Context, _ uuid.UUID, _, _ int) ([]domain.LedgerEntry, int, error) {
	return m.entries, m.total, m.err
}

type mockPostingService struct {
	entry *domain.LedgerEntry
	req   service.PostingRequest
	err   error
}

func (m *mockPostingService) RecordEntry(_ context.Context, req service.PostingRequest) (*domain.LedgerEntry, error) {
	m.req = req
	return m.entry, m.err
}

func newLedgerMux(view ledgerViewService, postings postingService) *http.ServeMux {
	h := NewLedgerHandler(view, postings)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/loans/{id}/ledger", h.Grid)
	mux.HandleFunc("POST /api/v1/loans/{id}/entries", h.RecordEntry)
	mux.HandleFunc("GET /api/v1/accounts/{id}/entries", h.AccountEntries)
	return mux
}

func fixtureGrid(t *testing.T) (*ledgerview.Grid, domain.AccountSnapshot, domain.AccountSnapshot) {
	t.Helper()

	principal := domain.AccountSnapshot{AccountID: uuid.New(), Name: "Loan Principal", HistoryID: uuid.New()}
	interest := domain.AccountSnapshot{AccountID: uuid.New(), Name: "Loan Interest", HistoryID: uuid.New()}

	date := func(v string) time.Time {
		parsed, err := time.Parse(time.RFC3339, v)
		require.NoError(t, err)
		return parsed
	}

	grid := ledgerview.NormalizeGrid([]domain.LedgerEntry{
		{
			ID: uuid.New(), Account: principal,
			EntryDate: date("2025-03-01T08:00:00Z"),
			Debit:     decimal.RequireFromString("5000"),
			Credit:    decimal.Zero,
			Balance:   decimal.RequireFromString("5000"),
		},
		{
			ID: uuid.New(), Account: interest,
			EntryDate: date("2025-03-25T10:00:00Z"),
			Debit:     decimal.Zero,
			Credit:    decimal.RequireFromString("1000"),
			Balance:   decimal.RequireFromString("1250"),
		},
	})
	return &grid, principal, interest
}

func TestGridHandler(t *testing.T) {
	grid, principal, interest := fixtureGrid(t)
	mux := newLedgerMux(&mockViewService{grid: grid}, &mockPostingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans/"+uuid.NewString()+"/ledger", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool    `json:"success"`
		Data    gridDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	require.Len(t, resp.Data.Columns, 2)
	require.Len(t, resp.Data.Rows, 2)

	for i, row := range resp.Data.Rows {
		require.Len(t, row.Cell, 2, "row %d", i)
		_, ok := row.Cell[principal.AccountID.String()]
		require.True(t, ok, "row %d missing principal cell", i)
		_, ok = row.Cell[interest.AccountID.String()]
		require.True(t, ok, "row %d missing interest cell", i)
	}

	assert.Equal(t, "2025-03-01", resp.Data.Rows[0].Date)
	assert.Equal(t, "2025-03-25", resp.Data.Rows[1].Date)

	// Principal had no activity on the 25th; the cell is synthetic and
	// carries the balance forward.
	ghost := resp.Data.Rows[1].Cell[principal.AccountID.String()]
	assert.True(t, ghost.Synthetic)
	assert.True(t, ghost.Balance.Equal(decimal.RequireFromString("5000")))
}

func TestGridHandlerLoanNotFound(t *testing.T) {
	mux := newLedgerMux(&mockViewService{err: domain.ErrLoanNotFound}, &mockPostingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans/"+uuid.NewString()+"/ledger", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "LOAN_NOT_FOUND", resp.Error.Code)
}

func TestGridHandlerBadLoanID(t *testing.T) {
	mux := newLedgerMux(&mockViewService{}, &mockPostingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans/not-a-uuid/ledger", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordEntryValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{
			name:      "missing account id",
			body:      `{"entry_date":"2025-03-25","debit":100}`,
			wantField: "account_id",
		},
		{
			name:      "malformed account id",
			body:      `{"account_id":"nope","entry_date":"2025-03-25","debit":100}`,
			wantField: "account_id",
		},
		{
			name:      "missing entry date",
			body:      `{"account_id":"` + uuid.NewString() + `","debit":100}`,
			wantField: "entry_date",
		},
		{
			name:      "malformed entry date",
			body:      `{"account_id":"` + uuid.NewString() + `","entry_date":"25/03/2025","debit":100}`,
			wantField: "entry_date",
		},
		{
			name:      "negative amount",
			body:      `{"account_id":"` + uuid.NewString() + `","entry_date":"2025-03-25","debit":-5}`,
			wantField: "amount",
		},
		{
			name:      "both sides set",
			body:      `{"account_id":"` + uuid.NewString() + `","entry_date":"2025-03-25","debit":5,"credit":5}`,
			wantField: "amount",
		},
		{
			name:      "no amount at all",
			body:      `{"account_id":"` + uuid.NewString() + `","entry_date":"2025-03-25"}`,
			wantField: "amount",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			posting := &mockPostingService{}
			mux := newLedgerMux(&mockViewService{}, posting)

			req := httptest.NewRequest(http.MethodPost,
				"/api/v1/loans/"+uuid.NewString()+"/entries", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp struct {
				Error *struct {
					Code    string       `json:"code"`
					Details []FieldError `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)

			found := false
			for _, fe := range resp.Error.Details {
				if fe.Field == tc.wantField {
					found = true
				}
			}
			assert.True(t, found, "expected a %q field error, got %+v", tc.wantField, resp.Error.Details)
		})
	}
}

func TestRecordEntrySuccess(t *testing.T) {
	accountID := uuid.New()
	entry := &domain.LedgerEntry{
		ID:     uuid.New(),
		LoanID: uuid.New(),
		Account: domain.AccountSnapshot{
			AccountID: accountID,
			Name:      "Loan Interest",
			HistoryID: uuid.New(),
		},
		EntryDate: time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC),
		Debit:     decimal.Zero,
		Credit:    decimal.RequireFromString("1000"),
		Balance:   decimal.RequireFromString("1250"),
		CreatedAt: time.Now().UTC(),
	}

	posting := &mockPostingService{entry: entry}
	mux := newLedgerMux(&mockViewService{}, posting)

	body := `{"account_id":"` + accountID.String() + `","entry_date":"2025-03-25","credit":1000,"memo":"march installment"}`
	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/loans/"+entry.LoanID.String()+"/entries", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, entry.LoanID, posting.req.LoanID)
	assert.Equal(t, accountID, posting.req.AccountID)
	assert.Equal(t, "march installment", posting.req.Memo)
	assert.True(t, posting.req.Credit.Equal(decimal.RequireFromString("1000")))
}

func TestRecordEntryDomainErrorMapping(t *testing.T) {
	posting := &mockPostingService{err: domain.ErrAccountMismatch}
	mux := newLedgerMux(&mockViewService{}, posting)

	body := `{"account_id":"` + uuid.NewString() + `","entry_date":"2025-03-25","debit":100}`
	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/loans/"+uuid.NewString()+"/entries", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ACCOUNT_MISMATCH", resp.Error.Code)
}
