package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budgebuddy/internal/core"
)

// transactionPayload is the wire form of a ledger record. Amounts are
// decimal strings to avoid float rounding on the wire.
type transactionPayload struct {
	ID          string    `json:"id,omitempty"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Kind        string    `json:"kind"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (p transactionPayload) toCore() (core.Transaction, error) {
	var t core.Transaction

	if p.ID != "" {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return t, fmt.Errorf("invalid transaction id: %w", err)
		}
		t.ID = id
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(p.Amount))
	if err != nil {
		return t, fmt.Errorf("invalid amount %q: %w", p.Amount, err)
	}

	t.Amount = amount
	t.Description = sanitizeInput(p.Description)
	t.Category = sanitizeInput(p.Category)
	t.Kind = core.Kind(strings.ToUpper(strings.TrimSpace(p.Kind)))
	t.OccurredAt = p.OccurredAt
	return t, nil
}

func toPayload(t core.Transaction) transactionPayload {
	return transactionPayload{
		ID:          t.ID.String(),
		Amount:      t.Amount.String(),
		Description: t.Description,
		Category:    t.Category,
		Kind:        string(t.Kind),
		OccurredAt:  t.OccurredAt,
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		methodNotAllowed(w, r)
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	payloads := make([]transactionPayload, 0, len(transactions))
	for _, t := range transactions {
		payloads = append(payloads, toPayload(t))
	}
	respondJSON(w, http.StatusOK, payloads)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	transaction, err := payload.toCore()
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	// IDs are assigned server side on create.
	transaction.ID = uuid.Nil

	id, err := s.ledger.Insert(r.Context(), transaction)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	transaction.ID = id
	respondJSON(w, http.StatusCreated, toPayload(transaction))
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	rawID := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	id, err := uuid.Parse(rawID)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid transaction id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.updateTransaction(w, r, id)
	case http.MethodDelete:
		s.deleteTransaction(w, r, id)
	default:
		methodNotAllowed(w, r)
	}
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	transaction, err := payload.toCore()
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	transaction.ID = id

	if err := s.ledger.Update(r.Context(), transaction); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toPayload(transaction))
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := s.ledger.Delete(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
