package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

var errBadMonth = errors.New("invalid month, expected YYYY-MM")

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondOK(w, map[string]string{"status": "ok"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Reset(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondOK(w, map[string]string{"status": "reset"})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var a core.Account
	if err := decodeJSON(r, &a); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if a.Currency == "" {
		a.Currency = core.DefaultCurrency
	}
	if err := s.store.PutAccount(r.Context(), &a); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondOK(w, a)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondOK(w, accounts)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var c core.Category
	if err := decodeJSON(r, &c); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := c.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.PutCategory(r.Context(), &c); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondOK(w, c)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondOK(w, categories)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeJSON(r, &t); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := t.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	t.Currency = t.CurrencyOrDefault()
	if err := s.store.PutTransaction(r.Context(), &t); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondOK(w, t)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if err := validateRange(start, end); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	txs, err := s.store.ListTransactions(r.Context(), start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondOK(w, txs)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if err := validateRange(start, end); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	txs, err := s.store.ListTransactions(r.Context(), "", "")
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondOK(w, core.ComputeSummary(txs, start, end))
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	if !validMonth(month) {
		respondError(w, http.StatusBadRequest, errBadMonth)
		return
	}

	txs, err := s.store.ListTransactionsByMonthSheet(r.Context(), "Transactions-"+month)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondOK(w, core.ComputeMonthlyBreakdown(txs))
}

func (s *Server) handleBreakdownExport(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	if !validMonth(month) {
		respondError(w, http.StatusBadRequest, errBadMonth)
		return
	}
	if s.exporter == nil {
		respondError(w, http.StatusInternalServerError, errors.New("sheet export is not configured"))
		return
	}

	txs, err := s.store.ListTransactionsByMonthSheet(r.Context(), "Transactions-"+month)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	breakdown := core.ComputeMonthlyBreakdown(txs)

	if err := s.exporter.ExportBreakdown(r.Context(), month, breakdown.SheetData); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondOK(w, map[string]any{
		"month":    month,
		"exported": len(breakdown.SheetData),
	})
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var sub core.Subscription
	if err := decodeJSON(r, &sub); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := sub.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	sub.Currency = sub.CurrencyOrDefault()
	if err := s.store.PutSubscription(r.Context(), &sub); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondOK(w, sub)
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.store.ListSubscriptions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondOK(w, subs)
}

func (s *Server) handlePostDue(w http.ResponseWriter, r *http.Request) {
	posted, err := s.poster.PostDue(r.Context(), store.Today())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondOK(w, map[string]any{"posted": posted})
}

func (s *Server) handleCreateNetWorth(w http.ResponseWriter, r *http.Request) {
	var n core.NetWorthSnapshot
	if err := decodeJSON(r, &n); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := n.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if n.Date == "" {
		n.Date = store.Today()
	}
	n.NetWorth = n.Assets.Add(n.Liabilities)
	if err := s.store.PutNetWorthSnapshot(r.Context(), &n); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondOK(w, n)
}

func (s *Server) handleListNetWorth(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.store.ListNetWorthSnapshots(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondOK(w, snapshots)
}

func validateRange(start, end string) error {
	if start != "" && !core.ValidDate(start) {
		return fmt.Errorf("start: %w", core.ErrInvalidDate)
	}
	if end != "" && !core.ValidDate(end) {
		return fmt.Errorf("end: %w", core.ErrInvalidDate)
	}
	return nil
}

func validMonth(month string) bool {
	_, err := time.Parse("2006-01", month)
	return err == nil
}
