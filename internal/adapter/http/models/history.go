package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/api-sage/wallet-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/wallet-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

var historyTypes = map[string]domain.TransactionType{
	"DEPOSIT":    domain.TransactionTypeDeposit,
	"WITHDRAWAL": domain.TransactionTypeWithdrawal,
	"TRANSFER":   domain.TransactionTypeTransfer,
}

type HistoryRequest struct {
	Limit              int
	Page               int
	StartDate          *time.Time
	EndDate            *time.Time
	Type               *domain.TransactionType
	MinAmount          *decimal.Decimal
	MaxAmount          *decimal.Decimal
	RecipientAccountID *string
}

// ParseHistoryRequest reads the optional query parameters of the history
// endpoint. Missing parameters keep their defaults: limit 10, page 1, no
// filters.
func ParseHistoryRequest(query url.Values) (HistoryRequest, error) {
	req := HistoryRequest{Limit: 10, Page: 1}

	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return HistoryRequest{}, fmt.Errorf("limit must be a positive integer")
		}
		req.Limit = limit
	}
	if raw := strings.TrimSpace(query.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return HistoryRequest{}, fmt.Errorf("page must be a positive integer")
		}
		req.Page = page
	}
	if raw := strings.TrimSpace(query.Get("startDate")); raw != "" {
		startDate, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return HistoryRequest{}, fmt.Errorf("startDate must be an RFC3339 timestamp")
		}
		req.StartDate = &startDate
	}
	if raw := strings.TrimSpace(query.Get("endDate")); raw != "" {
		endDate, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return HistoryRequest{}, fmt.Errorf("endDate must be an RFC3339 timestamp")
		}
		req.EndDate = &endDate
	}
	if raw := strings.TrimSpace(query.Get("transactionType")); raw != "" {
		transactionType, ok := historyTypes[strings.ToUpper(raw)]
		if !ok {
			return HistoryRequest{}, fmt.Errorf("transactionType must be one of DEPOSIT, WITHDRAWAL, TRANSFER")
		}
		req.Type = &transactionType
	}
	if raw := strings.TrimSpace(query.Get("minAmount")); raw != "" {
		minAmount, err := decimal.NewFromString(raw)
		if err != nil {
			return HistoryRequest{}, fmt.Errorf("minAmount must be a number")
		}
		req.MinAmount = &minAmount
	}
	if raw := strings.TrimSpace(query.Get("maxAmount")); raw != "" {
		maxAmount, err := decimal.NewFromString(raw)
		if err != nil {
			return HistoryRequest{}, fmt.Errorf("maxAmount must be a number")
		}
		req.MaxAmount = &maxAmount
	}
	if raw := strings.TrimSpace(query.Get("recipientAccountId")); raw != "" {
		recipient := raw
		req.RecipientAccountID = &recipient
	}

	return req, nil
}

func (r HistoryRequest) Filter() repo_interfaces.TransactionFilter {
	return repo_interfaces.TransactionFilter{
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		Type:               r.Type,
		MinAmount:          r.MinAmount,
		MaxAmount:          r.MaxAmount,
		RecipientAccountID: r.RecipientAccountID,
		Limit:              r.Limit,
		Page:               r.Page,
	}
}
