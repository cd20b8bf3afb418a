package models

import (
	"net/url"
	"testing"

	"github.com/api-sage/wallet-ledger/internal/domain"
)

func TestParseHistoryRequestDefaults(t *testing.T) {
	req, err := ParseHistoryRequest(url.Values{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if req.Limit != 10 || req.Page != 1 {
		t.Fatalf("expected defaults limit=10 page=1, got limit=%d page=%d", req.Limit, req.Page)
	}
	if req.StartDate != nil || req.EndDate != nil || req.Type != nil || req.MinAmount != nil {
		t.Fatal("expected no filters by default")
	}
}

func TestParseHistoryRequestFullQuery(t *testing.T) {
	query := url.Values{}
	query.Set("limit", "25")
	query.Set("page", "3")
	query.Set("startDate", "2026-01-01T00:00:00Z")
	query.Set("endDate", "2026-02-01T00:00:00Z")
	query.Set("transactionType", "transfer")
	query.Set("minAmount", "100")
	query.Set("maxAmount", "5000")
	query.Set("recipientAccountId", "acc-9")

	req, err := ParseHistoryRequest(query)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if req.Limit != 25 || req.Page != 3 {
		t.Fatalf("expected limit=25 page=3, got limit=%d page=%d", req.Limit, req.Page)
	}
	if req.Type == nil || *req.Type != domain.TransactionTypeTransfer {
		t.Fatalf("expected TRANSFER type filter, got %v", req.Type)
	}
	if req.StartDate == nil || req.StartDate.Year() != 2026 {
		t.Fatalf("expected parsed start date, got %v", req.StartDate)
	}
	if req.RecipientAccountID == nil || *req.RecipientAccountID != "acc-9" {
		t.Fatalf("expected recipient filter, got %v", req.RecipientAccountID)
	}

	filter := req.Filter()
	if filter.Offset() != 50 {
		t.Fatalf("expected offset 50 for limit=25 page=3, got %d", filter.Offset())
	}
}

func TestParseHistoryRequestRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero limit", "limit", "0"},
		{"negative page", "page", "-1"},
		{"bad date", "startDate", "yesterday"},
		{"unknown type", "transactionType", "REFUND"},
		{"non-numeric amount", "minAmount", "lots"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			query := url.Values{}
			query.Set(tc.key, tc.value)
			if _, err := ParseHistoryRequest(query); err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}
