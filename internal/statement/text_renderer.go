package statement

import (
	"fmt"
	"strings"

	"github.com/api-sage/wallet-ledger/internal/domain"
)

// TextRenderer produces a plain-text account statement: header with holder,
// account number, type and balance, then one line per transaction. It stands
// in for richer renderers (PDF and friends) behind the same interface.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) Render(account domain.Account, transactions []domain.Transaction) (domain.StatementDocument, error) {
	var b strings.Builder

	b.WriteString("Account Statement\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	if account.Owner != nil {
		fmt.Fprintf(&b, "Account Holder: %s\n", account.Owner.Username)
	}
	fmt.Fprintf(&b, "Account Number: %s\n", account.ID)
	fmt.Fprintf(&b, "Account Type: %s\n", account.AccountType)
	fmt.Fprintf(&b, "Balance: %s\n", account.Balance)
	b.WriteString(strings.Repeat("-", 60) + "\n")
	b.WriteString("Transactions:\n")

	for _, transaction := range transactions {
		createdAt := transaction.CreatedAt.UTC()
		fmt.Fprintf(&b, "%s %s - %s: %s (Ref: %s)\n",
			createdAt.Format("2006-01-02"),
			createdAt.Format("15:04:05"),
			transaction.Type,
			transaction.Amount,
			transaction.Reference,
		)
	}

	return domain.StatementDocument{
		Content:     []byte(b.String()),
		ContentType: "text/plain; charset=utf-8",
		Filename:    fmt.Sprintf("statement-%s.txt", account.ID),
	}, nil
}
