package service_interfaces

import (
	"context"

	"github.com/api-sage/wallet-ledger/internal/domain"
)

type StatementService interface {
	GetStatement(ctx context.Context, accountID string) (domain.StatementDocument, error)
}
