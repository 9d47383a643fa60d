package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/vladisc/financial-server/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         newPgxUserRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		NotificationRepo: newPgxNotificationRepository(dbPool),
	}
}
