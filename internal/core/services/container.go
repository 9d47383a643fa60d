package services

import (
	portsrepo "github.com/vladisc/financial-server/internal/core/ports/repositories"
	portssvc "github.com/vladisc/financial-server/internal/core/ports/services"
)

// NewServiceContainer wires repositories and the extraction adapter into the
// full set of application services.
func NewServiceContainer(repos portsrepo.RepositoryProvider, extractor portssvc.TransactionExtractor) *portssvc.ServiceContainer {
	userSvc := NewUserService(repos.UserRepo)
	return &portssvc.ServiceContainer{
		User:         userSvc,
		Transaction:  NewTransactionService(repos.TransactionRepo),
		Notification: NewIngestionService(repos.TransactionRepo, repos.NotificationRepo, userSvc, extractor),
	}
}
