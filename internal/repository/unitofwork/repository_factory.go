package unitofwork

import "context"

// RepositoryFactory opens units of work. Each call starts an independent
// transaction scope over the shared connection pool.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
