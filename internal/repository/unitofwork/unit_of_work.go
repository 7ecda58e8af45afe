package unitofwork

import (
	"context"

	"staysure-portal-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ApplicationRepository() contract.ApplicationRepository
}
