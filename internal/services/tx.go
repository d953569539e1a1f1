package services

import (
	"context"

	"gorm.io/gorm"
)

// inTransaction runs fn inside the caller's transaction when one is supplied,
// otherwise opens a new one. Every mutating service method goes through this
// so cascades triggered from another service commit or roll back with the
// triggering operation.
func inTransaction(ctx context.Context, db, tx *gorm.DB, fn func(txn *gorm.DB) error) error {
	if tx != nil {
		return fn(tx)
	}
	return db.WithContext(ctx).Transaction(fn)
}
