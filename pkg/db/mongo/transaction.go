package mongo

import (
	"context"
	"errors"
	"fmt"

	apperrors "fleetbook/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// TransactionFunc receives the session-scoped context. It is typed on
// plain context.Context so service layers and their tests do not depend on
// driver session types; the real manager always passes a SessionContext.
type TransactionFunc func(ctx context.Context) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{
		client: client,
	}
}

// ExecuteTransaction runs fn inside a session transaction. Storage-level
// write conflicts come back as a tagged *ConflictError so callers decide
// retry-ability without inspecting error strings. AppErrors raised by fn
// (business conflicts included) pass through untouched.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return Classify(err)
	}

	return nil
}

// ConflictKind tags the two conflict classes the transaction layer can
// observe. Transient conflicts are retryable; duplicates are not.
type ConflictKind int

const (
	KindTransient ConflictKind = iota
	KindDuplicate
)

type ConflictError struct {
	Kind ConflictKind
	Err  error
}

func (e *ConflictError) Error() string {
	switch e.Kind {
	case KindDuplicate:
		return fmt.Sprintf("duplicate key conflict: %v", e.Err)
	default:
		return fmt.Sprintf("transient write conflict: %v", e.Err)
	}
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// Classify converts raw driver errors into tagged conflict errors. The
// driver marks aborts caused by concurrent writes with the
// TransientTransactionError label; under snapshot isolation that is the
// only signal that a racing transaction won.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return &ConflictError{Kind: KindDuplicate, Err: err}
	}
	var labeled mongo.ServerError
	if errors.As(err, &labeled) && labeled.HasErrorLabel("TransientTransactionError") {
		return &ConflictError{Kind: KindTransient, Err: err}
	}
	return fmt.Errorf("transaction failed: %w", err)
}

// IsTransient reports whether err is a storage-level conflict that a fresh
// transaction attempt may resolve.
func IsTransient(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict) && conflict.Kind == KindTransient
}

// IsDuplicate reports whether err is a unique-index violation.
func IsDuplicate(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict) && conflict.Kind == KindDuplicate
}
