// Package services orchestrates stores, the aggregation engine and the
// event stream.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/storage"
)

// ChangePublisher announces ledger changes to interested consumers.
// *events.Client satisfies it; services tolerate a nil publisher.
type ChangePublisher interface {
	PublishChange(ctx context.Context, entity, id, action string) error
}

// TransactionService persists transactions and publishes change events.
type TransactionService struct {
	store     storage.TransactionStore
	publisher ChangePublisher
}

func NewTransactionService(store storage.TransactionStore, publisher ChangePublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
	}
}

func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx)
}

func (s *TransactionService) Get(ctx context.Context, id string) (*core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// Create saves the transaction and publishes a change event. The store write
// is authoritative; a publish failure is logged and never fails the request.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (string, error) {
	id, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, events.EntityTransaction, id, events.ActionCreated)
	return id, nil
}

func (s *TransactionService) Update(ctx context.Context, id string, update storage.TransactionUpdate) (*core.Transaction, error) {
	updated, err := s.store.UpdateTransaction(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EntityTransaction, id, events.ActionUpdated)
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.EntityTransaction, id, events.ActionDeleted)
	return nil
}

func (s *TransactionService) publish(ctx context.Context, entity, id, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, entity, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"entity", entity,
			"id", id,
			"action", action,
			"error", err)
	}
}
