// Package mongo implements the storage ports on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

const (
	transactionsCollection = "transactions"
	budgetsCollection      = "budgets"
	archivesCollection     = "monthly_archives"
)

// Repository implements TransactionStore, BudgetStore and ArchiveStore on a
// MongoDB database. The *mongo.Client is the process-wide connection pool:
// it is created exactly once at startup and handed in here, never cached in
// a package-level variable.
type Repository struct {
	client       *mongo.Client
	transactions *mongo.Collection
	budgets      *mongo.Collection
	archives     *mongo.Collection
}

// Connect dials MongoDB, verifies the connection and returns the client.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}

// NewRepository wires the repository to the given client and database and
// ensures the budget uniqueness index exists.
func NewRepository(ctx context.Context, client *mongo.Client, dbName string) (*Repository, error) {
	db := client.Database(dbName)
	r := &Repository{
		client:       client,
		transactions: db.Collection(transactionsCollection),
		budgets:      db.Collection(budgetsCollection),
		archives:     db.Collection(archivesCollection),
	}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return r, nil
}

// ensureIndexes enforces budget uniqueness per (category, month, year).
func (r *Repository) ensureIndexes(ctx context.Context) error {
	_, err := r.budgets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "category", Value: 1},
			{Key: "month", Value: 1},
			{Key: "year", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

type transactionDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	AmountCents int64              `bson:"amountCents"`
	Date        time.Time          `bson:"date"`
	Description string             `bson:"description"`
	Type        string             `bson:"type"`
	Category    string             `bson:"category"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d transactionDoc) toCore() core.Transaction {
	return core.Transaction{
		ID:          d.ID.Hex(),
		Amount:      core.Money{Cents: d.AmountCents},
		Date:        d.Date,
		Description: d.Description,
		Type:        core.TransactionType(d.Type),
		Category:    d.Category,
	}
}

type budgetDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Category    string             `bson:"category"`
	AmountCents int64              `bson:"amountCents"`
	Month       int                `bson:"month"`
	Year        int                `bson:"year"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// ListTransactions returns every transaction, most recent date first.
func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.transactions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var out []core.Transaction
	for cursor.Next(ctx) {
		var doc transactionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		out = append(out, doc.toCore())
	}
	return out, cursor.Err()
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (*core.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrInvalidID
	}
	var doc transactionDoc
	err = r.transactions.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	t := doc.toCore()
	return &t, nil
}

func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	now := time.Now()
	doc := transactionDoc{
		AmountCents: t.Amount.Cents,
		Date:        t.Date,
		Description: t.Description,
		Type:        string(t.Type),
		Category:    t.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := r.transactions.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)

	slog.InfoContext(ctx, "Transaction saved",
		"id", oid.Hex(),
		"type", t.Type,
		"amount_cents", t.Amount.Cents,
		"category", t.Category)

	return oid.Hex(), nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, id string, update storage.TransactionUpdate) (*core.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrInvalidID
	}

	set := bson.M{"updatedAt": time.Now()}
	if update.AmountCents != nil {
		set["amountCents"] = *update.AmountCents
	}
	if update.Date != nil {
		set["date"] = *update.Date
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Type != nil {
		set["type"] = string(*update.Type)
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc transactionDoc
	err = r.transactions.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	t := doc.toCore()
	return &t, nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrInvalidID
	}
	res, err := r.transactions.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListBudgets returns all budgets, newest period first, category ascending
// within a period.
func (r *Repository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "year", Value: -1},
		{Key: "month", Value: -1},
		{Key: "category", Value: 1},
	})
	cursor, err := r.budgets.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch budgets: %w", err)
	}
	defer cursor.Close(ctx)

	var out []core.Budget
	for cursor.Next(ctx) {
		var doc budgetDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode budget: %w", err)
		}
		out = append(out, core.Budget{
			Category: doc.Category,
			Amount:   core.Money{Cents: doc.AmountCents},
			Month:    doc.Month,
			Year:     doc.Year,
		})
	}
	return out, cursor.Err()
}

// SetBudget upserts the unique record for (category, month, year). The
// compound index makes the upsert race-safe: concurrent writers converge on
// one record.
func (r *Repository) SetBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	filter := bson.M{"category": b.Category, "month": b.Month, "year": b.Year}
	update := bson.M{"$set": bson.M{
		"amountCents": b.Amount.Cents,
		"updatedAt":   time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc budgetDoc
	if err := r.budgets.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget set",
		"category", doc.Category,
		"month", doc.Month,
		"year", doc.Year,
		"amount_cents", doc.AmountCents)

	return core.Budget{
		Category: doc.Category,
		Amount:   core.Money{Cents: doc.AmountCents},
		Month:    doc.Month,
		Year:     doc.Year,
	}, nil
}

type archiveDoc struct {
	ID             string                 `bson:"_id"`
	Year           int                    `bson:"year"`
	Month          int                    `bson:"month"`
	IncomeCents    int64                  `bson:"incomeCents"`
	ExpensesCents  int64                  `bson:"expensesCents"`
	NetCents       int64                  `bson:"netCents"`
	Breakdown      []archiveCategoryDoc   `bson:"breakdown"`
	Reconciliation []archiveComparisonDoc `bson:"reconciliation"`
	ArchivedAt     time.Time              `bson:"archivedAt"`
}

type archiveCategoryDoc struct {
	Name       string `bson:"name"`
	ValueCents int64  `bson:"valueCents"`
}

type archiveComparisonDoc struct {
	Category      string `bson:"category"`
	BudgetedCents int64  `bson:"budgetedCents"`
	ActualCents   int64  `bson:"actualCents"`
}

// SaveMonthlyArchive upserts the archive for its month so re-runs are safe.
func (r *Repository) SaveMonthlyArchive(ctx context.Context, a storage.MonthlyArchive) error {
	doc := archiveDoc{
		ID:            a.ID,
		Year:          a.Year,
		Month:         a.Month,
		IncomeCents:   a.Totals.Income.Cents,
		ExpensesCents: a.Totals.Expenses.Cents,
		NetCents:      a.Totals.Net.Cents,
		ArchivedAt:    a.ArchivedAt,
	}
	for _, cv := range a.Breakdown {
		doc.Breakdown = append(doc.Breakdown, archiveCategoryDoc{Name: cv.Name, ValueCents: cv.Value.Cents})
	}
	for _, row := range a.Reconciliation {
		doc.Reconciliation = append(doc.Reconciliation, archiveComparisonDoc{
			Category:      row.Category,
			BudgetedCents: row.Budgeted.Cents,
			ActualCents:   row.Actual.Cents,
		})
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.archives.ReplaceOne(ctx, bson.M{"_id": a.ID}, doc, opts); err != nil {
		return fmt.Errorf("save monthly archive: %w", err)
	}
	return nil
}
