package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/domain/interfaces"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// DefaultCollection stores transactions unless overridden
	DefaultCollection = "transactions"

	fieldIngressTime = "ingress_time"
	fieldUsername    = "username"
)

// Firestore implements TransactionRepository with Firestore
type Firestore struct {
	client     *firestore.Client
	collection string
}

// FirestoreOption configures the Firestore repository
type FirestoreOption func(*Firestore)

// WithCollection sets the collection name used for transactions
func WithCollection(name string) FirestoreOption {
	return func(f *Firestore) {
		f.collection = name
	}
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string, opts ...FirestoreOption) (*Firestore, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	f := &Firestore{
		client:     client,
		collection: DefaultCollection,
	}
	for _, opt := range opts {
		opt(f)
	}

	// Fail fast on invalid project or missing permissions
	_, err = client.Collection(f.collection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
		"collection", f.collection,
	)

	return f, nil
}

// PutTransaction saves a transaction to Firestore
func (f *Firestore) PutTransaction(ctx context.Context, tx *model.Transaction) error {
	if tx == nil {
		return goerr.New("transaction is nil")
	}
	if err := tx.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid transaction")
	}

	_, err := f.client.Collection(f.collection).Doc(tx.ID.String()).Set(ctx, tx)
	if err != nil {
		return goerr.Wrap(err, "failed to save transaction to firestore",
			goerr.V("transaction_id", tx.ID))
	}
	return nil
}

// ListTransactions returns transactions matching query, newest ingress first.
// The time range and order run on Firestore. The username condition is
// applied in memory to avoid requiring a composite index.
func (f *Firestore) ListTransactions(ctx context.Context, query model.TransactionQuery) ([]*model.Transaction, error) {
	q := f.client.Collection(f.collection).Query
	if !query.Since.IsZero() {
		q = q.Where(fieldIngressTime, ">=", query.Since)
	}
	if !query.Until.IsZero() {
		q = q.Where(fieldIngressTime, "<=", query.Until)
	}
	q = q.OrderBy(fieldIngressTime, firestore.Desc)
	if query.Limit > 0 && query.Username == "" {
		q = q.Limit(query.Limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var result []*model.Transaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate transactions")
		}

		var tx model.Transaction
		if err := doc.DataTo(&tx); err != nil {
			return nil, goerr.Wrap(err, "failed to decode transaction", goerr.V("doc_id", doc.Ref.ID))
		}
		if !query.Match(&tx) {
			continue
		}
		result = append(result, &tx)
	}

	sortNewestFirst(result)

	if query.Limit > 0 && len(result) > query.Limit {
		result = result[:query.Limit]
	}
	return result, nil
}

// ListUsernames returns distinct usernames in ascending order
func (f *Firestore) ListUsernames(ctx context.Context) ([]string, error) {
	iter := f.client.Collection(f.collection).Select(fieldUsername).Documents(ctx)
	defer iter.Stop()

	seen := make(map[string]struct{})
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate usernames")
		}

		v, err := doc.DataAt(fieldUsername)
		if err != nil {
			continue
		}
		if name, ok := v.(string); ok {
			seen[name] = struct{}{}
		}
	}

	return sortedKeys(seen), nil
}

// CountTransactions returns the number of stored transactions
func (f *Firestore) CountTransactions(ctx context.Context) (int, error) {
	iter := f.client.Collection(f.collection).Select().Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, goerr.Wrap(err, "failed to count transactions")
		}
		count++
	}
	return count, nil
}

// ClearTransactions deletes every document of the collection
func (f *Firestore) ClearTransactions(ctx context.Context) (int, error) {
	iter := f.client.Collection(f.collection).Select().Documents(ctx)
	defer iter.Stop()

	bw := f.client.BulkWriter(ctx)
	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return deleted, goerr.Wrap(err, "failed to iterate transactions for deletion")
		}

		if _, err := bw.Delete(doc.Ref); err != nil {
			bw.End()
			return deleted, goerr.Wrap(err, "failed to enqueue transaction deletion",
				goerr.V("doc_id", doc.Ref.ID))
		}
		deleted++
	}
	bw.End()

	ctxlog.From(ctx).Info("cleared transactions", "collection", f.collection, "deleted", deleted)
	return deleted, nil
}

// Backend returns "firestore"
func (f *Firestore) Backend() string {
	return "firestore"
}

// Collection returns the configured collection name
func (f *Firestore) Collection() string {
	return f.collection
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

var _ interfaces.TransactionRepository = (*Firestore)(nil) // Compile-time interface check
