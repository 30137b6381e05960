package repository_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/opsdash/pkg/domain/interfaces"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/domain/types"
	"github.com/secmon-lab/opsdash/pkg/repository"
)

func newTransaction(user string, ingress time.Time, status types.Status) *model.Transaction {
	tx := &model.Transaction{
		ID:            types.NewTransactionID(),
		Username:      user,
		FileName:      "payload.bin",
		FileSize:      4096,
		IngressServer: "ingress-01",
		IngressTime:   ingress,
		Status:        status,
	}
	if status.IsEgress() {
		egress := ingress.Add(1500 * time.Millisecond)
		tx.EgressServer = "egress-01"
		tx.EgressTime = &egress
	}
	return tx
}

func testRepository(t *testing.T, newRepo func(t *testing.T) interfaces.TransactionRepository) {
	t.Run("PutTransaction", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Millisecond)
		tx := newTransaction("alice", now, types.StatusComplete)

		gt.NoError(t, repo.PutTransaction(ctx, tx))

		list, err := repo.ListTransactions(ctx, model.TransactionQuery{})
		gt.NoError(t, err).Required()
		gt.A(t, list).Length(1)
		gt.Equal(t, list[0].ID, tx.ID)
		gt.Equal(t, list[0].Username, "alice")
		gt.Equal(t, list[0].Status, types.StatusComplete)
		gt.V(t, list[0].EgressTime).NotNil()
		gt.True(t, list[0].IngressTime.Sub(now).Abs() < time.Second)
	})

	t.Run("PutTransaction replaces same ID", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		tx := newTransaction("alice", time.Now(), types.StatusSubmitted)
		gt.NoError(t, repo.PutTransaction(ctx, tx))

		tx.Status = types.StatusBadRequest
		gt.NoError(t, repo.PutTransaction(ctx, tx))

		count, err := repo.CountTransactions(ctx)
		gt.NoError(t, err)
		gt.Equal(t, count, 1)

		list, err := repo.ListTransactions(ctx, model.TransactionQuery{})
		gt.NoError(t, err).Required()
		gt.Equal(t, list[0].Status, types.StatusBadRequest)
	})

	t.Run("PutTransaction rejects invalid input", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		gt.Error(t, repo.PutTransaction(ctx, nil))
		gt.Error(t, repo.PutTransaction(ctx, &model.Transaction{Username: "alice"}))
	})

	t.Run("ListTransactions", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		base := time.Now().UTC().Truncate(time.Second)
		var saved []*model.Transaction
		for i := 0; i < 5; i++ {
			user := "alice"
			if i%2 == 1 {
				user = "bob"
			}
			tx := newTransaction(user, base.Add(-time.Duration(i)*time.Minute), types.StatusComplete)
			gt.NoError(t, repo.PutTransaction(ctx, tx))
			saved = append(saved, tx)
		}

		t.Run("newest first", func(t *testing.T) {
			list, err := repo.ListTransactions(ctx, model.TransactionQuery{})
			gt.NoError(t, err).Required()
			gt.A(t, list).Length(5)
			for i := range list {
				gt.Equal(t, list[i].ID, saved[i].ID)
			}
		})

		t.Run("limit", func(t *testing.T) {
			list, err := repo.ListTransactions(ctx, model.TransactionQuery{Limit: 2})
			gt.NoError(t, err).Required()
			gt.A(t, list).Length(2)
			gt.Equal(t, list[0].ID, saved[0].ID)
		})

		t.Run("since", func(t *testing.T) {
			list, err := repo.ListTransactions(ctx, model.TransactionQuery{
				Since: base.Add(-150 * time.Second),
			})
			gt.NoError(t, err).Required()
			gt.A(t, list).Length(3)
		})

		t.Run("range and username", func(t *testing.T) {
			list, err := repo.ListTransactions(ctx, model.TransactionQuery{
				Since:    base.Add(-5 * time.Minute),
				Until:    base.Add(-time.Minute),
				Username: "bob",
			})
			gt.NoError(t, err).Required()
			gt.A(t, list).Length(2)
			gt.Equal(t, list[0].ID, saved[1].ID)
			gt.Equal(t, list[1].ID, saved[3].ID)
		})

		t.Run("username with limit", func(t *testing.T) {
			list, err := repo.ListTransactions(ctx, model.TransactionQuery{Username: "alice", Limit: 2})
			gt.NoError(t, err).Required()
			gt.A(t, list).Length(2)
			gt.Equal(t, list[0].ID, saved[0].ID)
			gt.Equal(t, list[1].ID, saved[2].ID)
		})
	})

	t.Run("ListUsernames", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		now := time.Now()
		for _, user := range []string{"carol", "alice", "carol", "bob"} {
			gt.NoError(t, repo.PutTransaction(ctx, newTransaction(user, now, types.StatusSubmitted)))
		}

		names, err := repo.ListUsernames(ctx)
		gt.NoError(t, err)
		gt.Equal(t, names, []string{"alice", "bob", "carol"})
	})

	t.Run("ClearTransactions", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		for i := 0; i < 3; i++ {
			gt.NoError(t, repo.PutTransaction(ctx, newTransaction("alice", time.Now(), types.StatusSubmitted)))
		}

		deleted, err := repo.ClearTransactions(ctx)
		gt.NoError(t, err)
		gt.Equal(t, deleted, 3)

		count, err := repo.CountTransactions(ctx)
		gt.NoError(t, err)
		gt.Equal(t, count, 0)

		names, err := repo.ListUsernames(ctx)
		gt.NoError(t, err)
		gt.A(t, names).Length(0)
	})
}

func TestMemoryRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) interfaces.TransactionRepository {
		return repository.NewMemory()
	})

	t.Run("returned values are copies", func(t *testing.T) {
		repo := repository.NewMemory()
		ctx := context.Background()
		tx := newTransaction("alice", time.Now(), types.StatusComplete)
		gt.NoError(t, repo.PutTransaction(ctx, tx))

		tx.Username = "mallory"
		list, err := repo.ListTransactions(ctx, model.TransactionQuery{})
		gt.NoError(t, err).Required()
		gt.Equal(t, list[0].Username, "alice")

		*list[0].EgressTime = time.Time{}
		again, err := repo.ListTransactions(ctx, model.TransactionQuery{})
		gt.NoError(t, err).Required()
		gt.False(t, again[0].EgressTime.IsZero())
	})

	t.Run("backend name", func(t *testing.T) {
		gt.Equal(t, repository.NewMemory().Backend(), "memory")
	})

	t.Run("collection name", func(t *testing.T) {
		gt.Equal(t, repository.NewMemory().Collection(), repository.DefaultCollection)
	})
}

func TestFirestoreRepository(t *testing.T) {
	// Skip test if Firestore test environment variables are not set
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE")

	if projectID == "" || databaseID == "" {
		t.Skip("Skipping Firestore test: TEST_FIRESTORE_PROJECT and TEST_FIRESTORE_DATABASE must be set")
	}

	testRepository(t, func(t *testing.T) interfaces.TransactionRepository {
		ctx := context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
		ctx = ctxlog.With(ctx, logger)

		// Each subtest gets its own collection so clearing does not interfere
		collection := fmt.Sprintf("transactions_test_%d", time.Now().UnixNano())
		repo, err := repository.NewFirestore(ctx, projectID, databaseID, repository.WithCollection(collection))
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			cleanup, err := repository.NewFirestore(ctx, projectID, databaseID, repository.WithCollection(collection))
			if err != nil {
				return
			}
			defer cleanup.Close()
			_, _ = cleanup.ClearTransactions(ctx)
		})
		return repo
	})
}
