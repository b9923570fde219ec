package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rookgm/chinpay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func completedOrder() (*models.Order, *models.CDK) {
	order := &models.Order{
		ID:                uuid.NewString(),
		CreatedAt:         time.Now().UTC(),
		ExternalReference: "trade-1",
		Price:             1000,
		PlanID:            1,
		Status:            models.StatusCompleted,
	}
	cdk := models.NewCDK(order.PlanID, order.ID)
	order.CDK = cdk.Code
	return order, cdk
}

func TestStore_CompleteOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	order, cdk := completedOrder()
	require.NoError(t, s.CompleteOrder(ctx, order, cdk))

	got, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, cdk.Code, got.CDK)
	assert.Equal(t, "trade-1", got.ExternalReference)

	found, err := s.FindCDKByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, cdk.Code, found.Code)
	assert.Equal(t, order.ID, found.OrderID)
	assert.False(t, found.IsUsed())
}

func TestStore_CompleteOrderIsAtomic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, cdk := completedOrder()
	require.NoError(t, s.CompleteOrder(ctx, first, cdk))

	// new order reusing an existing code: order insert must roll back with the code insert
	second, _ := completedOrder()
	dup := *cdk
	dup.OrderID = second.ID
	err := s.CompleteOrder(ctx, second, &dup)
	assert.ErrorIs(t, err, models.ErrConflictData)

	_, err = s.GetOrder(ctx, second.ID)
	assert.ErrorIs(t, err, models.ErrDataNotFound)

	// completing the first order again conflicts on the order
	assert.ErrorIs(t, s.CompleteOrder(ctx, first, models.NewCDK(1, first.ID)), models.ErrConflictData)
}

func TestStore_InsertOrderAndCDK(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	order, cdk := completedOrder()
	order.Status = models.StatusFailed
	order.CDK = ""
	require.NoError(t, s.InsertOrder(ctx, order))
	assert.ErrorIs(t, s.InsertOrder(ctx, order), models.ErrConflictData)

	got, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)
	assert.Empty(t, got.CDK)

	require.NoError(t, s.InsertCDK(ctx, cdk))
	assert.ErrorIs(t, s.InsertCDK(ctx, models.NewCDK(1, order.ID)), models.ErrConflictData)

	_, err = s.FindCDKByOrderID(ctx, "absent")
	assert.ErrorIs(t, err, models.ErrDataNotFound)
}

func TestStore_ClaimCDK(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	order, cdk := completedOrder()
	require.NoError(t, s.CompleteOrder(ctx, order, cdk))

	n, err := s.ClaimCDK(ctx, cdk.Code, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.ClaimCDK(ctx, cdk.Code, "bob")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.ClaimCDK(ctx, "unknown", "bob")
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := s.GetCDK(ctx, cdk.Code)
	require.NoError(t, err)
	require.NotNil(t, got.UsedBy)
	assert.Equal(t, "alice", *got.UsedBy)
	assert.NotNil(t, got.UsedAt)

	planID, err := s.FindPlanIDForCDK(ctx, cdk.Code)
	require.NoError(t, err)
	assert.Equal(t, 1, planID)

	_, err = s.FindPlanIDForCDK(ctx, "unknown")
	assert.ErrorIs(t, err, models.ErrDataNotFound)
}

func TestStore_ClaimCDKConcurrent(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "data", "chinpay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	order, cdk := completedOrder()
	require.NoError(t, s.CompleteOrder(ctx, order, cdk))

	const claimants = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
	)
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", i)
			n, err := s.ClaimCDK(ctx, cdk.Code, user)
			if !assert.NoError(t, err) {
				return
			}
			if n == 1 {
				mu.Lock()
				winners = append(winners, user)
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	require.Len(t, winners, 1)
	got, err := s.GetCDK(ctx, cdk.Code)
	require.NoError(t, err)
	assert.Equal(t, winners[0], *got.UsedBy)
}
