package service

import (
	"context"
	"testing"

	"restaurant-pos/internal/model"
	"restaurant-pos/internal/repository"
	"restaurant-pos/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveTableStatus(t *testing.T) {
	tests := []struct {
		name  string
		order *model.Order
		bill  *model.Bill
		want  string
	}{
		{"no order", nil, nil, TableAvailable},
		{"pending order", &model.Order{Status: model.OrderStatusPending}, nil, TableOccupied},
		{"preparing order", &model.Order{Status: model.OrderStatusPreparing}, nil, TableOccupied},
		{"ready order", &model.Order{Status: model.OrderStatusReady}, nil, TableOccupied},
		{"delivered no bill", &model.Order{Status: model.OrderStatusDelivered}, nil, TableWaitingPayment},
		{"delivered unpaid bill", &model.Order{Status: model.OrderStatusDelivered}, &model.Bill{Status: model.BillStatusPending}, TableWaitingPayment},
		{"delivered paid bill", &model.Order{Status: model.OrderStatusDelivered}, &model.Bill{Status: model.BillStatusPaid}, TableOccupied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTableStatus(tt.order, tt.bill))
		})
	}
}

func newTableService(env *testEnv, count int) TableService {
	return NewTableService(env.orders, env.bills, nil, count)
}

func TestListTablesStatuses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newTableService(env, 3)

	// T1 occupied, T2 waiting for payment, T3 untouched.
	placeOrder(t, env, "T1")
	order := placeOrder(t, env, "T2")
	deliverOrder(t, env, order.ID)

	tables, err := svc.ListTables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 3)

	byName := make(map[string]TableResponse)
	for _, tbl := range tables {
		byName[tbl.Name] = tbl
	}
	assert.Equal(t, TableOccupied, byName["T1"].Status)
	assert.Equal(t, TableWaitingPayment, byName["T2"].Status)
	assert.Equal(t, TableAvailable, byName["T3"].Status)
	require.NotNil(t, byName["T1"].OrderID)
}

func TestListTablesIgnoresCompletedOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newTableService(env, 2)

	order := placeOrder(t, env, "T1")
	deliverOrder(t, env, order.ID)
	_, err := env.orderService.CompletePayment(ctx, order.ID, CompletePaymentRequest{})
	require.NoError(t, err)

	tables, err := svc.ListTables(ctx)
	require.NoError(t, err)
	for _, tbl := range tables {
		assert.Equal(t, TableAvailable, tbl.Status)
	}
}

func TestMarkCleanOverlay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newTableService(env, 2)

	resp, err := svc.MarkClean(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, TableCleaning, resp.Status)

	tables, err := svc.ListTables(ctx)
	require.NoError(t, err)
	byName := make(map[string]TableResponse)
	for _, tbl := range tables {
		byName[tbl.Name] = tbl
	}
	assert.Equal(t, TableCleaning, byName["T1"].Status)
	assert.Equal(t, TableAvailable, byName["T2"].Status)
}

// failingBillRepo simulates a storage outage on bill lookups.
type failingBillRepo struct {
	repository.BillRepository
}

func (failingBillRepo) FindByOrderID(ctx context.Context, orderID uint) (*model.Bill, error) {
	return nil, apperr.Wrap(apperr.ErrStorage, "bill lookup failed")
}

func TestListTablesPropagatesBillLookupFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewTableService(env.orders, failingBillRepo{env.bills}, nil, 2)

	order := placeOrder(t, env, "T1")
	deliverOrder(t, env, order.ID)

	_, err := svc.ListTables(ctx)
	assert.ErrorIs(t, err, apperr.ErrStorage)
}

func TestMarkCleanCompletesDeliveredOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newTableService(env, 2)

	order := placeOrder(t, env, "T1")
	deliverOrder(t, env, order.ID)

	_, err := svc.MarkClean(ctx, "T1")
	require.NoError(t, err)

	refreshed, err := env.orderService.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, refreshed.Status)
}

func TestMarkCleanUnknownTable(t *testing.T) {
	env := newTestEnv(t)
	svc := newTableService(env, 2)

	_, err := svc.MarkClean(context.Background(), "T99")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
