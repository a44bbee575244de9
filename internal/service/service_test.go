package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/database"
	"restaurant-pos/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires real repositories over an in-memory database so service
// tests exercise the full stack below the HTTP layer.
type testEnv struct {
	db        *gorm.DB
	users     repository.UserRepository
	roles     repository.RoleRepository
	menu      repository.MenuRepository
	orders    repository.OrderRepository
	bills     repository.BillRepository
	inventory repository.InventoryRepository
	txManager repository.TransactionManager
	resolver  *auth.Resolver

	userService      UserService
	roleService      RoleService
	menuService      MenuService
	orderService     OrderService
	inventoryService InventoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:        db,
		users:     repository.NewUserRepository(db),
		roles:     repository.NewRoleRepository(db),
		menu:      repository.NewMenuRepository(db),
		orders:    repository.NewOrderRepository(db),
		bills:     repository.NewBillRepository(db),
		inventory: repository.NewInventoryRepository(db),
		txManager: repository.NewTransactionManager(db),
	}
	env.resolver = auth.NewResolver(env.roles)
	env.userService = NewUserService(env.users, env.roles)
	env.roleService = NewRoleService(env.roles, env.resolver, env.txManager)
	env.menuService = NewMenuService(env.menu)
	env.orderService = NewOrderService(env.orders, env.bills, env.menu, env.txManager, nil)
	env.inventoryService = NewInventoryService(env.inventory, nil)
	return env
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	require.NoError(t, e.roleService.SeedDefaults(context.Background()))
}
