package commands_test

import (
	"path/filepath"
	"testing"
	"time"

	"dormeal/internal/adapters/out/memory"
	postgres_adapter "dormeal/internal/adapters/out/postgres"
	"dormeal/internal/core/application/usecases/commands"
	"dormeal/internal/core/domain/model/order"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/domain/services"
	"dormeal/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// swappableCatalog lets a test replace the menus behind a running handler.
type swappableCatalog struct {
	ports.Catalog
}

// repricedCatalog returns the built-in catalog with every item renamed and its price raised.
func repricedCatalog(t *testing.T) *memory.Catalog {
	t.Helper()
	seed, err := memory.LoadSeed("")
	require.NoError(t, err)
	for m := range seed.Menus {
		for s := range seed.Menus[m].Sections {
			items := seed.Menus[m].Sections[s].Items
			for i := range items {
				items[i].Name += " (new recipe)"
				items[i].PriceCents += 250
				for g := range items[i].OptionGroups {
					for o := range items[i].OptionGroups[g].Options {
						items[i].OptionGroups[g].Options[o].PriceCents += 50
					}
				}
			}
		}
	}
	return memory.NewCatalog(seed)
}

func sqliteFactory(t *testing.T) ports.UnitOfWorkFactory {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "orders.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres_adapter.Migrate(db))
	return postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func TestCreateOrderCommandHandler_SnapshotSurvivesMenuChanges(t *testing.T) {
	stores := map[string]func(t *testing.T) ports.UnitOfWorkFactory{
		"memory": func(*testing.T) ports.UnitOfWorkFactory { return newMemoryStore().factory },
		"sqlite": sqliteFactory,
	}

	for name, newFactory := range stores {
		t.Run(name, func(t *testing.T) {
			factory := newFactory(t)
			catalog := &swappableCatalog{Catalog: defaultCatalog(t)}
			handler := commands.NewCreateOrderCommandHandler(factory, catalog)

			cmd, err := commands.NewCreateOrderCommand(mustPrincipal(t, principal.Consumer), warren, burgerHaven, []services.Selection{
				{ItemID: "classic-burger", Quantity: 2, OptionIDs: []string{"cheese"}},
			})
			require.NoError(t, err)
			result, err := handler.Handle(t.Context(), cmd)
			require.NoError(t, err)

			before, err := factory.Create().OrderRepository().Get(t.Context(), result.OrderID)
			require.NoError(t, err)
			snapshot := before.Snapshot()
			total := snapshot.Total()
			assert.EqualValues(t, 2*(899+100), total.Cents())

			catalog.Catalog = repricedCatalog(t)
			menu, err := catalog.Menu(t.Context(), warren, burgerHaven)
			require.NoError(t, err)
			item, ok := menu.Item("classic-burger")
			require.True(t, ok)
			require.EqualValues(t, 899+250, item.PriceCents)

			after, err := factory.Create().OrderRepository().Get(t.Context(), result.OrderID)
			require.NoError(t, err)
			assert.True(t, after.Snapshot().Equal(snapshot))
			assert.Equal(t, total, after.Snapshot().Total())
			assert.Equal(t, "Classic Burger", after.Snapshot().Lines()[0].Name)

			_, err = factory.Create().OrderRepository().CompareAndUpdate(t.Context(), result.OrderID, after.Version(),
				order.ClaimBy(mustPrincipal(t, principal.Carrier), time.Now()))
			require.NoError(t, err)
			claimed, err := factory.Create().OrderRepository().Get(t.Context(), result.OrderID)
			require.NoError(t, err)
			assert.True(t, claimed.Snapshot().Equal(snapshot))
		})
	}
}
