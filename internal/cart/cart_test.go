package cart_test

import (
	"testing"

	"github.com/gelios02/HardwareStore/internal/cart"
	"github.com/gelios02/HardwareStore/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func TestStore_AddAndSnapshot(t *testing.T) {
	store := cart.NewStore()
	userID := int64(1)

	store.Add(userID, 10, 2)
	store.Add(userID, 20, 1)
	store.Add(userID, 10, 3) // количество суммируется, позиция не дублируется

	snapshot := store.Snapshot(userID)
	assert.Equal(t, []models.CartItem{
		{ProductID: 10, Quantity: 5},
		{ProductID: 20, Quantity: 1},
	}, snapshot, "Snapshot should keep insertion order and merge quantities")
}

func TestStore_UpdateQuantity(t *testing.T) {
	store := cart.NewStore()
	userID := int64(1)

	store.Add(userID, 10, 2)
	store.Update(userID, 10, 7)

	snapshot := store.Snapshot(userID)
	assert.Len(t, snapshot, 1)
	assert.Equal(t, 7, snapshot[0].Quantity)
}

func TestStore_UpdateToZeroRemoves(t *testing.T) {
	store := cart.NewStore()
	userID := int64(1)

	store.Add(userID, 10, 2)
	store.Add(userID, 20, 1)
	store.Update(userID, 10, 0)

	snapshot := store.Snapshot(userID)
	assert.Equal(t, []models.CartItem{{ProductID: 20, Quantity: 1}}, snapshot)
}

func TestStore_UpdateUnknownProductIsNoop(t *testing.T) {
	store := cart.NewStore()
	userID := int64(1)

	store.Update(userID, 99, 5)
	assert.Empty(t, store.Snapshot(userID))
}

func TestStore_Remove(t *testing.T) {
	store := cart.NewStore()
	userID := int64(1)

	store.Add(userID, 10, 2)
	store.Remove(userID, 10)
	// повторное удаление не должно ничего ломать
	store.Remove(userID, 10)

	assert.Empty(t, store.Snapshot(userID))
}

func TestStore_Clear(t *testing.T) {
	store := cart.NewStore()
	userID := int64(1)

	store.Add(userID, 10, 2)
	store.Add(userID, 20, 4)
	store.Clear(userID)

	assert.Empty(t, store.Snapshot(userID))
}

func TestStore_CartsAreIsolatedPerUser(t *testing.T) {
	store := cart.NewStore()

	store.Add(1, 10, 2)
	store.Add(2, 20, 1)

	assert.Equal(t, []models.CartItem{{ProductID: 10, Quantity: 2}}, store.Snapshot(1))
	assert.Equal(t, []models.CartItem{{ProductID: 20, Quantity: 1}}, store.Snapshot(2))
}
