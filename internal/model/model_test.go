package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_LowStockAndValue(t *testing.T) {
	p := Product{Quantity: 5, MinStock: 5, Price: decimal.RequireFromString("2.50")}
	assert.True(t, p.IsLowStock(), "quantity equal to minStock counts as low stock")
	assert.True(t, p.Value().Equal(decimal.RequireFromString("12.5")))

	p.Quantity = 6
	assert.False(t, p.IsLowStock())
}

func TestUser_PasswordHashing(t *testing.T) {
	u := User{Username: "alice"}
	require.NoError(t, u.SetPassword("s3cret!"))

	assert.NotEqual(t, "s3cret!", u.Password, "password must be stored hashed")
	assert.True(t, u.CheckPassword("s3cret!"))
	assert.False(t, u.CheckPassword("wrong"))
	assert.Equal(t, "alice", u.DisplayName())

	u.Name = "Alice A."
	assert.Equal(t, "Alice A.", u.DisplayName())
}

func TestBeforeCreate_KeepsAssignedID(t *testing.T) {
	id := uuid.New()
	b := BaseModel{ID: id}
	require.NoError(t, b.BeforeCreate(nil))
	assert.Equal(t, id, b.ID)

	var empty BaseModel
	require.NoError(t, empty.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, empty.ID)

	var rec HistoryRecord
	require.NoError(t, rec.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, rec.ID)
}

func TestHistoryRecord_IsStockMovement(t *testing.T) {
	assert.True(t, (&HistoryRecord{Action: ActionStockAdded}).IsStockMovement())
	assert.True(t, (&HistoryRecord{Action: ActionStockSubtracted}).IsStockMovement())
	assert.False(t, (&HistoryRecord{Action: ActionUpdated}).IsStockMovement())
	assert.Equal(t, "history_items", HistoryRecord{}.TableName())
}
