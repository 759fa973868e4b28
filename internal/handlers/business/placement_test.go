package business

import (
	"testing"

	"binaryledger/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestChooseSlot(t *testing.T) {
	// empty A slot always wins
	side, found := chooseSlot(false, false, 0, 0)
	assert.True(t, found)
	assert.Equal(t, models.SideA, side)

	side, found = chooseSlot(false, true, 0, 5)
	assert.True(t, found)
	assert.Equal(t, models.SideA, side)

	// A taken, B open
	side, found = chooseSlot(true, false, 3, 0)
	assert.True(t, found)
	assert.Equal(t, models.SideB, side)

	// both taken: descend into the weaker side, A on ties
	side, found = chooseSlot(true, true, 2, 5)
	assert.False(t, found)
	assert.Equal(t, models.SideA, side)

	side, found = chooseSlot(true, true, 7, 3)
	assert.False(t, found)
	assert.Equal(t, models.SideB, side)

	side, found = chooseSlot(true, true, 4, 4)
	assert.False(t, found)
	assert.Equal(t, models.SideA, side)
}

func TestWeakerSide(t *testing.T) {
	assert.Equal(t, models.SideA, weakerSide(0, 0))
	assert.Equal(t, models.SideA, weakerSide(2, 2))
	assert.Equal(t, models.SideA, weakerSide(1, 9))
	assert.Equal(t, models.SideB, weakerSide(9, 1))
}

func TestSideOpposite(t *testing.T) {
	assert.Equal(t, models.SideB, models.SideA.Opposite())
	assert.Equal(t, models.SideA, models.SideB.Opposite())
}
