package contentpkg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/underkeep/underkeep/pkg/protocol"
	"github.com/underkeep/underkeep/pkg/world"
)

func emptyPlayer() *world.Player {
	p := &world.Player{}
	for i := range p.Inventory {
		p.Inventory[i] = protocol.EmptyItemStack()
	}
	p.Cursor = protocol.EmptyItemStack()
	return p
}

func TestAddItemToInventoryFillsFirstEmptyHotbarSlot(t *testing.T) {
	p := emptyPlayer()
	require.True(t, addItemToInventory(p, 1, 0, 1))
	require.EqualValues(t, 1, p.Inventory[slotHotbarLo].ID)
	require.EqualValues(t, 1, p.Inventory[slotHotbarLo].Count)
}

func TestAddItemToInventoryStacksOntoMatchingSlot(t *testing.T) {
	p := emptyPlayer()
	p.Inventory[slotHotbarLo] = protocol.ItemStack{ID: 1, Count: 3}

	require.True(t, addItemToInventory(p, 1, 0, 2))
	require.EqualValues(t, 5, p.Inventory[slotHotbarLo].Count)
}

func TestAddItemToInventoryRefusesStackOverflow(t *testing.T) {
	p := emptyPlayer()
	p.Inventory[slotHotbarLo] = protocol.ItemStack{ID: 1, Count: 64}
	for i := slotHotbarLo + 1; i <= slotHotbarHi; i++ {
		p.Inventory[i] = protocol.ItemStack{ID: 1, Count: 64}
	}
	for i := slotMainLo; i <= slotMainHi; i++ {
		p.Inventory[i] = protocol.ItemStack{ID: 1, Count: 64}
	}

	require.False(t, addItemToInventory(p, 1, 0, 1))
}

func TestAddItemToInventoryDistinguishesDamageValues(t *testing.T) {
	p := emptyPlayer()
	p.Inventory[slotHotbarLo] = protocol.ItemStack{ID: 1, Count: 1, Metadata: 1}

	require.True(t, addItemToInventory(p, 1, 2, 1))
	require.EqualValues(t, 1, p.Inventory[slotHotbarLo].Count)
	require.EqualValues(t, 1, p.Inventory[slotHotbarLo+1].Count)
	require.EqualValues(t, 2, p.Inventory[slotHotbarLo+1].Metadata)
}
