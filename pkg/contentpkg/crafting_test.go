package contentpkg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/underkeep/underkeep/pkg/protocol"
	"github.com/underkeep/underkeep/pkg/world"
)

func TestIngredientMatchesWildcardDamage(t *testing.T) {
	ing := Ingredient{ID: 17, Damage: -1}
	require.True(t, ing.matches(protocol.ItemStack{ID: 17, Metadata: 3}))
	require.False(t, ing.matches(protocol.ItemStack{ID: 5, Metadata: 0}))
}

func TestIngredientMatchesEmptySlot(t *testing.T) {
	ing := Ingredient{ID: -1}
	require.True(t, ing.matches(protocol.EmptyItemStack()))
	require.False(t, ing.matches(protocol.ItemStack{ID: 1}))
}

func TestMatchRecipePlanksFromLogAnyOffset(t *testing.T) {
	log := protocol.ItemStack{ID: 17, Count: 1}
	grid := [4]protocol.ItemStack{protocol.EmptyItemStack(), log, protocol.EmptyItemStack(), protocol.EmptyItemStack()}

	recipe, ok := matchRecipe(grid)
	require.True(t, ok)
	require.EqualValues(t, 5, recipe.ResultID)
	require.EqualValues(t, 4, recipe.ResultCount)
}

func TestMatchRecipeCraftingTableNeedsAllFourCells(t *testing.T) {
	plank := protocol.ItemStack{ID: 5, Count: 1}
	full := [4]protocol.ItemStack{plank, plank, plank, plank}
	_, ok := matchRecipe(full)
	require.True(t, ok)

	partial := [4]protocol.ItemStack{plank, plank, plank, protocol.EmptyItemStack()}
	_, ok = matchRecipe(partial)
	require.False(t, ok)
}

func TestMatchRecipeNoMatchOnEmptyGrid(t *testing.T) {
	_, ok := matchRecipe([4]protocol.ItemStack{protocol.EmptyItemStack(), protocol.EmptyItemStack(), protocol.EmptyItemStack(), protocol.EmptyItemStack()})
	require.False(t, ok)
}

func TestUpdateCraftOutputFillsAndClearsOutputSlot(t *testing.T) {
	p := &world.Player{}
	for i := range p.Inventory {
		p.Inventory[i] = protocol.EmptyItemStack()
	}
	p.Inventory[slotCraftGridLo] = protocol.ItemStack{ID: 17, Count: 1}

	updateCraftOutput(p)
	require.EqualValues(t, 5, p.Inventory[slotCraftOutput].ID)

	p.Inventory[slotCraftGridLo] = protocol.EmptyItemStack()
	updateCraftOutput(p)
	require.True(t, p.Inventory[slotCraftOutput].IsEmpty())
}

func TestConsumeCraftIngredientsDecrementsAndRecomputes(t *testing.T) {
	p := &world.Player{}
	for i := range p.Inventory {
		p.Inventory[i] = protocol.EmptyItemStack()
	}
	p.Inventory[slotCraftGridLo] = protocol.ItemStack{ID: 17, Count: 1}
	updateCraftOutput(p)

	consumeCraftIngredients(p)
	require.True(t, p.Inventory[slotCraftGridLo].IsEmpty())
	require.True(t, p.Inventory[slotCraftOutput].IsEmpty())
}
