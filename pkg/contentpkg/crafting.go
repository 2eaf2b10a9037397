package contentpkg

import (
	"github.com/underkeep/underkeep/pkg/protocol"
	"github.com/underkeep/underkeep/pkg/world"
)

// Ingredient names one grid cell of a recipe. Damage -1 matches any
// metadata value (wildcard), the same convention the crafting grid itself
// uses for "don't care".
type Ingredient struct {
	ID     int16
	Damage int16
}

func (ing Ingredient) matches(s protocol.ItemStack) bool {
	if ing.ID < 0 {
		return s.IsEmpty()
	}
	return s.ID == ing.ID && (ing.Damage < 0 || s.Metadata == ing.Damage)
}

// CraftingRecipe is a shaped recipe against the 2x2 personal-inventory
// crafting grid: Width/Height are at most 2, and Ingredients is read
// row-major starting at the grid's top-left occupied cell.
type CraftingRecipe struct {
	Width, Height int
	Ingredients   []Ingredient
	ResultID      int16
	ResultCount   byte
	ResultDamage  int16
}

// craftingRecipes is a small trimmed subset of the vanilla recipe book,
// restricted to what fits a 2x2 grid: enough to bootstrap basic tools from
// gathered blocks without porting the full crafting table.
var craftingRecipes = []CraftingRecipe{
	{ // planks from a log, any log variant
		Width: 1, Height: 1,
		Ingredients: []Ingredient{{ID: 17, Damage: -1}},
		ResultID:    5, ResultCount: 4,
	},
	{ // sticks from two planks stacked
		Width: 1, Height: 2,
		Ingredients: []Ingredient{{ID: 5, Damage: -1}, {ID: 5, Damage: -1}},
		ResultID:    280, ResultCount: 4,
	},
	{ // crafting table from four planks
		Width: 2, Height: 2,
		Ingredients: []Ingredient{{ID: 5, Damage: -1}, {ID: 5, Damage: -1}, {ID: 5, Damage: -1}, {ID: 5, Damage: -1}},
		ResultID:    58, ResultCount: 1,
	},
	{ // torch from coal over a stick
		Width: 1, Height: 2,
		Ingredients: []Ingredient{{ID: 263, Damage: -1}, {ID: 280, Damage: -1}},
		ResultID:    50, ResultCount: 4,
	},
}

// matchRecipe finds the recipe whose shape and ingredients match grid, a
// row-major 2x2 crafting grid (grid[0],grid[1] top row; grid[2],grid[3]
// bottom row). It tries every offset a recipe's footprint could sit at
// within the 2x2 space, so a 1x1 recipe matches in any of the four cells
// and every other cell must be empty.
func matchRecipe(grid [4]protocol.ItemStack) (CraftingRecipe, bool) {
	at := func(x, y int) protocol.ItemStack { return grid[y*2+x] }

	for _, recipe := range craftingRecipes {
		for oy := 0; oy <= 2-recipe.Height; oy++ {
			for ox := 0; ox <= 2-recipe.Width; ox++ {
				if recipeMatchesAt(recipe, at, ox, oy) {
					return recipe, true
				}
			}
		}
	}
	return CraftingRecipe{}, false
}

func recipeMatchesAt(recipe CraftingRecipe, at func(x, y int) protocol.ItemStack, ox, oy int) bool {
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			inFootprint := x >= ox && x < ox+recipe.Width && y >= oy && y < oy+recipe.Height
			if !inFootprint {
				if !at(x, y).IsEmpty() {
					return false
				}
				continue
			}
			ing := recipe.Ingredients[(y-oy)*recipe.Width+(x-ox)]
			if !ing.matches(at(x, y)) {
				return false
			}
		}
	}
	return true
}

// updateCraftOutput recomputes the crafting-output slot from the current
// 2x2 grid contents; called after any grid-affecting click.
func updateCraftOutput(p *world.Player) {
	var grid [4]protocol.ItemStack
	for i := 0; i < 4; i++ {
		grid[i] = p.Inventory[slotCraftGridLo+i]
	}
	recipe, ok := matchRecipe(grid)
	if !ok {
		p.Inventory[slotCraftOutput] = protocol.EmptyItemStack()
		return
	}
	p.Inventory[slotCraftOutput] = protocol.ItemStack{
		ID: recipe.ResultID, Count: int8(recipe.ResultCount), Metadata: recipe.ResultDamage,
	}
}

// consumeCraftIngredients removes one unit of whatever matched recipe is
// currently in the grid, then recomputes the output for what's left.
func consumeCraftIngredients(p *world.Player) {
	for i := slotCraftGridLo; i <= slotCraftGridHi; i++ {
		s := &p.Inventory[i]
		if s.IsEmpty() {
			continue
		}
		s.Count--
		if s.Count <= 0 {
			*s = protocol.EmptyItemStack()
		}
	}
	updateCraftOutput(p)
}
