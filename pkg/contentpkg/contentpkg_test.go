package contentpkg

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/underkeep/underkeep/pkg/world"
)

func TestIsInstantBreak(t *testing.T) {
	require.True(t, IsInstantBreak(50)) // torch
	require.False(t, IsInstantBreak(1)) // stone
}

func TestBlockDropStoneYieldsCobblestone(t *testing.T) {
	id, _, count := BlockDrop(1, 0)
	require.EqualValues(t, 4, id)
	require.EqualValues(t, 1, count)
}

func TestBlockDropAirDropsNothing(t *testing.T) {
	id, _, _ := BlockDrop(0, 0)
	require.EqualValues(t, -1, id)
}

func TestLayoutPopulateLaysFloor(t *testing.T) {
	grid := world.NewChunkGrid(6)
	layout := NewLayout(42)
	layout.Populate(grid)

	state := grid.GetBlock(3, floorY, 7)
	require.False(t, state.IsAir())
	require.EqualValues(t, roomFloorBlock, state.ID())
}

func TestLayoutDeterministicForSameSeed(t *testing.T) {
	g1 := world.NewChunkGrid(6)
	g2 := world.NewChunkGrid(6)
	NewLayout(7).Populate(g1)
	NewLayout(7).Populate(g2)

	for z := int32(0); z < 16; z++ {
		for x := int32(0); x < 16; x++ {
			require.Equal(t, g1.GetBlock(x, floorY+2, z), g2.GetBlock(x, floorY+2, z))
		}
	}
}

func TestBuildPlayerInitializesEmptyInventory(t *testing.T) {
	l := New(Config{Seed: 1, DefaultGameMode: GameModeSurvival}, zap.NewNop().Sugar())
	p := l.BuildPlayer(nil, 1, world.GameProfile{Username: "Steve"})
	require.Equal(t, "Steve", p.Username)
	for _, slot := range p.Inventory {
		require.True(t, slot.IsEmpty())
	}
	require.True(t, p.Cursor.IsEmpty())
}
