package contentpkg

import (
	"bytes"

	"github.com/underkeep/underkeep/pkg/protocol"
	"github.com/underkeep/underkeep/pkg/world"
)

// Player inventory slot layout, matching the vanilla Window ID 0 (the
// player's own inventory): slot 0 is the 2x2 crafting output, 1-4 are the
// crafting grid, 5-8 are armor (unused, plain storage here), 9-35 is the
// main inventory, and 36-44 is the hotbar.
const (
	slotCraftOutput  = 0
	slotCraftGridLo  = 1
	slotCraftGridHi  = 4
	slotMainLo       = 9
	slotMainHi       = 35
	slotHotbarLo     = 36
	slotHotbarHi     = 44
	inventorySlots   = 45
)

// addItemToInventory finds a suitable slot for (itemID, damage, count):
// stack onto a matching hotbar slot, then a matching main-inventory slot,
// then the first empty hotbar slot, then the first empty main slot.
// Reports whether it found room for the whole stack.
func addItemToInventory(p *world.Player, itemID, damage int16, count byte) bool {
	stack := func(lo, hi int) bool {
		for i := lo; i <= hi; i++ {
			s := &p.Inventory[i]
			if s.ID == itemID && s.Metadata == damage && int(s.Count)+int(count) <= 64 {
				s.Count += int8(count)
				return true
			}
		}
		return false
	}
	empty := func(lo, hi int) bool {
		for i := lo; i <= hi; i++ {
			if p.Inventory[i].IsEmpty() {
				p.Inventory[i] = protocol.ItemStack{ID: itemID, Count: int8(count), Metadata: damage}
				return true
			}
		}
		return false
	}
	return stack(slotHotbarLo, slotHotbarHi) || stack(slotMainLo, slotMainHi) ||
		empty(slotHotbarLo, slotHotbarHi) || empty(slotMainLo, slotMainHi)
}

// handleClickWindow processes Click Window (0x0E) for the player's own
// inventory. Only the modes a dungeon server actually needs are handled:
// normal click (0), shift-click (1), number-key swap (2), and drag/paint
// (5); double-click collect (6) and window-drop (4) are left unhandled —
// the client still gets an ack and a full resync, so the worst case is
// "nothing happens", never a desync.
func (l *Layer) handleClickWindow(w *world.World, p *world.Player, r *bytes.Reader) {
	windowID, _ := protocol.ReadByte(r)
	slotNum, _ := protocol.ReadInt16(r)
	button, _ := protocol.ReadByte(r)
	actionNum, _ := protocol.ReadInt16(r)
	mode, _ := protocol.ReadByte(r)
	_, _ = protocol.ReadItemStack(r) // client-declared held item, server state is authoritative

	if windowID != 0 {
		l.ackClick(p, windowID, actionNum, false)
		return
	}

	switch {
	case slotNum == slotCraftOutput:
		l.clickCraftOutput(p, mode)
	case slotNum >= 1 && int(slotNum) < inventorySlots:
		switch mode {
		case 0:
			l.clickNormal(p, int(slotNum), button)
		case 1:
			l.clickShift(p, int(slotNum))
		case 2:
			l.clickHotkey(p, int(slotNum), int(button))
		case 5:
			l.clickDrag(p, int(slotNum), button)
		}
	}

	updateCraftOutput(p)
	l.ackClick(p, 0, actionNum, true)
	l.syncInventory(p)
}

func (l *Layer) clickCraftOutput(p *world.Player, mode byte) {
	out := p.Inventory[slotCraftOutput]
	if out.IsEmpty() {
		return
	}
	switch mode {
	case 0: // take the crafted result onto the cursor
		if p.Cursor.IsEmpty() {
			p.Cursor = out
			consumeCraftIngredients(p)
		} else if p.Cursor.ID == out.ID && p.Cursor.Metadata == out.Metadata && int(p.Cursor.Count)+int(out.Count) <= 64 {
			p.Cursor.Count += out.Count
			consumeCraftIngredients(p)
		}
	case 1: // shift-click: craft as many as the inventory can hold
		for {
			out = p.Inventory[slotCraftOutput]
			if out.IsEmpty() {
				break
			}
			if !addItemToInventory(p, out.ID, out.Metadata, byte(out.Count)) {
				break
			}
			consumeCraftIngredients(p)
			updateCraftOutput(p)
		}
	}
}

func (l *Layer) clickNormal(p *world.Player, slot int, button byte) {
	dst := &p.Inventory[slot]
	switch button {
	case 0: // left click: stack onto a match, else swap
		if p.Cursor.ID == dst.ID && p.Cursor.Metadata == dst.Metadata && !p.Cursor.IsEmpty() {
			space := 64 - int(dst.Count)
			if int(p.Cursor.Count) <= space {
				dst.Count += p.Cursor.Count
				p.Cursor = protocol.EmptyItemStack()
			} else {
				p.Cursor.Count -= int8(space)
				dst.Count = 64
			}
		} else {
			*dst, p.Cursor = p.Cursor, *dst
		}
	case 1: // right click: split a stack onto the cursor, or place one
		switch {
		case p.Cursor.IsEmpty() && !dst.IsEmpty():
			half := (dst.Count + 1) / 2
			p.Cursor = *dst
			p.Cursor.Count = half
			dst.Count -= half
			if dst.Count == 0 {
				*dst = protocol.EmptyItemStack()
			}
		case !p.Cursor.IsEmpty() && dst.IsEmpty():
			*dst = p.Cursor
			dst.Count = 1
			p.Cursor.Count--
			if p.Cursor.Count == 0 {
				p.Cursor = protocol.EmptyItemStack()
			}
		case p.Cursor.ID == dst.ID && p.Cursor.Metadata == dst.Metadata:
			if dst.Count < 64 {
				dst.Count++
				p.Cursor.Count--
				if p.Cursor.Count == 0 {
					p.Cursor = protocol.EmptyItemStack()
				}
			}
		default:
			*dst, p.Cursor = p.Cursor, *dst
		}
	}
}

// clickShift moves slot's stack to the hotbar if it came from the main
// inventory, or to the main inventory if it came from anywhere else (the
// hotbar, crafting grid, or armor slots), stacking onto matches first and
// spilling into empty slots after.
func (l *Layer) clickShift(p *world.Player, slot int) {
	item := p.Inventory[slot]
	if item.IsEmpty() {
		return
	}
	destLo, destHi := slotMainLo, slotMainHi
	if slot >= slotMainLo && slot <= slotMainHi {
		destLo, destHi = slotHotbarLo, slotHotbarHi
	}

	remaining := item.Count
	for i := destLo; i <= destHi && remaining > 0; i++ {
		dst := &p.Inventory[i]
		if dst.ID == item.ID && dst.Metadata == item.Metadata && dst.Count < 64 {
			space := int8(64) - dst.Count
			take := remaining
			if take > space {
				take = space
			}
			dst.Count += take
			remaining -= take
		}
	}
	for i := destLo; i <= destHi && remaining > 0; i++ {
		if p.Inventory[i].IsEmpty() {
			p.Inventory[i] = protocol.ItemStack{ID: item.ID, Metadata: item.Metadata, Count: remaining}
			remaining = 0
		}
	}
	if remaining == 0 {
		p.Inventory[slot] = protocol.EmptyItemStack()
	} else {
		p.Inventory[slot].Count = remaining
	}
}

// clickHotkey swaps slot with hotbar slot (36 + button), the vanilla
// number-key-while-hovering hotkey.
func (l *Layer) clickHotkey(p *world.Player, slot, button int) {
	hotbar := slotHotbarLo + button
	if hotbar < slotHotbarLo || hotbar > slotHotbarHi {
		return
	}
	p.Inventory[slot], p.Inventory[hotbar] = p.Inventory[hotbar], p.Inventory[slot]
}

// clickDrag implements the drag/paint sub-protocol: button identifies the
// drag phase (start/add-slot/end) rather than a mouse button. p.Drag
// accumulates the painted slots between the start and end packets.
func (l *Layer) clickDrag(p *world.Player, slot int, button byte) {
	switch button {
	case 0, 4: // start (left=0, right=4)
		p.Drag = world.DragState{Active: true, Button: int32(button)}
	case 1, 5: // add slot
		if p.Drag.Active {
			p.Drag.Slots = append(p.Drag.Slots, int32(slot))
		}
	case 2: // left-drag end: distribute evenly
		l.finishDrag(p, true)
	case 6: // right-drag end: place one per slot
		l.finishDrag(p, false)
	}
}

func (l *Layer) finishDrag(p *world.Player, even bool) {
	defer func() { p.Drag = world.DragState{} }()
	if p.Cursor.IsEmpty() || len(p.Drag.Slots) == 0 {
		return
	}
	perSlot := int8(1)
	if even {
		perSlot = p.Cursor.Count / int8(len(p.Drag.Slots))
		if perSlot < 1 {
			perSlot = 1
		}
	}
	for _, raw := range p.Drag.Slots {
		if p.Cursor.Count <= 0 {
			break
		}
		s := &p.Inventory[raw]
		switch {
		case s.IsEmpty():
			give := perSlot
			if give > p.Cursor.Count {
				give = p.Cursor.Count
			}
			*s = protocol.ItemStack{ID: p.Cursor.ID, Metadata: p.Cursor.Metadata, Count: give}
			p.Cursor.Count -= give
		case s.ID == p.Cursor.ID && s.Metadata == p.Cursor.Metadata:
			space := int8(64) - s.Count
			give := perSlot
			if give > space {
				give = space
			}
			if give > p.Cursor.Count {
				give = p.Cursor.Count
			}
			s.Count += give
			p.Cursor.Count -= give
		}
	}
	if p.Cursor.Count <= 0 {
		p.Cursor = protocol.EmptyItemStack()
	}
}

// handleCreativeInventory processes Creative Inventory Action (0x10): the
// creative-mode client may write any item directly into any slot. There is
// no server-side validation of what creative mode is "allowed" to place —
// the same trust the vanilla server places in its own creative client.
func (l *Layer) handleCreativeInventory(p *world.Player, r *bytes.Reader) {
	slot, err := protocol.ReadInt16(r)
	if err != nil || slot < 0 || int(slot) >= inventorySlots {
		return
	}
	item, err := protocol.ReadItemStack(r)
	if err != nil {
		return
	}
	p.Inventory[slot] = item
}

// handleCloseWindow processes Close Window (0x0D): the 2x2 crafting grid
// and the cursor return to the inventory, or drop at the player's feet if
// there's no room.
func (l *Layer) handleCloseWindow(w *world.World, p *world.Player, r *bytes.Reader) {
	_, _ = protocol.ReadByte(r) // window ID, only window 0 exists

	type drop struct {
		id, meta int16
		count    byte
	}
	var drops []drop

	for i := slotCraftGridLo; i <= slotCraftGridHi; i++ {
		s := p.Inventory[i]
		if !s.IsEmpty() {
			if !addItemToInventory(p, s.ID, s.Metadata, byte(s.Count)) {
				drops = append(drops, drop{s.ID, s.Metadata, byte(s.Count)})
			}
			p.Inventory[i] = protocol.EmptyItemStack()
		}
	}
	p.Inventory[slotCraftOutput] = protocol.EmptyItemStack()

	if !p.Cursor.IsEmpty() {
		if !addItemToInventory(p, p.Cursor.ID, p.Cursor.Metadata, byte(p.Cursor.Count)) {
			drops = append(drops, drop{p.Cursor.ID, p.Cursor.Metadata, byte(p.Cursor.Count)})
		}
		p.Cursor = protocol.EmptyItemStack()
	}

	for _, d := range drops {
		SpawnItem(w, p.X, p.Y+1.5, p.Z, 0, 0.2, 0, d.id, d.meta, d.count)
	}
}

// ackClick sends the Confirm Transaction packet every Click Window action
// requires, accepted or not.
func (l *Layer) ackClick(p *world.Player, windowID byte, actionNum int16, accepted bool) {
	var b bytes.Buffer
	_ = protocol.WriteByte(&b, windowID)
	_ = protocol.WriteInt16(&b, actionNum)
	_ = protocol.WriteBool(&b, accepted)
	_ = p.Buf.WritePacket(outConfirmTransaction, b.Bytes())
}

// syncInventory resends the full 45-slot inventory plus the cursor slot —
// a blunt anti-desync measure: cheaper to resend everything than to reason
// about every partial-update path being exactly right.
func (l *Layer) syncInventory(p *world.Player) {
	var b bytes.Buffer
	_ = protocol.WriteByte(&b, 0)
	_ = protocol.WriteInt16(&b, inventorySlots)
	for i := 0; i < inventorySlots; i++ {
		_ = protocol.WriteItemStack(&b, p.Inventory[i])
	}
	_ = p.Buf.WritePacket(outWindowItems, b.Bytes())

	var cb bytes.Buffer
	_ = protocol.WriteByte(&cb, 0xff)
	_ = protocol.WriteInt16(&cb, -1)
	_ = protocol.WriteItemStack(&cb, p.Cursor)
	_ = p.Buf.WritePacket(outSetSlot, cb.Bytes())
}
