package inventory

// Handler receives notifications of inventory mutations. Application code
// installs one via Inventory.Handle to react to slot changes (e.g. crafting
// recipe resolution), which is an external collaborator the core defers to
// rather than implementing itself (§1 Non-goals "gameplay").
type Handler interface {
	HandleSlotChange(inv *Inventory, slot int, item ItemStack)
}

// NopHandler is a Handler that does nothing, the default every Inventory is
// created with.
type NopHandler struct{}

// HandleSlotChange implements Handler.
func (NopHandler) HandleSlotChange(*Inventory, int, ItemStack) {}

// Handle installs h as the inventory's handler, substituting NopHandler for
// a nil argument and running it through any wrapper installed via
// SetHandlerWrap.
func (inv *Inventory) Handle(h Handler) {
	if h == nil {
		h = NopHandler{}
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.handler = wrapInventoryHandler(inv, h)
}
