package inventory

import "sync/atomic"

// handlerWrapper lets embedding applications instrument every handler an
// Inventory is given (logging, metrics) without each call site
// remembering to do so itself, mirroring the wrap-point dragonfly keeps
// beside its own inventory package.
type handlerWrapper func(*Inventory, Handler) Handler

var inventoryHandlerWrap atomic.Value

func init() {
	inventoryHandlerWrap.Store(handlerWrapper(func(_ *Inventory, h Handler) Handler {
		return h
	}))
}

// SetHandlerWrap installs a function that wraps every handler passed to
// Inventory.Handle, after nil has already been substituted with
// NopHandler. Passing nil restores the identity wrapper.
func SetHandlerWrap(w func(*Inventory, Handler) Handler) {
	if w == nil {
		inventoryHandlerWrap.Store(handlerWrapper(func(_ *Inventory, h Handler) Handler {
			return h
		}))
		return
	}
	inventoryHandlerWrap.Store(handlerWrapper(w))
}

func wrapInventoryHandler(inv *Inventory, h Handler) Handler {
	return inventoryHandlerWrap.Load().(handlerWrapper)(inv, h)
}
