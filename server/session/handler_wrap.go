package session

import "sync/atomic"

// handlerWrapper lets an embedding application instrument every Handler a
// session is given, mirroring the wrap point dragonfly keeps beside its own
// session and inventory handler types.
type handlerWrapper func(*State, Handler) Handler

var sessionHandlerWrap atomic.Value

func init() {
	sessionHandlerWrap.Store(handlerWrapper(func(_ *State, h Handler) Handler {
		return h
	}))
}

// SetHandlerWrap installs a function that wraps every handler passed to
// State.Handle, after nil has already been substituted with NopHandler.
// Passing nil restores the identity wrapper.
func SetHandlerWrap(w func(*State, Handler) Handler) {
	if w == nil {
		sessionHandlerWrap.Store(handlerWrapper(func(_ *State, h Handler) Handler {
			return h
		}))
		return
	}
	sessionHandlerWrap.Store(handlerWrapper(w))
}

func wrapHandler(s *State, h Handler) Handler {
	return sessionHandlerWrap.Load().(handlerWrapper)(s, h)
}
