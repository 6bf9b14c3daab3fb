package host

import "context"

// Done is the completion callback handed to callback-style hooks.
type Done func(err error)

// CallbackBeforeHook is the callback-style form of BeforeHook.
type CallbackBeforeHook func(ctx context.Context, doc *Document, assets *AssetLists, comp Compilation, done Done)

// CallbackAfterHook is the callback-style form of AfterHook.
type CallbackAfterHook func(ctx context.Context, doc *Document, head, body []*Tag, comp Compilation, done Done)

// CallbackHookSurface is the registration API of hosts that expect hooks to
// signal completion through a callback.
type CallbackHookSurface interface {
	TapBeforeTagGenerationAsync(name string, fn CallbackBeforeHook)
	TapAfterTagGenerationAsync(name string, fn CallbackAfterHook)
}

// AdaptCallbacks presents a callback-style host as a HookSurface.
func AdaptCallbacks(s CallbackHookSurface) HookSurface {
	return callbackAdapter{s}
}

// AsHookSurface accepts either hook registration style.
func AsHookSurface(v any) (HookSurface, bool) {
	switch s := v.(type) {
	case HookSurface:
		return s, true
	case CallbackHookSurface:
		return AdaptCallbacks(s), true
	}
	return nil, false
}

type callbackAdapter struct {
	target CallbackHookSurface
}

func (a callbackAdapter) TapBeforeTagGeneration(name string, fn BeforeHook) {
	a.target.TapBeforeTagGenerationAsync(name, func(ctx context.Context, doc *Document, assets *AssetLists, comp Compilation, done Done) {
		done(fn(ctx, doc, assets, comp))
	})
}

func (a callbackAdapter) TapAfterTagGeneration(name string, fn AfterHook) {
	a.target.TapAfterTagGenerationAsync(name, func(ctx context.Context, doc *Document, head, body []*Tag, comp Compilation, done Done) {
		done(fn(ctx, doc, head, body, comp))
	})
}
