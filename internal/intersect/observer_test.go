package intersect

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pageloader/internal/dom"
)

func tree(t *testing.T) (*html.Node, *html.Node, *html.Node) {
	t.Helper()
	doc, err := dom.ParseString(`<main><div id="top"><img id="a"></div><div id="below"><img id="b"></div></main>`)
	require.NoError(t, err)
	return doc, dom.ByID(doc, "a"), dom.ByID(doc, "b")
}

func TestObserverFiresOncePerNode(t *testing.T) {
	_, a, _ := tree(t)
	o := NewObserver(NewWindow(1200, true))

	calls := 0
	require.True(t, o.Register(a, func(context.Context, *html.Node) { calls++ }))
	assert.False(t, o.Register(a, func(context.Context, *html.Node) { calls++ }))

	assert.Equal(t, 1, o.Check(context.Background()))
	assert.Equal(t, 0, o.Check(context.Background()))
	assert.Equal(t, 1, calls)

	// Fired nodes stay disconnected for good.
	assert.False(t, o.Register(a, func(context.Context, *html.Node) { calls++ }))
	o.Check(context.Background())
	assert.Equal(t, 1, calls)
}

func TestObserverWaitsForVisibility(t *testing.T) {
	doc, a, b := tree(t)
	w := NewWindow(500, false)
	o := NewObserver(w)

	var fired []string
	cb := func(_ context.Context, n *html.Node) { fired = append(fired, dom.AttrVal(n, "id")) }
	o.Register(a, cb)
	o.Register(b, cb)

	assert.Equal(t, 0, o.Check(context.Background()))
	assert.Equal(t, 2, o.Pending())

	w.Reveal(dom.ByID(doc, "top"))
	o.Check(context.Background())
	assert.Equal(t, []string{"a"}, fired)

	w.ScrollIntoView(dom.ByID(doc, "below"))
	o.Check(context.Background())
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, 0, o.Pending())
	assert.Equal(t, "below", dom.AttrVal(w.Scrolled(), "id"))
}

func TestObserverConcurrentChecksFireOnce(t *testing.T) {
	_, a, _ := tree(t)
	o := NewObserver(NewWindow(1200, true))
	var calls atomic.Int32
	o.Register(a, func(context.Context, *html.Node) { calls.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.Check(context.Background())
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestCallbackMayRegister(t *testing.T) {
	_, a, b := tree(t)
	o := NewObserver(NewWindow(1200, true))
	o.Register(a, func(ctx context.Context, _ *html.Node) {
		o.Register(b, func(context.Context, *html.Node) {})
	})
	o.Check(context.Background())
	assert.Equal(t, 1, o.Pending())
}
