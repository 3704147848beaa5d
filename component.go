package livedom

import (
	"fmt"
	"maps"

	"golang.org/x/net/html"

	"github.com/livefir/livedom/internal/dom"
	"github.com/livefir/livedom/internal/reconcile"
)

// Mode selects where a component renders.
type Mode string

const (
	// ModeOpen renders into an open shadow root attached to the host.
	ModeOpen Mode = "open"
	// ModeClosed renders into a closed shadow root attached to the host.
	ModeClosed Mode = "closed"
	// ModeNone renders directly into the host.
	ModeNone Mode = "none"
)

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeOpen, ModeClosed, ModeNone:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// WithMode sets the component render target. The default is ModeOpen.
func WithMode(mode Mode) Option {
	return func(c *Config) {
		c.Mode = mode
	}
}

// Component couples a template with a host element and the data rendered
// into it so far. Patches merge shallowly into that data.
type Component struct {
	tmpl       *Template
	doc        *Document
	host       *html.Node
	target     *html.Node
	data       Data
	reconciler *reconcile.Reconciler
	collector  *Collector
}

// UseComponent prepares host to render tmpl. Nothing is rendered until the
// first call to Render.
func UseComponent(tmpl *Template, doc *Document, host *html.Node, opts ...Option) (*Component, error) {
	config := newConfig(opts)

	target := host
	switch config.Mode {
	case ModeNone:
	case ModeOpen, ModeClosed:
		mode := dom.ShadowOpen
		if config.Mode == ModeClosed {
			mode = dom.ShadowClosed
		}
		root, err := doc.AttachShadow(host, mode)
		if err != nil {
			return nil, fmt.Errorf("failed to attach shadow root: %w", err)
		}
		target = root
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, config.Mode)
	}

	return &Component{
		tmpl:       tmpl,
		doc:        doc,
		host:       host,
		target:     target,
		data:       Data{},
		reconciler: reconcile.New(doc),
		collector:  config.Collector,
	}, nil
}

// Render merges patch into the component data and renders.
func (c *Component) Render(patch Data) error {
	c.PatchData(patch)
	return c.render()
}

// RenderFunc merges the patch returned by fn, called with the current data,
// and renders.
func (c *Component) RenderFunc(fn func(Data) Data) error {
	c.PatchDataFunc(fn)
	return c.render()
}

// PatchData merges patch into the component data without rendering.
func (c *Component) PatchData(patch Data) {
	maps.Copy(c.data, patch)
}

// PatchDataFunc merges the patch returned by fn without rendering.
func (c *Component) PatchDataFunc(fn func(Data) Data) {
	c.PatchData(fn(c.GetData()))
}

// GetData returns a copy of the component data.
func (c *Component) GetData() Data {
	return maps.Clone(c.data)
}

// Target returns the node the component renders into: the host itself in
// ModeNone, otherwise its shadow root.
func (c *Component) Target() *html.Node { return c.target }

// Host returns the host element.
func (c *Component) Host() *html.Node { return c.host }

// Document returns the document that owns the host.
func (c *Component) Document() *Document { return c.doc }

func (c *Component) render() error {
	err := c.reconciler.Render(c.tmpl.content, c.target, c.data)
	if c.collector != nil {
		if err != nil {
			c.collector.IncrementRenderError()
		} else {
			c.collector.IncrementRender()
		}
	}
	return err
}
