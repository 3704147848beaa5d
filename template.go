// Package livedom renders declarative HTML templates into live node trees.
//
// A template is ordinary HTML annotated with directive attributes:
//
//	$if="expr"                  render the element only when expr is truthy
//	$for="item in list"         render the element once per item
//	$for="item:id in list"      ... keyed by item.id
//	$key="expr"                 explicit key expression for $for
//	$text="expr"                replace the element's text content
//	$model="expr"               write a form control's value or checked state
//	:name="expr"                bind the name attribute
//	@type="expr"                attach an EventListener for events of type
//
// Rendering reconciles a live tree in place: nodes are created, moved or
// removed only when the data requires it, so node identity and any state held
// by it (listeners, form values) survive re-renders.
package livedom

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Config holds template, component and mount options
type Config struct {
	Minify    bool                // Minify template source before parsing
	Mode      Mode                // Component render target
	Logger    *zap.Logger         // Mount handler logging
	Upgrader  *websocket.Upgrader // Mount handler websocket upgrader
	Collector *Collector          // Receives renders, sessions and mutations

	MemoryLimit  int64         // Bytes of markup all websocket views may hold, 0 for no limit
	MemoryBudget *MemoryBudget // Shared view budget, takes precedence over MemoryLimit
	SessionLimit int           // Cookie sessions kept by a Mount handler, 0 for no limit
}

// Option is a functional option for Parse, UseComponent and Mount
type Option func(*Config)

// WithMinify minifies template source before it is parsed
func WithMinify(enabled bool) Option {
	return func(c *Config) {
		c.Minify = enabled
	}
}

// WithLogger sets the logger used by Mount
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithUpgrader sets a custom WebSocket upgrader
func WithUpgrader(upgrader *websocket.Upgrader) Option {
	return func(c *Config) {
		c.Upgrader = upgrader
	}
}

// WithCollector records metrics with collector
func WithCollector(collector *Collector) Option {
	return func(c *Config) {
		c.Collector = collector
	}
}

// WithMemoryLimit caps the markup held by all live websocket views of a Mount
// handler. A connection whose view would exceed the limit is closed.
func WithMemoryLimit(bytes int64) Option {
	return func(c *Config) {
		c.MemoryLimit = bytes
	}
}

// WithMemoryBudget tracks live websocket views in budget, so its status can
// be read while the handler serves.
func WithMemoryBudget(budget *MemoryBudget) Option {
	return func(c *Config) {
		c.MemoryBudget = budget
	}
}

// DefaultSessionLimit is the number of cookie sessions a Mount handler keeps
// unless WithSessionLimit says otherwise.
const DefaultSessionLimit = 10000

// WithSessionLimit caps the cookie sessions of a Mount handler. Creating a
// session past the cap drops the least recently used one.
func WithSessionLimit(n int) Option {
	return func(c *Config) {
		c.SessionLimit = n
	}
}

func newConfig(opts []Option) Config {
	config := Config{
		Mode:         ModeOpen,
		Logger:       zap.NewNop(),
		SessionLimit: DefaultSessionLimit,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

// Template is a parsed template. It is immutable and may be rendered into any
// number of live trees.
type Template struct {
	name    string
	source  string
	content *html.Node
}

// Parse parses text as template content.
func Parse(name, text string, opts ...Option) (*Template, error) {
	config := newConfig(opts)
	if config.Minify {
		text = minifyHTML(text)
	}

	nodes, err := html.ParseFragment(strings.NewReader(text), &html.Node{
		Type:     html.ElementNode,
		Data:     "template",
		DataAtom: atom.Template,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	content := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		content.AppendChild(n)
	}
	return &Template{name: name, source: text, content: content}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(name, text string, opts ...Option) *Template {
	t, err := Parse(name, text, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseFiles parses the named files as one template, in order. The template
// is named after the first file.
func ParseFiles(filenames ...string) (*Template, error) {
	return ParseFilesWith(nil, filenames...)
}

// ParseFilesWith is ParseFiles with options.
func ParseFilesWith(opts []Option, filenames ...string) (*Template, error) {
	if len(filenames) == 0 {
		return nil, fmt.Errorf("no template files given")
	}

	var b strings.Builder
	for _, filename := range filenames {
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read template file %s: %w", filename, err)
		}
		b.Write(content)
	}
	return Parse(filepath.Base(filenames[0]), b.String(), opts...)
}

// HTML joins literal parts and interleaved values into template source and
// parses it, the way a tagged template literal would. Nil values render as
// nothing. Surrounding whitespace is trimmed.
func HTML(parts []string, values ...any) *Template {
	var b strings.Builder
	for i, part := range parts {
		b.WriteString(part)
		if i < len(values) && values[i] != nil {
			fmt.Fprint(&b, values[i])
		}
	}
	return MustParse("html", strings.TrimSpace(b.String()))
}

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// Source returns the text the template was parsed from, after minification.
func (t *Template) Source() string { return t.source }

// Content returns the root of the parsed template. Its children are the
// template's top-level nodes; it must not be modified.
func (t *Template) Content() *html.Node { return t.content }
