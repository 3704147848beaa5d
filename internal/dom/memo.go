package dom

import "golang.org/x/net/html"

// Memo returns the value last stored for key on n. Keys are directive names
// such as ":id", "$text" or "$for".
func (d *Document) Memo(n *html.Node, key string) (any, bool) {
	m, ok := d.memos[n]
	if !ok {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// HasMemo reports whether n carries an entry for key.
func (d *Document) HasMemo(n *html.Node, key string) bool {
	_, ok := d.Memo(n, key)
	return ok
}

// SetMemo stores v for key on n.
func (d *Document) SetMemo(n *html.Node, key string, v any) {
	m, ok := d.memos[n]
	if !ok {
		m = make(map[string]any)
		d.memos[n] = m
	}
	m[key] = v
}

// DeleteMemo removes the entry for key on n.
func (d *Document) DeleteMemo(n *html.Node, key string) {
	m, ok := d.memos[n]
	if !ok {
		return
	}
	delete(m, key)
	if len(m) == 0 {
		delete(d.memos, n)
	}
}
