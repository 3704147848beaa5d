package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/livefir/livedom"
	"github.com/livefir/livedom/cmd/livedom/internal/ui"
	"github.com/livefir/livedom/internal/directive"
)

// Inspect prints an outline of a template file with its directives.
func Inspect(args []string) error {
	return inspect(os.Stdout, args)
}

func inspect(w io.Writer, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("template file required")
	}

	tmpl, err := livedom.ParseFiles(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(w, ui.TitleStyle.Render(tmpl.Name()))

	var elements, directives int
	var warnings []string
	var walk func(n *html.Node, depth int)
	walk = func(n *html.Node, depth int) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}

			line := strings.Repeat("  ", depth) + ui.TagStyle.Render(c.Data)
			found := 0
			for _, a := range c.Attr {
				if !isDirective(a.Key) {
					continue
				}
				found++
				line += "  " + ui.DirectiveStyle.Render(a.Key) + "=" + ui.ValueStyle.Render(fmt.Sprintf("%q", a.Val))
				warnings = append(warnings, checkDirective(c.Data, a)...)
			}
			if found > 0 {
				elements++
				directives += found
			}
			fmt.Fprintln(w, line)
			walk(c, depth+1)
		}
	}
	walk(tmpl.Content(), 0)

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Row("directives", directives))
	fmt.Fprintln(w, ui.Row("elements with directives", elements))
	for _, warning := range warnings {
		fmt.Fprintln(w, ui.ErrorStyle.Render("warning: ")+warning)
	}
	return nil
}

func isDirective(key string) bool {
	return strings.HasPrefix(key, "$") ||
		strings.HasPrefix(key, directive.AttrPrefix) ||
		strings.HasPrefix(key, directive.EventPrefix)
}

func checkDirective(tag string, a html.Attribute) []string {
	switch a.Key {
	case directive.For:
		f := directive.ParseFor(a.Val)
		if f.Array == "" {
			return []string{fmt.Sprintf("<%s> %s=%q has no \"in\" clause and renders nothing", tag, a.Key, a.Val)}
		}
		if f.Item == "" {
			return []string{fmt.Sprintf("<%s> %s=%q has no item variable", tag, a.Key, a.Val)}
		}
	case directive.Model:
		switch tag {
		case "input", "select", "textarea":
		default:
			return []string{fmt.Sprintf("<%s> %s only binds input, select and textarea", tag, a.Key)}
		}
	}
	return nil
}
