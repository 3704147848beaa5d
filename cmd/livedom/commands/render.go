package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/livefir/livedom"
	"github.com/livefir/livedom/cmd/livedom/internal/ui"
)

type renderOptions struct {
	template string
	data     string
	mode     string
	minify   bool
	stats    bool
}

func parseRenderArgs(args []string) (renderOptions, error) {
	opts := renderOptions{mode: string(livedom.ModeNone)}

	for i := 0; i < len(args); i++ {
		var err error
		switch args[i] {
		case "--data":
			opts.data, err = flagValue(args, &i)
		case "--mode":
			opts.mode, err = flagValue(args, &i)
		case "--minify":
			opts.minify = true
		case "--stats":
			opts.stats = true
		default:
			if strings.HasPrefix(args[i], "--") {
				return opts, fmt.Errorf("unknown flag: %s", args[i])
			}
			if opts.template != "" {
				return opts, fmt.Errorf("unexpected argument: %s", args[i])
			}
			opts.template = args[i]
		}
		if err != nil {
			return opts, err
		}
	}

	if opts.template == "" {
		return opts, fmt.Errorf("template file required")
	}
	return opts, nil
}

// Render renders a template file against data and prints the markup.
func Render(args []string) error {
	return render(os.Stdout, args)
}

func render(w io.Writer, args []string) error {
	opts, err := parseRenderArgs(args)
	if err != nil {
		return err
	}

	mode, err := livedom.ParseMode(opts.mode)
	if err != nil {
		return err
	}

	data, err := loadData(opts.data)
	if err != nil {
		return err
	}

	tmpl, err := livedom.ParseFilesWith([]livedom.Option{livedom.WithMinify(opts.minify)}, opts.template)
	if err != nil {
		return err
	}

	collector := livedom.NewCollector()
	doc := livedom.NewDocument(livedom.WithObserver(collector))
	host := doc.CreateElement("div")
	if err := doc.AppendChild(doc.Body(), host); err != nil {
		return err
	}

	component, err := livedom.UseComponent(tmpl, doc, host, livedom.WithMode(mode), livedom.WithCollector(collector))
	if err != nil {
		return err
	}
	if err := component.Render(data); err != nil {
		return fmt.Errorf("failed to render %s: %w", opts.template, err)
	}

	if mode == livedom.ModeNone {
		fmt.Fprintln(w, doc.Snapshot(host))
	} else {
		fmt.Fprintln(w, doc.Snapshot(doc.Body()))
	}

	if opts.stats {
		fmt.Fprintln(w, renderStats(collector))
	}
	return nil
}

func renderStats(collector *livedom.Collector) string {
	m := collector.GetMetrics()

	rows := []string{
		ui.TitleStyle.Render("Render stats"),
		ui.Row("renders", m.Renders),
		ui.Row("nodes added", m.NodesAdded),
		ui.Row("attribute writes", m.AttributeWrites),
		ui.Row("text writes", m.TextWrites),
		ui.Row("property writes", m.PropertyWrites),
		ui.Row("listeners added", m.ListenersAdded),
		ui.Row("error rate", fmt.Sprintf("%.1f%%", collector.GetErrorRate())),
		ui.Row("mutations per render", fmt.Sprintf("%.1f", collector.GetMutationsPerRender())),
	}

	return ui.BoxStyle.Render(strings.Join(rows, "\n"))
}
