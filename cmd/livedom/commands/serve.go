package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/livefir/livedom"
	"github.com/livefir/livedom/cmd/livedom/internal/config"
)

// Serve starts a preview server for a template file.
func Serve(args []string) error {
	cfg, err := serveConfig(args)
	if err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	handler, err := newServeHandler(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("serving template",
		zap.String("addr", cfg.Addr),
		zap.String("template", cfg.Template),
		zap.String("mode", cfg.Mode))
	fmt.Printf("Preview: http://%s\n", cfg.Addr)

	return http.ListenAndServe(cfg.Addr, handler)
}

// serveConfig loads the config file, if any, and applies flag overrides.
// Without --config, livedom.yaml in the current directory is used when it
// exists.
func serveConfig(args []string) (*config.Config, error) {
	path := ""
	overrides := map[string]string{}
	minify := false

	for i := 0; i < len(args); i++ {
		var err error
		switch args[i] {
		case "--config":
			path, err = flagValue(args, &i)
		case "--addr", "--data", "--mode":
			flag := args[i]
			var v string
			v, err = flagValue(args, &i)
			overrides[flag] = v
		case "--minify":
			minify = true
		default:
			if len(args[i]) > 1 && args[i][0] == '-' {
				return nil, fmt.Errorf("unknown flag: %s", args[i])
			}
			overrides["template"] = args[i]
		}
		if err != nil {
			return nil, err
		}
	}

	cfg := config.DefaultConfig()
	if path == "" {
		if _, err := os.Stat(config.ConfigFileName); err == nil {
			path = config.ConfigFileName
		}
	}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v, ok := overrides["template"]; ok {
		cfg.Template = v
	}
	if v, ok := overrides["--addr"]; ok {
		cfg.Addr = v
	}
	if v, ok := overrides["--data"]; ok {
		cfg.Data = v
	}
	if v, ok := overrides["--mode"]; ok {
		cfg.Mode = v
	}
	if minify {
		cfg.Minify = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// serveMetrics is the /metrics document.
type serveMetrics struct {
	livedom.RenderMetrics
	ErrorRate          float64                  `json:"error_rate"`
	MutationsPerRender float64                  `json:"mutations_per_render"`
	Memory             *livedom.MemoryStatus    `json:"memory,omitempty"`
	TopViews           []livedom.ViewMemoryInfo `json:"top_views,omitempty"`
}

// topViewCount is how many of the largest live views /metrics lists
const topViewCount = 5

// newServeHandler mounts the configured template at / and the collector
// metrics at /metrics.
func newServeHandler(cfg *config.Config, logger *zap.Logger) (http.Handler, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}

	mode, err := livedom.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	data, err := loadData(cfg.Data)
	if err != nil {
		return nil, err
	}

	tmpl, err := livedom.ParseFilesWith([]livedom.Option{livedom.WithMinify(cfg.Minify)}, cfg.Template)
	if err != nil {
		return nil, err
	}

	collector := livedom.NewCollector()
	opts := []livedom.Option{
		livedom.WithMode(mode),
		livedom.WithLogger(logger),
		livedom.WithCollector(collector),
	}

	var budget *livedom.MemoryBudget
	if cfg.MemoryLimitMB > 0 {
		budget = livedom.NewMemoryBudget(&livedom.MemoryConfig{
			MaxMemoryMB:          cfg.MemoryLimitMB,
			WarningThresholdPct:  75,
			CriticalThresholdPct: 90,
		})
		opts = append(opts, livedom.WithMemoryBudget(budget))
	}

	mux := http.NewServeMux()
	mux.Handle("/", livedom.Mount(tmpl, data, nil, opts...))
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		out := serveMetrics{
			RenderMetrics:      collector.GetMetrics(),
			ErrorRate:          collector.GetErrorRate(),
			MutationsPerRender: collector.GetMutationsPerRender(),
		}
		if budget != nil {
			status := budget.GetMemoryStatus()
			out.Memory = &status
			out.TopViews = budget.TopViews(topViewCount)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			logger.Error("failed to write metrics", zap.Error(err))
		}
	})
	return mux, nil
}
