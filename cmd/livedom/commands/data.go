package commands

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/livefir/livedom"
)

// loadData reads render data from a YAML or JSON file. An empty path yields
// empty data.
func loadData(path string) (livedom.Data, error) {
	data := livedom.Data{}
	if path == "" {
		return data, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}
	if data == nil {
		data = livedom.Data{}
	}
	return data, nil
}

// flagValue returns the value following flag at args[i], advancing i.
func flagValue(args []string, i *int) (string, error) {
	if *i+1 >= len(args) {
		return "", fmt.Errorf("flag %s requires a value", args[*i])
	}
	*i++
	return args[*i], nil
}
