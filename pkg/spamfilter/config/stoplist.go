package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/spamfilter/pkg/spamfilter/stoplist"
)

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

// StoplistManager returns a manager for the list at path, or the built-in
// English list when path is empty.
func StoplistManager(path string) (*stoplist.Manager, error) {
	if path == "" {
		return stoplist.English(), nil
	}
	sl, err := LoadStoplist(path)
	if err != nil {
		return nil, fmt.Errorf("load stoplist: %w", err)
	}
	return stoplist.NewManager(sl.Terms), nil
}
