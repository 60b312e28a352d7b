package freelance

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadProfile reads a profile from a YAML or JSON file.
func LoadProfile(path string) (*Profile, error) {
	raw, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err := decode(raw, &profile); err != nil {
		return nil, fmt.Errorf("decode profile %q: %w", path, err)
	}

	return &profile, nil
}

// LoadJobs reads jobs from a YAML or JSON file. The document may be a single
// job, a list of jobs, or a mapping with a "jobs" list. Jobs without an id get
// a random one.
func LoadJobs(path string) (*Jobs, error) {
	raw, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	var items []any
	switch doc := raw.(type) {
	case []any:
		items = doc
	case map[string]any:
		if list, ok := doc["jobs"].([]any); ok {
			items = list
		} else {
			items = []any{doc}
		}
	case nil:
		return &Jobs{}, nil
	default:
		return nil, fmt.Errorf("decode jobs %q: unexpected document type %T", path, raw)
	}

	var jobs []*Job
	if err := decode(items, &jobs); err != nil {
		return nil, fmt.Errorf("decode jobs %q: %w", path, err)
	}

	for _, job := range jobs {
		if strings.TrimSpace(job.ID) == "" {
			job.ID = uuid.NewString()
		}
	}

	return &Jobs{Items: jobs}, nil
}

func readDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	// YAML is a superset of JSON so both formats go through the same parser.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}

	return raw, nil
}

func decode(input, output any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           output,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
