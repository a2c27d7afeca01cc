package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/chartcore/pkg/errors"
)

// LoadOptions reads pipeline options from a TOML, YAML or JSON file. Relative
// data paths are resolved against the file's directory.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Options{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "options %s", path)
	}
	if err != nil {
		return Options{}, fmt.Errorf("read %s: %w", path, err)
	}
	opts, err := DecodeOptions(filepath.Ext(path), data)
	if err != nil {
		return Options{}, err
	}

	dir := filepath.Dir(path)
	for _, p := range []*string{&opts.Data, &opts.Previous} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	return opts, nil
}

// DecodeOptions decodes options in the format named by ext (".toml",
// ".yaml", ".yml" or ".json").
func DecodeOptions(ext string, data []byte) (Options, error) {
	var opts Options
	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		_, err = toml.Decode(string(data), &opts)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &opts)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&opts)
	default:
		return Options{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported options format %q (use .toml, .yaml or .json)", ext)
	}
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode options")
	}
	return opts, nil
}
