package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"strings"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	ktoml "github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables overriding settings
const EnvPrefix = "STENCIL_"

//go:embed embedded/defaults.toml
var defaultSettings []byte

// Settings are the application wide preferences
type Settings struct {
	// Templates is the templates root; empty selects the platform default
	Templates string `koanf:"templates"`

	Format           string `koanf:"format"`
	Edit             bool   `koanf:"edit"`
	DescriptorFormat string `koanf:"descriptor_format"`
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// LoadSettings merges, in increasing priority, the built-in defaults, the
// settings file at path (skipped when it does not exist) and STENCIL_*
// environment variables.
func LoadSettings(path string) (*Settings, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, ktoml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "invalid built-in settings")
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), ktoml.Parser()); err != nil {
				return nil, errors.Wrap(err, errors.ErrConfigRead, "cannot load settings file").
					WithDetail("path", path)
			}
			logger.Debug().Str("path", path).Msg("Settings file loaded")
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrConfigRead, "cannot access settings file").
				WithDetail("path", path)
		}
	}

	// STENCIL_DESCRIPTOR_FORMAT -> descriptor_format
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigRead, "cannot load settings from environment")
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigRead, "invalid settings").
			WithDetail("path", path)
	}

	return &s, nil
}
