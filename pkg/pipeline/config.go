package pipeline

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/greatlse/openchemlib/pkg/cache"
	errs "github.com/greatlse/openchemlib/pkg/errors"
)

// Config is the content of a depict.toml file:
//
//	addr = ":8080"
//
//	[layout]
//	mode = "remove-hydrogen"
//	seed = 7
//	formats = ["mol", "svg"]
//	bond_length = 1.5
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
type Config struct {
	Addr    string       `toml:"addr"`
	Options Options      `toml:"layout"`
	Cache   cache.Config `toml:"cache"`
}

// ConfigFileName is looked up in the working directory and the user config
// directory.
const ConfigFileName = "depict.toml"

// LoadConfig decodes the TOML file at path. Unknown keys are rejected so
// that typos do not go unnoticed.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errs.New(errs.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Options.Mode != "" {
		if _, err := ValidateMode(cfg.Options.Mode); err != nil {
			return Config{}, err
		}
	}
	if err := ValidateFormats(cfg.Options.Formats); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FindConfig returns the first existing config file among the working
// directory and the user config directory, or "" if there is none.
func FindConfig() string {
	candidates := []string{ConfigFileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "depict", ConfigFileName))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
