package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Profile is a named set of capture defaults in profiles.toml
//
//	[profile.myapp]
//	comment = "My app and its services"
//	extends = ["base"]
//	packages = ["com.example.app", "com.example.app:sync"]
//	level = "info"
type Profile struct {
	Comment  string   `mapstructure:"comment"`
	Extends  []string `mapstructure:"extends"`
	Packages []string `mapstructure:"packages"`
	Level    string   `mapstructure:"level"`
	Buffer   []string `mapstructure:"buffer"`
}

// Profiles holds the profiles of one file. Names are case insensitive.
type Profiles struct {
	Path     string
	profiles map[string]Profile
}

// ProfilesPath picks the profiles file: the explicit path, then
// $ROGCAT_PROFILES, then profiles.toml in the config directory
func ProfilesPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv("ROGCAT_PROFILES"); v != "" {
		return v
	}
	return filepath.Join(Dir(), "profiles.toml")
}

// LoadProfiles reads path. A missing file yields an empty set.
func LoadProfiles(path string) (*Profiles, error) {
	p := &Profiles{Path: path, profiles: map[string]Profile{}}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return p, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read profiles %s: %w", path, err)
	}

	var file struct {
		Profile map[string]Profile `mapstructure:"profile"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse profiles %s: %w", path, err)
	}
	for name, prof := range file.Profile {
		p.profiles[strings.ToLower(name)] = prof
	}
	return p, nil
}

// Names returns the profile names in sorted order
func (p *Profiles) Names() []string {
	names := make([]string, 0, len(p.profiles))
	for n := range p.profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns the profile as written, without resolving extends
func (p *Profiles) Get(name string) (Profile, bool) {
	prof, ok := p.profiles[strings.ToLower(name)]
	return prof, ok
}

// Resolve returns name merged with every profile it extends. Extended
// profiles are applied first; lists are appended without duplicates and
// scalars from the more specific profile win.
func (p *Profiles) Resolve(name string) (Profile, error) {
	var out Profile
	if err := p.resolve(strings.ToLower(name), &out, nil); err != nil {
		return Profile{}, err
	}
	out.Extends = nil
	return out, nil
}

func (p *Profiles) resolve(name string, out *Profile, stack []string) error {
	for _, s := range stack {
		if s == name {
			return fmt.Errorf("profile %q extends itself: %s", name, strings.Join(append(stack, name), " -> "))
		}
	}
	prof, ok := p.profiles[name]
	if !ok {
		if len(stack) == 0 {
			return fmt.Errorf("unknown profile %q", name)
		}
		return fmt.Errorf("profile %q extends unknown profile %q", stack[len(stack)-1], name)
	}

	stack = append(stack, name)
	for _, parent := range prof.Extends {
		if err := p.resolve(strings.ToLower(parent), out, stack); err != nil {
			return err
		}
	}

	if prof.Comment != "" {
		out.Comment = prof.Comment
	}
	if prof.Level != "" {
		out.Level = prof.Level
	}
	out.Packages = appendUnique(out.Packages, prof.Packages...)
	out.Buffer = appendUnique(out.Buffer, prof.Buffer...)
	return nil
}

func appendUnique(dst []string, src ...string) []string {
	for _, s := range src {
		dup := false
		for _, d := range dst {
			if d == s {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, s)
		}
	}
	return dst
}
