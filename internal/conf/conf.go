// Package conf loads the optional TOML configuration shared by the commands.
package conf

import (
	"fmt"
	"reflect"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/cespare/playground/internal/status"
)

type Conf struct {
	Debug      bool   `toml:"debug"`
	StatusPath string `toml:"status_path"`
	Allocator  string `toml:"allocator"`
}

// Defaults are applied to every field left empty by the configuration file.
var Defaults = Conf{
	StatusPath: status.DefaultPath,
	Allocator:  "heap",
}

// emptyFields takes a pointer to a struct type and returns a slice of toml tags of its empty fields.
// NOTE: This function panics if s is not a pointer to a struct type.
func emptyFields(s interface{}) []string {
	empty := []string{}
	v := reflect.ValueOf(s).Elem()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		name := v.Type().Field(i).Tag.Get("toml")
		zero := reflect.Zero(field.Type())
		if reflect.DeepEqual(field.Interface(), zero.Interface()) {
			empty = append(empty, name)
		}
	}
	return empty
}

// fillDefaults copies the value of each empty field of c from d.
func (c *Conf) fillDefaults(d *Conf) {
	empty := make(map[string]struct{})
	for _, name := range emptyFields(c) {
		empty[name] = struct{}{}
	}
	dst := reflect.ValueOf(c).Elem()
	src := reflect.ValueOf(d).Elem()
	for i := 0; i < dst.NumField(); i++ {
		if _, ok := empty[dst.Type().Field(i).Tag.Get("toml")]; ok {
			dst.Field(i).Set(src.Field(i))
		}
	}
}

// Parse reads the configuration at path. An empty path means no configuration
// file; the result is then a copy of Defaults.
func Parse(path string) (*Conf, error) {
	c := &Conf{}
	if path != "" {
		md, err := toml.DecodeFile(path, c)
		if err != nil {
			return nil, errors.Wrapf(err, "error decoding %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown fields in %s: %v", path, undecoded)
		}
	}
	defaults := Defaults
	c.fillDefaults(&defaults)
	return c, nil
}
