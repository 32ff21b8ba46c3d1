package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Read loads and validates the scenario file at path. Environment variables such as ${SEED} are
// expanded before parsing.
func Read(path string) (*Scenario, error) {
	data, err := envsubst.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read scenario %q", path)
	}
	scenario, err := FromBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load scenario %q", path)
	}
	return scenario, nil
}

// FromBytes decodes a YAML scenario over the defaults and validates it. Unknown keys are errors.
func FromBytes(data []byte) (*Scenario, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "invalid yaml")
	}
	scenario := Default()
	if err := decode(raw, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(""); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func decode(attributes map[string]interface{}, out *Scenario) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.DecodeHookFuncType(stringListHook),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(attributes)
}

// stringListHook lets points be written as "x,y" and grids as one block of whitespace separated
// rows.
func stringListHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice {
		return data, nil
	}
	text, _ := data.(string)
	switch to.Elem().Kind() {
	case reflect.String:
		return strings.Fields(text), nil
	case reflect.Int:
		x, y, err := ParsePoint(text)
		if err != nil {
			return nil, err
		}
		return []int{x, y}, nil
	case reflect.Float64:
		parts := strings.Split(text, ",")
		vals := make([]float64, 0, len(parts))
		for _, p := range parts {
			v, err := cast.ToFloat64E(strings.TrimSpace(p))
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		return vals, nil
	default:
		return data, nil
	}
}

// ParsePoint parses an "x,y" cell such as "3,4".
func ParsePoint(text string) (int, int, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return 0, 0, errors.Errorf("point %q must be in x,y format", text)
	}
	x, err := cast.ToIntE(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, errors.Wrapf(err, "point %q", text)
	}
	y, err := cast.ToIntE(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, errors.Wrapf(err, "point %q", text)
	}
	return x, y, nil
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s.%d", path, i)
}
