package utils

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that decodes from either a duration string
// ("100ms") or integer nanoseconds, in both JSON and YAML
type Duration time.Duration

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		return d.parse(text)
	}

	var nanos int64
	if err := json.Unmarshal(data, &nanos); err != nil {
		return errors.Wrapf(err, "[Duration.UnmarshalJSON] want a duration string or integer nanoseconds, got %s", data)
	}
	*d = Duration(nanos)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var nanos int64
	if value.ShortTag() == "!!int" {
		if err := value.Decode(&nanos); err != nil {
			return errors.Wrap(err, "[Duration.UnmarshalYAML] bad integer")
		}
		*d = Duration(nanos)
		return nil
	}
	return d.parse(value.Value)
}

func (d *Duration) parse(text string) error {
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return errors.Wrapf(err, "[Duration] failed to parse %q", text)
	}
	*d = Duration(parsed)
	return nil
}
