package settings

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadQueueSettings reads queue settings from a YAML file
func LoadQueueSettings(path string) (QueueSettings, error) {
	var s QueueSettings
	if err := decodeFile(path, &s); err != nil {
		return QueueSettings{}, err
	}
	return s, nil
}

// LoadPublishSettings reads publish settings from a YAML file
func LoadPublishSettings(path string) (PublishSettings, error) {
	var s PublishSettings
	if err := decodeFile(path, &s); err != nil {
		return PublishSettings{}, err
	}
	return s, nil
}

// DecodeQueueSettings decodes queue settings from YAML
func DecodeQueueSettings(r io.Reader) (QueueSettings, error) {
	var s QueueSettings
	if err := decode(r, &s); err != nil {
		return QueueSettings{}, err
	}
	return s, nil
}

// DecodePublishSettings decodes publish settings from YAML
func DecodePublishSettings(r io.Reader) (PublishSettings, error) {
	var s PublishSettings
	if err := decode(r, &s); err != nil {
		return PublishSettings{}, err
	}
	return s, nil
}

func decodeFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("settings: failed to read %s: %w", path, err)
	}
	if err := decode(bytes.NewReader(data), out); err != nil {
		return fmt.Errorf("settings: %s: %w", path, err)
	}
	return nil
}

func decode(r io.Reader, out interface{}) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode yaml: %w", err)
	}
	return nil
}
