package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ghodss/yaml"
	"github.com/tidwall/gjson"

	"github.com/safing/poolrand/log"
)

var (
	configFilePath string
	saveLock       sync.Mutex
)

func isYAMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// loadConfig reads the config file, if one is configured, and applies it as
// the user defined config. YAML files are converted to JSON first.
func loadConfig() error {
	if configFilePath == "" {
		return nil
	}

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		return err
	}

	if isYAMLFile(configFilePath) {
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return err
		}
	}

	newValues, err := JSONToMap(data)
	if err != nil {
		return err
	}

	return setConfig(newValues)
}

// saveConfig writes all user defined values to the config file, if one is configured.
func saveConfig() error {
	if configFilePath == "" {
		return nil
	}

	saveLock.Lock()
	defer saveLock.Unlock()

	activeValues := make(map[string]interface{})
	optionsLock.RLock()
	for key, option := range options {
		option.Lock()
		if option.activeValue != nil {
			activeValues[key] = option.activeValue.getData(option)
		}
		option.Unlock()
	}
	optionsLock.RUnlock()

	data, err := MapToJSON(activeValues)
	if err != nil {
		log.Errorf("config: failed to save config: %s", err)
		return err
	}

	if isYAMLFile(configFilePath) {
		data, err = yaml.JSONToYAML(data)
		if err != nil {
			log.Errorf("config: failed to save config: %s", err)
			return err
		}
	}

	return os.WriteFile(configFilePath, data, 0o0600)
}

// JSONToMap parses and flattens a hierarchical json object.
func JSONToMap(jsonData []byte) (map[string]interface{}, error) {
	if !gjson.ValidBytes(jsonData) {
		return nil, ErrInvalidJSON
	}

	loaded := make(map[string]interface{})
	if err := json.Unmarshal(jsonData, &loaded); err != nil {
		return nil, err
	}

	flattened := make(map[string]interface{})
	flatten(flattened, loaded, "")
	return flattened, nil
}

func flatten(dst, src map[string]interface{}, prefix string) {
	for key, entry := range src {
		if prefix != "" {
			key = prefix + "/" + key
		}

		if sub, ok := entry.(map[string]interface{}); ok {
			flatten(dst, sub, key)
			continue
		}
		dst[key] = entry
	}
}

// MapToJSON expands a flattened map and returns it as indented json.
// The map is not altered.
func MapToJSON(values map[string]interface{}) ([]byte, error) {
	return json.MarshalIndent(expand(values), "", "  ")
}

// expand builds the hierarchical form of a flattened map.
func expand(flat map[string]interface{}) map[string]interface{} {
	root := make(map[string]interface{})
	for key, entry := range flat {
		parts := strings.Split(key, "/")
		current := root
		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]interface{})
			if !ok {
				next = make(map[string]interface{})
				current[part] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = entry
	}
	return root
}
