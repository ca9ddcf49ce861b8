package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"sigs.k8s.io/yaml"
)

// StructuredJSONConfig is the on-disk layout of the config file.
type StructuredJSONConfig struct {
	Server struct {
		URL            string   `json:"url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Auth struct {
		Username          string `json:"username"`
		Password          string `json:"password"`
		SecretsFile       string `json:"secrets_file"`
		ServiceAccountKey string `json:"service_account_key"`
		Token             string `json:"token"`
		Managed           bool   `json:"managed"`
	} `json:"auth,omitempty"`

	Wait struct {
		PollInterval Duration `json:"poll_interval"`
		Timeout      Duration `json:"timeout"`
	} `json:"wait,omitempty"`

	Tools struct {
		WomtoolPath string `json:"womtool_path"`
		JavaPath    string `json:"java_path"`
	} `json:"tools,omitempty"`

	Log struct {
		Level string `json:"level"`
	} `json:"log,omitempty"`
}

// parseJSON reads the config file at jsonFilePath. YAML files are accepted
// as well and decoded through their JSON form.
func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	data, err := os.ReadFile(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}

	var jsonCfg StructuredJSONConfig
	if err := yaml.Unmarshal(data, &jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Server: Server{
			URL:            jsonCfg.Server.URL,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Auth: Auth{
			Username:          jsonCfg.Auth.Username,
			Password:          jsonCfg.Auth.Password,
			SecretsFile:       jsonCfg.Auth.SecretsFile,
			ServiceAccountKey: jsonCfg.Auth.ServiceAccountKey,
			Token:             jsonCfg.Auth.Token,
			Managed:           jsonCfg.Auth.Managed,
		},
		Wait: Wait{
			PollInterval: time.Duration(jsonCfg.Wait.PollInterval),
			Timeout:      time.Duration(jsonCfg.Wait.Timeout),
		},
		Tools: Tools{
			WomtoolPath: jsonCfg.Tools.WomtoolPath,
			JavaPath:    jsonCfg.Tools.JavaPath,
		},
		Log: Log{
			Level: jsonCfg.Log.Level,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
