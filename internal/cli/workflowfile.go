package cli

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/anand-gl/jsoncanonicalizer"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"sigs.k8s.io/yaml"

	"github.com/leeroo-ai/leeroo/pkg/leeroo"
)

var errNotAnObject = errors.New("workflow config must be a JSON or YAML object")

// readWorkflowFile reads a workflow config file and returns it as JSON.
// YAML files are converted. With expand set, {{ .ENV.X }} placeholders are
// substituted first.
func readWorkflowFile(path string, expand bool) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read workflow config: %w", err)
	}
	if expand {
		raw, err = ExpandEnv(raw)
		if err != nil {
			return nil, err
		}
	}
	if json.Valid(raw) {
		return raw, nil
	}
	out, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("unable to parse workflow config %s: %w", path, err)
	}
	return out, nil
}

// decodeWorkflowConfig decodes JSON into a workflow config, keeping numbers verbatim.
func decodeWorkflowConfig(data []byte) (leeroo.WorkflowConfig, error) {
	if !gjson.ParseBytes(data).IsObject() {
		return nil, errNotAnObject
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var cfg leeroo.WorkflowConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode workflow config: %w", err)
	}
	return cfg, nil
}

func loadWorkflowConfig(path string, expand bool) (leeroo.WorkflowConfig, error) {
	data, err := readWorkflowFile(path, expand)
	if err != nil {
		return nil, err
	}
	return decodeWorkflowConfig(data)
}

// writeWorkflowFile writes v as indented JSON.
func writeWorkflowFile(path string, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode workflow config: %w", err)
	}
	return writeIndented(path, out)
}

func writeIndented(path string, data []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("unable to format workflow config: %w", err)
	}
	buf.WriteByte('\n')
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("unable to write workflow config: %w", err)
	}
	return nil
}

// configDigest fingerprints a workflow config independently of key order and
// whitespace by hashing its RFC 8785 canonical form.
func configDigest(data []byte) (string, error) {
	canonical, err := jsoncanonicalizer.Transform(data)
	if err != nil {
		return "", fmt.Errorf("unable to canonicalize workflow config: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

// setConfigValue sets the value at a gjson-style path. A value that parses as
// JSON is stored as such, anything else is stored as a string.
func setConfigValue(data []byte, path, value string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("path cannot be empty")
	}
	var (
		out []byte
		err error
	)
	if gjson.Valid(value) {
		out, err = sjson.SetRawBytes(data, path, []byte(value))
	} else {
		out, err = sjson.SetBytes(data, path, value)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to set %s: %w", path, err)
	}
	return out, nil
}

// getConfigValue returns the raw JSON at a gjson-style path.
func getConfigValue(data []byte, path string) (string, error) {
	result := gjson.GetBytes(data, path)
	if !result.Exists() {
		return "", fmt.Errorf("%s not found in workflow config", path)
	}
	return result.Raw, nil
}
