package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
)

// envFile is read from the working directory when a workflow config is expanded.
const envFile = ".env"

// envRef matches a {{ .ENV.NAME }} reference, with or without trim markers.
var envRef = regexp.MustCompile(`\{\{-?\s*\.ENV\.([A-Za-z_][A-Za-z0-9_]*)\s*-?\}\}`)

// UnsetEnvError lists the variables a workflow config references but neither
// the environment nor the .env file defines.
type UnsetEnvError struct {
	Names []string
}

func (e *UnsetEnvError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("workflow config references unset environment variable: %s (set it in your shell or %s file)", e.Names[0], envFile)
	}
	return fmt.Sprintf("workflow config references unset environment variables: %s (set them in your shell or %s file)",
		strings.Join(e.Names, ", "), envFile)
}

type expandContext struct {
	ENV map[string]string
}

// ExpandEnv replaces {{ .ENV.VAR }} references in a workflow config with values
// from the environment, falling back to the .env file of the working directory.
// Every unset variable is reported at once.
func ExpandEnv(inputRaw []byte) ([]byte, error) {
	env, err := workflowEnv()
	if err != nil {
		return nil, err
	}
	if missing := unsetRefs(inputRaw, env); len(missing) > 0 {
		return nil, &UnsetEnvError{Names: missing}
	}

	tmpl, err := template.New("workflow config").Option("missingkey=error").Parse(string(inputRaw))
	if err != nil {
		return nil, fmt.Errorf("invalid placeholder in workflow config: %w", err)
	}
	var output bytes.Buffer
	if err := tmpl.Execute(&output, expandContext{ENV: env}); err != nil {
		return nil, fmt.Errorf("unable to expand workflow config: %w", err)
	}
	return output.Bytes(), nil
}

// workflowEnv merges the .env file with the process environment. The process
// environment wins and is left unmodified.
func workflowEnv() (map[string]string, error) {
	env, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("unable to read %s: %w", envFile, err)
		}
		env = map[string]string{}
	}
	for _, kv := range os.Environ() {
		if name, value, ok := strings.Cut(kv, "="); ok {
			env[name] = value
		}
	}
	return env, nil
}

// unsetRefs returns the sorted names referenced in input that env lacks.
func unsetRefs(input []byte, env map[string]string) []string {
	seen := map[string]bool{}
	var missing []string
	for _, m := range envRef.FindAllSubmatch(input, -1) {
		name := string(m[1])
		if _, ok := env[name]; ok || seen[name] {
			continue
		}
		seen[name] = true
		missing = append(missing, name)
	}
	sort.Strings(missing)
	return missing
}
