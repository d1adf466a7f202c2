// Package seeddata inspects seed data files before they are uploaded with a workflow.
// A seed file is a JSON array of {"query": string, "response": string} objects.
// The client library uploads seed files verbatim; this package backs the CLI's
// local checks.
package seeddata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/leeroo-ai/leeroo/internal/common/apperrors"
)

// Example is one seed pair.
type Example struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// Report summarizes a validated seed file.
type Report struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Examples int    `json:"examples"`
}

var (
	ErrSeedData    = apperrors.New(apperrors.KindValidation, "invalid seed data")
	ErrBinaryFile  = ErrSeedData.New("seed data is a binary file")
	ErrInvalidJSON = ErrSeedData.New("seed data is not valid JSON")
	ErrSchema      = ErrSeedData.New("seed data does not match the expected format")
	ErrUnreadable  = apperrors.New(apperrors.KindFilesystem, "unable to read seed data")
)

const schemaURL = "inline://seed-data.schema.json"

// Schema is the JSON schema seed files are checked against.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["query", "response"],
    "properties": {
      "query": {"type": "string"},
      "response": {"type": "string"}
    }
  }
}`

// sniffHeadLen is enough for every filetype matcher.
const sniffHeadLen = 261

var (
	compiled    *jsonschema.Schema
	compileErr  error
	compileOnce sync.Once
)

func seedSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, strings.NewReader(Schema)); err != nil {
			compileErr = err
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
	})
	return compiled, compileErr
}

// ValidateFile checks that the file at path is a text file holding valid seed data.
func ValidateFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrUnreadable.MsgErr(fmt.Sprintf("unable to open %s", path), err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, ErrUnreadable.MsgErr(fmt.Sprintf("unable to read %s", path), err)
	}

	n, err := Validate(data)
	if err != nil {
		var appErr apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr.Prefix(path)
		}
		return nil, err
	}
	return &Report{
		Path:     path,
		Size:     int64(len(data)),
		Examples: n,
	}, nil
}

// Validate checks seed data content and returns the number of examples.
func Validate(data []byte) (int, error) {
	if IsBinary(data) {
		return 0, ErrBinaryFile
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return 0, ErrInvalidJSON.Err(err)
	}
	if err := dec.Decode(new(any)); err != io.EOF {
		if err == nil {
			return 0, ErrInvalidJSON.Msg("seed data has content after the JSON value")
		}
		return 0, ErrInvalidJSON.Err(err)
	}

	schema, err := seedSchema()
	if err != nil {
		return 0, ErrSeedData.MsgErr("unable to compile seed data schema", err)
	}
	if err := schema.Validate(doc); err != nil {
		return 0, ErrSchema.Err(err)
	}

	items, _ := doc.([]any)
	return len(items), nil
}

// IsBinary reports whether data starts with the signature of a known binary format.
func IsBinary(data []byte) bool {
	head := data
	if len(head) > sniffHeadLen {
		head = head[:sniffHeadLen]
	}
	kind, err := filetype.Match(head)
	if err != nil {
		return false
	}
	return kind != filetype.Unknown
}

// Load validates the file at path and decodes its examples.
func Load(path string) ([]Example, error) {
	if _, err := ValidateFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrUnreadable.MsgErr(fmt.Sprintf("unable to read %s", path), err)
	}
	var examples []Example
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, ErrInvalidJSON.Err(err).Prefix(path)
	}
	return examples, nil
}
