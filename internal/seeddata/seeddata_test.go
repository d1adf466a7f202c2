package seeddata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeroo-ai/leeroo/internal/common/apperrors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		examples int
		wantErr  error
	}{
		{
			name:     "valid pairs",
			input:    []byte(`[{"query":"2+2?","response":"4"},{"query":"capital of France?","response":"Paris"}]`),
			examples: 2,
		},
		{
			name:     "extra fields allowed",
			input:    []byte(`[{"query":"q","response":"r","source":"manual"}]`),
			examples: 1,
		},
		{
			name:    "missing response",
			input:   []byte(`[{"query":"q"}]`),
			wantErr: ErrSchema,
		},
		{
			name:    "non string query",
			input:   []byte(`[{"query":1,"response":"r"}]`),
			wantErr: ErrSchema,
		},
		{
			name:    "object instead of array",
			input:   []byte(`{"query":"q","response":"r"}`),
			wantErr: ErrSchema,
		},
		{
			name:    "empty array",
			input:   []byte(`[]`),
			wantErr: ErrSchema,
		},
		{
			name:    "not json",
			input:   []byte(`query,response\nq,r\n`),
			wantErr: ErrInvalidJSON,
		},
		{
			name:    "trailing garbage",
			input:   []byte(`[{"query":"q","response":"r"}] trailing`),
			wantErr: ErrInvalidJSON,
		},
		{
			name:    "second document",
			input:   []byte(`[{"query":"q","response":"r"}]` + "\n" + `[{"query":"q2","response":"r2"}]`),
			wantErr: ErrInvalidJSON,
		},
		{
			name:     "trailing whitespace",
			input:    []byte("[{\"query\":\"q\",\"response\":\"r\"}]\n\n"),
			examples: 1,
		},
		{
			name:    "zip archive",
			input:   []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x00, 0x00},
			wantErr: ErrBinaryFile,
		},
		{
			name:    "png image",
			input:   []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00},
			wantErr: ErrBinaryFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Validate(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrSeedData)
				assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.examples, n)
		})
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	content := `[{"query":"q","response":"r"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	report, err := ValidateFile(path)
	require.NoError(t, err)
	assert.Equal(t, &Report{Path: path, Size: int64(len(content)), Examples: 1}, report)

	examples, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Example{{Query: "q", Response: "r"}}, examples)

	_, err = ValidateFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrUnreadable)
	assert.Equal(t, apperrors.KindFilesystem, apperrors.KindOf(err))
}

func TestValidateFileNamesPath(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"schema", `[{"query":"q"}]`, ErrSchema},
		{"trailing", `[{"query":"q","response":"r"}]]`, ErrInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := ValidateFile(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrSeedData)
			assert.True(t, strings.HasPrefix(err.Error(), path+": "), err.Error())

			_, err = Load(path)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	binPath := filepath.Join(dir, "seed.zip")
	require.NoError(t, os.WriteFile(binPath, []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00}, 0600))
	_, err := ValidateFile(binPath)
	assert.ErrorIs(t, err, ErrBinaryFile)
	assert.Equal(t, binPath+": seed data is a binary file", err.Error())
}
