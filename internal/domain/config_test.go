package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() SetupFields {
	return SetupFields{
		FilePath:  "/tmp/orario_20251201_090000.xlsx",
		FileName:  "orario.xlsx",
		Structure: "Nome Elfo, Cappello, LUN_1..MAR_6",
		Rules:     "1. Ora Jolly",
		Template:  "polo_nord",
	}
}

func TestNewConfiguration_Valid(t *testing.T) {
	now := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
	cfg, err := NewConfiguration(validFields(), now)

	require.NoError(t, err)
	assert.Equal(t, "orario.xlsx", cfg.FileName)
	assert.Equal(t, now, cfg.CreatedAt)
	assert.Equal(t, "1. Ora Jolly", cfg.Fields()["regole"])
}

func TestNewConfiguration_MissingUpload(t *testing.T) {
	f := validFields()
	f.FilePath = "  "

	_, err := NewConfiguration(f, time.Now())

	assert.ErrorIs(t, err, ErrMissingUpload)
	assert.Equal(t, "MissingUploadError", ErrorKind(err))
}

func TestNewConfiguration_BlankRules(t *testing.T) {
	f := validFields()
	f.Rules = ""

	_, err := NewConfiguration(f, time.Now())

	require.ErrorIs(t, err, ErrInvalidConfig)
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "regole", fe.Field)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, "EmptyResultError", ErrorKind(ErrEmptyResult))
	assert.Equal(t, "ExternalCallError", ErrorKind(errors.Join(ErrExternalCall)))
	assert.Equal(t, "InternalError", ErrorKind(errors.New("boom")))
}
