package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemamatch "github.com/reoring/schemamatch"
	"github.com/reoring/schemamatch/i18n"
)

const productSchema = `
type: object
required: [id, name]
properties:
  id: {type: integer}
  name: {type: string}
  side: {$ref: "#/definitions/Side"}
  price: {type: number, minimum: 0}
definitions:
  Side: {type: string, enum: [Buy, Sell]}
`

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() { i18n.SetLanguage("en") })
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	err := newApp(stdout, stderr).Run(context.Background(), append([]string{"schemamatch", "--log-format", "json"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "product.yaml", productSchema)
	good := write(t, dir, "good.json", `{"id": 1, "name": "pen", "side": "Buy"}`)
	bad := write(t, dir, "bad.yaml", "id: one\n")
	side := write(t, dir, "side.json", `{"id": 1, "name": "pen", "side": "Hold"}`)

	out, stderr, err := run(t, "check", "--schema", schema, good)
	require.NoError(t, err)
	assert.Contains(t, out, good+": ok")
	assert.Contains(t, stderr, `"minimum\" at /properties/price`)

	out, _, err = run(t, "check", "--schema", schema, good, bad, side)
	require.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, good+": ok")
	assert.Contains(t, out, bad+": 2 issue(s)")
	assert.Contains(t, out, `/id invalid_type: invalid type (expected number) got "one"`)
	assert.Contains(t, out, "/name required: required property missing: name")
	assert.Contains(t, out, side+": 1 issue(s)")
	assert.Contains(t, out, "/side invalid_union")

	out, _, err = run(t, "--fail-fast", "--lang", "ja", "check", "--schema", schema, bad)
	require.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, bad+": 1 issue(s)")
	assert.Contains(t, out, "型が不正です")
}

func TestCheck_StrictKeys(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "product.yaml", productSchema)
	data := write(t, dir, "dup.json", `{"id": 1, "name": "pen", "id": 2}`)

	out, _, err := run(t, "check", "--schema", schema, data)
	require.NoError(t, err)
	assert.Contains(t, out, data+": ok")

	out, _, err = run(t, "check", "--strict-keys", "--schema", schema, data)
	require.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, data+": 1 issue(s)")
	assert.Contains(t, out, "  /id duplicate_key: duplicate key: id\n")
}

func TestCheck_ConfigFileAndDefinitions(t *testing.T) {
	dir := t.TempDir()
	defs := write(t, dir, "defs.json", `{"Side": {"type": "string", "enum": ["Buy", "Sell"]}}`)
	schema := write(t, dir, "sides.json", `{"type": "array", "items": {"$ref": "#/definitions/Side"}}`)
	data := write(t, dir, "data.json", `["Buy", "Short"]`)
	cfg := write(t, dir, "cfg.yaml", "definitions: "+defs+"\n")

	out, _, err := run(t, "--config", cfg, "check", "--schema", schema, data)
	require.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, "/1 invalid_union")

	_, _, err = run(t, "check", "--schema", schema, data)
	require.ErrorIs(t, err, schemamatch.ErrInvalidDefinitions)
}

func TestCheck_FatalSchema(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "bad.json", `{"type": "invalid"}`)
	data := write(t, dir, "data.json", `1`)
	_, _, err := run(t, "check", "--schema", schema, data)
	require.ErrorIs(t, err, schemamatch.ErrUnknownType)

	_, _, err = run(t, "check", "--schema", schema)
	require.Error(t, err)
}

func TestSchema(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "product.yaml", productSchema)

	out, _, err := run(t, "schema", "--schema", schema)
	require.NoError(t, err)
	assert.Contains(t, out, `"$schema": "http://json-schema.org/draft-07/schema#"`)
	assert.Contains(t, out, `"$ref": "#/definitions/Side"`)

	out, _, err = run(t, "schema", "--canonical", "--schema", schema)
	require.NoError(t, err)
	assert.Contains(t, out, `"definitions":{"Side":{"allOf":[{"type":"string"},{"oneOf":[{"enum":["Buy"],"type":"string"},{"enum":["Sell"],"type":"string"}]}]}}`)
}

func TestGen(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "product.yaml", productSchema)

	out, _, err := run(t, "gen", "--schema", schema, "--type", "Product", "--package", "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "package catalog")
	assert.Contains(t, out, "type Product struct")
	assert.Contains(t, out, "type Side string")

	target := filepath.Join(dir, "out", "product.go")
	_, _, err = run(t, "gen", "--schema", schema, "--type", "Product", "-o", target)
	require.NoError(t, err)
	b, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(b), "package schema")
}
