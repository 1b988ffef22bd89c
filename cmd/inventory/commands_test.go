package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drstein77/inventory/internal/catalog"
)

func TestEnvFileFromArgs(t *testing.T) {
	assert.Equal(t, "prod.env", envFileFromArgs([]string{"serve", "--env-file", "prod.env"}))
	assert.Equal(t, "x.env", envFileFromArgs([]string{"--env-file=x.env", "demo"}))
	assert.Empty(t, envFileFromArgs([]string{"demo", "--env-file"}))
	assert.Empty(t, envFileFromArgs(nil))
}

func TestDemoCommand(t *testing.T) {
	t.Setenv("CATALOG_SEED", "")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"demo", "-l", "error", "--category", "grocery", "--percentage", "50", "--threshold", "100"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "Applying 50% discount to Grocery..")
	assert.Contains(t, out.String(), "Item: Vegetables, Price: 5, Category: Grocery")
	assert.Contains(t, out.String(), "Filtered Items (Price > 100):")
}

func TestDemoCommand_Errors(t *testing.T) {
	t.Setenv("CATALOG_SEED", "")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"demo", "-l", "error", "--category", "toys"})
	assert.ErrorIs(t, root.Execute(), catalog.ErrUnknownCategory)

	root = newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"demo", "-l", "error", "--percentage", "140"})
	assert.ErrorIs(t, root.Execute(), catalog.ErrInvalidDiscount)
}
