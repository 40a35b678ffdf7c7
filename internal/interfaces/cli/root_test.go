package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/application/ingest"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCommand()

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "import")
}

func TestRootCommandConfigFlag(t *testing.T) {
	root := NewRootCommand()

	flag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "configs/config.yaml", flag.DefValue)
	assert.Equal(t, "c", flag.Shorthand)
}

func TestImportCommandsRequireFileArg(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"import", "attorneys"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arg")
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, &ingest.Report{
		Created: 2,
		Skipped: 1,
		RowErrors: []ingest.RowError{
			{Row: 4, Message: "name is required"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "created: 2")
	assert.Contains(t, out, "skipped: 1")
	assert.Contains(t, out, "row 4: name is required")
}
