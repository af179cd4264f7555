package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const proceduresYAML = `
procedures:
  - name: bank.transfer
    parameters:
      - {name: account, position: 1, type: bigint}
      - {name: status, position: 2, direction: out}
      - {name: balance, position: 3, type: numeric, direction: inout}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "procmap", cmd.Use)
	for _, name := range []string{"template", "call"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
}

func TestTemplateCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	procs := writeFile(t, dir, "procs.yaml", proceduresYAML)

	out, err := execute(t, "template", "bank.transfer", "-p", procs, "--dialect", "godror")
	require.NoError(t, err)
	assert.Equal(t, "{call bank.transfer(? ,? ,?)}\nBEGIN bank.transfer(:1, :2, :3); END;\n", out)

	out, err = execute(t, "template", "bank.transfer", "-p", procs, "--format", "json")
	require.NoError(t, err)
	var res TemplateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "{call bank.transfer(? ,? ,?)}", res.Template)
	assert.Empty(t, res.Native)

	_, err = execute(t, "template", "bank.unknown", "-p", procs)
	assert.Error(t, err)

	_, err = execute(t, "template", "bank.transfer", "-p", procs, "--format", "xml")
	assert.Error(t, err)
}

func TestCallCommand_RequiresDSN(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	procs := writeFile(t, dir, "procs.yaml", proceduresYAML)

	_, err := execute(t, "call", "bank.transfer", "-p", procs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.dsn")
}

func TestCallCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	procs := writeFile(t, dir, "procs.yaml", proceduresYAML)
	cfg := writeFile(t, dir, "procmap.yaml", `
database:
  driver: sqlmock
  dsn: procmap_cli_call
  dialect: postgres
`)

	db, mock, err := sqlmock.NewWithDSN("procmap_cli_call", sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare("CALL bank.transfer($1, $2, $3)").
		ExpectQuery().
		WithArgs(int64(7), nil, float64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "balance"}).AddRow("OK", 150.5))
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectClose()

	out, err := execute(t, "call", "bank.transfer", "-c", cfg, "-p", procs,
		"--set", "account=7", "--set", "balance=100")
	require.NoError(t, err)
	assert.Equal(t, "balance = 150.5\nstatus = OK\n", out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCallCommand_BadSet(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	procs := writeFile(t, dir, "procs.yaml", proceduresYAML)
	cfg := writeFile(t, dir, "procmap.yaml", "database:\n  driver: sqlmock\n  dsn: unused\n")

	_, err := execute(t, "call", "bank.transfer", "-c", cfg, "-p", procs, "--set", "account")
	assert.ErrorContains(t, err, "name=value")

	_, err = execute(t, "call", "bank.transfer", "-c", cfg, "-p", procs, "--set", "account=x")
	assert.Error(t, err)
}
