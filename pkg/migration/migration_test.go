package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writePlan(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const addressPlan = `
- create_table:
    name: addresses
    columns:
      - name: id
        type: bigint
        auto_increment: true
      - name: city
        type: varchar(100)
    primary_key: [id]
`

func TestGenerateToDirectory(t *testing.T) {
	planPath := writePlan(t, "001_addresses.yaml", addressPlan)
	outDir := t.TempDir()
	g := &Generate{Plans: []string{planPath}, ServerVersion: "8.0.36", OutDir: outDir, NoColor: true}
	require.NoError(t, g.Run())

	sqlBytes, err := os.ReadFile(filepath.Join(outDir, "001_addresses.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(sqlBytes), "CREATE TABLE `addresses`")
	assert.Contains(t, string(sqlBytes), "AUTO_INCREMENT")
}

func TestGenerateBadPlan(t *testing.T) {
	planPath := writePlan(t, "bad.yaml", "- explode_table:\n    name: x\n")
	g := &Generate{Plans: []string{planPath}, ServerVersion: "8.0.36", NoColor: true}
	err := g.Run()
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown operation")
}

func TestLintCleanPlan(t *testing.T) {
	planPath := writePlan(t, "ok.yaml", addressPlan)
	l := &Lint{Plans: []string{planPath}, ServerVersion: "8.0.36"}
	assert.NoError(t, l.Run())
}

func TestLintSequencePlan(t *testing.T) {
	planPath := writePlan(t, "seq.yaml", "- create_sequence:\n    name: s1\n")
	l := &Lint{Plans: []string{planPath}, ServerVersion: "8.0.36"}
	err := l.Run()
	require.Error(t, err)
	assert.ErrorContains(t, err, "not supported")
}

func TestConfigDefaultsFileCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my.cnf")
	require.NoError(t, os.WriteFile(path, []byte(`[client]
user = filer
password = filepass
database = filedb
`), 0o600))

	// File credentials take effect when the flags are left alone.
	cf := connectionFlags{Host: "127.0.0.1:3306", DefaultsFile: path}
	config, err := cf.config()
	require.NoError(t, err)
	assert.Equal(t, "filer", config.Username)
	assert.Equal(t, "filepass", config.Password)
	assert.Equal(t, "filedb", config.Database)

	// An explicit flag still beats the file.
	cf.Username = "explicit"
	config, err = cf.config()
	require.NoError(t, err)
	assert.Equal(t, "explicit", config.Username)
	assert.Equal(t, "filepass", config.Password)
}

func TestConfigFallbackCredentials(t *testing.T) {
	cf := connectionFlags{Host: "db.internal"}
	config, err := cf.config()
	require.NoError(t, err)
	assert.Equal(t, "mygrate", config.Username)
	assert.Equal(t, "mygrate", config.Password)
	assert.Equal(t, "test", config.Database)
	assert.Equal(t, "db.internal:3306", config.Host)
}

func TestSQLFileName(t *testing.T) {
	assert.Equal(t, "plan.sql", sqlFileName("/tmp/plans/plan.yaml"))
	assert.Equal(t, "plan.sql", sqlFileName("plan.yml"))
}
