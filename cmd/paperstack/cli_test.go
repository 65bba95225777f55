package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperstack/paperstack/internal/scrape"
	"github.com/paperstack/paperstack/internal/sqlite"
	"github.com/paperstack/paperstack/pkg/record"
)

const testArticleID = "a-smith-b-lee-on-gravity2020"

// writeCLIConfig writes an isolated config pointing the library at a
// fresh temp directory and returns the config path.
func writeCLIConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	content := "paths:\n" +
		"  data_dir: " + filepath.Join(dir, "data") + "\n" +
		"ui:\n" +
		"  colors: false\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// resetCommandState restores flag variables between in-process
// invocations; parsed values otherwise leak from one Execute into the
// next.
func resetCommandState() {
	flagConfig, flagVerbose = "", false
	addType, addEntries, addNoInput = record.TypeArticle, "", false
	updateEntries = ""
	listFilter, listColumns = "", defaultListColumns
	exportFormat, exportFilter = "", ""
	scrapeSource, scrapeAdd = "arxiv", false
}

// runCLI executes one paperstack invocation the way main does and
// returns captured stdout and stderr. The library handle is closed
// afterwards, as process exit would, so failed commands roll back.
func runCLI(t *testing.T, cfgPath string, args ...string) (string, string, error) {
	t.Helper()
	resetCommandState()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := rootCmd.Execute()
	if library != nil {
		_ = library.Close()
		library = nil
	}
	return stdout.String(), stderr.String(), err
}

func addTestArticle(t *testing.T, cfgPath string) {
	t.Helper()

	stdout, _, err := runCLI(t, cfgPath, "add", "--no-input",
		"--entries", "author: A. Smith and B. Lee; title: On Gravity; journal: Phys Rev; year: 2020")
	require.NoError(t, err)
	require.Contains(t, stdout, `added article "`+testArticleID+`"`)
}

func TestCLIVersion(t *testing.T) {
	stdout, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "paperstack v"+version+"\n", stdout)
}

func TestCLIAddAndShow(t *testing.T) {
	cfgPath := writeCLIConfig(t)
	addTestArticle(t, cfgPath)

	stdout, _, err := runCLI(t, cfgPath, "show", testArticleID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "record_id:")
	assert.Contains(t, stdout, testArticleID)
	assert.Contains(t, stdout, "A. Smith and B. Lee")
	assert.Contains(t, stdout, "Phys Rev")
}

func TestCLIShowMissing(t *testing.T) {
	cfgPath := writeCLIConfig(t)

	_, _, err := runCLI(t, cfgPath, "show", "ghost")
	require.ErrorIs(t, err, sqlite.ErrNotFound)
}

func TestCLIListFiltersRecords(t *testing.T) {
	cfgPath := writeCLIConfig(t)
	addTestArticle(t, cfgPath)

	stdout, _, err := runCLI(t, cfgPath, "add", "--no-input", "--type", "book",
		"--entries", "author: C. Kittel; title: Solid State; publisher: Wiley; year: 2004")
	require.NoError(t, err)
	require.Contains(t, stdout, `added book "c-kittel-solid-state2004"`)

	stdout, _, err = runCLI(t, cfgPath, "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, testArticleID)
	assert.Contains(t, stdout, "c-kittel-solid-state2004")

	stdout, _, err = runCLI(t, cfgPath, "list", "--filter", "year: `2020")
	require.NoError(t, err)
	assert.Contains(t, stdout, testArticleID)
	assert.NotContains(t, stdout, "c-kittel-solid-state2004")
}

func TestCLIListNoMatch(t *testing.T) {
	cfgPath := writeCLIConfig(t)
	addTestArticle(t, cfgPath)

	stdout, _, err := runCLI(t, cfgPath, "list", "--filter", "author: Nobody")
	require.NoError(t, err)
	assert.Equal(t, "no records matched\n", stdout)
}

func TestCLIListRejectsUnknownColumn(t *testing.T) {
	cfgPath := writeCLIConfig(t)

	_, _, err := runCLI(t, cfgPath, "list", "--columns", "record_id,shelf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown column "shelf"`)
}

func TestCLIUpdateRoundTrip(t *testing.T) {
	cfgPath := writeCLIConfig(t)
	addTestArticle(t, cfgPath)

	stdout, _, err := runCLI(t, cfgPath, "update", testArticleID,
		"--entries", "tags: gravity, classic; note: reread sections 2 and 3")
	require.NoError(t, err)
	assert.Contains(t, stdout, `updated "`+testArticleID+`"`)

	stdout, _, err = runCLI(t, cfgPath, "show", testArticleID)
	require.NoError(t, err)
	assert.Contains(t, stdout, ";gravity;;classic;")
	assert.Contains(t, stdout, "reread sections 2 and 3")
}

func TestCLIUpdateInvalidKeepsRecord(t *testing.T) {
	cfgPath := writeCLIConfig(t)
	addTestArticle(t, cfgPath)

	_, _, err := runCLI(t, cfgPath, "update", testArticleID, "--entries", "journal:")
	var vErr *record.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "journal", vErr.Field)

	stdout, _, err := runCLI(t, cfgPath, "show", testArticleID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Phys Rev")
}

func TestCLIRemove(t *testing.T) {
	cfgPath := writeCLIConfig(t)
	addTestArticle(t, cfgPath)

	stdout, _, err := runCLI(t, cfgPath, "remove", testArticleID)
	require.NoError(t, err)
	assert.Contains(t, stdout, `removed "`+testArticleID+`"`)

	stdout, _, err = runCLI(t, cfgPath, "list")
	require.NoError(t, err)
	assert.Equal(t, "no records matched\n", stdout)
}

func TestCLIAddDuplicate(t *testing.T) {
	cfgPath := writeCLIConfig(t)
	addTestArticle(t, cfgPath)

	_, _, err := runCLI(t, cfgPath, "add", "--no-input",
		"--entries", "author: A. Smith and B. Lee; title: On Gravity; journal: Phys Rev; year: 2020")
	require.ErrorIs(t, err, sqlite.ErrDuplicateID)
}

func TestCLIMalformedEntries(t *testing.T) {
	cfgPath := writeCLIConfig(t)

	_, _, err := runCLI(t, cfgPath, "add", "--no-input", "--entries", "author Smith")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed entry")
}

func TestCLIExportWritesFile(t *testing.T) {
	cfgPath := writeCLIConfig(t)
	addTestArticle(t, cfgPath)

	path := filepath.Join(t.TempDir(), "refs.bib")
	stdout, _, err := runCLI(t, cfgPath, "export", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "exported 1 records to "+path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "@article{"+testArticleID+",")
	assert.Contains(t, string(content), "author = {A. Smith and B. Lee}")
}

func TestCLIExportUnknownFormat(t *testing.T) {
	cfgPath := writeCLIConfig(t)

	_, _, err := runCLI(t, cfgPath, "export", filepath.Join(t.TempDir(), "refs.xyz"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot infer format")
}

func TestCLIScrapeUnknownSource(t *testing.T) {
	cfgPath := writeCLIConfig(t)

	_, _, err := runCLI(t, cfgPath, "scrape", "2301.00001", "--source", "ads")
	require.ErrorIs(t, err, scrape.ErrUnknownScraper)
}

func TestCLIMissingConfigFile(t *testing.T) {
	_, _, err := runCLI(t, filepath.Join(t.TempDir(), "absent.yaml"), "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
