package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strrl/style-dna/internal/db"
	"github.com/strrl/style-dna/internal/replay"
	"github.com/strrl/style-dna/internal/session"
	"github.com/strrl/style-dna/internal/style"
)

// resetFlags puts every flag of c and its subcommands back to its default,
// since package-level flag state outlives a single Execute.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with args and returns what it printed to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	r, w, err := os.Pipe()
	require.NoError(t, err)

	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	var buf bytes.Buffer
	copied := make(chan struct{})
	go func() {
		_, _ = io.Copy(&buf, r)
		close(copied)
	}()

	rootCmd.SetArgs(args)
	runErr := rootCmd.ExecuteContext(context.Background())

	require.NoError(t, w.Close())
	<-copied
	require.NoError(t, r.Close())

	return buf.String(), runErr
}

// testEnv points the store at a fresh temp dir and returns the dir, the
// store path and a --config flag for a config file that does not exist.
func testEnv(t *testing.T) (dir, storePath string, configArgs []string) {
	t.Helper()
	dir = t.TempDir()
	storePath = filepath.Join(dir, "style-dna.duckdb")
	t.Setenv("STYLE_DNA_STORE_PATH", storePath)
	t.Setenv("STYLE_DNA_CATALOG_SOURCE", "")
	t.Setenv("STYLE_DNA_USER_ID", "")
	return dir, storePath, []string{"--config", filepath.Join(dir, "missing.yaml")}
}

func seedStore(t *testing.T, path string, records ...style.Record) {
	t.Helper()
	database, err := db.Open(path)
	require.NoError(t, err)
	defer database.Close()

	store, err := db.NewSwipeStore(context.Background(), database)
	require.NoError(t, err)
	for _, rec := range records {
		require.NoError(t, store.RecordSwipe(context.Background(), rec))
	}
}

func countSwipes(t *testing.T, path, userID string) int {
	t.Helper()
	database, err := db.Open(path)
	require.NoError(t, err)
	defer database.Close()

	store, err := db.NewSwipeStore(context.Background(), database)
	require.NoError(t, err)
	n, err := store.CountSwipes(context.Background(), userID)
	require.NoError(t, err)
	return n
}

func sampleRecords() []style.Record {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return []style.Record{
		{ID: "r1", UserID: "tester", CandidateID: "w_outfit_001", Action: style.ActionLike, StyleCategory: style.CategoryClassic, CreatedAt: base},
		{ID: "r2", UserID: "tester", CandidateID: "w_outfit_005", Action: style.ActionSuperlike, StyleCategory: style.CategoryClassic, CreatedAt: base.Add(time.Minute)},
		{ID: "r3", UserID: "tester", CandidateID: "w_outfit_004", Action: style.ActionDislike, StyleCategory: style.CategoryEdgy, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "r4", UserID: "other", CandidateID: "m_outfit_009", Action: style.ActionLike, StyleCategory: style.CategoryStreetwear, CreatedAt: base},
	}
}

func TestSwipeCommand_EndToEnd(t *testing.T) {
	dir, storePath, configArgs := testEnv(t)

	script := filepath.Join(dir, "script.json")
	require.NoError(t, os.WriteFile(script, []byte(`[
		{"dx": 150, "dy": 0},
		{"dx": 10, "dy": 10},
		{"dx": -120, "dy": 0},
		{"dx": 0, "dy": -130}
	]`), 0644))

	out, err := execute(t, append(configArgs,
		"swipe",
		"--script", script,
		"--gender", "female",
		"--limit", "3",
		"--user", "tester",
		"--report",
		"--report-dir", dir,
	)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 4 gestures")
	assert.Contains(t, out, "Session for tester: 3 swipes")

	report, err := os.ReadFile(filepath.Join(dir, ".style-dna", "tester.md"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "# Style DNA: tester")
	assert.Contains(t, string(report), "17 more swipes until your feed is personalized.")

	database, err := db.Open(storePath)
	require.NoError(t, err)
	defer database.Close()

	store, err := db.NewSwipeStore(context.Background(), database)
	require.NoError(t, err)
	records, err := store.ListSwipes(context.Background(), "tester")
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "w_outfit_001", records[0].CandidateID)
	assert.Equal(t, style.ActionLike, records[0].Action)
	assert.Equal(t, style.ActionDislike, records[1].Action)
	assert.Equal(t, style.ActionSuperlike, records[2].Action)
}

func TestHistoryCommand(t *testing.T) {
	_, storePath, configArgs := testEnv(t)
	seedStore(t, storePath, sampleRecords()...)

	out, err := execute(t, append(configArgs, "history", "--user", "tester")...)
	require.NoError(t, err)

	assert.Contains(t, out, "OUTFIT")
	assert.Contains(t, out, "w_outfit_001")
	assert.Contains(t, out, "w_outfit_005")
	assert.Contains(t, out, "superlike")
	assert.Contains(t, out, "DISLIKES")
	assert.NotContains(t, out, "m_outfit_009", "other users' swipes are not listed")
}

func TestHistoryCommand_Empty(t *testing.T) {
	_, storePath, configArgs := testEnv(t)
	seedStore(t, storePath, sampleRecords()...)

	out, err := execute(t, append(configArgs, "history", "--user", "nobody")...)
	require.NoError(t, err)
	assert.Contains(t, out, "No swipes recorded for nobody")
}

func TestHistoryCommand_Clear(t *testing.T) {
	_, storePath, configArgs := testEnv(t)
	seedStore(t, storePath, sampleRecords()...)

	out, err := execute(t, append(configArgs, "history", "--user", "tester", "--clear")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 3 swipes for tester")

	assert.Equal(t, 0, countSwipes(t, storePath, "tester"))
	assert.Equal(t, 1, countSwipes(t, storePath, "other"))
}

func TestReportCommand_Stdout(t *testing.T) {
	dir, storePath, configArgs := testEnv(t)
	seedStore(t, storePath, sampleRecords()...)

	out, err := execute(t, append(configArgs, "report", "--user", "tester", "--stdout")...)
	require.NoError(t, err)

	assert.Contains(t, out, "# Style DNA: tester")
	assert.Contains(t, out, "**Swipes:** 3")
	assert.Contains(t, out, "17 more swipes until your feed is personalized.")
	assert.Contains(t, out, "1. **Classic** (15%)")
	assert.NoDirExists(t, filepath.Join(dir, ".style-dna"))
}

func TestReportCommand_WritesFile(t *testing.T) {
	dir, storePath, configArgs := testEnv(t)
	seedStore(t, storePath, sampleRecords()...)

	out, err := execute(t, append(configArgs, "report", "--user", "tester", "--dir", dir)...)
	require.NoError(t, err)

	filename := filepath.Join(dir, ".style-dna", "tester.md")
	assert.Contains(t, out, filename)
	assert.FileExists(t, filename)
}

func TestCatalogCommand_Seed(t *testing.T) {
	_, storePath, configArgs := testEnv(t)

	out, err := execute(t, append(configArgs, "catalog", "--gender", "male", "--style", "classic")...)
	require.NoError(t, err)

	for _, id := range []string{"m_outfit_003", "m_outfit_004", "m_outfit_011", "m_outfit_012"} {
		assert.Contains(t, out, id)
	}
	assert.NotContains(t, out, "w_outfit_")
	assert.Contains(t, out, "4 outfits")
	assert.NoFileExists(t, storePath, "listing the seed catalog must not create a store")
}

func TestCatalogCommand_File(t *testing.T) {
	dir, storePath, configArgs := testEnv(t)

	file := filepath.Join(dir, "catalog.jsonl")
	require.NoError(t, os.WriteFile(file, []byte(
		`{"id": "f1", "name": "Linen Set", "tags": ["Summer"], "style_category": "bohemian", "gender": "female", "items": []}
{"id": "f2", "name": "Black Moto", "tags": ["Edgy"], "style_category": "edgy", "gender": "female", "items": []}
`), 0644))

	out, err := execute(t, append(configArgs, "catalog", "--source", "file", "--file", file, "--style", "bohemian")...)
	require.NoError(t, err)

	assert.Contains(t, out, "f1")
	assert.Contains(t, out, "Linen Set")
	assert.NotContains(t, out, "Black Moto")
	assert.Contains(t, out, "1 outfits")
	assert.NoFileExists(t, storePath)
}

func TestTallySteps(t *testing.T) {
	steps := []replay.Step{
		{Result: session.Result{Committed: true, Action: style.ActionLike, Candidate: style.Candidate{StyleCategory: style.CategoryEdgy}}},
		{Result: session.Result{Committed: false, Candidate: style.Candidate{StyleCategory: style.CategoryEdgy}}},
		{Result: session.Result{Committed: true, Action: style.ActionDislike, Candidate: style.Candidate{StyleCategory: style.CategoryEdgy}}},
	}

	assert.Equal(t, map[style.Category]style.Tally{
		style.CategoryEdgy: {Likes: 1, Dislikes: 1},
	}, tallySteps(steps))
}

func TestBuildSink_Unknown(t *testing.T) {
	_, err := buildSink(context.Background(), nil, "kafka")
	assert.ErrorContains(t, err, "unknown sink")
}
