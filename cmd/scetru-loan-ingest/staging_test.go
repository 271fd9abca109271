package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeRowFixture(bvn string, id string, fileKey string) *CompleteRow {
	return &CompleteRow{
		FileKey: fileKey,
		Fields: map[string]string{
			"bvn":                      bvn,
			"dob":                      "1990-01-01",
			"amount_requested":         "50000",
			"application_id":           id,
			"loan_tenure":              "6",
			"loan_repayment_structure": "monthly",
			"internal_id":              "int-1",
			"amount_approved":          "25000.0",
			"created_date":             "2024-05-01",
			"updated_date":             "2024-06-01 10:30:00",
			"decline_reason":           " ",
			"loan_message":             "COMPLETED",
			"file_key":                 fileKey,
		},
	}
}

func TestStageCompletedRows(t *testing.T) {

	stageDir := filepath.Join(t.TempDir(), "batch-1")
	updated := []*CompleteRow{
		completeRowFixture("111", "1001", "fcmb/complete_table.csv"),
		completeRowFixture("222", "1002", "fcmb/complete_table.csv"),
		completeRowFixture("333", "1001", "fcmb/complete_table.csv"),
	}

	require.NoError(t, stageCompletedRows(stageDir, updated))

	// one file per application id plus the audit copy
	entries, err := os.ReadDir(stageDir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.ElementsMatch(t, []string{"1001.csv", "1002.csv", auditFileName}, names)

	// both 1001 rows land in the same file, columns in ledger order
	content, err := os.ReadFile(filepath.Join(stageDir, "1001.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(completeOutputColumns, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "111,"))
	assert.True(t, strings.HasPrefix(lines[2], "333,"))

	// the audit copy carries every updated row
	content, err = os.ReadFile(filepath.Join(stageDir, auditFileName))
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Len(t, lines, 4)
}

func TestStageSkipsUnsafeIDs(t *testing.T) {

	stageDir := t.TempDir()
	updated := []*CompleteRow{
		completeRowFixture("111", "../escape", "x.csv"),
		completeRowFixture("222", "1002", "x.csv"),
	}

	require.NoError(t, stageCompletedRows(stageDir, updated))

	entries, err := os.ReadDir(stageDir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.ElementsMatch(t, []string{"1002.csv", auditFileName}, names)
}

func TestStagedUploadsFilter(t *testing.T) {

	stageDir := filepath.Join(t.TempDir(), "batch-2")
	updated := []*CompleteRow{
		completeRowFixture("111", "1001", "fcmb/complete_table.csv"),
		completeRowFixture("222", "1002", "fcmb/complete_table.csv"),
	}
	require.NoError(t, stageCompletedRows(stageDir, updated))

	// a csv not named for an updated application and a non csv file
	require.NoError(t, os.WriteFile(filepath.Join(stageDir, "9999.csv"), []byte("stale"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(stageDir, "notes.txt"), []byte("scratch"), 0644))

	uploads, err := stagedUploads(stageDir, updated)
	require.NoError(t, err)

	// only the per application files upload, the audit copy stays behind
	expected := []stagedUpload{
		{LocalName: filepath.Join(stageDir, "1001.csv"), Key: "fcmb/1001.csv"},
		{LocalName: filepath.Join(stageDir, "1002.csv"), Key: "fcmb/1002.csv"},
	}
	assert.Equal(t, expected, uploads)
}

func TestStagedUploadsBareKey(t *testing.T) {

	stageDir := t.TempDir()
	updated := []*CompleteRow{
		completeRowFixture("111", "1001", ""),
	}
	require.NoError(t, stageCompletedRows(stageDir, updated))

	uploads, err := stagedUploads(stageDir, updated)
	require.NoError(t, err)

	require.Len(t, uploads, 1)
	assert.Equal(t, "1001.csv", uploads[0].Key)
}

func TestUnsafeApplicationID(t *testing.T) {

	assert.False(t, unsafeApplicationID("1001"))
	assert.False(t, unsafeApplicationID("loan-1001"))
	assert.True(t, unsafeApplicationID(""))
	assert.True(t, unsafeApplicationID("."))
	assert.True(t, unsafeApplicationID(".."))
	assert.True(t, unsafeApplicationID("a/b"))
	assert.True(t, unsafeApplicationID(`a\b`))
}

func TestUploadPrefix(t *testing.T) {

	assert.Equal(t, "", uploadPrefix(nil))
	assert.Equal(t, "fcmb", uploadPrefix([]*CompleteRow{{FileKey: "fcmb/complete_table.csv"}}))
	assert.Equal(t, "complete.csv", uploadPrefix([]*CompleteRow{{FileKey: "complete.csv"}}))
}

//
// end of file
//
