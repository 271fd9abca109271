package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// the header every well formed application file carries
var testHeader = strings.Join(requiredColumns, ",")

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "inbound.csv")
	require.NoError(t, os.WriteFile(name, []byte(content), 0644))
	return name
}

func TestApplicationLoaderHappyDay(t *testing.T) {

	content := testHeader + "\n" +
		"111,1001,50000,2024-05-01 10:30:00,10,20,30,40000,5,0,15,25,35,60000\n" +
		"222,1002,80000,2024-05-02,1,2,3,4,5,6,7,8,9,10\n"
	name := writeTempCSV(t, content)

	loader, err := NewApplicationLoader("inbox/apps.csv", name)
	require.NoError(t, err)
	defer loader.Done()

	require.NoError(t, loader.Validate())

	app, err := loader.First()
	require.NoError(t, err)
	assert.Equal(t, "111", app.BVN)
	assert.Equal(t, "1001", app.ApplicationID)
	assert.Equal(t, 50000.0, app.AmountRequested)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), app.DateCreated)
	assert.Equal(t, "inbox/apps.csv", app.FileKey)
	assert.Equal(t, 40000.0, app.Activity["deposit_in_90days"])
	assert.Equal(t, 60000.0, app.Activity["withdrawal_in_90days"])

	app, err = loader.Next()
	require.NoError(t, err)
	assert.Equal(t, "1002", app.ApplicationID)

	_, err = loader.Next()
	assert.Equal(t, io.EOF, err)

	// First rewinds the file
	app, err = loader.First()
	require.NoError(t, err)
	assert.Equal(t, "1001", app.ApplicationID)
}

func TestApplicationLoaderMissingColumns(t *testing.T) {

	name := writeTempCSV(t, "bvn,application_id\n111,1001\n")

	loader, err := NewApplicationLoader("apps.csv", name)
	require.NoError(t, err)
	defer loader.Done()

	assert.Equal(t, MissingColumnsError, loader.Validate())
}

func TestApplicationLoaderBadNumeric(t *testing.T) {

	content := testHeader + "\n" +
		"111,1001,50000,2024-05-01,10,20,30,not-a-number,5,0,15,25,35,60000\n"
	name := writeTempCSV(t, content)

	loader, err := NewApplicationLoader("apps.csv", name)
	require.NoError(t, err)
	defer loader.Done()

	assert.Equal(t, BadApplicationRecordError, loader.Validate())
}

func TestApplicationLoaderBadDate(t *testing.T) {

	content := testHeader + "\n" +
		"111,1001,50000,yesterday,10,20,30,40,5,0,15,25,35,60\n"
	name := writeTempCSV(t, content)

	loader, err := NewApplicationLoader("apps.csv", name)
	require.NoError(t, err)
	defer loader.Done()

	assert.Equal(t, BadApplicationRecordError, loader.Validate())
}

func TestApplicationLoaderBlankCellsAreZero(t *testing.T) {

	content := testHeader + "\n" + "111,1001" + strings.Repeat(",", 12) + "\n"
	name := writeTempCSV(t, content)

	loader, err := NewApplicationLoader("apps.csv", name)
	require.NoError(t, err)
	defer loader.Done()

	require.NoError(t, loader.Validate())

	app, err := loader.First()
	require.NoError(t, err)
	assert.Equal(t, 0.0, app.AmountRequested)
	assert.True(t, app.DateCreated.IsZero())
	assert.Equal(t, 0.0, app.Activity["withdrawal_in_90days"])
}

func TestApplicationLoaderNonFiniteCellsAreZero(t *testing.T) {

	content := testHeader + "\n" +
		"111,1001,50000,2024-05-01,10,20,30,NaN,5,0,15,25,35,-Inf\n"
	name := writeTempCSV(t, content)

	loader, err := NewApplicationLoader("apps.csv", name)
	require.NoError(t, err)
	defer loader.Done()

	require.NoError(t, loader.Validate())

	app, err := loader.First()
	require.NoError(t, err)
	assert.Equal(t, 0.0, app.Activity["deposit_in_90days"])
	assert.Equal(t, 0.0, app.Activity["withdrawal_in_90days"])
}

func TestApplicationLoaderSkipsRowsWithoutID(t *testing.T) {

	content := testHeader + "\n" +
		"111,,50000,2024-05-01,1,2,3,4,5,6,7,8,9,10\n" +
		"222,1002,80000,2024-05-02,1,2,3,4,5,6,7,8,9,10\n"
	name := writeTempCSV(t, content)

	loader, err := NewApplicationLoader("apps.csv", name)
	require.NoError(t, err)
	defer loader.Done()

	require.NoError(t, loader.Validate())

	app, err := loader.First()
	require.NoError(t, err)
	assert.Equal(t, "1002", app.ApplicationID)

	_, err = loader.Next()
	assert.Equal(t, io.EOF, err)
}

func TestApplicationLoaderHeaderOnly(t *testing.T) {

	name := writeTempCSV(t, testHeader+"\n")

	loader, err := NewApplicationLoader("apps.csv", name)
	require.NoError(t, err)
	defer loader.Done()

	require.NoError(t, loader.Validate())

	_, err = loader.First()
	assert.Equal(t, io.EOF, err)
}

func TestApplicationLoaderEmptyFile(t *testing.T) {

	name := writeTempCSV(t, "")

	_, err := NewApplicationLoader("apps.csv", name)
	assert.Error(t, err)
}

//
// end of file
//
