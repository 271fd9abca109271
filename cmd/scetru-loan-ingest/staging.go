package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// the audit copy of every row updated in a batch. The name never collides with
// an application id so the upload filter leaves it behind.
var auditFileName = "return_complete_table.csv"

// stageCompletedRows writes the updated rows under stageDir, one csv per
// application id plus the audit copy
func stageCompletedRows(stageDir string, updated []*CompleteRow) error {

	err := os.MkdirAll(stageDir, 0755)
	if err != nil {
		return err
	}

	// group rows by application id, preserving encounter order
	order := make([]string, 0, len(updated))
	groups := make(map[string][]*CompleteRow)
	for _, row := range updated {
		id := row.Fields["application_id"]
		if unsafeApplicationID(id) == true {
			log.Printf("WARNING: application id (%s) is unsafe as a file name, not staging it", id)
			continue
		}
		if _, seen := groups[id]; seen == false {
			order = append(order, id)
		}
		groups[id] = append(groups[id], row)
	}

	for _, id := range order {
		name := filepath.Join(stageDir, fmt.Sprintf("%s.csv", id))
		err = writeCompleteCSV(name, groups[id])
		if err != nil {
			return err
		}
	}
	log.Printf("INFO: staged %d application file(s) in %s", len(order), stageDir)

	return writeCompleteCSV(filepath.Join(stageDir, auditFileName), updated)
}

// unsafeApplicationID reports whether an id cannot safely name a staged file
func unsafeApplicationID(id string) bool {
	return id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`)
}

// writeCompleteCSV writes rows in the complete table column order
func writeCompleteCSV(filename string, rows []*CompleteRow) error {

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	err = writer.Write(completeOutputColumns)
	if err != nil {
		return err
	}

	record := make([]string, len(completeOutputColumns))
	for _, row := range rows {
		for ix, col := range completeOutputColumns {
			record[ix] = row.Fields[col]
		}
		err = writer.Write(record)
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// stagedUpload pairs a staged local file with the bucket key it returns under
type stagedUpload struct {
	LocalName string
	Key       string
}

// stagedUploads decides which staged files go back to the bucket and under
// what keys. Only files named for an updated application id qualify, which
// leaves the audit copy and anything stale in the stage dir behind.
func stagedUploads(stageDir string, updated []*CompleteRow) ([]stagedUpload, error) {

	ids := make(map[string]bool, len(updated))
	for _, row := range updated {
		ids[row.Fields["application_id"]] = true
	}

	prefix := uploadPrefix(updated)

	entries, err := os.ReadDir(stageDir)
	if err != nil {
		return nil, err
	}

	uploads := make([]stagedUpload, 0, len(entries))
	for _, entry := range entries {

		if entry.IsDir() == true {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".csv") == false {
			continue
		}

		if ids[strings.TrimSuffix(name, ".csv")] == false {
			continue
		}

		key := name
		if prefix != "" {
			key = fmt.Sprintf("%s/%s", prefix, name)
		}
		uploads = append(uploads, stagedUpload{LocalName: filepath.Join(stageDir, name), Key: key})
	}

	return uploads, nil
}

// uploadStagedFiles sends every staged per-application csv to the complete
// table bucket and returns the number uploaded
func uploadStagedFiles(s3client *s3Client, bucket string, stageDir string, updated []*CompleteRow) (int, error) {

	uploads, err := stagedUploads(stageDir, updated)
	if err != nil {
		return 0, err
	}

	uploaded := 0
	for _, upload := range uploads {
		err = s3client.uploadFile(bucket, upload.Key, upload.LocalName)
		if err != nil {
			return uploaded, err
		}
		log.Printf("INFO: uploaded %s to s3://%s/%s", upload.LocalName, bucket, upload.Key)
		uploaded++
	}

	return uploaded, nil
}

// uploadPrefix is the first path segment of the ledger object the first
// updated row came from
func uploadPrefix(updated []*CompleteRow) string {

	if len(updated) == 0 {
		return ""
	}
	return strings.Split(updated[0].FileKey, "/")[0]
}

//
// end of file
//
