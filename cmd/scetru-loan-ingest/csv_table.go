package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
)

// csvTable is the parsed contents of one csv document, a header and the data rows
type csvTable struct {
	Key     string // the object key the document came from
	Columns []string
	Rows    [][]string
}

// parseCSVTable reads an entire csv document. Every row must have the same number
// of fields as the header.
func parseCSVTable(key string, r io.Reader) (*csvTable, error) {

	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s: empty csv document", key)
		}
		return nil, err
	}

	columns := make([]string, len(header))
	for ix, name := range header {
		columns[ix] = normalizeColumnName(name)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	return &csvTable{Key: key, Columns: columns, Rows: rows}, nil
}

// normalizeColumnName strips whitespace and any byte order mark left behind by an exporter
func normalizeColumnName(name string) string {
	return strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
}

// columnIndex returns the position of a named column, or -1
func (t *csvTable) columnIndex(name string) int {

	for ix, col := range t.Columns {
		if col == name {
			return ix
		}
	}
	return -1
}

// missingColumns returns the names not present in the table header
func (t *csvTable) missingColumns(names []string) []string {

	missing := make([]string, 0)
	for _, name := range names {
		if t.columnIndex(name) == -1 {
			missing = append(missing, name)
		}
	}
	return missing
}

// field returns the named column of a row, or the empty string when the column is absent
func (t *csvTable) field(row []string, name string) string {

	ix := t.columnIndex(name)
	if ix == -1 || ix >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[ix])
}

// collateBucket reads every csv object in a bucket. The table buckets spread one
// logical table over many csv documents.
func collateBucket(s3client *s3Client, bucket string) ([]*csvTable, error) {

	contents, err := s3client.listObjects(bucket)
	if err != nil {
		return nil, err
	}

	tables := make([]*csvTable, 0, len(contents))
	for _, obj := range contents {
		if interestingKey(obj.Key) == false {
			continue
		}

		body, err := s3client.getObject(bucket, obj.Key)
		if err != nil {
			return nil, err
		}

		table, err := parseCSVTable(obj.Key, body)
		body.Close()
		if err != nil {
			log.Printf("ERROR: reading s3://%s/%s: %s", bucket, obj.Key, err)
			return nil, err
		}
		tables = append(tables, table)
	}

	return tables, nil
}

//
// end of file
//
