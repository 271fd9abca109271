package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// errors
var BadApplicationRecordError = fmt.Errorf("bad application record encountered")
var MissingColumnsError = fmt.Errorf("one or more required columns are missing")
var FileNotOpenError = fmt.Errorf("file is not open")

// ApplicationLoader is the interface to the application file loader
type ApplicationLoader interface {
	Validate() error
	First() (*Application, error)
	Next() (*Application, error)
	Done()
}

// this is our application loader implementation
type applicationLoaderImpl struct {
	FileKey string      // the bucket key the file arrived under
	File    *os.File    // our local copy of the file
	Reader  *csv.Reader // the record reader
	Table   *csvTable   // column bookkeeping for field lookup
}

// NewApplicationLoader opens a local application file and prepares it for reading
func NewApplicationLoader(key string, filename string) (ApplicationLoader, error) {

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	loader := &applicationLoaderImpl{FileKey: key, File: file}
	err = loader.readHeader()
	if err != nil {
		loader.Done()
		return nil, err
	}

	return loader, nil
}

// Validate ensures the file carries the required columns and every record parses
func (l *applicationLoaderImpl) Validate() error {

	if l.File == nil {
		return FileNotOpenError
	}

	missing := l.Table.missingColumns(requiredColumns)
	if len(missing) != 0 {
		log.Printf("ERROR: %s: missing required column(s): %s", l.FileKey, strings.Join(missing, ", "))
		return MissingColumnsError
	}

	// walk the complete file, every record must parse
	_, err := l.First()
	if err == io.EOF {
		// a file with only a header line is acceptable
		log.Printf("WARNING: %s: no application records in file", l.FileKey)
		return nil
	}
	for err == nil {
		_, err = l.Next()
	}

	// end of file is the happy path
	if err == io.EOF {
		return nil
	}
	return err
}

// First returns the first application record in the file
func (l *applicationLoaderImpl) First() (*Application, error) {

	if l.File == nil {
		return nil, FileNotOpenError
	}

	// reposition to the start of the file and skip past the header
	err := l.readHeader()
	if err != nil {
		return nil, err
	}

	return l.read()
}

// Next returns the next application record in the file
func (l *applicationLoaderImpl) Next() (*Application, error) {

	if l.File == nil {
		return nil, FileNotOpenError
	}

	return l.read()
}

// Done releases the loader resources
func (l *applicationLoaderImpl) Done() {

	if l.File != nil {
		l.File.Close()
		l.File = nil
	}
}

// readHeader rewinds the file and rebuilds the reader and column bookkeeping
func (l *applicationLoaderImpl) readHeader() error {

	_, err := l.File.Seek(0, io.SeekStart)
	if err != nil {
		return err
	}
	l.Reader = csv.NewReader(l.File)

	header, err := l.Reader.Read()
	if err == io.EOF {
		return fmt.Errorf("%s: empty csv document", l.FileKey)
	}
	if err != nil {
		return err
	}

	columns := make([]string, len(header))
	for ix, name := range header {
		columns[ix] = normalizeColumnName(name)
	}
	l.Table = &csvTable{Key: l.FileKey, Columns: columns}
	return nil
}

// read returns the next record, skipping rows that carry no application id
func (l *applicationLoaderImpl) read() (*Application, error) {

	for {
		row, err := l.Reader.Read()
		if err != nil {
			return nil, err
		}

		// a row without an application id identifies nothing we can score
		if l.Table.field(row, "application_id") == "" {
			log.Printf("WARNING: %s: ignoring record without an application_id", l.FileKey)
			continue
		}

		return applicationFromRow(l.Table, row)
	}
}

//
// end of file
//
