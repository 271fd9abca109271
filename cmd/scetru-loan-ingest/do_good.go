package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

// the columns the do-good table must carry. applicationID is unused but its
// absence still fails the table.
var doGoodColumns = []string{"bvn", "applicationID", "date_of_default", "outstanding_balance"}

// the default window in days
var defaultWindowDays = 90

// doGoodEntry is one default history record for a bvn
type doGoodEntry struct {
	DefaultDate    time.Time
	HasDefaultDate bool
	Balance        float64
	HasBalance     bool
}

// DoGoodTable is the default history for all known customers, keyed by bvn
type DoGoodTable struct {
	entries map[string][]doGoodEntry
}

// NewDoGoodTable creates an empty default history table
func NewDoGoodTable() *DoGoodTable {
	return &DoGoodTable{entries: make(map[string][]doGoodEntry)}
}

// AddTable folds the rows of one do-good csv document into the table
func (t *DoGoodTable) AddTable(table *csvTable) error {

	missing := table.missingColumns(doGoodColumns)
	if len(missing) != 0 {
		return fmt.Errorf("%s: missing required column(s): %s", table.Key, strings.Join(missing, ", "))
	}

	for _, row := range table.Rows {

		bvn := table.field(row, "bvn")
		if bvn == "" {
			continue
		}

		entry := doGoodEntry{}
		if value := table.field(row, "date_of_default"); value != "" {
			when, err := lenientDate(value)
			if err == nil {
				entry.DefaultDate = when
				entry.HasDefaultDate = true
			} else {
				// an unreadable date is the same as no default on record
				log.Printf("WARNING: %s: date_of_default value (%s) is not a date, ignoring", table.Key, value)
			}
		}
		if value := table.field(row, "outstanding_balance"); value != "" {
			number, err := strconv.ParseFloat(value, 64)
			if err == nil {
				entry.Balance = number
				entry.HasBalance = true
			} else {
				// an unreadable balance is assumed to be outstanding
				log.Printf("WARNING: %s: outstanding_balance value (%s) is not numeric, assuming outstanding", table.Key, value)
			}
		}

		t.entries[bvn] = append(t.entries[bvn], entry)
	}

	return nil
}

// Flags returns the defaulted and do-good flags for a bvn
func (t *DoGoodTable) Flags(bvn string, now time.Time) (string, string) {

	for _, entry := range t.entries[bvn] {
		if entry.defaultedInWindow(now) == true {
			return "Y", "N"
		}
	}
	return "N", "Y"
}

// Size returns the number of default history records in the table
func (t *DoGoodTable) Size() int {

	count := 0
	for _, entries := range t.entries {
		count += len(entries)
	}
	return count
}

// defaultedInWindow reports whether the entry is an unpaid default inside the
// default window
func (e doGoodEntry) defaultedInWindow(now time.Time) bool {

	if e.HasDefaultDate == false {
		return false
	}

	days := int(now.Sub(e.DefaultDate).Hours() / 24)
	if days > defaultWindowDays {
		return false
	}

	// a known zero balance means the default was repaid
	if e.HasBalance == true && e.Balance == 0 {
		return false
	}
	return true
}

// lenientDate tries each of the accepted date formats in turn
func lenientDate(value string) (time.Time, error) {

	for _, format := range dateFormats {
		when, err := time.Parse(format, value)
		if err == nil {
			return when, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date (%s)", value)
}

// loadDoGoodTable pulls every csv document from the do-good bucket and folds
// them into a single lookup table
func loadDoGoodTable(s3client *s3Client, bucket string) (*DoGoodTable, error) {

	tables, err := collateBucket(s3client, bucket)
	if err != nil {
		return nil, err
	}

	dogood := NewDoGoodTable()
	for _, table := range tables {
		err = dogood.AddTable(table)
		if err != nil {
			return nil, err
		}
	}

	log.Printf("INFO: do-good table contains %d record(s) for %d bvn(s)", dogood.Size(), len(dogood.entries))
	return dogood, nil
}

//
// end of file
//
