package main

import (
	"log"
	"math"
	"strconv"
	"time"
)

// the columns every application file must carry
var requiredColumns = []string{
	"bvn",
	"application_id",
	"amount_requested",
	"date_created",
	"airtime_in_90days",
	"bill_payment_in_90days",
	"cable_tv_in_90days",
	"deposit_in_90days",
	"easy_payment_in_90days",
	"farmer_in_90days",
	"inter_bank_in_90days",
	"mobile_in_90days",
	"utility_bills_in_90days",
	"withdrawal_in_90days",
}

// the 90 day activity columns
var activityColumns = []string{
	"airtime_in_90days",
	"bill_payment_in_90days",
	"cable_tv_in_90days",
	"deposit_in_90days",
	"easy_payment_in_90days",
	"farmer_in_90days",
	"inter_bank_in_90days",
	"mobile_in_90days",
	"utility_bills_in_90days",
	"withdrawal_in_90days",
}

// the date formats accepted in application files
var dateFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
}

// Application is a single loan application record read from an inbound file
type Application struct {
	BVN             string
	ApplicationID   string
	AmountRequested float64
	DateCreated     time.Time
	Activity        map[string]float64 // keyed by activity column name
	FileKey         string             // the bucket object the record came from
}

// applicationFromRow converts one csv row into an application record
func applicationFromRow(table *csvTable, row []string) (*Application, error) {

	app := Application{
		BVN:           table.field(row, "bvn"),
		ApplicationID: table.field(row, "application_id"),
		FileKey:       table.Key,
		Activity:      make(map[string]float64, len(activityColumns)),
	}

	var err error
	app.AmountRequested, err = floatField(table, row, "amount_requested")
	if err != nil {
		return nil, err
	}

	app.DateCreated, err = dateField(table, row, "date_created")
	if err != nil {
		return nil, err
	}

	for _, col := range activityColumns {
		app.Activity[col], err = floatField(table, row, col)
		if err != nil {
			return nil, err
		}
	}

	return &app, nil
}

// floatField parses a numeric column. Blank cells are zero, the pipeline fills
// missing activity with 0.0. NaN and Inf tokens parse but are missing values
// too, they must never reach the model or the ledger.
func floatField(table *csvTable, row []string, name string) (float64, error) {

	value := table.field(row, name)
	if value == "" {
		return 0.0, nil
	}

	number, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("ERROR: %s: column %s value (%s) is not numeric", table.Key, name, value)
		return 0.0, BadApplicationRecordError
	}
	if math.IsNaN(number) == true || math.IsInf(number, 0) == true {
		return 0.0, nil
	}
	return number, nil
}

// dateField parses a date column. Blank cells are the zero time.
func dateField(table *csvTable, row []string, name string) (time.Time, error) {

	value := table.field(row, name)
	if value == "" {
		return time.Time{}, nil
	}

	for _, format := range dateFormats {
		when, err := time.Parse(format, value)
		if err == nil {
			return when, nil
		}
	}

	log.Printf("ERROR: %s: column %s value (%s) is not a date", table.Key, name, value)
	return time.Time{}, BadApplicationRecordError
}

//
// end of file
//
