package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

// the columns the stored complete table must carry
var completeColumns = []string{
	"bvn",
	"dob",
	"amount_requested",
	"application_id",
	"loan_tenure",
	"loan_repayment_structure",
	"internal_id",
	"amount_approved",
	"created_date",
	"decline_reason",
}

// the column order of updated complete table rows
var completeOutputColumns = []string{
	"bvn",
	"dob",
	"amount_requested",
	"application_id",
	"loan_tenure",
	"loan_repayment_structure",
	"internal_id",
	"amount_approved",
	"created_date",
	"updated_date",
	"decline_reason",
	"loan_message",
	"file_key",
}

// the message stamped on every updated row
var loanMessageCompleted = "COMPLETED"

// CompleteRow is one row of the complete table
type CompleteRow struct {
	Fields  map[string]string // column values by name
	FileKey string            // the ledger object the row came from
}

// ledger rows and outcomes join on bvn and application id
type ledgerKey struct {
	bvn           string
	applicationID string
}

// loadPendingRows collates the complete table bucket and returns the rows not
// yet processed, in the order encountered
func loadPendingRows(s3client *s3Client, bucket string) ([]*CompleteRow, error) {

	tables, err := collateBucket(s3client, bucket)
	if err != nil {
		return nil, err
	}

	pending := make([]*CompleteRow, 0)
	total := 0
	for _, table := range tables {
		rows, err := pendingRowsFromTable(table)
		if err != nil {
			return nil, err
		}
		total += len(table.Rows)
		pending = append(pending, rows...)
	}

	log.Printf("INFO: complete table contains %d row(s), %d pending", total, len(pending))
	return pending, nil
}

// pendingRowsFromTable returns the rows of one ledger document that have not
// been processed yet
func pendingRowsFromTable(table *csvTable) ([]*CompleteRow, error) {

	missing := table.missingColumns(completeColumns)
	if len(missing) != 0 {
		return nil, fmt.Errorf("%s: missing required column(s): %s", table.Key, strings.Join(missing, ", "))
	}

	pending := make([]*CompleteRow, 0, len(table.Rows))
	for _, row := range table.Rows {

		// processed rows already carry an amount or a reason
		if table.field(row, "amount_approved") != "" || table.field(row, "decline_reason") != "" {
			continue
		}

		fields := make(map[string]string, len(table.Columns))
		for _, col := range table.Columns {
			fields[col] = table.field(row, col)
		}
		// the row belongs to the ledger object it was read from, whatever a
		// stored file_key column says
		fields["file_key"] = table.Key

		pending = append(pending, &CompleteRow{Fields: fields, FileKey: table.Key})
	}

	return pending, nil
}

// updateCompleteRows folds the batch outcomes into the pending ledger rows and
// returns the rows that matched. The first outcome for a key wins.
func updateCompleteRows(pending []*CompleteRow, outcomes []*LoanOutcome, now time.Time) []*CompleteRow {

	byKey := make(map[ledgerKey]*LoanOutcome, len(outcomes))
	for _, outcome := range outcomes {
		key := ledgerKey{bvn: outcome.BVN, applicationID: outcome.ApplicationID}
		if _, duplicate := byKey[key]; duplicate == false {
			byKey[key] = outcome
		}
	}

	updatedDate := now.Truncate(time.Minute).Format("2006-01-02 15:04:05")

	updated := make([]*CompleteRow, 0, len(pending))
	for _, row := range pending {

		key := ledgerKey{bvn: row.Fields["bvn"], applicationID: row.Fields["application_id"]}
		outcome, found := byKey[key]
		if found == false {
			continue
		}

		row.Fields["amount_approved"] = formatAmount(outcome.AmountApproved)
		row.Fields["decline_reason"] = outcome.DeclineReason
		row.Fields["updated_date"] = updatedDate
		row.Fields["loan_message"] = loanMessageCompleted
		updated = append(updated, row)
	}

	return updated
}

// formatAmount renders an approved amount the way the ledger stores it
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

//
// end of file
//
