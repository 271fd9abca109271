package main

import (
	"time"
)

// LoanOutcome is the scoring result for one application. It is published to
// the outbound queue(s) and folded into the complete table.
type LoanOutcome struct {
	BVN             string    `json:"bvn"`
	ApplicationID   string    `json:"application_id"`
	AmountRequested float64   `json:"amount_requested"`
	AmountApproved  float64   `json:"amount_approved"`
	DeclineReason   string    `json:"decline_reason"`
	Defaulted       string    `json:"default_in_last_90days"`
	MadeItGood      string    `json:"has_it_make_it_good"`
	FileKey         string    `json:"file_key"`
	ScoredAt        time.Time `json:"scored_at"`
}

// scoreApplication runs the model for one application
func scoreApplication(app *Application, dogood *DoGoodTable, now time.Time) *LoanOutcome {

	defaulted, madeGood := dogood.Flags(app.BVN, now)
	est := estimate(app.Activity)
	amount := approvedAmount(defaulted, madeGood, est)

	return &LoanOutcome{
		BVN:             app.BVN,
		ApplicationID:   app.ApplicationID,
		AmountRequested: app.AmountRequested,
		AmountApproved:  amount,
		DeclineReason:   declineReason(amount, defaulted, madeGood),
		Defaulted:       defaulted,
		MadeItGood:      madeGood,
		FileKey:         app.FileKey,
		ScoredAt:        now,
	}
}

//
// end of file
//
