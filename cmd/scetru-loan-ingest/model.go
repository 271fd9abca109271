package main

import (
	"math"
)

// the model weights for the 90 day activity columns. utility_bills_in_90days
// is read and validated but carries no weight.
var modelWeights = map[string]float64{
	"airtime_in_90days":      0.02,
	"bill_payment_in_90days": 0.02,
	"cable_tv_in_90days":     0.02,
	"deposit_in_90days":      0.3,
	"easy_payment_in_90days": 0.02,
	"farmer_in_90days":       0.02,
	"inter_bank_in_90days":   0.02,
	"mobile_in_90days":       0.02,
	"withdrawal_in_90days":   0.5,
}

// the decline reasons written to the complete table. Approvals carry a single
// space so the column round-trips as processed.
var declinedDefaults = "Loan declined due to defaults"
var declinedLowActivity = "Loan declined due to low transaction or incomplete records"
var approvedReason = " "

// estimate is the weighted sum of the application activity
func estimate(activity map[string]float64) float64 {

	sum := 0.0
	for _, col := range activityColumns {
		weight, weighted := modelWeights[col]
		if weighted == false {
			continue
		}
		sum += activity[col] * weight
	}
	return sum
}

// approvedAmount applies the model to the estimate and the default history flags
func approvedAmount(defaulted string, doGood string, estimate float64) float64 {

	switch {
	case defaulted == "N":
		return roundToThousand(25 + 1.0*estimate)
	case defaulted == "Y" && doGood == "Y":
		return roundToThousand(25 + 0.5*estimate)
	default:
		return 0
	}
}

// roundToThousand rounds to the nearest 1000 with ties going to even
func roundToThousand(v float64) float64 {
	return math.RoundToEven(v/1000) * 1000
}

// declineReason explains a zero approved amount
func declineReason(amount float64, defaulted string, doGood string) string {

	if amount == 0 && defaulted == "Y" && doGood == "N" {
		return declinedDefaults
	}
	if amount == 0 {
		return declinedLowActivity
	}
	return approvedReason
}

//
// end of file
//
