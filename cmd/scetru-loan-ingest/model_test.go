package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEstimateAppliesWeights(t *testing.T) {

	activity := map[string]float64{
		"airtime_in_90days":       100,
		"bill_payment_in_90days":  100,
		"cable_tv_in_90days":      100,
		"deposit_in_90days":       1000,
		"easy_payment_in_90days":  100,
		"farmer_in_90days":        100,
		"inter_bank_in_90days":    100,
		"mobile_in_90days":        100,
		"utility_bills_in_90days": 999999,
		"withdrawal_in_90days":    1000,
	}

	// seven columns at .02, deposit at .3, withdrawal at .5 and no weight at
	// all for utility bills
	assert.InDelta(t, 14.0+300.0+500.0, estimate(activity), 1e-9)
}

func TestEstimateEmptyActivity(t *testing.T) {
	assert.Equal(t, 0.0, estimate(map[string]float64{}))
}

func TestApprovedAmountRounding(t *testing.T) {

	// no defaults earns the full estimate, rounded to the nearest 1000
	assert.Equal(t, 25000.0, approvedAmount("N", "Y", 24980.0))

	// ties round to even
	assert.Equal(t, 0.0, approvedAmount("N", "Y", 475.0))
	assert.Equal(t, 2000.0, approvedAmount("N", "Y", 1475.0))
	assert.Equal(t, 2000.0, approvedAmount("N", "Y", 2475.0))

	// a made good default earns half the estimate
	assert.Equal(t, 13000.0, approvedAmount("Y", "Y", 25950.0))

	// an outstanding default earns nothing
	assert.Equal(t, 0.0, approvedAmount("Y", "N", 1000000.0))
}

func TestDeclineReason(t *testing.T) {

	assert.Equal(t, declinedDefaults, declineReason(0, "Y", "N"))
	assert.Equal(t, declinedLowActivity, declineReason(0, "N", "Y"))
	assert.Equal(t, declinedLowActivity, declineReason(0, "Y", "Y"))
	assert.Equal(t, " ", declineReason(25000, "N", "Y"))
}

func TestScoreApplication(t *testing.T) {

	now := time.Now()
	dogood := NewDoGoodTable()

	app := &Application{
		BVN:             "111",
		ApplicationID:   "1001",
		AmountRequested: 50000,
		FileKey:         "inbox/apps.csv",
		Activity: map[string]float64{
			"deposit_in_90days":    50000,
			"withdrawal_in_90days": 20000,
		},
	}

	outcome := scoreApplication(app, dogood, now)
	assert.Equal(t, "N", outcome.Defaulted)
	assert.Equal(t, "Y", outcome.MadeItGood)
	// 25 + 15000 + 10000 rounds to 25000
	assert.Equal(t, 25000.0, outcome.AmountApproved)
	assert.Equal(t, " ", outcome.DeclineReason)
	assert.Equal(t, "1001", outcome.ApplicationID)
	assert.Equal(t, "inbox/apps.csv", outcome.FileKey)
	assert.Equal(t, now, outcome.ScoredAt)
}

func TestScoreApplicationNoActivity(t *testing.T) {

	now := time.Now()
	dogood := NewDoGoodTable()

	app := &Application{
		BVN:           "111",
		ApplicationID: "1001",
		Activity:      map[string]float64{},
	}

	outcome := scoreApplication(app, dogood, now)
	assert.Equal(t, 0.0, outcome.AmountApproved)
	assert.Equal(t, declinedLowActivity, outcome.DeclineReason)
}

//
// end of file
//
