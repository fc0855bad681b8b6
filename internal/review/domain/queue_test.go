package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)

func candidate(highRisk bool, review *LatestReview) QueueCandidate {
	return QueueCandidate{
		MerchantDescription: "Acme Co",
		RiskScore:           decimal.NewFromInt(91),
		ReasonCodes:         "R01,R07",
		WeekStartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		HighRiskFlag:        highRisk,
		LatestReview:        review,
	}
}

func TestNeedsReview(t *testing.T) {
	tests := []struct {
		name      string
		candidate QueueCandidate
		want      bool
	}{
		{
			name:      "not high risk never queues",
			candidate: candidate(false, nil),
			want:      false,
		},
		{
			name:      "not high risk with expired benign review never queues",
			candidate: candidate(false, &LatestReview{Status: StatusBenign, ReviewDate: testNow.AddDate(0, 0, -100)}),
			want:      false,
		},
		{
			name:      "high risk without review queues",
			candidate: candidate(true, nil),
			want:      true,
		},
		{
			name:      "blocked is terminal regardless of age",
			candidate: candidate(true, &LatestReview{Status: StatusBlocked, ReviewDate: testNow.AddDate(0, 0, -400)}),
			want:      false,
		},
		{
			name:      "recently blocked is terminal too",
			candidate: candidate(true, &LatestReview{Status: StatusBlocked, ReviewDate: testNow.AddDate(0, 0, -1)}),
			want:      false,
		},
		{
			name:      "benign reviewed exactly 90 days ago requeues",
			candidate: candidate(true, &LatestReview{Status: StatusBenign, ReviewDate: testNow.Add(-ClearanceWindow)}),
			want:      true,
		},
		{
			name:      "benign reviewed over 90 days ago requeues",
			candidate: candidate(true, &LatestReview{Status: StatusBenign, ReviewDate: testNow.AddDate(0, 0, -100)}),
			want:      true,
		},
		{
			name:      "benign reviewed just under 90 days ago stays cleared",
			candidate: candidate(true, &LatestReview{Status: StatusBenign, ReviewDate: testNow.Add(-ClearanceWindow + time.Hour)}),
			want:      false,
		},
		{
			name:      "benign reviewed 10 days ago stays cleared",
			candidate: candidate(true, &LatestReview{Status: StatusBenign, ReviewDate: testNow.AddDate(0, 0, -10)}),
			want:      false,
		},
		{
			name:      "pending investigation stays queued",
			candidate: candidate(true, &LatestReview{Status: StatusPending, ReviewDate: testNow.AddDate(0, 0, -1)}),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.candidate.NeedsReview(testNow))
		})
	}
}
