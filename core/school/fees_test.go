package school_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/school"
	testutil "github.com/trezcool/shule/tests"
)

func TestService_FeeStatement(t *testing.T) {
	ds := school.Dataset{
		Students: []school.Student{
			testutil.Student("a", "f1n", 90),
			testutil.Student("b", "f1n", 90),
			testutil.Student("c", "f1n", 90),
		},
		Fees: []school.FeeRecord{
			{ID: "1", StudentID: "a", Amount: 45000, Type: school.FeeTuition, Status: school.FeePaid},
			{ID: "2", StudentID: "a", Amount: 12000, Type: school.FeeTransport, Status: school.FeePending},
			{ID: "3", StudentID: "a", Amount: 8000, Type: school.FeeLunch, Status: school.FeePaid},
			{ID: "4", StudentID: "b", Amount: 45000, Type: school.FeeTuition, Status: school.FeePaid},
		},
	}
	// the student's own counters are ignored
	ds.Students[0].FeesPaid, ds.Students[0].FeesTotal = 1, 2
	svc, _ := testutil.NewService(t, ds)

	tests := []struct {
		name      string
		studentID string
		want      school.FeeStatement
		records   int
	}{
		{
			name: "partly paid", studentID: "a", records: 3,
			want: school.FeeStatement{StudentID: "a", Total: 65000, Paid: 53000, Balance: 12000, PercentPaid: 82},
		},
		{
			name: "cleared", studentID: "b", records: 1,
			want: school.FeeStatement{StudentID: "b", Total: 45000, Paid: 45000, Balance: 0, PercentPaid: 100, Cleared: true},
		},
		{
			name: "nothing billed", studentID: "c",
			want: school.FeeStatement{StudentID: "c", PercentPaid: 100, Cleared: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.FeeStatement(context.Background(), tt.studentID)
			require.NoError(t, err)
			assert.Len(t, got.Records, tt.records)
			got.Records = nil
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := svc.FeeStatement(context.Background(), "ghost")
	assert.Equal(t, school.ErrStudentNotFound, err)
}
