package school_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/school"
	testutil "github.com/trezcool/shule/tests"
)

func TestService_RiskReport(t *testing.T) {
	cat := catalog.Default()
	ds := school.Dataset{
		Students: []school.Student{
			testutil.Student("ok", "f1n", 90),
			testutil.Student("low-score", "f1n", 90),
			testutil.Student("low-attendance", "f1n", 84),
			testutil.Student("both", "f2n", 70),
			testutil.Student("no-results", "f2n", 99),
			testutil.Student("boundary", "f2n", 85),
			testutil.Student("just-below", "f3n", 85),
		},
		Results: []school.ExamResult{
			testutil.Result(cat, "ok", "math", term1, 60),
			testutil.Result(cat, "low-score", "math", term1, 30),
			testutil.Result(cat, "low-score", "eng", term1, 49), // 39.5
			testutil.Result(cat, "low-score", "eng", term2, 99), // ignored: not the reference term
			testutil.Result(cat, "low-attendance", "math", term1, 90),
			testutil.Result(cat, "both", "math", term1, 10),
			testutil.Result(cat, "no-results", "math", term2, 95),
			testutil.Result(cat, "boundary", "math", term1, 40),
			testutil.Result(cat, "just-below", "math", term1, 39),
			testutil.Result(cat, "just-below", "eng", term1, 40), // 39.5 rounds to 40 but is below 40
		},
	}
	svc, _ := testutil.NewService(t, ds)

	report, err := svc.RiskReport(context.Background())
	require.NoError(t, err)

	got := make(map[string][]string)
	var order []string
	for _, ra := range report {
		got[ra.Student.ID] = ra.Reasons
		order = append(order, ra.Student.ID)
		assert.Equal(t, term1, ra.Term)
	}
	assert.Equal(t, []string{"low-score", "low-attendance", "both", "no-results", "just-below"}, order)
	assert.Equal(t, []string{school.ReasonLowPerformance}, got["low-score"])
	assert.Equal(t, []string{school.ReasonLowAttendance}, got["low-attendance"])
	assert.Equal(t, []string{school.ReasonLowPerformance, school.ReasonLowAttendance}, got["both"])
	assert.Equal(t, []string{school.ReasonNoResults}, got["no-results"])
	assert.Equal(t, []string{school.ReasonLowPerformance}, got["just-below"])
	assert.Equal(t, 40, report[len(report)-1].Mean)

	students, err := svc.StudentsAtRisk(context.Background())
	require.NoError(t, err)
	require.Len(t, students, len(report))
	for i, s := range students {
		assert.Equal(t, order[i], s.ID)
	}
}

func TestService_StudentsAtRisk_empty(t *testing.T) {
	svc, _ := testutil.NewService(t, school.Dataset{})

	students, err := svc.StudentsAtRisk(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}
