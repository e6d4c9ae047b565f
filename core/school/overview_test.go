package school_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/school"
	testutil "github.com/trezcool/shule/tests"
)

func TestService_SchoolOverview(t *testing.T) {
	svc, _ := testutil.NewService(t, fixture())

	ov, err := svc.SchoolOverview(context.Background(), term1)
	require.NoError(t, err)

	assert.Equal(t, term1, ov.Term)
	assert.Equal(t, 3, ov.TotalStudents)
	assert.Equal(t, 6, ov.ActiveClasses)
	assert.Equal(t, 55, ov.SchoolMean) // 331/6, every term

	require.Len(t, ov.Classes, 6)
	assert.Equal(t, school.ClassPerformance{ClassID: "f1n", Name: "Form 1 North", Average: 58}, ov.Classes[0])
	assert.Equal(t, school.ClassPerformance{ClassID: "f1s", Name: "Form 1 South", Average: 10}, ov.Classes[1])
	for _, c := range ov.Classes[2:] {
		assert.Zero(t, c.Average, c.ClassID)
	}

	assert.Equal(t, []school.SubjectAverage{
		{SubjectID: "math", Name: "Mathematics", Average: 50, Count: 4},
		{SubjectID: "eng", Name: "English", Average: 65, Count: 2},
	}, ov.Subjects)

	ov, err = svc.SchoolOverview(context.Background(), term2)
	require.NoError(t, err)
	assert.Equal(t, 90, ov.Classes[0].Average)
	assert.Equal(t, 55, ov.SchoolMean)
}

func TestService_SchoolOverview_empty(t *testing.T) {
	svc, _ := testutil.NewService(t, school.Dataset{})

	ov, err := svc.SchoolOverview(context.Background(), term1)
	require.NoError(t, err)

	assert.Zero(t, ov.TotalStudents)
	assert.Zero(t, ov.SchoolMean)
	assert.Len(t, ov.Classes, 6)
	for _, c := range ov.Classes {
		assert.Zero(t, c.Average)
	}
	assert.NotNil(t, ov.Subjects)
	assert.Empty(t, ov.Subjects)
}
