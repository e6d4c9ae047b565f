package seed

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/school"
)

func newGenerator(seedValue int64, conf core.SeedConfig) *Generator {
	g := NewGenerator(catalog.Default(), conf, rand.New(rand.NewSource(seedValue)))
	g.now = func() time.Time { return time.Date(2024, time.September, 1, 10, 30, 0, 0, time.UTC) }
	return g
}

func TestGenerate_shape(t *testing.T) {
	cat := catalog.Default()
	ds := newGenerator(7, DefaultConfig).Generate()

	require.Len(t, ds.Students, 90)
	assert.Len(t, ds.Results, 90*len(cat.Subjects)*len(cat.CompletedTerms()))
	assert.NotNil(t, ds.Attendance)
	assert.Empty(t, ds.Attendance)
	assert.NotEmpty(t, ds.Notifications)

	ids := make(map[string]bool)
	admissions := make(map[string]bool)
	perClass := make(map[string]int)
	for _, s := range ds.Students {
		assert.False(t, ids[s.ID], "duplicate id %s", s.ID)
		assert.False(t, admissions[s.AdmissionNumber], "duplicate admission number %s", s.AdmissionNumber)
		ids[s.ID], admissions[s.AdmissionNumber] = true, true
		perClass[s.ClassID]++

		cls, ok := cat.Class(s.ClassID)
		require.True(t, ok)
		assert.Equal(t, cls.Stream, s.Stream)
		assert.NoError(t, school.ValidateStudent(s))
		assert.GreaterOrEqual(t, s.AttendanceRate, DefaultConfig.AttendanceMin)
		assert.LessOrEqual(t, s.AttendanceRate, DefaultConfig.AttendanceMax)
	}
	for _, cls := range cat.Classes {
		assert.Equal(t, 15, perClass[cls.ID], cls.ID)
	}
	assert.Equal(t, "f1n-s1", ds.Students[0].ID)
	assert.Equal(t, "F1N/001", ds.Students[0].AdmissionNumber)
}

func TestGenerate_results(t *testing.T) {
	cat := catalog.Default()
	ds := newGenerator(7, DefaultConfig).Generate()

	keys := make(map[school.ResultKey]bool)
	for _, r := range ds.Results {
		assert.False(t, keys[r.Key()], "duplicate result %v", r.Key())
		keys[r.Key()] = true

		assert.NotEqual(t, "Term 3", r.Term, "the current term has no results yet")
		assert.Equal(t, cat.Grading.GradeOf(r.Score), r.Grade)
		assert.Equal(t, school.ResultID(cat, r.StudentID, r.SubjectID, r.Term), r.ID)
		assert.GreaterOrEqual(t, r.Score, DefaultConfig.ScoreMin)
		assert.LessOrEqual(t, r.Score, DefaultConfig.ScoreMax)
	}
}

func TestGenerate_fees(t *testing.T) {
	ds := newGenerator(11, DefaultConfig).Generate()

	type sums struct{ total, paid, tuition int }
	byStudent := make(map[string]*sums)
	for _, f := range ds.Fees {
		require.NoError(t, school.ValidateFeeRecord(f))
		s, ok := byStudent[f.StudentID]
		if !ok {
			s = &sums{}
			byStudent[f.StudentID] = s
		}
		s.total += f.Amount
		if f.Status == school.FeePaid {
			s.paid += f.Amount
		}
		if f.Type == school.FeeTuition {
			s.tuition++
		}
	}
	for _, st := range ds.Students {
		s := byStudent[st.ID]
		require.NotNil(t, s, st.ID)
		assert.Equal(t, 1, s.tuition, "tuition is always billed once")
		assert.Equal(t, s.total, st.FeesTotal)
		assert.Equal(t, s.paid, st.FeesPaid)
		assert.LessOrEqual(t, st.FeesPaid, st.FeesTotal)
	}
}

func TestGenerate_deterministic(t *testing.T) {
	a := newGenerator(3, DefaultConfig).Generate()
	b := newGenerator(3, DefaultConfig).Generate()
	c := newGenerator(4, DefaultConfig).Generate()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a.Results, c.Results)
}

func TestNewGenerator_bounds(t *testing.T) {
	conf := core.SeedConfig{StudentsPerClass: 0, ScoreMin: 120, ScoreMax: -5, AttendanceMin: 50, AttendanceMax: 50}
	g := newGenerator(1, conf)

	assert.Equal(t, DefaultConfig.StudentsPerClass, g.conf.StudentsPerClass)
	assert.Equal(t, 0, g.conf.ScoreMin)
	assert.Equal(t, 100, g.conf.ScoreMax)

	ds := g.Generate()
	for _, s := range ds.Students {
		assert.Equal(t, 50, s.AttendanceRate)
	}
}

func TestIdentifiers(t *testing.T) {
	assert.Equal(t, "f2s-s12", StudentID("f2s", 12))
	assert.Equal(t, "F2S/012", AdmissionNumber("f2s", 12))
	assert.NotEqual(t, AdmissionNumber("f1n", 1), AdmissionNumber("f1s", 1))
}
