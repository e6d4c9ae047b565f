// Package seed generates the synthetic demo dataset.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/school"
)

const (
	tuitionFee   = 45000
	transportFee = 12000
	lunchFee     = 8000
)

// DefaultConfig mirrors the configuration defaults.
var DefaultConfig = core.SeedConfig{
	StudentsPerClass: 15,
	ScoreMin:         30,
	ScoreMax:         99,
	AttendanceMin:    80,
	AttendanceMax:    99,
}

// Generator builds a fresh Dataset. Shapes (ids, counts, admission numbers) are deterministic,
// values (scores, fees, gender...) are random. Seed Rand for reproducible datasets.
type Generator struct {
	cat  *catalog.Catalog
	conf core.SeedConfig
	now  func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGenerator(cat *catalog.Catalog, conf core.SeedConfig, rnd *rand.Rand) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if conf.StudentsPerClass <= 0 {
		conf.StudentsPerClass = DefaultConfig.StudentsPerClass
	}
	conf.ScoreMin, conf.ScoreMax = boundRange(conf.ScoreMin, conf.ScoreMax)
	conf.AttendanceMin, conf.AttendanceMax = boundRange(conf.AttendanceMin, conf.AttendanceMax)
	return &Generator{cat: cat, conf: conf, now: school.NowFunc, rnd: rnd}
}

// boundRange clamps both ends to [0,100] and orders them.
func boundRange(lo, hi int) (int, int) {
	clamp := func(v int) int {
		if v < school.MinScore {
			return school.MinScore
		}
		if v > school.MaxScore {
			return school.MaxScore
		}
		return v
	}
	lo, hi = clamp(lo), clamp(hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// StudentID returns e.g. "f1n-s3".
func StudentID(classID string, index int) string {
	return fmt.Sprintf("%s-s%d", classID, index)
}

// AdmissionNumber returns e.g. "F1N/003"; unique as long as class ids are.
func AdmissionNumber(classID string, index int) string {
	return fmt.Sprintf("%s/%03d", strings.ToUpper(classID), index)
}

// Generate builds the whole Dataset: students, completed-term results, fee records & seed notifications.
func (g *Generator) Generate() school.Dataset {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UTC().Truncate(time.Second)
	ds := school.Dataset{
		Students:      make([]school.Student, 0, len(g.cat.Classes)*g.conf.StudentsPerClass),
		Results:       make([]school.ExamResult, 0),
		Attendance:    make([]school.AttendanceRecord, 0),
		Notifications: make([]school.Notification, 0),
		Fees:          make([]school.FeeRecord, 0),
	}
	terms := g.cat.CompletedTerms()

	for _, cls := range g.cat.Classes {
		for i := 1; i <= g.conf.StudentsPerClass; i++ {
			sID := StudentID(cls.ID, i)
			fees := g.fees(sID, now)
			ds.Fees = append(ds.Fees, fees...)
			ds.Students = append(ds.Students, g.student(cls, i, fees, now))

			for ti, term := range terms {
				date := now.AddDate(0, -4*(len(terms)-ti), 0)
				for _, subj := range g.cat.Subjects {
					score := g.between(g.conf.ScoreMin, g.conf.ScoreMax)
					ds.Results = append(ds.Results, school.ExamResult{
						ID:        school.ResultID(g.cat, sID, subj.ID, term),
						StudentID: sID,
						SubjectID: subj.ID,
						Term:      term,
						Score:     score,
						Grade:     g.cat.Grading.GradeOf(score),
						Date:      date,
					})
				}
			}
		}
	}
	ds.Notifications = append(ds.Notifications, g.notifications(now)...)
	return ds
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.rnd.Intn(hi-lo+1)
}

func (g *Generator) chance(pct int) bool {
	return g.rnd.Intn(100) < pct
}

func (g *Generator) id() string {
	id, err := uuid.NewRandomFromReader(g.rnd)
	if err != nil { // math/rand never fails to read
		return uuid.NewString()
	}
	return id.String()
}

func (g *Generator) student(cls catalog.ClassRoom, i int, fees []school.FeeRecord, now time.Time) school.Student {
	sID := StudentID(cls.ID, i)
	s := school.Student{
		ID:              sID,
		Name:            fmt.Sprintf("Student %s %s %d", cls.Name, cls.Stream, i),
		AdmissionNumber: AdmissionNumber(cls.ID, i),
		ClassID:         cls.ID,
		Stream:          cls.Stream,
		Gender:          school.GenderMale,
		ParentName:      fmt.Sprintf("Parent %s %s %d", cls.Name, cls.Stream, i),
		ParentPhone:     fmt.Sprintf("07%08d", g.rnd.Intn(100000000)),
		AttendanceRate:  g.between(g.conf.AttendanceMin, g.conf.AttendanceMax),
	}
	if g.chance(50) {
		s.Gender = school.GenderFemale
	}
	if g.chance(60) {
		s.ParentEmail = null.StringFrom("parent." + sID + "@school.ke")
	}
	age := g.between(13, 18)
	dob := now.AddDate(-age, 0, -g.rnd.Intn(365)).Truncate(24 * time.Hour)
	s.DateOfBirth = null.TimeFrom(dob)

	for _, f := range fees {
		s.FeesTotal += f.Amount
		if f.Status == school.FeePaid {
			s.FeesPaid += f.Amount
		}
	}
	return s
}

// fees always bills tuition; transport & lunch are optional.
func (g *Generator) fees(studentID string, now time.Time) []school.FeeRecord {
	type bill struct {
		typ      string
		amount   int
		optional bool
		paidPct  int
	}
	bills := []bill{
		{typ: school.FeeTuition, amount: tuitionFee, paidPct: 70},
		{typ: school.FeeTransport, amount: transportFee, optional: true, paidPct: 50},
		{typ: school.FeeLunch, amount: lunchFee, optional: true, paidPct: 50},
	}

	records := make([]school.FeeRecord, 0, len(bills))
	for _, b := range bills {
		if b.optional && !g.chance(50) {
			continue
		}
		status := school.FeePending
		if g.chance(b.paidPct) {
			status = school.FeePaid
		}
		records = append(records, school.FeeRecord{
			ID:        g.id(),
			StudentID: studentID,
			Amount:    b.amount,
			Type:      b.typ,
			Date:      now.AddDate(0, 0, -g.rnd.Intn(90)),
			Status:    status,
		})
	}
	return records
}

// notifications seeds a few messages for the demo identities.
func (g *Generator) notifications(now time.Time) []school.Notification {
	seeds := []struct {
		userID, title, message, typ string
	}{
		{"admin1", "Term 2 results uploaded", "All classes have submitted Term 2 marks.", school.NotificationSuccess},
		{"admin1", "Fee collection", "Several students have pending fee balances.", school.NotificationWarning},
		{"t1", "CAT deadline", "Upload all continuous assessment tests by Friday.", school.NotificationAlert},
		{"t1", "Staff meeting", "Staff meeting on Monday at 8am in the main hall.", school.NotificationInfo},
		{"f1n-s1", "Report card ready", "Your Term 2 report card is available.", school.NotificationInfo},
		{"p1", "Fee reminder", "Please clear the outstanding fee balance before the end of term.", school.NotificationWarning},
	}
	notifs := make([]school.Notification, 0, len(seeds))
	for i, s := range seeds {
		notifs = append(notifs, school.Notification{
			ID:      g.id(),
			UserID:  s.userID,
			Title:   s.title,
			Message: s.message,
			Type:    s.typ,
			Date:    now.Add(-time.Duration(i) * 24 * time.Hour),
		})
	}
	return notifs
}
