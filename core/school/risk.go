package school

import "context"

const (
	// RiskScoreThreshold: a reference-term mean strictly below it flags the student.
	RiskScoreThreshold = 40
	// RiskAttendanceThreshold: an attendance rate strictly below it flags the student.
	RiskAttendanceThreshold = 85

	ReasonLowPerformance = "low-performance"
	ReasonLowAttendance  = "low-attendance"
	ReasonNoResults      = "no-results"
)

type RiskAssessment struct {
	Student Student  `json:"student"`
	Term    string   `json:"term"`
	Mean    int      `json:"mean"` // rounded, for display
	Reasons []string `json:"reasons"`
}

// assessRisk applies the at-risk policy to one student.
// A student without any reference-term result counts as a mean of 0: missing data is treated as risk.
func assessRisk(ds Dataset, s Student, term string) (RiskAssessment, bool) {
	var sum, n int
	for _, r := range ds.Results {
		if r.StudentID == s.ID && r.Term == term {
			sum += r.Score
			n++
		}
	}

	ra := RiskAssessment{Student: s, Term: term, Mean: roundedMean(sum, n)}
	switch {
	case n == 0:
		ra.Reasons = append(ra.Reasons, ReasonNoResults)
	case sum < RiskScoreThreshold*n: // exact mean < threshold
		ra.Reasons = append(ra.Reasons, ReasonLowPerformance)
	}
	if s.AttendanceRate < RiskAttendanceThreshold {
		ra.Reasons = append(ra.Reasons, ReasonLowAttendance)
	}
	return ra, len(ra.Reasons) > 0
}

// RiskReport assesses every student against the reference term, in insertion order.
func (svc *Service) RiskReport(ctx context.Context) ([]RiskAssessment, error) {
	ds, err := svc.load(ctx)
	if err != nil {
		return nil, err
	}
	term := svc.cat.ReferenceTerm()
	report := make([]RiskAssessment, 0)
	for _, s := range ds.Students {
		if ra, atRisk := assessRisk(ds, s, term); atRisk {
			report = append(report, ra)
		}
	}
	return report, nil
}

// StudentsAtRisk returns the students whose reference-term mean is below 40 or whose attendance is below 85.
func (svc *Service) StudentsAtRisk(ctx context.Context) ([]Student, error) {
	report, err := svc.RiskReport(ctx)
	if err != nil {
		return nil, err
	}
	students := make([]Student, 0, len(report))
	for _, ra := range report {
		students = append(students, ra.Student)
	}
	return students, nil
}
