package school

import "context"

type ClassPerformance struct {
	ClassID string `json:"classId"`
	Name    string `json:"name"`
	Average int    `json:"average"`
}

// Overview is the school-wide summary of the admin dashboard.
type Overview struct {
	Term          string             `json:"term"`
	TotalStudents int                `json:"totalStudents"`
	ActiveClasses int                `json:"activeClasses"`
	SchoolMean    int                `json:"schoolMean"` // over every result, all terms
	Classes       []ClassPerformance `json:"classes"`    // term averages, catalog order
	Subjects      []SubjectAverage   `json:"subjects"`   // over every result, catalog order
}

// SchoolOverview aggregates the whole dataset. Class averages are computed for term.
func (svc *Service) SchoolOverview(ctx context.Context, term string) (Overview, error) {
	ds, err := svc.load(ctx)
	if err != nil {
		return Overview{}, err
	}

	ov := Overview{
		Term:          term,
		TotalStudents: len(ds.Students),
		ActiveClasses: len(svc.cat.Classes),
		Classes:       make([]ClassPerformance, 0, len(svc.cat.Classes)),
		Subjects:      make([]SubjectAverage, 0, len(svc.cat.Subjects)),
	}

	var sum int
	subjSums := make(map[string]int)
	subjCounts := make(map[string]int)
	for _, r := range ds.Results {
		sum += r.Score
		subjSums[r.SubjectID] += r.Score
		subjCounts[r.SubjectID]++
	}
	ov.SchoolMean = roundedMean(sum, len(ds.Results))

	for _, cls := range svc.cat.Classes {
		clsSum, n := classScores(ds, cls.ID, term, "")
		ov.Classes = append(ov.Classes, ClassPerformance{ClassID: cls.ID, Name: cls.DisplayName(), Average: roundedMean(clsSum, n)})
	}
	for _, subj := range svc.cat.Subjects {
		if n := subjCounts[subj.ID]; n > 0 {
			ov.Subjects = append(ov.Subjects, SubjectAverage{SubjectID: subj.ID, Name: subj.Name, Average: roundedMean(subjSums[subj.ID], n), Count: n})
		}
	}
	return ov, nil
}
