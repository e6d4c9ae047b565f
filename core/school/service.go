package school

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
)

// Service runs the read queries & the result upsert against a Store.
// Every call re-reads the whole Dataset; nothing is cached between calls.
//
// Upserts are read-modify-write on the whole Dataset without locking:
// two writers sharing one Store can lose an update (the last Save wins).
type Service struct {
	store Store
	cat   *catalog.Catalog
}

func NewService(store Store, cat *catalog.Catalog) *Service {
	return &Service{store: store, cat: cat}
}

func (svc *Service) Catalog() *catalog.Catalog { return svc.cat }

func (svc *Service) load(ctx context.Context) (Dataset, error) {
	ds, err := svc.store.Load(ctx)
	if err != nil {
		return Dataset{}, errors.Wrap(err, "loading dataset")
	}
	return ds, nil
}

// StudentsInClass returns the class' students in insertion order.
func (svc *Service) StudentsInClass(ctx context.Context, classID string) ([]Student, error) {
	ds, err := svc.load(ctx)
	if err != nil {
		return nil, err
	}
	return studentsInClass(ds, classID), nil
}

func studentsInClass(ds Dataset, classID string) []Student {
	students := make([]Student, 0)
	for _, s := range ds.Students {
		if s.ClassID == classID {
			students = append(students, s)
		}
	}
	return students
}

func (svc *Service) Student(ctx context.Context, id string) (Student, error) {
	ds, err := svc.load(ctx)
	if err != nil {
		return Student{}, err
	}
	s, ok := ds.student(id)
	if !ok {
		return Student{}, ErrStudentNotFound
	}
	return s, nil
}

// ResultsForStudent returns the student's results in insertion order.
func (svc *Service) ResultsForStudent(ctx context.Context, studentID string) ([]ExamResult, error) {
	ds, err := svc.load(ctx)
	if err != nil {
		return nil, err
	}
	return resultsForStudent(ds, studentID, ""), nil
}

// resultsForStudent filters by student and, if term is set, by term.
func resultsForStudent(ds Dataset, studentID, term string) []ExamResult {
	results := make([]ExamResult, 0)
	for _, r := range ds.Results {
		if r.StudentID == studentID && (term == "" || r.Term == term) {
			results = append(results, r)
		}
	}
	return results
}

// ClassAverage returns the rounded mean score of the class' results for term, restricted to subjectID if set.
// It returns 0 when no result matches.
func (svc *Service) ClassAverage(ctx context.Context, classID, term, subjectID string) (int, error) {
	ds, err := svc.load(ctx)
	if err != nil {
		return 0, err
	}
	sum, n := classScores(ds, classID, term, subjectID)
	return roundedMean(sum, n), nil
}

func classScores(ds Dataset, classID, term, subjectID string) (sum, n int) {
	members := make(map[string]struct{})
	for _, s := range studentsInClass(ds, classID) {
		members[s.ID] = struct{}{}
	}
	for _, r := range ds.Results {
		if _, ok := members[r.StudentID]; !ok || r.Term != term {
			continue
		}
		if subjectID != "" && r.SubjectID != subjectID {
			continue
		}
		sum += r.Score
		n++
	}
	return sum, n
}

// roundedMean rounds half up; an empty set averages 0.
func roundedMean(sum, n int) int {
	if n == 0 {
		return 0
	}
	return (2*sum + n) / (2 * n)
}

type SubjectAverage struct {
	SubjectID string `json:"subjectId"`
	Name      string `json:"name"`
	Average   int    `json:"average"`
	Count     int    `json:"count"`
}

// SubjectAverages returns the class average of every subject with at least one result in term, in catalog order.
func (svc *Service) SubjectAverages(ctx context.Context, classID, term string) ([]SubjectAverage, error) {
	ds, err := svc.load(ctx)
	if err != nil {
		return nil, err
	}
	avgs := make([]SubjectAverage, 0, len(svc.cat.Subjects))
	for _, subj := range svc.cat.Subjects {
		sum, n := classScores(ds, classID, term, subj.ID)
		if n == 0 {
			continue
		}
		avgs = append(avgs, SubjectAverage{SubjectID: subj.ID, Name: subj.Name, Average: roundedMean(sum, n), Count: n})
	}
	return avgs, nil
}

// StrongestAndWeakest picks the best & worst subjects; ties go to the first in catalog order.
func StrongestAndWeakest(avgs []SubjectAverage) (strong, weak SubjectAverage, ok bool) {
	if len(avgs) == 0 {
		return SubjectAverage{}, SubjectAverage{}, false
	}
	strong, weak = avgs[0], avgs[0]
	for _, a := range avgs[1:] {
		if a.Average > strong.Average {
			strong = a
		}
		if a.Average < weak.Average {
			weak = a
		}
	}
	return strong, weak, true
}

// StudentMean returns the student's rounded mean score for term (0 when there are no results).
func (svc *Service) StudentMean(ctx context.Context, studentID, term string) (int, error) {
	ds, err := svc.load(ctx)
	if err != nil {
		return 0, err
	}
	var sum int
	results := resultsForStudent(ds, studentID, term)
	for _, r := range results {
		sum += r.Score
	}
	return roundedMean(sum, len(results)), nil
}

// NotificationsFor returns the notifications addressed to userID.
func (svc *Service) NotificationsFor(ctx context.Context, userID string) ([]Notification, error) {
	ds, err := svc.load(ctx)
	if err != nil {
		return nil, err
	}
	notifs := make([]Notification, 0)
	for _, n := range ds.Notifications {
		if n.UserID == userID {
			notifs = append(notifs, n)
		}
	}
	return notifs, nil
}

// UpsertResult replaces the result sharing the (student, subject, term) key in place, or appends it,
// then saves the whole Dataset. The grade is recomputed from the score.
func (svc *Service) UpsertResult(ctx context.Context, result ExamResult) (ExamResult, error) {
	date := result.Date
	result, err := NewExamResult(svc.cat, result.StudentID, result.SubjectID, result.Term, result.Score, date)
	if err != nil {
		return ExamResult{}, err
	}

	ds, err := svc.load(ctx)
	if err != nil {
		return ExamResult{}, err
	}
	if _, ok := ds.student(result.StudentID); !ok {
		return ExamResult{}, ErrStudentNotFound
	}

	if i := ds.resultIndex(result.Key()); i >= 0 {
		ds.Results[i] = result
	} else {
		ds.Results = append(ds.Results, result)
	}
	if err := svc.store.Save(ctx, ds); err != nil {
		return ExamResult{}, errors.Wrap(err, "saving dataset")
	}
	return result, nil
}

// RecordScore upserts the score of a student in a subject for term, dated now.
func (svc *Service) RecordScore(ctx context.Context, studentID, subjectID, term string, score int) (ExamResult, error) {
	return svc.UpsertResult(ctx, ExamResult{
		StudentID: core.CleanString(studentID),
		SubjectID: subjectID,
		Term:      term,
		Score:     score,
		Date:      NowFunc().UTC().Truncate(time.Second),
	})
}
