package school

import (
	"context"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
)

var NowFunc = time.Now // mockable

const (
	GenderMale   = "M"
	GenderFemale = "F"

	FeeTuition   = "Tuition"
	FeeTransport = "Transport"
	FeeLunch     = "Lunch"

	FeePaid    = "Paid"
	FeePending = "Pending"

	AttendancePresent = "Present"
	AttendanceAbsent  = "Absent"
	AttendanceLate    = "Late"

	NotificationInfo    = "info"
	NotificationWarning = "warning"
	NotificationSuccess = "success"
	NotificationAlert   = "alert"

	MinScore = 0
	MaxScore = 100
)

type Student struct {
	ID              string      `json:"id" validate:"required"`
	Name            string      `json:"name" validate:"required"`
	AdmissionNumber string      `json:"admissionNumber" validate:"required"`
	ClassID         string      `json:"classId" validate:"required"`
	Stream          string      `json:"stream"`
	Gender          string      `json:"gender" validate:"oneof=M F"`
	ParentName      string      `json:"parentName"`
	ParentPhone     string      `json:"parentPhone"`
	ParentEmail     null.String `json:"parentEmail"`
	AttendanceRate  int         `json:"attendanceRate" validate:"gte=0,lte=100"`
	FeesPaid        int         `json:"feesPaid" validate:"gte=0"`
	FeesTotal       int         `json:"feesTotal" validate:"gte=0"`
	DateOfBirth     null.Time   `json:"dob"`
}

// ValidateStudent checks the Student invariants.
// FeesPaid/FeesTotal are kept for display only: FeeRecords are the authoritative fee source (see FeeStatement).
func ValidateStudent(s Student) error {
	return core.ValidateStruct(s)
}

// ResultKey is the identity of an ExamResult: one result per student, subject & term.
type ResultKey struct {
	StudentID string
	SubjectID string
	Term      string
}

type ExamResult struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId" validate:"required"`
	SubjectID string    `json:"subjectId" validate:"required"`
	Term      string    `json:"term" validate:"required"`
	Score     int       `json:"score" validate:"gte=0,lte=100"`
	Grade     string    `json:"grade"`
	Date      time.Time `json:"date"`
}

func (r ExamResult) Key() ResultKey {
	return ResultKey{StudentID: r.StudentID, SubjectID: r.SubjectID, Term: r.Term}
}

// ResultID builds the synthetic result id, e.g. "f1n-s1-math-t1".
func ResultID(cat *catalog.Catalog, studentID, subjectID, term string) string {
	return fmt.Sprintf("%s-%s-t%d", studentID, subjectID, cat.TermNumber(term))
}

// NewExamResult builds a validated ExamResult. The grade is always derived from the catalog's grading policy.
func NewExamResult(cat *catalog.Catalog, studentID, subjectID, term string, score int, date time.Time) (ExamResult, error) {
	r := ExamResult{
		StudentID: core.CleanString(studentID),
		SubjectID: core.CleanString(subjectID, true /* lower */),
		Term:      core.CleanString(term),
		Score:     score,
		Date:      date,
	}
	if err := r.validate(cat); err != nil {
		return ExamResult{}, err
	}
	r.ID = ResultID(cat, r.StudentID, r.SubjectID, r.Term)
	r.Grade = cat.Grading.GradeOf(r.Score)
	if r.Date.IsZero() {
		r.Date = NowFunc().UTC().Truncate(time.Second)
	}
	return r, nil
}

func (r ExamResult) validate(cat *catalog.Catalog) error {
	if err := core.ValidateStruct(r); err != nil {
		return err
	}
	if !cat.HasTerm(r.Term) {
		return core.NewValidationError(nil, core.FieldError{Field: "term", Error: "unknown term " + r.Term})
	}
	if _, ok := cat.Subject(r.SubjectID); !ok {
		return core.NewValidationError(ErrSubjectNotFound, core.FieldError{Field: "subjectId", Error: ErrSubjectNotFound.Error()})
	}
	return nil
}

// AttendanceRecord is part of the persisted layout but is neither generated nor queried.
type AttendanceRecord struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status" validate:"oneof=Present Absent Late"`
}

type FeeRecord struct {
	ID        string    `json:"id" validate:"required"`
	StudentID string    `json:"studentId" validate:"required"`
	Amount    int       `json:"amount" validate:"gte=0"`
	Type      string    `json:"type" validate:"oneof=Tuition Transport Lunch"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status" validate:"oneof=Paid Pending"`
}

func ValidateFeeRecord(f FeeRecord) error {
	return core.ValidateStruct(f)
}

type Notification struct {
	ID      string    `json:"id" validate:"required"`
	UserID  string    `json:"userId" validate:"required"`
	Title   string    `json:"title" validate:"required"`
	Message string    `json:"message"`
	Type    string    `json:"type" validate:"oneof=info warning success alert"`
	Date    time.Time `json:"date"`
	Read    bool      `json:"read"`
}

func ValidateNotification(n Notification) error {
	return core.ValidateStruct(n)
}

// Dataset is the whole persisted aggregate. It is always read & written as one unit.
type Dataset struct {
	Students      []Student          `json:"students"`
	Results       []ExamResult       `json:"results"`
	Attendance    []AttendanceRecord `json:"attendance"`
	Notifications []Notification     `json:"notifications"`
	Fees          []FeeRecord        `json:"fees"`
}

func (ds *Dataset) student(id string) (Student, bool) {
	for _, s := range ds.Students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

// resultIndex returns the position of the result with the given key, -1 if none.
func (ds *Dataset) resultIndex(key ResultKey) int {
	for i, r := range ds.Results {
		if r.Key() == key {
			return i
		}
	}
	return -1
}

// Store persists the Dataset.
type Store interface {
	// Load returns the persisted Dataset, initializing it on first access.
	Load(ctx context.Context) (Dataset, error)
	// Save overwrites the persisted Dataset.
	Save(ctx context.Context, ds Dataset) error
}
