// Package insight builds the text prompts sent to an external summarizer and turns its failures
// into fixed fallback texts: callers always get something to show.
package insight

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/school"
)

var (
	// ErrUnavailable is returned by a Summarizer that is not configured or cannot be reached.
	ErrUnavailable = errors.New("insight unavailable")

	errEmptyResponse = errors.New("empty response")
)

const (
	StudentDemoText   = "AI Insights require an API Key. (Demo mode: Student is performing well in Sciences but needs improvement in Languages.)"
	StudentFailedText = "Unable to generate insights at this time. Please check internet connection."
	ClassDemoText     = "AI Insights unavailable (Missing API Key)."
	ClassFailedText   = "Unable to generate class insights."

	DefaultTimeout = 30 * time.Second

	SchoolName = "Whole School"

	OutcomeOK     = "ok"
	OutcomeDemo   = "demo"
	OutcomeFailed = "failed"
)

// Summarizer turns a prompt into free text. The output is opaque: it is never parsed.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

type Insight struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
	Outcome  string `json:"-"` // OutcomeOK, OutcomeDemo or OutcomeFailed
}

type Service struct {
	summarizer Summarizer
	timeout    time.Duration
	log        core.Logger
	group      singleflight.Group
}

// NewService returns a Service. summarizer may be nil: every request then gets the demo text.
func NewService(summarizer Summarizer, timeout time.Duration, log core.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = core.NopLogger{}
	}
	return &Service{
		summarizer: summarizer,
		timeout:    timeout,
		log:        log,
	}
}

func (svc *Service) Available() bool { return svc.summarizer != nil }

// StudentPrompt describes the student's results for the analyst.
func StudentPrompt(cat *catalog.Catalog, s school.Student, results []school.ExamResult) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("%s: %d%% (%s)", cat.SubjectName(r.SubjectID), r.Score, r.Grade))
	}

	var b strings.Builder
	b.WriteString("You are an expert educational analyst for the Kenyan school system.\n")
	b.WriteString("Analyze the following student performance data and provide:\n")
	b.WriteString("1. A brief summary of academic standing.\n")
	b.WriteString("2. Three specific actionable insights.\n")
	b.WriteString("3. One key recommendation for improvement.\n\n")
	fmt.Fprintf(&b, "Student: %s (%s)\n", s.Name, s.Stream)
	fmt.Fprintf(&b, "Attendance: %d%%\n\n", s.AttendanceRate)
	b.WriteString("Results:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nKeep it encouraging but professional.")
	return b.String()
}

// ClassPrompt describes the class aggregates for the class teacher.
func ClassPrompt(className string, average int, weakSubject, strongSubject string) string {
	var b strings.Builder
	b.WriteString("Provide a short executive summary for a class teacher regarding class performance.\n")
	fmt.Fprintf(&b, "Class: %s\n", className)
	fmt.Fprintf(&b, "Average Score: %d%%\n", average)
	fmt.Fprintf(&b, "Strongest Subject: %s\n", strongSubject)
	fmt.Fprintf(&b, "Weakest Subject: %s\n\n", weakSubject)
	b.WriteString("Suggest 2 teaching strategies to improve the weak subject.")
	return b.String()
}

// StudentInsights summarizes a student's results. Concurrent calls with the same prompt share one request.
func (svc *Service) StudentInsights(ctx context.Context, cat *catalog.Catalog, s school.Student, results []school.ExamResult) Insight {
	return svc.summarize(ctx, "student", s.ID, StudentPrompt(cat, s, results), StudentDemoText, StudentFailedText)
}

// ClassInsights summarizes a class' aggregates. Concurrent calls with the same prompt share one request.
func (svc *Service) ClassInsights(ctx context.Context, classID, className string, average int, weakSubject, strongSubject string) Insight {
	return svc.summarize(ctx, "class", classID, ClassPrompt(className, average, weakSubject, strongSubject), ClassDemoText, ClassFailedText)
}

// SchoolInsights summarizes the whole-school aggregates with the class prompt.
func (svc *Service) SchoolInsights(ctx context.Context, average int, weakSubject, strongSubject string) Insight {
	return svc.summarize(ctx, "school", "school", ClassPrompt(SchoolName, average, weakSubject, strongSubject), ClassDemoText, ClassFailedText)
}

// flightKey identifies a request by its prompt: only identical prompts share a flight.
func flightKey(kind, id, prompt string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(prompt))
	return fmt.Sprintf("%s:%s:%x", kind, id, h.Sum64())
}

func (svc *Service) summarize(ctx context.Context, kind, id, prompt, demoText, failedText string) Insight {
	if svc.summarizer == nil {
		return Insight{Text: demoText, Fallback: true, Outcome: OutcomeDemo}
	}

	key := flightKey(kind, id, prompt)
	// the flight is shared: it must outlive the caller that started it
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := svc.group.Do(key, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(flightCtx, svc.timeout)
		defer cancel()
		return svc.summarizer.Summarize(ctx, prompt)
	})
	text, _ := v.(string)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errEmptyResponse
	}
	if err != nil {
		ins := Insight{Text: failedText, Fallback: true, Outcome: OutcomeFailed}
		if errors.Is(err, ErrUnavailable) {
			ins = Insight{Text: demoText, Fallback: true, Outcome: OutcomeDemo}
		}
		svc.log.Error("generating insights", err, map[string]interface{}{"kind": kind, "id": id, "shared": shared})
		return ins
	}
	return Insight{Text: text, Outcome: OutcomeOK}
}
