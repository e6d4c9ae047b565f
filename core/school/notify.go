package school

import (
	"context"
	"net/mail"

	"github.com/trezcool/shule/core"
)

var reasonTexts = map[string]string{
	ReasonLowPerformance: "term mean below 40%",
	ReasonLowAttendance:  "attendance below 85%",
	ReasonNoResults:      "no results recorded for the term",
}

type AtRiskEmailData struct {
	ParentName      string
	StudentName     string
	AdmissionNumber string
	Reasons         []string
	Mean            int
	AttendanceRate  int
}

// AtRiskEmail builds the parent notice of an at-risk student. ok is false when no parent email is known.
func AtRiskEmail(ra RiskAssessment) (msg *core.EmailMessage, ok bool) {
	s := ra.Student
	if !s.ParentEmail.Valid || s.ParentEmail.String == "" {
		return nil, false
	}
	reasons := make([]string, 0, len(ra.Reasons))
	for _, r := range ra.Reasons {
		if txt, ok := reasonTexts[r]; ok {
			reasons = append(reasons, txt)
		} else {
			reasons = append(reasons, r)
		}
	}
	return &core.EmailMessage{
		To:           []mail.Address{{Name: s.ParentName, Address: s.ParentEmail.String}},
		Subject:      s.Name + " needs follow-up",
		TemplateName: "at_risk",
		TemplateData: AtRiskEmailData{
			ParentName:      s.ParentName,
			StudentName:     s.Name,
			AdmissionNumber: s.AdmissionNumber,
			Reasons:         reasons,
			Mean:            ra.Mean,
			AttendanceRate:  s.AttendanceRate,
		},
	}, true
}

// NotifyAtRisk emails the parents of every at-risk student and returns how many messages were sent.
func (svc *Service) NotifyAtRisk(ctx context.Context, mailer core.EmailService) (int, error) {
	report, err := svc.RiskReport(ctx)
	if err != nil {
		return 0, err
	}
	msgs := make([]*core.EmailMessage, 0, len(report))
	for _, ra := range report {
		if msg, ok := AtRiskEmail(ra); ok {
			msgs = append(msgs, msg)
		}
	}
	mailer.SendMessages(msgs...)
	return len(msgs), nil
}
