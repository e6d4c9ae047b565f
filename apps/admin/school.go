package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/user"
)

func (cli *commandLine) studentsCmd() *cobra.Command {
	var classID string
	cmd := &cobra.Command{
		Use:   "students",
		Short: "List the students of a class",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, ok := cli.deps.Catalog.Class(classID); !ok {
				return errors.Errorf("unknown class %q", classID)
			}
			students, err := cli.deps.SchoolSvc.StudentsInClass(cmd.Context(), classID)
			if err != nil {
				return err
			}
			table := cli.table("ID", "Admission", "Name", "Gender", "Attendance")
			for _, s := range students {
				if err := table.Append(s.ID, s.AdmissionNumber, s.Name, s.Gender, cli.printer.Sprintf("%d%%", s.AttendanceRate)); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
	cmd.Flags().StringVar(&classID, "class", "", "class id, e.g. f1n")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

func (cli *commandLine) resultsCmd() *cobra.Command {
	var studentID string
	cmd := &cobra.Command{
		Use:   "results",
		Short: "List the exam results of a student",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cli.deps.SchoolSvc.Student(cmd.Context(), studentID)
			if err != nil {
				return err
			}
			results, err := cli.deps.SchoolSvc.ResultsForStudent(cmd.Context(), s.ID)
			if err != nil {
				return err
			}
			cli.printf("%s (%s)\n", s.Name, s.AdmissionNumber)
			table := cli.table("Term", "Subject", "Score", "Grade")
			for _, r := range results {
				if err := table.Append(r.Term, cli.deps.Catalog.SubjectName(r.SubjectID), r.Score, r.Grade); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "student id, e.g. f1n-s1")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}

func (cli *commandLine) averageCmd() *cobra.Command {
	var classID, term, subjectID string
	cmd := &cobra.Command{
		Use:   "average",
		Short: "Print the average score of a class for a term, optionally for one subject",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if term == "" {
				term = cli.deps.Catalog.ReferenceTerm()
			}
			avg, err := cli.deps.SchoolSvc.ClassAverage(cmd.Context(), classID, term, subjectID)
			if err != nil {
				return err
			}
			cli.printf("%d\n", avg)
			return nil
		},
	}
	cmd.Flags().StringVar(&classID, "class", "", "class id, e.g. f1n")
	cmd.Flags().StringVar(&term, "term", "", "term label (default: the reference term)")
	cmd.Flags().StringVar(&subjectID, "subject", "", "subject id, e.g. math (default: all subjects)")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

func (cli *commandLine) atRiskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "at-risk",
		Short: "List the students flagged for follow-up",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := cli.deps.SchoolSvc.RiskReport(cmd.Context())
			if err != nil {
				return err
			}
			table := cli.table("ID", "Name", "Class", "Mean", "Attendance", "Reasons")
			for _, ra := range report {
				s := ra.Student
				err := table.Append(s.ID, s.Name, s.ClassID, ra.Mean, cli.printer.Sprintf("%d%%", s.AttendanceRate), strings.Join(ra.Reasons, ", "))
				if err != nil {
					return err
				}
			}
			if err := table.Render(); err != nil {
				return err
			}
			cli.printf("%d students at risk\n", len(report))
			return nil
		},
	}
}

func (cli *commandLine) recordCmd() *cobra.Command {
	var studentID, subjectID, term string
	var score int
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record (or overwrite) the score of a student",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if score < school.MinScore || score > school.MaxScore {
				return errors.Errorf("score must be between %d and %d", school.MinScore, school.MaxScore)
			}
			r, err := cli.deps.SchoolSvc.RecordScore(cmd.Context(), studentID, subjectID, term, score)
			if err != nil {
				return err
			}
			cli.printf("%s: %d (%s)\n", r.ID, r.Score, r.Grade)
			return nil
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "student id")
	cmd.Flags().StringVar(&subjectID, "subject", "", "subject id")
	cmd.Flags().StringVar(&term, "term", "", "term label, e.g. \"Term 1\"")
	cmd.Flags().IntVar(&score, "score", -1, "score between 0 and 100")
	for _, f := range []string{"student", "subject", "term", "score"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (cli *commandLine) feesCmd() *cobra.Command {
	var studentID string
	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Print the fee statement of a student",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := cli.deps.SchoolSvc.FeeStatement(cmd.Context(), studentID)
			if err != nil {
				return err
			}
			table := cli.table("Type", "Amount", "Status", "Date")
			for _, f := range st.Records {
				if err := table.Append(f.Type, cli.printer.Sprintf("KES %d", f.Amount), f.Status, f.Date.Format("2006-01-02")); err != nil {
					return err
				}
			}
			if err := table.Render(); err != nil {
				return err
			}
			cli.printf("Paid KES %d of KES %d (%d%%), balance KES %d\n", st.Paid, st.Total, st.PercentPaid, st.Balance)
			return nil
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "student id")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}

func (cli *commandLine) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami ROLE",
		Short: "Print the demo identity of a role (ADMIN, TEACHER, STUDENT, PARENT)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			usr, err := user.ResolveString(args[0])
			if err != nil {
				return err
			}
			cli.printf("%s %s <%s> %s\n", usr.ID, usr.Name, usr.Email, usr.Role.Name())
			return nil
		},
	}
}

func (cli *commandLine) insightsCmd() *cobra.Command {
	var studentID, classID, term string
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Generate the insights of a student or a class",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc := cli.deps.SchoolSvc
			switch {
			case studentID != "":
				s, err := svc.Student(ctx, studentID)
				if err != nil {
					return err
				}
				results, err := svc.ResultsForStudent(ctx, s.ID)
				if err != nil {
					return err
				}
				cli.printf("%s\n", cli.deps.InsightSvc.StudentInsights(ctx, cli.deps.Catalog, s, results).Text)
			case classID != "":
				cls, ok := cli.deps.Catalog.Class(classID)
				if !ok {
					return errors.Errorf("unknown class %q", classID)
				}
				if term == "" {
					term = cli.deps.Catalog.ReferenceTerm()
				}
				avg, err := svc.ClassAverage(ctx, cls.ID, term, "")
				if err != nil {
					return err
				}
				avgs, err := svc.SubjectAverages(ctx, cls.ID, term)
				if err != nil {
					return err
				}
				weak, strong := "N/A", "N/A"
				if s, w, ok := school.StrongestAndWeakest(avgs); ok {
					strong, weak = s.Name, w.Name
				}
				cli.printf("%s\n", cli.deps.InsightSvc.ClassInsights(ctx, cls.ID, cls.DisplayName(), avg, weak, strong).Text)
			default:
				_ = cmd.Usage()
				return errHelp
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "student id")
	cmd.Flags().StringVar(&classID, "class", "", "class id")
	cmd.Flags().StringVar(&term, "term", "", "term label for class insights (default: the reference term)")
	cmd.MarkFlagsMutuallyExclusive("student", "class")
	return cmd
}

func (cli *commandLine) overviewCmd() *cobra.Command {
	var term string
	var withInsights bool
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Print the school overview: totals, the school mean & the class averages of a term",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if term == "" {
				term = cli.deps.Catalog.ReferenceTerm()
			}
			if !cli.deps.Catalog.HasTerm(term) {
				return errors.Errorf("unknown term %q", term)
			}
			ov, err := cli.deps.SchoolSvc.SchoolOverview(ctx, term)
			if err != nil {
				return err
			}
			cli.printf("Total students: %d\nActive classes: %d\nSchool mean score: %d%%\n", ov.TotalStudents, ov.ActiveClasses, ov.SchoolMean)
			table := cli.table("Class", "Name", ov.Term+" average")
			for _, c := range ov.Classes {
				if err := table.Append(c.ClassID, c.Name, c.Average); err != nil {
					return err
				}
			}
			if err := table.Render(); err != nil {
				return err
			}
			if withInsights {
				weak, strong := "N/A", "N/A"
				if s, w, ok := school.StrongestAndWeakest(ov.Subjects); ok {
					strong, weak = s.Name, w.Name
				}
				cli.printf("%s\n", cli.deps.InsightSvc.SchoolInsights(ctx, ov.SchoolMean, weak, strong).Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&term, "term", "", "term of the class averages (default: the reference term)")
	cmd.Flags().BoolVar(&withInsights, "insights", false, "append the whole-school insights")
	return cmd
}
