package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/insight"
	"github.com/trezcool/shule/core/school"
)

type (
	schoolApi struct {
		svc      *school.Service
		insights *insight.Service
		metrics  *metrics
	}

	// TermQuery defaults to the reference term.
	TermQuery struct {
		Term    string `query:"term"`
		Subject string `query:"subject"`
	}

	// ResultRequest is checked here, before reaching the mutation layer.
	ResultRequest struct {
		StudentID string `json:"studentId" validate:"notblank,ident"`
		SubjectID string `json:"subjectId" validate:"notblank,ident"`
		Term      string `json:"term" validate:"notblank"`
		Score     *int   `json:"score" validate:"required,gte=0,lte=100"`
	}

	ClassAverageResponse struct {
		ClassID string `json:"classId"`
		Term    string `json:"term"`
		Subject string `json:"subject,omitempty"`
		Average int    `json:"average"`
	}
)

func registerSchoolAPI(g *echo.Group, svc *school.Service, insights *insight.Service, m *metrics) {
	api := schoolApi{svc: svc, insights: insights, metrics: m}

	g.GET("/catalog", api.catalog)
	g.GET("/overview", api.overview)
	g.GET("/overview/insights", api.schoolInsights)

	cg := g.Group("/classes/:id")
	cg.GET("/students", api.classStudents)
	cg.GET("/average", api.classAverage)
	cg.GET("/subjects", api.subjectAverages)
	cg.GET("/insights", api.classInsights)

	sg := g.Group("/students")
	sg.GET("/at-risk", api.atRisk)
	sg.GET("/:id", api.student)
	sg.GET("/:id/results", api.studentResults)
	sg.GET("/:id/fees", api.fees)
	sg.GET("/:id/insights", api.studentInsights)

	g.PUT("/results", api.upsertResult, staffMiddleware())
	g.GET("/users/:id/notifications", api.notifications)
}

func (api *schoolApi) cat() *catalog.Catalog { return api.svc.Catalog() }

func (api *schoolApi) class(ctx echo.Context) (catalog.ClassRoom, error) {
	cls, ok := api.cat().Class(ctx.Param("id"))
	if !ok {
		return catalog.ClassRoom{}, errHttpNotFound
	}
	return cls, nil
}

func (api *schoolApi) bindTerm(ctx echo.Context) (TermQuery, error) {
	var q TermQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &q); err != nil {
		return q, errors.Wrap(err, "binding to TermQuery")
	}
	q.Term = core.CleanString(q.Term)
	q.Subject = core.CleanString(q.Subject, true /* lower */)
	if q.Term == "" {
		q.Term = api.cat().ReferenceTerm()
	}
	if !api.cat().HasTerm(q.Term) {
		return q, core.NewValidationError(nil, core.FieldError{Field: "term", Error: "unknown term " + q.Term})
	}
	if _, ok := api.cat().Subject(q.Subject); q.Subject != "" && !ok {
		return q, core.NewValidationError(nil, core.FieldError{Field: "subject", Error: school.ErrSubjectNotFound.Error()})
	}
	return q, nil
}

// Handlers

func (api *schoolApi) catalog(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.cat())
}

func (api *schoolApi) classStudents(ctx echo.Context) error {
	cls, err := api.class(ctx)
	if err != nil {
		return err
	}
	students, err := api.svc.StudentsInClass(ctx.Request().Context(), cls.ID)
	if err != nil {
		return errors.Wrap(err, "querying class students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *schoolApi) classAverage(ctx echo.Context) error {
	cls, err := api.class(ctx)
	if err != nil {
		return err
	}
	q, err := api.bindTerm(ctx)
	if err != nil {
		return err
	}
	avg, err := api.svc.ClassAverage(ctx.Request().Context(), cls.ID, q.Term, q.Subject)
	if err != nil {
		return errors.Wrap(err, "computing class average")
	}
	return ctx.JSON(http.StatusOK, ClassAverageResponse{ClassID: cls.ID, Term: q.Term, Subject: q.Subject, Average: avg})
}

func (api *schoolApi) subjectAverages(ctx echo.Context) error {
	cls, err := api.class(ctx)
	if err != nil {
		return err
	}
	q, err := api.bindTerm(ctx)
	if err != nil {
		return err
	}
	avgs, err := api.svc.SubjectAverages(ctx.Request().Context(), cls.ID, q.Term)
	if err != nil {
		return errors.Wrap(err, "computing subject averages")
	}
	return ctx.JSON(http.StatusOK, avgs)
}

func (api *schoolApi) classInsights(ctx echo.Context) error {
	cls, err := api.class(ctx)
	if err != nil {
		return err
	}
	q, err := api.bindTerm(ctx)
	if err != nil {
		return err
	}
	c := ctx.Request().Context()
	avg, err := api.svc.ClassAverage(c, cls.ID, q.Term, "")
	if err != nil {
		return errors.Wrap(err, "computing class average")
	}
	avgs, err := api.svc.SubjectAverages(c, cls.ID, q.Term)
	if err != nil {
		return errors.Wrap(err, "computing subject averages")
	}
	weak, strong := "N/A", "N/A"
	if s, w, ok := school.StrongestAndWeakest(avgs); ok {
		strong, weak = s.Name, w.Name
	}
	return api.insight(ctx, "class", api.insights.ClassInsights(c, cls.ID, cls.DisplayName(), avg, weak, strong))
}

func (api *schoolApi) insight(ctx echo.Context, kind string, ins insight.Insight) error {
	api.metrics.observeInsight(kind, ins.Outcome)
	return ctx.JSON(http.StatusOK, ins)
}

func (api *schoolApi) overview(ctx echo.Context) error {
	q, err := api.bindTerm(ctx)
	if err != nil {
		return err
	}
	ov, err := api.svc.SchoolOverview(ctx.Request().Context(), q.Term)
	if err != nil {
		return errors.Wrap(err, "building school overview")
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (api *schoolApi) schoolInsights(ctx echo.Context) error {
	c := ctx.Request().Context()
	ov, err := api.svc.SchoolOverview(c, api.cat().ReferenceTerm())
	if err != nil {
		return errors.Wrap(err, "building school overview")
	}
	weak, strong := "N/A", "N/A"
	if s, w, ok := school.StrongestAndWeakest(ov.Subjects); ok {
		strong, weak = s.Name, w.Name
	}
	return api.insight(ctx, "school", api.insights.SchoolInsights(c, ov.SchoolMean, weak, strong))
}

func (api *schoolApi) atRisk(ctx echo.Context) error {
	report, err := api.svc.RiskReport(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "assessing risk")
	}
	return ctx.JSON(http.StatusOK, report)
}

func (api *schoolApi) student(ctx echo.Context) error {
	s, err := api.svc.Student(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *schoolApi) studentResults(ctx echo.Context) error {
	c := ctx.Request().Context()
	s, err := api.svc.Student(c, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting student")
	}
	results, err := api.svc.ResultsForStudent(c, s.ID)
	if err != nil {
		return errors.Wrap(err, "querying results")
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *schoolApi) fees(ctx echo.Context) error {
	st, err := api.svc.FeeStatement(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "building fee statement")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *schoolApi) studentInsights(ctx echo.Context) error {
	c := ctx.Request().Context()
	s, err := api.svc.Student(c, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting student")
	}
	results, err := api.svc.ResultsForStudent(c, s.ID)
	if err != nil {
		return errors.Wrap(err, "querying results")
	}
	return api.insight(ctx, "student", api.insights.StudentInsights(c, api.cat(), s, results))
}

func (api *schoolApi) upsertResult(ctx echo.Context) error {
	var data ResultRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResultRequest")
	}
	if err := core.ValidateStruct(data); err != nil {
		return err
	}
	result, err := api.svc.RecordScore(ctx.Request().Context(), data.StudentID, data.SubjectID, data.Term, *data.Score)
	if err != nil {
		return errors.Wrap(err, "recording score")
	}
	api.metrics.upserts.Inc()
	return ctx.JSON(http.StatusOK, result)
}

func (api *schoolApi) notifications(ctx echo.Context) error {
	notifs, err := api.svc.NotificationsFor(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	return ctx.JSON(http.StatusOK, notifs)
}
