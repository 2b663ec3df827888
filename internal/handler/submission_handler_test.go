package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/capstone-go-api/internal/config"
	"github.com/noah-isme/capstone-go-api/internal/dto"
	"github.com/noah-isme/capstone-go-api/internal/handler"
	"github.com/noah-isme/capstone-go-api/internal/lifecycle"
	"github.com/noah-isme/capstone-go-api/internal/models"
	"github.com/noah-isme/capstone-go-api/internal/repository"
	"github.com/noah-isme/capstone-go-api/internal/router"
	"github.com/noah-isme/capstone-go-api/internal/service"
)

var apiDeadline = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// stubAuth stands in for the JWT middleware and pins identity and role.
func stubAuth(userID uint, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("user_role", role)
		return c.Next()
	}
}

func newTestApp(t *testing.T, name, role string) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Grade{}, &models.Team{}, &models.TeamMember{}, &models.Task{}, &models.TaskSubmission{}, &models.Report{}))

	logger := zerolog.Nop()
	validate := validator.New(validator.WithRequiredStructEnabled())
	clock := lifecycle.FixedClock{Instant: apiDeadline.Add(-time.Hour)}

	taskRepo := repository.NewTaskRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	reportRepo := repository.NewReportRepository(db)

	taskService := service.NewTaskService(taskRepo, submissionRepo, teamRepo, clock, logger)
	submissionService := service.NewSubmissionService(submissionRepo, taskRepo, validate, clock, nil, logger)
	teamStatsService := service.NewTeamStatsService(taskRepo, submissionRepo, teamRepo, nil, time.Minute, clock, logger)
	reportService := service.NewReportService(reportRepo, validate, clock, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Capstone API Test"}, router.Dependencies{
		TaskHandler:       handler.NewTaskHandler(taskService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		TeamStatsHandler:  handler.NewTeamStatsHandler(teamStatsService, logger),
		ReportHandler:     handler.NewReportHandler(reportService, logger),
		JWTMiddleware:     stubAuth(42, role),
	})

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) (*http.Response, apiEnvelope) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	var envelope apiEnvelope
	require.NoError(t, json.Unmarshal(raw, &envelope))

	return resp, envelope
}

func seedGradeTask(t *testing.T, db *gorm.DB) models.Task {
	t.Helper()

	task := models.Task{GradeID: 1, Name: "Final Prototype", Deadline: apiDeadline}
	require.NoError(t, db.Create(&task).Error)

	return task
}

func TestSubmitReviewFlowOverHTTP(t *testing.T) {
	app, db := newTestApp(t, "api_submit_review", "teacher")
	task := seedGradeTask(t, db)

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/submissions", dto.SubmitTaskRequest{
		TaskID: task.ID,
		TeamID: 7,
		Link:   "https://example.com/repo",
		Note:   "first delivery",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)

	var submitted dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &submitted))
	require.Equal(t, models.StatusSubmittedOnTime, submitted.StatusCode)
	require.Equal(t, models.LabelSubmittedOnTime, submitted.Classification.Label)

	resp, envelope = doJSON(t, app, fiber.MethodPost,
		fmt.Sprintf("/api/v1/submissions/%d/review", submitted.ID),
		fiber.Map{"feedback": "well done"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reviewed dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &reviewed))
	require.Equal(t, models.StatusCompleted, reviewed.StatusCode)
	require.NotNil(t, reviewed.Feedback)

	// A second review of a decided submission conflicts.
	resp, envelope = doJSON(t, app, fiber.MethodPost,
		fmt.Sprintf("/api/v1/submissions/%d/review", submitted.ID), nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	require.False(t, envelope.Success)
	require.Equal(t, "submission is not awaiting review", envelope.Message)
}

func TestSubmitValidationOverHTTP(t *testing.T) {
	app, db := newTestApp(t, "api_submit_validation", "teacher")
	task := seedGradeTask(t, db)

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/submissions", dto.SubmitTaskRequest{
		TaskID: task.ID,
		TeamID: 7,
		Link:   "not a url",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.False(t, envelope.Success)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/submissions", dto.SubmitTaskRequest{
		TaskID: 404,
		TeamID: 7,
		Link:   "https://example.com/repo",
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestFeedbackUnknownSubmissionOverHTTP(t *testing.T) {
	app, _ := newTestApp(t, "api_feedback_missing", "teacher")

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/submissions/9999/feedback",
		fiber.Map{"feedback": "where is it"})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.Equal(t, "submission not found", envelope.Message)
}

func TestSubmissionDecisionsRequireReviewerRole(t *testing.T) {
	app, db := newTestApp(t, "api_reviewer_gate", "student")
	task := seedGradeTask(t, db)

	// Submitting stays open to authenticated team leaders.
	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/submissions", dto.SubmitTaskRequest{
		TaskID: task.ID,
		TeamID: 7,
		Link:   "https://example.com/repo",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var submitted dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &submitted))

	// Listing and deciding submissions are reviewer operations.
	resp, envelope = doJSON(t, app, fiber.MethodGet, "/api/v1/submissions", nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Equal(t, "insufficient permissions", envelope.Message)

	resp, _ = doJSON(t, app, fiber.MethodPost,
		fmt.Sprintf("/api/v1/submissions/%d/review", submitted.ID), nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost,
		fmt.Sprintf("/api/v1/submissions/%d/reject", submitted.ID), nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost,
		fmt.Sprintf("/api/v1/submissions/%d/feedback", submitted.ID),
		fiber.Map{"feedback": "self serve"})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var stored models.TaskSubmission
	require.NoError(t, db.First(&stored, submitted.ID).Error)
	require.Equal(t, models.StatusSubmittedOnTime, stored.StatusCode)
	require.Nil(t, stored.Feedback)
}

func TestListSubmissionsRejectsMalformedFilters(t *testing.T) {
	app, db := newTestApp(t, "api_list_filters", "teacher")
	task := seedGradeTask(t, db)

	submission := models.TaskSubmission{TaskID: task.ID, TeamID: 7, TeamLeaderID: 42, Link: "https://example.com/repo", StatusCode: models.StatusSubmittedOnTime}
	require.NoError(t, db.Create(&submission).Error)

	for _, query := range []string{"team_id=abc", "task_id=abc", "status_code=late"} {
		resp, envelope := doJSON(t, app, fiber.MethodGet, "/api/v1/submissions?"+query, nil)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode, query)
		require.False(t, envelope.Success)
	}

	resp, envelope := doJSON(t, app, fiber.MethodGet,
		fmt.Sprintf("/api/v1/submissions?team_id=%d", submission.TeamID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listed []dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &listed))
	require.Len(t, listed, 1)
}

func TestStudentTasksOverHTTP(t *testing.T) {
	app, db := newTestApp(t, "api_student_tasks", "student")
	task := seedGradeTask(t, db)

	team := models.Team{GradeID: task.GradeID, Name: "Team Alpha"}
	require.NoError(t, db.Create(&team).Error)
	require.NoError(t, db.Create(&models.TeamMember{TeamID: team.ID, AccountID: 42, IsLeader: true}).Error)

	resp, envelope := doJSON(t, app, fiber.MethodGet, "/api/v1/tasks/student", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var tasks []dto.TaskResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &tasks))
	require.Len(t, tasks, 1)
	require.Equal(t, models.LabelPending, tasks[0].Classification.Label)
}

func TestTeamTaskGridOverHTTP(t *testing.T) {
	app, db := newTestApp(t, "api_team_grid", "teacher")
	task := seedGradeTask(t, db)

	team := models.Team{GradeID: task.GradeID, Name: "Team Alpha"}
	require.NoError(t, db.Create(&team).Error)

	resp, envelope := doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/v1/teams/%d/task-grid", team.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var grid dto.TeamTaskGrid
	require.NoError(t, json.Unmarshal(envelope.Data, &grid))
	require.Equal(t, 1, grid.TotalTasks)
	require.Equal(t, 1, grid.Pending)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/teams/404/task-grid", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestReportConfirmRequiresReviewerRole(t *testing.T) {
	app, db := newTestApp(t, "api_report_confirm", "teacher")

	report := models.Report{AccountID: 8, Title: "Week 1", Body: "kickoff done"}
	require.NoError(t, db.Create(&report).Error)

	resp, envelope := doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/v1/reports/%d/confirm", report.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var confirmed dto.ReportResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &confirmed))
	require.Equal(t, models.ReportStatusConfirmed, confirmed.StatusCode)

	studentApp, studentDB := newTestApp(t, "api_report_confirm_student", "student")
	studentReport := models.Report{AccountID: 8, Title: "Week 1", Body: "kickoff done"}
	require.NoError(t, studentDB.Create(&studentReport).Error)

	resp, envelope = doJSON(t, studentApp, fiber.MethodPost, fmt.Sprintf("/api/v1/reports/%d/confirm", studentReport.ID), nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Equal(t, "insufficient permissions", envelope.Message)
}

func TestConfirmAllOverHTTP(t *testing.T) {
	app, db := newTestApp(t, "api_confirm_all", "admin")

	for i := 0; i < 2; i++ {
		report := models.Report{AccountID: 8, Title: "Weekly Progress", Body: "all on track"}
		require.NoError(t, db.Create(&report).Error)
	}

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/reports/confirm-all",
		dto.ConfirmAllReportsRequest{AccountID: 8})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result dto.ConfirmAllReportsResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &result))
	require.Len(t, result.Succeeded, 2)
	require.Empty(t, result.Failed)
}
