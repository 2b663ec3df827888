package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/capstone-go-api/internal/models"
	"github.com/noah-isme/capstone-go-api/internal/repository"
)

func newTestTaskService(db *gorm.DB, clock *stepClock) TaskService {
	return NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewTeamRepository(db),
		clock, zerolog.Nop(),
	)
}

func TestTasksForStudentResolvesTeamMembership(t *testing.T) {
	db := openTestDB(t, "tasks_for_student")
	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	clock := &stepClock{now: now}
	svc := newTestTaskService(db, clock)
	ctx := context.Background()

	team := models.Team{GradeID: 1, Name: "Team Alpha"}
	require.NoError(t, db.Create(&team).Error)
	member := models.TeamMember{TeamID: team.ID, AccountID: 42, IsLeader: true}
	require.NoError(t, db.Create(&member).Error)

	early := models.Task{GradeID: 1, Name: "Proposal", Deadline: now.Add(-48 * time.Hour)}
	require.NoError(t, db.Create(&early).Error)
	late := models.Task{GradeID: 1, Name: "Final Demo", Deadline: now.Add(48 * time.Hour)}
	require.NoError(t, db.Create(&late).Error)
	otherGrade := models.Task{GradeID: 2, Name: "Other Grade", Deadline: now}
	require.NoError(t, db.Create(&otherGrade).Error)

	submission := models.TaskSubmission{TaskID: early.ID, TeamID: team.ID, TeamLeaderID: 42, Link: "https://example.com/repo", StatusCode: models.StatusSubmittedOnTime}
	require.NoError(t, db.Create(&submission).Error)

	tasks, err := svc.TasksForStudent(ctx, 42)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	// Deadline-ascending order: the submitted task first.
	require.Equal(t, early.ID, tasks[0].ID)
	require.NotNil(t, tasks[0].SubmissionID)
	require.Equal(t, submission.ID, *tasks[0].SubmissionID)
	require.Equal(t, models.LabelSubmittedOnTime, tasks[0].Classification.Label)

	require.Equal(t, late.ID, tasks[1].ID)
	require.Nil(t, tasks[1].SubmissionID)
	require.Equal(t, models.LabelPending, tasks[1].Classification.Label)
}

func TestTasksForStudentWithoutTeam(t *testing.T) {
	db := openTestDB(t, "tasks_no_team")
	clock := &stepClock{now: time.Now().UTC()}
	svc := newTestTaskService(db, clock)

	_, err := svc.TasksForStudent(context.Background(), 77)
	require.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTasksForTeamMarksOverdueWithoutSubmission(t *testing.T) {
	db := openTestDB(t, "tasks_for_team")
	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	clock := &stepClock{now: now}
	svc := newTestTaskService(db, clock)
	ctx := context.Background()

	team := models.Team{GradeID: 1, Name: "Team Beta"}
	require.NoError(t, db.Create(&team).Error)
	task := models.Task{GradeID: 1, Name: "Proposal", Deadline: now.Add(-time.Hour)}
	require.NoError(t, db.Create(&task).Error)

	tasks, err := svc.TasksForTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, models.LabelDeadlinePassed, tasks[0].Classification.Label)
	require.True(t, tasks[0].Classification.IsLate)

	_, err = svc.TasksForTeam(ctx, 404)
	require.ErrorIs(t, err, ErrTeamNotFound)
}
