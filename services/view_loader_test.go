package services_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/mga-portal/database"
	"github.com/mga-portal/database/mocks"
	"github.com/mga-portal/models"
	"github.com/mga-portal/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func at(hours int) time.Time {
	return base.Add(time.Duration(hours) * time.Hour)
}

func stamp(hours int) models.Timestamp {
	return models.NewTimestamp(at(hours))
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

// backendReturning makes the mock store answer every fetch with a fresh copy of rows.
func backendReturning[T any](rows []T) *mocks.RecordStore {
	store := &mocks.RecordStore{}
	store.On("FetchCollection", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(3).(*[]T) = append([]T(nil), rows...)
		}).
		Return(nil)
	return store
}

func backendFailing(err error) *mocks.RecordStore {
	store := &mocks.RecordStore{}
	store.On("FetchCollection", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(err)
	return store
}

func TestProjectService_NewestFirst(t *testing.T) {
	store := backendReturning([]models.Project{
		{ID: "p1", CreatedAt: stamp(1)},
		{ID: "p3", CreatedAt: stamp(3)},
		{ID: "p2", CreatedAt: stamp(2)},
	})

	page := services.NewProjectService(store, nil).ListProjects(context.Background())
	require.Len(t, page.Projects, 3)
	require.Equal(t, at(3), page.Projects[0].CreatedAt.Time)
	require.Equal(t, at(2), page.Projects[1].CreatedAt.Time)
	require.Equal(t, at(1), page.Projects[2].CreatedAt.Time)
}

func TestTaskService_OpenFirstThenNewest(t *testing.T) {
	store := backendReturning([]models.Task{
		{ID: "a", IsDone: false, CreatedAt: stamp(2)},
		{ID: "b", IsDone: true, CreatedAt: stamp(4)},
		{ID: "c", IsDone: false, CreatedAt: stamp(1)},
		{ID: "d", IsDone: true, CreatedAt: stamp(3)},
	})

	page := services.NewTaskService(store, nil).ListTasks(context.Background())
	require.Len(t, page.Tasks, 4)

	type key struct {
		done bool
		at   time.Time
	}
	got := make([]key, 0, len(page.Tasks))
	for _, task := range page.Tasks {
		got = append(got, key{task.IsDone, task.CreatedAt.Time})
	}
	require.Equal(t, []key{{false, at(2)}, {false, at(1)}, {true, at(4)}, {true, at(3)}}, got)
}

func TestProjectService_PermissionDeniedServesEmpty(t *testing.T) {
	logger, logs := bufferLogger()
	store := backendFailing(&database.Failure{Status: 401, Code: "42501", Message: "permission denied for table projects"})
	svc := services.NewProjectService(store, logger)

	projects := svc.ListProjects(context.Background()).Projects
	require.NotNil(t, projects)
	require.Empty(t, projects)

	require.Contains(t, logs.String(), "level=ERROR")
	require.Contains(t, logs.String(), "source=projects")
	require.Contains(t, logs.String(), "code=42501")
	require.Contains(t, logs.String(), "permission denied for table projects")
}

func TestTaskService_FailureServesEmpty(t *testing.T) {
	failures := []error{
		errors.New("dial tcp: lookup abcdefgh.supabase.co: no such host"),
		&database.Failure{Status: 403, Code: "42501", Message: "permission denied for view tasks_with_projects"},
		&database.Failure{Status: 404, Code: "42P01", Message: `relation "public.tasks_with_projects" does not exist`},
		context.DeadlineExceeded,
	}

	for _, failure := range failures {
		logger, logs := bufferLogger()
		svc := services.NewTaskService(backendFailing(failure), logger)

		tasks := svc.ListTasks(context.Background()).Tasks
		require.NotNil(t, tasks)
		require.Empty(t, tasks)
		require.Contains(t, logs.String(), "source=tasks_with_projects")
	}
}

func TestViewLoader_FetchKeepsFailureVisible(t *testing.T) {
	store := backendFailing(errors.New("permission denied"))
	svc := services.NewTaskService(store, slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil)))

	result := svc.FetchTasks(context.Background())
	require.False(t, result.OK())
	require.Equal(t, "tasks_with_projects", result.Failure.Source)
	require.Equal(t, "permission denied", result.Failure.Message)
}

func TestViewLoader_SuccessDoesNotLog(t *testing.T) {
	logger, logs := bufferLogger()
	store := backendReturning([]models.Project{{ID: "p1", CreatedAt: stamp(1)}})

	result := services.NewProjectService(store, logger).FetchProjects(context.Background())
	require.True(t, result.OK())
	require.Len(t, result.Records, 1)
	require.Empty(t, logs.String())
}

func TestViewLoader_Idempotent(t *testing.T) {
	store := backendReturning([]models.Task{
		{ID: "a", IsDone: true, CreatedAt: stamp(5)},
		{ID: "b", IsDone: false, CreatedAt: stamp(1)},
		{ID: "c", IsDone: false, CreatedAt: stamp(7)},
	})
	svc := services.NewTaskService(store, nil)

	first := svc.ListTasks(context.Background())
	second := svc.ListTasks(context.Background())
	require.Equal(t, first, second)
	store.AssertNumberOfCalls(t, "FetchCollection", 2)
}

func TestProjectService_OrderProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		rows := make([]models.Project, 1+rng.Intn(20))
		for i := range rows {
			rows[i] = models.Project{ID: models.RecordID(rune('a' + i)), CreatedAt: stamp(rng.Intn(10))}
		}

		projects := services.NewProjectService(backendReturning(rows), nil).ListProjects(context.Background()).Projects
		require.Len(t, projects, len(rows))
		for i := 1; i < len(projects); i++ {
			require.False(t, projects[i].CreatedAt.After(projects[i-1].CreatedAt.Time))
		}
	}
}

func TestTaskService_OrderProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		rows := make([]models.Task, 1+rng.Intn(20))
		for i := range rows {
			rows[i] = models.Task{ID: models.RecordID(rune('a' + i)), IsDone: rng.Intn(2) == 1, CreatedAt: stamp(rng.Intn(10))}
		}

		tasks := services.NewTaskService(backendReturning(rows), nil).ListTasks(context.Background()).Tasks
		require.Len(t, tasks, len(rows))
		for i := 1; i < len(tasks); i++ {
			prev, cur := tasks[i-1], tasks[i]
			require.False(t, prev.IsDone && !cur.IsDone, "finished task listed before an open one")
			if prev.IsDone == cur.IsDone {
				require.False(t, cur.CreatedAt.After(prev.CreatedAt.Time))
			}
		}
	}
}
