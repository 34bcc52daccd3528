package repositories_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mga-portal/database"
	"github.com/mga-portal/database/mocks"
	"github.com/mga-portal/models"
	"github.com/mga-portal/repositories"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProjectRepository_QueryDefinition(t *testing.T) {
	ctx := context.Background()
	store := &mocks.RecordStore{}
	store.On("FetchCollection", ctx, "projects", database.OrderSpec{database.Desc("created_at")}, mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(3).(*[]models.Project) = []models.Project{{ID: "p1", Name: "Haus Berger"}}
		}).
		Return(nil)

	repo := repositories.NewProjectRepository(store)
	require.Equal(t, "projects", repo.Source())
	require.Equal(t, "created_at.desc", repo.Order().String())

	result := repo.FindAll(ctx)
	require.True(t, result.OK())
	require.Equal(t, []models.Project{{ID: "p1", Name: "Haus Berger"}}, result.Records)
	store.AssertExpectations(t)
}

func TestTaskRepository_QueryDefinition(t *testing.T) {
	ctx := context.Background()
	store := &mocks.RecordStore{}
	store.On("FetchCollection", ctx, "tasks_with_projects",
		database.OrderSpec{database.Asc("is_done"), database.Desc("created_at")}, mock.Anything).
		Return(nil)

	repo := repositories.NewTaskRepository(store)
	require.Equal(t, "tasks_with_projects", repo.Source())
	require.Equal(t, "is_done.asc,created_at.desc", repo.Order().String())

	result := repo.FindAll(ctx)
	require.True(t, result.OK())
	require.Empty(t, result.Records)
	store.AssertExpectations(t)
}

func TestCollectionRepository_Failure(t *testing.T) {
	ctx := context.Background()
	store := &mocks.RecordStore{}
	store.On("FetchCollection", ctx, "projects", mock.Anything, mock.Anything).
		Return(errors.New("permission denied"))

	result := repositories.NewProjectRepository(store).FindAll(ctx)
	require.False(t, result.OK())
	require.Equal(t, "projects", result.Failure.Source)
	require.Equal(t, "permission denied", result.Failure.Message)
}
