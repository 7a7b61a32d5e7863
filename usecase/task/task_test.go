package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/backend/domain"
)

type taskKey struct {
	projectID string
	taskID    string
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[taskKey]domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[taskKey]domain.Task)}
}

func (r *fakeTaskRepo) GetByID(_ context.Context, projectID, taskID string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[taskKey{projectID, taskID}]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

func (r *fakeTaskRepo) ListByProject(_ context.Context, projectID string) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tasks []domain.Task
	for key, task := range r.tasks {
		if key.projectID == projectID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.CreatedAt = time.Now()
	r.tasks[taskKey{task.ProjectID, task.ID}] = *task
	return task, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := taskKey{task.ProjectID, task.ID}
	if _, ok := r.tasks[key]; !ok {
		return domain.ErrTaskNotFound
	}
	r.tasks[key] = *task
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, projectID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := taskKey{projectID, taskID}
	if _, ok := r.tasks[key]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, key)
	return nil
}

func (r *fakeTaskRepo) DeleteOrphans(context.Context) (int64, error) {
	return 0, nil
}

// fakeAuthorizer owns a fixed project-to-user mapping.
type fakeAuthorizer struct {
	owners map[string]string
}

func (a *fakeAuthorizer) Authorize(_ context.Context, userID, projectID string) (*domain.Project, error) {
	owner, ok := a.owners[projectID]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	if owner != userID {
		return nil, domain.ErrNotProjectOwner
	}
	return &domain.Project{ID: projectID, UserID: owner}, nil
}

func newTestUseCase() (*UseCase, *fakeTaskRepo) {
	repo := newFakeTaskRepo()
	authorizer := &fakeAuthorizer{owners: map[string]string{
		"p1": "u1",
		"p2": "u1",
		"p3": "u2",
	}}
	return New(repo, authorizer, nil), repo
}

func validInput() CreateInput {
	return CreateInput{Title: "Write docs", Description: "cover the API"}
}

func TestCreateDefaultsStatus(t *testing.T) {
	uc, _ := newTestUseCase()

	task, err := uc.Create(context.Background(), "u1", "p1", validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusToDo, task.Status)
	assert.Nil(t, task.CompletedAt)
	assert.False(t, task.CreatedAt.After(time.Now()))
}

func TestCreateCompletedStampsImmediately(t *testing.T) {
	uc, _ := newTestUseCase()

	before := time.Now()
	input := validInput()
	input.Status = domain.StatusCompleted
	task, err := uc.Create(context.Background(), "u1", "p1", input)
	require.NoError(t, err)

	require.NotNil(t, task.CompletedAt)
	assert.False(t, task.CompletedAt.Before(before))
	assert.False(t, task.CompletedAt.After(time.Now()))
}

func TestCreateValidation(t *testing.T) {
	uc, _ := newTestUseCase()

	input := validInput()
	input.Title = "   "
	_, err := uc.Create(context.Background(), "u1", "p1", input)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	input = validInput()
	input.Status = domain.TaskStatus("Done")
	_, err = uc.Create(context.Background(), "u1", "p1", input)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestCompletionStampIsMonotonic(t *testing.T) {
	uc, _ := newTestUseCase()

	task, err := uc.Create(context.Background(), "u1", "p1", validInput())
	require.NoError(t, err)

	completed := domain.StatusCompleted
	updated, err := uc.Update(context.Background(), "u1", "p1", task.ID, Changes{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	stamp := *updated.CompletedAt

	// Leaving Completed keeps the stamp.
	inProgress := domain.StatusInProgress
	updated, err = uc.Update(context.Background(), "u1", "p1", task.ID, Changes{Status: &inProgress})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, stamp, *updated.CompletedAt)

	// Completing again does not move it.
	updated, err = uc.Update(context.Background(), "u1", "p1", task.ID, Changes{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, stamp, *updated.CompletedAt)

	// Re-saving while Completed does not move it either.
	title := "Write better docs"
	updated, err = uc.Update(context.Background(), "u1", "p1", task.ID, Changes{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, stamp, *updated.CompletedAt)
}

func TestPartialUpdateKeepsOmittedFields(t *testing.T) {
	uc, _ := newTestUseCase()

	task, err := uc.Create(context.Background(), "u1", "p1", validInput())
	require.NoError(t, err)

	title := "Rewrite docs"
	updated, err := uc.Update(context.Background(), "u1", "p1", task.ID, Changes{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Rewrite docs", updated.Title)
	assert.Equal(t, "cover the API", updated.Description)
	assert.Equal(t, domain.StatusToDo, updated.Status)

	empty := ""
	_, err = uc.Update(context.Background(), "u1", "p1", task.ID, Changes{Title: &empty})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestTaskScopedToProject(t *testing.T) {
	uc, _ := newTestUseCase()

	task, err := uc.Create(context.Background(), "u1", "p1", validInput())
	require.NoError(t, err)

	// The id is real, but p2 is the wrong scope: answers not-found.
	_, err = uc.Get(context.Background(), "u1", "p2", task.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	status := domain.StatusCompleted
	_, err = uc.Update(context.Background(), "u1", "p2", task.ID, Changes{Status: &status})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	err = uc.Delete(context.Background(), "u1", "p2", task.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestOwnershipIsTransitive(t *testing.T) {
	uc, _ := newTestUseCase()

	task, err := uc.Create(context.Background(), "u1", "p1", validInput())
	require.NoError(t, err)

	// u2 does not own p1, so every operation answers forbidden even with
	// correct ids.
	_, err = uc.Get(context.Background(), "u2", "p1", task.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))

	_, err = uc.List(context.Background(), "u2", "p1")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))

	err = uc.Delete(context.Background(), "u2", "p1", task.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))

	// A project unknown to the authorizer answers not-found.
	_, err = uc.List(context.Background(), "u1", "p9")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestListReturnsProjectTasks(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.Create(context.Background(), "u1", "p1", validInput())
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), "u1", "p1", CreateInput{Title: "Ship it", Description: "release"})
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), "u1", "p2", CreateInput{Title: "Other project", Description: "elsewhere"})
	require.NoError(t, err)

	tasks, err := uc.List(context.Background(), "u1", "p1")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}
