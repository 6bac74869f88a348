package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorly/tutor-api/internal/dto"
	"github.com/tutorly/tutor-api/internal/models"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
	"github.com/tutorly/tutor-api/pkg/storage"
)

type fakeSubjectRepo struct {
	subjects  []models.Subject
	resources []models.LessonResource

	createdSubject  *models.Subject
	createdResource *models.LessonResource
	calls           []string

	listResourcesErr error
	createResErr     error
}

func (f *fakeSubjectRepo) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return f.subjects, nil
}

func (f *fakeSubjectRepo) FindSubject(ctx context.Context, id string) (*models.Subject, error) {
	for i := range f.subjects {
		if f.subjects[i].ID == id {
			return &f.subjects[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSubjectRepo) CreateSubject(ctx context.Context, subject *models.Subject) error {
	subject.ID = "sub-new"
	f.createdSubject = subject
	return nil
}

func (f *fakeSubjectRepo) DeleteSubject(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete subject")
	return nil
}

func (f *fakeSubjectRepo) ListResources(ctx context.Context, subjectID string) ([]models.LessonResource, error) {
	if f.listResourcesErr != nil {
		return nil, f.listResourcesErr
	}
	if subjectID == "" {
		return f.resources, nil
	}
	var out []models.LessonResource
	for _, r := range f.resources {
		if r.SubjectID == subjectID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSubjectRepo) FindResource(ctx context.Context, id string) (*models.LessonResource, error) {
	for i := range f.resources {
		if f.resources[i].ID == id {
			return &f.resources[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSubjectRepo) CreateResource(ctx context.Context, resource *models.LessonResource) error {
	if f.createResErr != nil {
		return f.createResErr
	}
	resource.ID = "res-new"
	f.createdResource = resource
	return nil
}

func (f *fakeSubjectRepo) DeleteResource(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete resource")
	return nil
}

func (f *fakeSubjectRepo) DeleteResourcesBySubject(ctx context.Context, subjectID string) error {
	f.calls = append(f.calls, "delete resources")
	return nil
}

const testSubjectID = "6f1c8a2e-9d34-4b7a-8f2e-1a2b3c4d5e6f"

func newSubjectFixture(t *testing.T, repo *fakeSubjectRepo) (*SubjectService, *storage.BucketStorage) {
	t.Helper()
	store, err := storage.NewBucketStorage(t.TempDir())
	require.NoError(t, err)
	return NewSubjectService(repo, store, nil, zap.NewNop()), store
}

func TestSubjectServiceCreateSubject(t *testing.T) {
	repo := &fakeSubjectRepo{}
	svc, _ := newSubjectFixture(t, repo)

	subject, err := svc.CreateSubject(context.Background(), dto.CreateSubjectRequest{
		Name:       "Mathematics",
		Objectives: []string{"algebra", "geometry"},
	})

	require.NoError(t, err)
	assert.Equal(t, "sub-new", subject.ID)
	assert.Equal(t, "Mathematics", repo.createdSubject.Name)
	assert.Equal(t, []string{"algebra", "geometry"}, []string(repo.createdSubject.Objectives))
}

func TestSubjectServiceCreateSubjectValidation(t *testing.T) {
	repo := &fakeSubjectRepo{}
	svc, _ := newSubjectFixture(t, repo)

	_, err := svc.CreateSubject(context.Background(), dto.CreateSubjectRequest{})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.createdSubject)
}

func TestSubjectServiceListSubjects(t *testing.T) {
	repo := &fakeSubjectRepo{subjects: []models.Subject{{ID: testSubjectID, Name: "Physics"}}}
	svc, _ := newSubjectFixture(t, repo)

	subjects, err := svc.ListSubjects(context.Background())

	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Physics", subjects[0].Name)
}

func TestSubjectServiceDeleteSubjectCascade(t *testing.T) {
	repo := &fakeSubjectRepo{subjects: []models.Subject{{ID: testSubjectID}}}
	svc, store := newSubjectFixture(t, repo)

	stored, err := store.Save(storage.BucketResources, testSubjectID+"/notes.pdf", []byte("notes"))
	require.NoError(t, err)
	repo.resources = []models.LessonResource{
		{ID: "r1", SubjectID: testSubjectID, FileURL: &stored},
		{ID: "r2", SubjectID: testSubjectID},
	}

	err = svc.DeleteSubject(context.Background(), testSubjectID)

	require.NoError(t, err)
	assert.Equal(t, []string{"delete resources", "delete subject"}, repo.calls)
	_, err = store.Read(storage.BucketResources, stored)
	assert.Error(t, err)
}

func TestSubjectServiceDeleteSubjectNotFound(t *testing.T) {
	repo := &fakeSubjectRepo{}
	svc, _ := newSubjectFixture(t, repo)

	err := svc.DeleteSubject(context.Background(), testSubjectID)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.calls)
}

func TestSubjectServiceDeleteSubjectStopsOnListFailure(t *testing.T) {
	repo := &fakeSubjectRepo{
		subjects:         []models.Subject{{ID: testSubjectID}},
		listResourcesErr: errors.New("db down"),
	}
	svc, _ := newSubjectFixture(t, repo)

	err := svc.DeleteSubject(context.Background(), testSubjectID)

	require.Error(t, err)
	assert.Empty(t, repo.calls)
}

func TestSubjectServiceCreateResourceWithFile(t *testing.T) {
	repo := &fakeSubjectRepo{subjects: []models.Subject{{ID: testSubjectID}}}
	svc, store := newSubjectFixture(t, repo)

	resource, err := svc.CreateResource(context.Background(), dto.CreateResourceRequest{
		SubjectID: testSubjectID,
		Title:     "Worksheet",
		Tags:      []string{"practice"},
	}, "Worksheet.PDF", []byte("worksheet body"))

	require.NoError(t, err)
	require.NotNil(t, resource.FileURL)
	assert.Contains(t, *resource.FileURL, testSubjectID+"/")
	assert.Contains(t, *resource.FileURL, ".pdf")

	data, err := store.Read(storage.BucketResources, *resource.FileURL)
	require.NoError(t, err)
	assert.Equal(t, []byte("worksheet body"), data)
}

func TestSubjectServiceCreateResourceLinkOnly(t *testing.T) {
	repo := &fakeSubjectRepo{subjects: []models.Subject{{ID: testSubjectID}}}
	svc, _ := newSubjectFixture(t, repo)

	resource, err := svc.CreateResource(context.Background(), dto.CreateResourceRequest{
		SubjectID: testSubjectID,
		Title:     "Reading list",
	}, "", nil)

	require.NoError(t, err)
	assert.Nil(t, resource.FileURL)
	assert.Equal(t, "res-new", resource.ID)
}

func TestSubjectServiceCreateResourceUnknownSubject(t *testing.T) {
	repo := &fakeSubjectRepo{}
	svc, _ := newSubjectFixture(t, repo)

	_, err := svc.CreateResource(context.Background(), dto.CreateResourceRequest{
		SubjectID: testSubjectID,
		Title:     "Orphan",
	}, "", nil)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubjectServiceCreateResourceCleansUpOrphanFile(t *testing.T) {
	repo := &fakeSubjectRepo{
		subjects:     []models.Subject{{ID: testSubjectID}},
		createResErr: errors.New("insert failed"),
	}
	baseDir := t.TempDir()
	store, err := storage.NewBucketStorage(baseDir)
	require.NoError(t, err)
	svc := NewSubjectService(repo, store, nil, zap.NewNop())

	_, err = svc.CreateResource(context.Background(), dto.CreateResourceRequest{
		SubjectID: testSubjectID,
		Title:     "Doomed",
	}, "doomed.txt", []byte("payload"))

	require.Error(t, err)
	entries, readErr := os.ReadDir(filepath.Join(baseDir, storage.BucketResources, testSubjectID))
	if readErr == nil {
		assert.Empty(t, entries)
	}
}

func TestSubjectServiceReadResourceFile(t *testing.T) {
	repo := &fakeSubjectRepo{subjects: []models.Subject{{ID: testSubjectID}}}
	svc, store := newSubjectFixture(t, repo)

	stored, err := store.Save(storage.BucketResources, testSubjectID+"/sheet.csv", []byte("a,b"))
	require.NoError(t, err)
	repo.resources = []models.LessonResource{{ID: "r1", SubjectID: testSubjectID, Title: "Sheet", FileURL: &stored}}

	resource, data, err := svc.ReadResourceFile(context.Background(), "r1")

	require.NoError(t, err)
	assert.Equal(t, "Sheet", resource.Title)
	assert.Equal(t, []byte("a,b"), data)
}

func TestSubjectServiceReadResourceFileMissing(t *testing.T) {
	repo := &fakeSubjectRepo{}
	svc, _ := newSubjectFixture(t, repo)

	_, _, err := svc.ReadResourceFile(context.Background(), "nope")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubjectServiceReadResourceFileLinkOnly(t *testing.T) {
	repo := &fakeSubjectRepo{resources: []models.LessonResource{{ID: "r1", SubjectID: testSubjectID}}}
	svc, _ := newSubjectFixture(t, repo)

	_, _, err := svc.ReadResourceFile(context.Background(), "r1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubjectServiceDeleteResource(t *testing.T) {
	repo := &fakeSubjectRepo{}
	svc, store := newSubjectFixture(t, repo)

	stored, err := store.Save(storage.BucketResources, testSubjectID+"/old.png", []byte{1, 2})
	require.NoError(t, err)
	repo.resources = []models.LessonResource{{ID: "r1", SubjectID: testSubjectID, FileURL: &stored}}

	err = svc.DeleteResource(context.Background(), "r1")

	require.NoError(t, err)
	assert.Equal(t, []string{"delete resource"}, repo.calls)
	_, err = store.Read(storage.BucketResources, stored)
	assert.Error(t, err)
}

func TestSubjectServiceDeleteResourceNotFound(t *testing.T) {
	repo := &fakeSubjectRepo{}
	svc, _ := newSubjectFixture(t, repo)

	err := svc.DeleteResource(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
