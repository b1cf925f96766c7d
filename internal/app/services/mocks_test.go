package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/repositories"
	"github.com/yigit/clubsite/internal/pkg/filestorage"
)

const testMediaBase = "http://media.club.test/uploads"

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

// memoryStore is an in-memory MediaStore
type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads int

	// failAt makes the nth upload (1-based) and every later one fail
	failAt     int
	deleteErrs map[string]error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, deleteErrs: map[string]error{}}
}

func (s *memoryStore) Upload(_ context.Context, folder filestorage.Folder, originalName string, r io.Reader, _ int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.uploads++
	if s.failAt > 0 && s.uploads >= s.failAt {
		return "", errors.New("remote unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d-%s", s.uploads, originalName)
	s.objects[string(folder)+"/"+name] = data
	return s.PublicURL(folder, name), nil
}

func (s *memoryStore) Delete(_ context.Context, folder filestorage.Folder, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := string(folder) + "/" + name
	if err := s.deleteErrs[key]; err != nil {
		return err
	}
	delete(s.objects, key)
	return nil
}

func (s *memoryStore) PublicURL(folder filestorage.Folder, name string) string {
	return testMediaBase + "/" + string(folder) + "/" + name
}

func (s *memoryStore) stored() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	urls := make([]string, 0, len(s.objects))
	for key := range s.objects {
		urls = append(urls, testMediaBase+"/"+key)
	}
	return urls
}

type mockCleanupRepo struct {
	mock.Mock
}

func (m *mockCleanupRepo) Enqueue(ctx context.Context, urls ...string) error {
	args := m.Called(ctx, urls)
	return args.Error(0)
}

func (m *mockCleanupRepo) ClaimPending(ctx context.Context, maxAttempts, limit int, lease time.Duration) ([]*models.MediaCleanupTask, error) {
	args := m.Called(ctx, maxAttempts, limit, lease)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MediaCleanupTask), args.Error(1)
}

func (m *mockCleanupRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCleanupRepo) MarkFailed(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

// queued flattens every URL passed to Enqueue
func (m *mockCleanupRepo) queued() []string {
	var urls []string
	for _, call := range m.Calls {
		if call.Method == "Enqueue" {
			urls = append(urls, call.Arguments.Get(1).([]string)...)
		}
	}
	return urls
}

type mockMembershipRepo struct {
	mock.Mock
}

func (m *mockMembershipRepo) Create(ctx context.Context, a *models.MembershipApplication) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMembershipRepo) List(ctx context.Context, status string, offset uint64, limit int) ([]*models.MembershipApplication, int64, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.MembershipApplication), args.Get(1).(int64), args.Error(2)
}

func (m *mockMembershipRepo) UpdateStatus(ctx context.Context, id int64, status models.MembershipStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockMembershipRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockContactRepo struct {
	mock.Mock
}

func (m *mockContactRepo) Create(ctx context.Context, c *models.ContactMessage) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockContactRepo) List(ctx context.Context, status string, offset uint64, limit int) ([]*models.ContactMessage, int64, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.ContactMessage), args.Get(1).(int64), args.Error(2)
}

func (m *mockContactRepo) UpdateStatus(ctx context.Context, id int64, status models.ContactStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockContactRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyContactMessage(ctx context.Context, name, fromEmail, subject, message string) error {
	return m.Called(ctx, name, fromEmail, subject, message).Error(0)
}

type mockJobPostRepo struct {
	mock.Mock
}

func (m *mockJobPostRepo) Create(ctx context.Context, j *models.JobPost) (int64, error) {
	args := m.Called(ctx, j)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockJobPostRepo) GetByID(ctx context.Context, id int64) (*models.JobPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobPost), args.Error(1)
}

func (m *mockJobPostRepo) List(ctx context.Context, f repositories.JobPostFilter) ([]*models.JobPost, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.JobPost), args.Get(1).(int64), args.Error(2)
}

func (m *mockJobPostRepo) Update(ctx context.Context, j *models.JobPost) error {
	return m.Called(ctx, j).Error(0)
}

func (m *mockJobPostRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockJobApplicationRepo struct {
	mock.Mock
}

func (m *mockJobApplicationRepo) Create(ctx context.Context, a *models.JobApplication) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockJobApplicationRepo) List(ctx context.Context, f repositories.JobApplicationFilter) ([]*models.JobApplication, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.JobApplication), args.Get(1).(int64), args.Error(2)
}

func (m *mockJobApplicationRepo) UpdateStatus(ctx context.Context, id int64, status models.JobApplicationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockJobApplicationRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockActivityRepo struct {
	mock.Mock
}

func (m *mockActivityRepo) Create(ctx context.Context, a *models.Activity, images []*models.ActivityImage) (int64, error) {
	args := m.Called(ctx, a, images)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockActivityRepo) GetByID(ctx context.Context, id int64, activeOnly bool) (*models.Activity, error) {
	args := m.Called(ctx, id, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Activity), args.Error(1)
}

func (m *mockActivityRepo) List(ctx context.Context, f models.ActivityFilter) ([]*models.Activity, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Activity), args.Get(1).(int64), args.Error(2)
}

func (m *mockActivityRepo) Categories(ctx context.Context, activeOnly bool) ([]string, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockActivityRepo) Update(ctx context.Context, a *models.Activity) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockActivityRepo) AddImages(ctx context.Context, activityID int64, images []*models.ActivityImage) error {
	return m.Called(ctx, activityID, images).Error(0)
}

func (m *mockActivityRepo) DeleteImage(ctx context.Context, activityID, imageID int64) error {
	return m.Called(ctx, activityID, imageID).Error(0)
}

func (m *mockActivityRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockBoardRepo struct {
	mock.Mock
}

func (m *mockBoardRepo) CreateCategory(ctx context.Context, c *models.BoardCategory) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBoardRepo) ListCategories(ctx context.Context, activeOnly bool) ([]*models.BoardCategory, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BoardCategory), args.Error(1)
}

func (m *mockBoardRepo) GetCategory(ctx context.Context, id int64) (*models.BoardCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BoardCategory), args.Error(1)
}

func (m *mockBoardRepo) UpdateCategory(ctx context.Context, c *models.BoardCategory) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockBoardRepo) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBoardRepo) CreateMember(ctx context.Context, b *models.BoardMember) (int64, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBoardRepo) GetMember(ctx context.Context, id int64) (*models.BoardMember, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BoardMember), args.Error(1)
}

func (m *mockBoardRepo) ListMembers(ctx context.Context, categoryIDs []int64, activeOnly bool) ([]*models.BoardMember, error) {
	args := m.Called(ctx, categoryIDs, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BoardMember), args.Error(1)
}

func (m *mockBoardRepo) UpdateMember(ctx context.Context, b *models.BoardMember) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBoardRepo) DeleteMember(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockCVTemplateRepo struct {
	mock.Mock
}

func (m *mockCVTemplateRepo) Create(ctx context.Context, t *models.CVTemplate) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCVTemplateRepo) GetByID(ctx context.Context, id int64) (*models.CVTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CVTemplate), args.Error(1)
}

func (m *mockCVTemplateRepo) List(ctx context.Context, f repositories.ContentFilter) ([]*models.CVTemplate, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.CVTemplate), args.Get(1).(int64), args.Error(2)
}

func (m *mockCVTemplateRepo) Update(ctx context.Context, t *models.CVTemplate) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockCVTemplateRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCVTemplateRepo) IncrementDownloads(ctx context.Context, id int64) (int64, string, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.String(1), args.Error(2)
}

type mockAdminRepo struct {
	mock.Mock
}

func (m *mockAdminRepo) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *mockAdminRepo) UpdateLastLogin(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
