package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/BradenHooton/userservice/internal/models"
	"github.com/BradenHooton/userservice/pkg/logger"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAudit() *logger.AuditLogger {
	return logger.NewAuditLogger(newTestLogger())
}

// MockTransactor runs fn inline and counts outcomes
type MockTransactor struct {
	Commits   int
	Rollbacks int
}

func (m *MockTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		m.Rollbacks++
		return err
	}
	m.Commits++
	return nil
}

// MockUserRepository implements UserRepository and PictureUserRepository for testing
type MockUserRepository struct {
	GetByIDFunc               func(ctx context.Context, id int64) (*models.User, error)
	ListFunc                  func(ctx context.Context, limit, offset int) ([]*models.User, error)
	CreateFunc                func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc                func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateWorkingHoursFunc    func(ctx context.Context, id int64, start, end models.TimeOfDay) error
	DeleteFunc                func(ctx context.Context, id int64) error
	ExistsFunc                func(ctx context.Context, id int64) (bool, error)
	ExistsByPhoneFunc         func(ctx context.Context, phone string) (bool, error)
	SetProfilePicturePathFunc func(ctx context.Context, id int64, path string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	return m.GetByID(ctx, id)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return user, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return user, nil
}

func (m *MockUserRepository) UpdateWorkingHours(ctx context.Context, id int64, start, end models.TimeOfDay) error {
	if m.UpdateWorkingHoursFunc != nil {
		return m.UpdateWorkingHoursFunc(ctx, id, start, end)
	}
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return true, nil
}

func (m *MockUserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	if m.ExistsByPhoneFunc != nil {
		return m.ExistsByPhoneFunc(ctx, phone)
	}
	return false, nil
}

func (m *MockUserRepository) SetProfilePicturePath(ctx context.Context, id int64, path string) error {
	if m.SetProfilePicturePathFunc != nil {
		return m.SetProfilePicturePathFunc(ctx, id, path)
	}
	return nil
}

// MockUserLookup answers Exists from a fixed set of ids and counts calls
type MockUserLookup struct {
	IDs   map[int64]bool
	Err   error
	Calls int
}

func NewMockUserLookup(ids ...int64) *MockUserLookup {
	m := &MockUserLookup{IDs: make(map[int64]bool)}
	for _, id := range ids {
		m.IDs[id] = true
	}
	return m
}

func (m *MockUserLookup) Exists(ctx context.Context, id int64) (bool, error) {
	m.Calls++
	if m.Err != nil {
		return false, m.Err
	}
	return m.IDs[id], nil
}

// MockBlockRepository keeps blocks in memory and counts every call
type MockBlockRepository struct {
	Blocks    map[models.BlockID]bool
	CreateErr error
	Calls     int
}

func NewMockBlockRepository() *MockBlockRepository {
	return &MockBlockRepository{Blocks: make(map[models.BlockID]bool)}
}

func (m *MockBlockRepository) Exists(ctx context.Context, id models.BlockID) (bool, error) {
	m.Calls++
	return m.Blocks[id], nil
}

func (m *MockBlockRepository) Create(ctx context.Context, id models.BlockID) (*models.Block, error) {
	m.Calls++
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.Blocks[id] = true
	return &models.Block{ID: id, CreatedAt: time.Now()}, nil
}

func (m *MockBlockRepository) Delete(ctx context.Context, id models.BlockID) error {
	m.Calls++
	if !m.Blocks[id] {
		return models.ErrNotFound
	}
	delete(m.Blocks, id)
	return nil
}

func (m *MockBlockRepository) ListBlockedUserIDs(ctx context.Context, blockingUserID int64, limit, offset int) ([]int64, error) {
	m.Calls++
	ids := make([]int64, 0)
	for id := range m.Blocks {
		if id.BlockingUserID == blockingUserID {
			ids = append(ids, id.BlockedUserID)
		}
	}
	return page(ids, limit, offset), nil
}

// MockFavoriteRepository keeps favorites in memory
type MockFavoriteRepository struct {
	Favorites map[models.FavoriteID]bool
	DeleteErr error
	Calls     int
}

func NewMockFavoriteRepository() *MockFavoriteRepository {
	return &MockFavoriteRepository{Favorites: make(map[models.FavoriteID]bool)}
}

func (m *MockFavoriteRepository) Exists(ctx context.Context, id models.FavoriteID) (bool, error) {
	m.Calls++
	return m.Favorites[id], nil
}

func (m *MockFavoriteRepository) Create(ctx context.Context, id models.FavoriteID) (*models.Favorite, error) {
	m.Calls++
	m.Favorites[id] = true
	return &models.Favorite{ID: id, CreatedAt: time.Now()}, nil
}

func (m *MockFavoriteRepository) Delete(ctx context.Context, id models.FavoriteID) error {
	m.Calls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if !m.Favorites[id] {
		return models.ErrNotFound
	}
	delete(m.Favorites, id)
	return nil
}

func (m *MockFavoriteRepository) ListFavoriteUserIDs(ctx context.Context, userID int64, limit, offset int) ([]int64, error) {
	m.Calls++
	ids := make([]int64, 0)
	for id := range m.Favorites {
		if id.UserID == userID {
			ids = append(ids, id.FavoriteUserID)
		}
	}
	return page(ids, limit, offset), nil
}

func page(ids []int64, limit, offset int) []int64 {
	if offset >= len(ids) {
		return []int64{}
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end]
}

// MockAvailabilityRepository keeps windows in memory
type MockAvailabilityRepository struct {
	Windows []*models.Availability
	nextID  int64
}

func (m *MockAvailabilityRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Availability, error) {
	out := make([]*models.Availability, 0)
	for _, a := range m.Windows {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockAvailabilityRepository) Create(ctx context.Context, a *models.Availability) (*models.Availability, error) {
	m.nextID++
	created := *a
	created.ID = m.nextID
	m.Windows = append(m.Windows, &created)
	return &created, nil
}

// MockPreferencesRepository keeps preferences in memory
type MockPreferencesRepository struct {
	Prefs map[int64]*models.Preferences
}

func NewMockPreferencesRepository() *MockPreferencesRepository {
	return &MockPreferencesRepository{Prefs: make(map[int64]*models.Preferences)}
}

func (m *MockPreferencesRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	_, ok := m.Prefs[userID]
	return ok, nil
}

func (m *MockPreferencesRepository) GetByUserID(ctx context.Context, userID int64) (*models.Preferences, error) {
	p, ok := m.Prefs[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

func (m *MockPreferencesRepository) store(prefs *models.Preferences) {
	categories := make([]models.JobCategory, 0)
	for _, id := range prefs.WantedCategoryIDs() {
		categories = append(categories, id.CategoryID)
	}
	m.Prefs[prefs.UserID] = &models.Preferences{
		UserID:              prefs.UserID,
		PreferredDistance:   prefs.PreferredDistance,
		PreferredExperience: prefs.PreferredExperience,
		WantedCategories:    categories,
	}
}

func (m *MockPreferencesRepository) Create(ctx context.Context, prefs *models.Preferences) error {
	m.store(prefs)
	return nil
}

func (m *MockPreferencesRepository) Update(ctx context.Context, prefs *models.Preferences) error {
	if _, ok := m.Prefs[prefs.UserID]; !ok {
		return models.ErrNotFound
	}
	m.store(prefs)
	return nil
}

// MockBlobStore keeps objects in memory; Err, when set, fails every call
type MockBlobStore struct {
	Objects map[string][]byte
	Err     error
	Gets    int
}

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{Objects: make(map[string][]byte)}
}

func (m *MockBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Objects[key] = data
	return nil
}

func (m *MockBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.Gets++
	if m.Err != nil {
		return nil, m.Err
	}
	data, ok := m.Objects[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	return data, nil
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Objects, key)
	return nil
}

// MockPictureCache keeps picture bytes in memory
type MockPictureCache struct {
	Entries map[int64][]byte
	Err     error
}

func NewMockPictureCache() *MockPictureCache {
	return &MockPictureCache{Entries: make(map[int64][]byte)}
}

func (m *MockPictureCache) Get(ctx context.Context, userID int64) ([]byte, bool, error) {
	if m.Err != nil {
		return nil, false, m.Err
	}
	data, ok := m.Entries[userID]
	return data, ok, nil
}

func (m *MockPictureCache) Set(ctx context.Context, userID int64, data []byte) error {
	if m.Err != nil {
		return m.Err
	}
	m.Entries[userID] = data
	return nil
}

func (m *MockPictureCache) Invalidate(ctx context.Context, userID int64) error {
	delete(m.Entries, userID)
	return nil
}

// MockPictureRemover records which users had their picture removed
type MockPictureRemover struct {
	Removed []int64
	Err     error
}

func (m *MockPictureRemover) DeleteProfilePicture(ctx context.Context, userID int64) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.Removed = append(m.Removed, userID)
	return true, nil
}

// NewTestUser creates a test user with sensible defaults
func NewTestUser(id int64, email, name string) *models.User {
	return &models.User{
		ID:        id,
		Name:      name,
		Surname:   "Tester",
		Email:     email,
		Phone:     "0911234567",
		Status:    models.StatusActive,
		CreatedAt: time.Now(),
	}
}
