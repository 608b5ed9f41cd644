package userrequests_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	userrequests "github.com/factscub/user-requests-api"
)

// fakeApplicationStore is an in-memory ApplicationStore
type fakeApplicationStore struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*userrequests.Application
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{byID: map[uuid.UUID]*userrequests.Application{}}
}

func storeNotFound(id uuid.UUID) error {
	return errors.New("record not found", errors.CategoryNotFound).
		WithCode(errors.CodeNotFound).
		WithMetadata(map[string]any{"id": id.String()})
}

func (s *fakeApplicationStore) Create(ctx context.Context, record *userrequests.Application, criteria ...repository.InsertCriteria) (*userrequests.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Status == "" {
		record.Status = userrequests.StatusActive
	}
	now := time.Now()
	record.CreatedAt = &now
	record.UpdatedAt = &now

	s.byID[record.ID] = record
	return record, nil
}

func (s *fakeApplicationStore) Find(ctx context.Context, id uuid.UUID) (*userrequests.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, storeNotFound(id)
	}
	return record, nil
}

func (s *fakeApplicationStore) ListFiltered(ctx context.Context, filters userrequests.ApplicationFilters) ([]*userrequests.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := []*userrequests.Application{}
	for _, record := range s.byID {
		if filters.Status != "" && record.Status != filters.Status {
			continue
		}
		records = append(records, record)
	}

	if filters.OrderByDate != "" {
		sort.Slice(records, func(i, j int) bool {
			a, b := records[i].UpdatedAt, records[j].UpdatedAt
			if filters.OrderByDate == "desc" {
				return a.After(*b)
			}
			return a.Before(*b)
		})
	}

	return records, nil
}

func (s *fakeApplicationStore) MarkResolved(ctx context.Context, id uuid.UUID, comment string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[id]
	if !ok || record.Status != userrequests.StatusActive {
		return 0, nil
	}

	record.Status = userrequests.StatusResolved
	record.Comment = comment
	now := time.Now()
	record.UpdatedAt = &now
	return 1, nil
}

func (s *fakeApplicationStore) Remove(ctx context.Context, id uuid.UUID) (*userrequests.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, storeNotFound(id)
	}
	delete(s.byID, id)
	return record, nil
}

func newService(store *fakeApplicationStore, notifier userrequests.Notifier) *userrequests.ApplicationService {
	return userrequests.NewApplicationService(store, notifier)
}

func TestApplicationService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("stores an active request and notifies", func(t *testing.T) {
		store := newFakeApplicationStore()
		notifier := &MockNotifier{}
		notifier.On("Send", mock.Anything, mock.MatchedBy(func(msg userrequests.Notification) bool {
			return msg.Template == userrequests.TemplateApplicationReceived &&
				msg.To == "ada@example.com" &&
				msg.Data.Message == "My laptop is on fire"
		})).Return(nil)

		service := newService(store, notifier)

		record, err := service.Submit(ctx, "Ada Lovelace", "ada@example.com", "My laptop is on fire")
		require.NoError(t, err)

		assert.Equal(t, userrequests.StatusActive, record.Status)
		assert.Equal(t, "Ada Lovelace", record.Name)
		assert.NotEqual(t, uuid.Nil, record.ID)
		notifier.AssertExpectations(t)
	})

	t.Run("notifier failure does not fail the submission", func(t *testing.T) {
		store := newFakeApplicationStore()
		notifier := &MockNotifier{}
		notifier.On("Send", mock.Anything, mock.Anything).
			Return(errors.New("smtp down", errors.CategoryOperation))

		service := newService(store, notifier)

		record, err := service.Submit(ctx, "Ada Lovelace", "ada@example.com", "Help")
		require.NoError(t, err)
		assert.Equal(t, userrequests.StatusActive, record.Status)
	})

	t.Run("rejects empty message", func(t *testing.T) {
		service := newService(newFakeApplicationStore(), &MockNotifier{})

		_, err := service.Submit(ctx, "Ada Lovelace", "ada@example.com", "")
		require.Error(t, err)

		var rich *errors.Error
		require.ErrorAs(t, err, &rich)
		assert.Equal(t, errors.CategoryValidation, rich.Category)
	})
}

func TestApplicationService_Resolve(t *testing.T) {
	ctx := context.Background()

	submit := func(t *testing.T, store *fakeApplicationStore) *userrequests.Application {
		t.Helper()
		service := newService(store, nil)
		record, err := service.Submit(ctx, "Ada Lovelace", "ada@example.com", "Help")
		require.NoError(t, err)
		return record
	}

	t.Run("resolves an active request and notifies", func(t *testing.T) {
		store := newFakeApplicationStore()
		record := submit(t, store)

		notifier := &MockNotifier{}
		notifier.On("Send", mock.Anything, mock.MatchedBy(func(msg userrequests.Notification) bool {
			return msg.Template == userrequests.TemplateApplicationResolved &&
				msg.Data.Comment == "Replaced the battery"
		})).Return(nil)

		service := newService(store, notifier)

		resolved, err := service.Resolve(ctx, record.ID.String(), "Replaced the battery")
		require.NoError(t, err)

		assert.Equal(t, userrequests.StatusResolved, resolved.Status)
		assert.Equal(t, "Replaced the battery", resolved.Comment)
		notifier.AssertExpectations(t)
	})

	t.Run("requires a comment", func(t *testing.T) {
		store := newFakeApplicationStore()
		record := submit(t, store)

		service := newService(store, nil)
		_, err := service.Resolve(ctx, record.ID.String(), "")
		require.Error(t, err)

		var rich *errors.Error
		require.ErrorAs(t, err, &rich)
		assert.Equal(t, errors.CategoryValidation, rich.Category)
	})

	t.Run("second resolve loses", func(t *testing.T) {
		store := newFakeApplicationStore()
		record := submit(t, store)

		service := newService(store, nil)

		_, err := service.Resolve(ctx, record.ID.String(), "First")
		require.NoError(t, err)

		_, err = service.Resolve(ctx, record.ID.String(), "Second")
		require.Error(t, err)

		var rich *errors.Error
		require.ErrorAs(t, err, &rich)
		assert.Equal(t, "APPLICATION_ALREADY_RESOLVED", rich.TextCode)
		assert.Contains(t, rich.Message, "has already been")

		reloaded, err := service.Get(ctx, record.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "First", reloaded.Comment)
	})

	t.Run("unknown id", func(t *testing.T) {
		service := newService(newFakeApplicationStore(), nil)

		_, err := service.Resolve(ctx, uuid.NewString(), "Done")
		require.Error(t, err)

		var rich *errors.Error
		require.ErrorAs(t, err, &rich)
		assert.Equal(t, "APPLICATION_NOT_FOUND", rich.TextCode)
	})

	t.Run("malformed id reads as not found", func(t *testing.T) {
		service := newService(newFakeApplicationStore(), nil)

		_, err := service.Resolve(ctx, "42", "Done")
		require.Error(t, err)

		var rich *errors.Error
		require.ErrorAs(t, err, &rich)
		assert.Equal(t, "APPLICATION_NOT_FOUND", rich.TextCode)
	})
}

func TestApplicationService_List(t *testing.T) {
	ctx := context.Background()
	store := newFakeApplicationStore()
	service := newService(store, nil)

	first, err := service.Submit(ctx, "Ada Lovelace", "ada@example.com", "First")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = service.Submit(ctx, "Grace Hopper", "grace@example.com", "Second")
	require.NoError(t, err)

	_, err = service.Resolve(ctx, first.ID.String(), "Done")
	require.NoError(t, err)

	t.Run("no filters returns everything", func(t *testing.T) {
		records, err := service.List(ctx, userrequests.ApplicationFilters{})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("filters by status", func(t *testing.T) {
		records, err := service.List(ctx, userrequests.ApplicationFilters{Status: "resolved"})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, first.ID, records[0].ID)
	})

	t.Run("orders by update time", func(t *testing.T) {
		records, err := service.List(ctx, userrequests.ApplicationFilters{OrderByDate: "desc"})
		require.NoError(t, err)
		require.Len(t, records, 2)
		// first was resolved last, so it has the newest update
		assert.Equal(t, first.ID, records[0].ID)
	})

	t.Run("rejects bogus status", func(t *testing.T) {
		_, err := service.List(ctx, userrequests.ApplicationFilters{Status: "pending"})
		require.Error(t, err)

		var rich *errors.Error
		require.ErrorAs(t, err, &rich)
		assert.Equal(t, errors.CategoryValidation, rich.Category)
	})

	t.Run("rejects bogus order", func(t *testing.T) {
		_, err := service.List(ctx, userrequests.ApplicationFilters{OrderByDate: "newest"})
		require.Error(t, err)

		var rich *errors.Error
		require.ErrorAs(t, err, &rich)
		assert.Equal(t, errors.CategoryValidation, rich.Category)
	})
}

func TestApplicationService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newFakeApplicationStore()
	service := newService(store, nil)

	record, err := service.Submit(ctx, "Ada Lovelace", "ada@example.com", "Help")
	require.NoError(t, err)

	t.Run("get returns the record", func(t *testing.T) {
		found, err := service.Get(ctx, record.ID.String())
		require.NoError(t, err)
		assert.Equal(t, record.ID, found.ID)
	})

	t.Run("delete returns the removed record", func(t *testing.T) {
		removed, err := service.Delete(ctx, record.ID.String())
		require.NoError(t, err)
		assert.Equal(t, record.ID, removed.ID)

		_, err = service.Get(ctx, record.ID.String())
		require.Error(t, err)

		var rich *errors.Error
		require.ErrorAs(t, err, &rich)
		assert.Equal(t, "APPLICATION_NOT_FOUND", rich.TextCode)
	})

	t.Run("delete unknown id", func(t *testing.T) {
		_, err := service.Delete(ctx, uuid.NewString())
		require.Error(t, err)

		var rich *errors.Error
		require.ErrorAs(t, err, &rich)
		assert.Equal(t, "APPLICATION_NOT_FOUND", rich.TextCode)
	})
}
