package userrequests

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// ApplicationStore is the slice of the request store the service needs
type ApplicationStore interface {
	Create(ctx context.Context, record *Application, criteria ...repository.InsertCriteria) (*Application, error)
	Find(ctx context.Context, id uuid.UUID) (*Application, error)
	ListFiltered(ctx context.Context, filters ApplicationFilters) ([]*Application, error)
	MarkResolved(ctx context.Context, id uuid.UUID, comment string) (int64, error)
	Remove(ctx context.Context, id uuid.UUID) (*Application, error)
}

// ApplicationService drives the support request lifecycle
type ApplicationService struct {
	store    ApplicationStore
	notifier Notifier
	logger   Logger
}

// NewApplicationService creates the lifecycle service
func NewApplicationService(store ApplicationStore, notifier Notifier) *ApplicationService {
	return &ApplicationService{
		store:    store,
		notifier: notifier,
		logger:   defLogger{},
	}
}

func (s *ApplicationService) WithLogger(logger Logger) *ApplicationService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Submit stores a new active request and notifies the applicant.
// Notification failures are logged and never undo the stored record.
func (s *ApplicationService) Submit(ctx context.Context, name, email, message string) (*Application, error) {
	if err := validation.Validate(message, validation.Required); err != nil {
		return nil, errors.New("message is required", errors.CategoryValidation).
			WithTextCode("MESSAGE_REQUIRED").
			WithCode(errors.CodeBadRequest)
	}

	record := &Application{
		Name:    name,
		Email:   email,
		Message: message,
		Status:  StatusActive,
	}

	created, err := s.store.Create(ctx, record)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to store application")
	}

	s.dispatch(ctx, receivedNotification(created))

	return created, nil
}

// Resolve moves an active request to its terminal state. The transition
// is a single conditional update so concurrent resolvers cannot both win;
// the loser sees the already resolved outcome.
func (s *ApplicationService) Resolve(ctx context.Context, id, comment string) (*Application, error) {
	appID, err := parseApplicationID(id)
	if err != nil {
		return nil, err
	}

	if err := validation.Validate(comment, validation.Required); err != nil {
		return nil, errors.New("comment is required to resolve a request", errors.CategoryValidation).
			WithTextCode("COMMENT_REQUIRED").
			WithCode(errors.CodeBadRequest)
	}

	affected, err := s.store.MarkResolved(ctx, appID, comment)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve application")
	}

	if affected == 0 {
		existing, err := s.store.Find(ctx, appID)
		if err != nil {
			return nil, notFoundError(id)
		}
		return nil, alreadyResolvedError(id, existing.Status)
	}

	resolved, err := s.store.Find(ctx, appID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to reload resolved application")
	}

	s.dispatch(ctx, resolvedNotification(resolved))

	return resolved, nil
}

// List returns requests matching the given filters. Unknown filter
// values are rejected, absent ones leave the listing unconstrained.
func (s *ApplicationService) List(ctx context.Context, filters ApplicationFilters) ([]*Application, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	records, err := s.store.ListFiltered(ctx, filters)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list applications")
	}

	return records, nil
}

// Get fetches a single request by ID
func (s *ApplicationService) Get(ctx context.Context, id string) (*Application, error) {
	appID, err := parseApplicationID(id)
	if err != nil {
		return nil, err
	}

	record, err := s.store.Find(ctx, appID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, notFoundError(id)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to fetch application")
	}

	return record, nil
}

// Delete removes a request and returns the removed record
func (s *ApplicationService) Delete(ctx context.Context, id string) (*Application, error) {
	appID, err := parseApplicationID(id)
	if err != nil {
		return nil, err
	}

	record, err := s.store.Remove(ctx, appID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, notFoundError(id)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to delete application")
	}

	return record, nil
}

func (s *ApplicationService) dispatch(ctx context.Context, msg Notification) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Error("notification %s to %s failed: %v", msg.Template, msg.To, err)
	}
}

// Validate checks the filter values against the known vocabulary
func (f ApplicationFilters) Validate() error {
	err := validation.Errors{
		"status":      validation.Validate(f.Status, validation.In(StatusActive, StatusResolved)),
		"orderByDate": validation.Validate(f.OrderByDate, validation.In("asc", "desc")),
	}.Filter()

	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid filter value").
			WithTextCode("INVALID_FILTER").
			WithCode(errors.CodeBadRequest)
	}

	return nil
}

func parseApplicationID(id string) (uuid.UUID, error) {
	appID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, notFoundError(id)
	}
	return appID, nil
}

func notFoundError(id string) error {
	return errors.New(fmt.Sprintf("Application with ID %q not found", id), errors.CategoryNotFound).
		WithTextCode("APPLICATION_NOT_FOUND").
		WithCode(errors.CodeNotFound).
		WithMetadata(map[string]any{"id": id})
}

func alreadyResolvedError(id string, status ApplicationStatus) error {
	return errors.New(
		fmt.Sprintf("Application with ID %q has already been %q", id, status),
		errors.CategoryConflict,
	).
		WithTextCode("APPLICATION_ALREADY_RESOLVED").
		WithCode(errors.CodeBadRequest).
		WithMetadata(map[string]any{"id": id, "status": status})
}
