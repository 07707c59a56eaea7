package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront/pkg/domain/model"
)

const DefaultAdminEmail = "admin@stridezero.com"

// IdentityService is the storefront's stand-in for authentication: any non-empty
// credentials sign in, and the role comes from comparing against the admin address.
type IdentityService interface {
	Login(email, password string) (*model.User, error)
	Register(name, email, password string) (*model.User, error)
	Logout() error
	CurrentUser() (*model.User, error)
	Authenticate(token string) (*model.User, error)
}

func NewIdentityService(store model.SessionStore, tokens model.TokenIssuer, dispatcher EventDispatcher, logger logrus.FieldLogger, adminEmail string) IdentityService {
	if adminEmail == "" {
		adminEmail = DefaultAdminEmail
	}
	return &identityService{
		store:      store,
		tokens:     tokens,
		dispatcher: dispatcher,
		logger:     logger,
		adminEmail: adminEmail,
	}
}

type identityService struct {
	store      model.SessionStore
	tokens     model.TokenIssuer
	dispatcher EventDispatcher
	logger     logrus.FieldLogger
	adminEmail string
}

func (s *identityService) Login(email, password string) (*model.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, model.ErrCredentialsRequired
	}

	name, _, _ := strings.Cut(email, "@")
	user, err := s.signIn(name, email)
	if err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.UserLoggedIn{UserID: user.ID, Email: user.Email, Role: user.Role})
	return user, nil
}

func (s *identityService) Register(name, email, password string) (*model.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, model.ErrNameRequired
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, model.ErrCredentialsRequired
	}

	user, err := s.signIn(name, email)
	if err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.UserRegistered{UserID: user.ID, Email: user.Email, Name: user.Name})
	return user, nil
}

func (s *identityService) Logout() error {
	current, err := s.CurrentUser()
	if err != nil {
		return err
	}
	if err := s.store.Clear(); err != nil {
		return err
	}
	if current != nil {
		_ = s.dispatcher.Dispatch(model.UserLoggedOut{UserID: current.ID})
	}
	return nil
}

// CurrentUser returns nil without error when nobody is signed in. A corrupt
// record is cleared and treated the same way.
func (s *identityService) CurrentUser() (*model.User, error) {
	record, err := s.store.Load()
	switch {
	case errors.Is(err, model.ErrNoSession):
		return nil, nil
	case errors.Is(err, model.ErrCorruptSession):
		s.logger.WithError(err).Warn("discarding unreadable session")
		if clearErr := s.store.Clear(); clearErr != nil {
			return nil, clearErr
		}
		return nil, nil
	case err != nil:
		return nil, err
	}
	user := record.User
	return &user, nil
}

func (s *identityService) Authenticate(token string) (*model.User, error) {
	if token == "" {
		return nil, model.ErrInvalidToken
	}
	return s.tokens.Parse(token)
}

func (s *identityService) RoleFor(email string) model.UserRole {
	if strings.EqualFold(strings.TrimSpace(email), s.adminEmail) {
		return model.RoleAdmin
	}
	return model.RoleCustomer
}

func (s *identityService) signIn(name, email string) (*model.User, error) {
	user := model.User{
		ID:    "user_" + uuid.NewString(),
		Name:  name,
		Email: email,
		Role:  s.RoleFor(email),
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	user.Token = token

	record := &model.SessionRecord{
		Version: model.SessionSchemaVersion,
		User:    user,
		SavedAt: time.Now().UTC(),
	}
	if err := s.store.Save(record); err != nil {
		return nil, err
	}
	return &user, nil
}
