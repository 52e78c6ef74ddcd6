package user

import (
	"context"
	"fmt"
	"strings"

	"accident-service/internal/notify"
	"accident-service/pkg/errs"

	"go.uber.org/zap"
)

type UserService interface {
	RegisterDevice(ctx context.Context, req *RegisterDeviceRequest) error
	UpdateContacts(ctx context.Context, req *UpdateContactsRequest) (int, error)
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	FindProfile(ctx context.Context, userID string) (*UserProfile, error)
	TogglePrevention(ctx context.Context, userID string) (string, error)
}

type userService struct {
	userRepository UserRepository
	logger         *zap.SugaredLogger
}

func NewUserService(repo UserRepository, logger *zap.SugaredLogger) UserService {
	return &userService{
		userRepository: repo,
		logger:         logger,
	}
}

func (s *userService) RegisterDevice(ctx context.Context, req *RegisterDeviceRequest) error {

	userID := strings.TrimSpace(req.UserID)
	token := strings.TrimSpace(req.Token)
	if userID == "" || token == "" {
		return fmt.Errorf("%w: user_id and token are required", errs.ErrValidation)
	}

	if err := s.userRepository.AddDeviceToken(ctx, userID, token); err != nil {
		return err
	}

	s.logger.Infow("Device registered", "user_id", userID)
	return nil
}

func (s *userService) UpdateContacts(ctx context.Context, req *UpdateContactsRequest) (int, error) {

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return 0, fmt.Errorf("%w: user_id is required", errs.ErrValidation)
	}

	contacts := make([]Contact, 0, len(req.Contacts))
	for i, in := range req.Contacts {
		phone := strings.TrimSpace(in.Phone)
		if !notify.ValidNumber(phone) {
			return 0, fmt.Errorf("%w: contact %d has invalid phone %q", errs.ErrValidation, i, in.Phone)
		}
		contacts = append(contacts, Contact{Name: strings.TrimSpace(in.Name), Phone: phone})
	}

	var err error
	if req.Append {
		if len(contacts) == 0 {
			return 0, fmt.Errorf("%w: contacts are required", errs.ErrValidation)
		}
		err = s.userRepository.AddEmergencyContacts(ctx, userID, contacts)
	} else {
		err = s.userRepository.SetEmergencyContacts(ctx, userID, contacts)
	}
	if err != nil {
		return 0, err
	}

	s.logger.Infow("Emergency contacts updated", "user_id", userID, "count", len(contacts), "append", req.Append)
	return len(contacts), nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {

	profile, err := s.FindProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: user %s", errs.ErrNotFound, userID)
	}
	return profile, nil
}

// FindProfile returns nil without error when the user is not registered.
func (s *userService) FindProfile(ctx context.Context, userID string) (*UserProfile, error) {

	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user_id is required", errs.ErrValidation)
	}
	return s.userRepository.FindByID(ctx, userID)
}

func (s *userService) TogglePrevention(ctx context.Context, userID string) (string, error) {

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}

	check := "on"
	if profile.PreventionEnabled {
		check = "off"
	}

	if err := s.userRepository.SetPrevention(ctx, userID, !profile.PreventionEnabled); err != nil {
		return "", err
	}

	return check, nil
}
