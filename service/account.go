package service

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"github.com/google/uuid"
	"github.com/propertyhub/propertyhub/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStore is the persistence surface for accounts.
// *repository.UserRepository implements it.
type UserStore interface {
	Create(user *entity.User) error
	FindByID(id uuid.UUID) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	Delete(id uuid.UUID) error
}

type RegisterInput struct {
	Name          string
	Email         string
	Phone         string
	Password      string
	Role          string
	AgencyName    string
	AgencyAddress string
	AgencyLogo    string
}

type ProfileInput struct {
	Name          string
	Email         string
	Phone         string
	AgencyName    string
	AgencyAddress string
	AgencyLogo    string
}

// AccountService covers registration, login and profile management for
// agents, agencies and admin-managed agent accounts.
type AccountService struct {
	users  UserStore
	logger Logger
}

func NewAccountService(users UserStore, logger Logger) *AccountService {
	return &AccountService{users: users, logger: logger}
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	role := in.Role
	if role != entity.RoleAgent && role != entity.RoleAgency {
		role = entity.RoleAgent
	}

	if in.Name == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	if !isStrongPassword(in.Password) {
		return nil, ErrWeakPassword
	}

	if _, err := s.users.FindByEmail(in.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistenceError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:            uuid.New(),
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Role:          role,
		PasswordHash:  string(hash),
		AgencyName:    in.AgencyName,
		AgencyAddress: in.AgencyAddress,
		AgencyLogo:    in.AgencyLogo,
	}

	if err := s.users.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, persistenceError(err)
	}

	s.logger.InfoWithContextf(ctx, "[Account] Registered %s as %s", user.Email, user.Role)
	return user, nil
}

func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, persistenceError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, persistenceError(err)
	}
	return user, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*entity.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != "" && in.Email != user.Email {
		if _, err := s.users.FindByEmail(in.Email); err == nil {
			return nil, ErrDuplicateEmail
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, persistenceError(err)
		}
		user.Email = in.Email
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if user.Role == entity.RoleAgency {
		if in.AgencyName != "" {
			user.AgencyName = in.AgencyName
		}
		if in.AgencyAddress != "" {
			user.AgencyAddress = in.AgencyAddress
		}
		if in.AgencyLogo != "" {
			user.AgencyLogo = in.AgencyLogo
		}
	}

	if err := s.users.Update(user); err != nil {
		return nil, persistenceError(err)
	}

	return user, nil
}

// CreateAgent is the admin path: a pre-approved agent account.
func (s *AccountService) CreateAgent(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.Role = entity.RoleAgent
	return s.Register(ctx, in)
}

// isStrongPassword requires at least six characters with one lowercase, one
// uppercase, one digit and one symbol.
func isStrongPassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
