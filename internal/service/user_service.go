package service

import (
	"context"
	"errors"

	"typoteka/internal/models"
	"typoteka/internal/repository"
	"typoteka/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// MsgBadCredentials is returned for an unknown email or a wrong password alike.
const MsgBadCredentials = "Invalid email or password"

type UserService struct {
	users    repository.UserRepository
	hashCost int
}

type CreateUserInput struct {
	Name             string
	Email            string
	Password         string
	PasswordRepeated string
	Avatar           *string
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users, hashCost: bcrypt.DefaultCost}
}

// Create registers a user. The first account becomes the owner.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	errs := validation.UserErrors(validation.User{
		Name:             in.Name,
		Email:            in.Email,
		Password:         in.Password,
		PasswordRepeated: in.PasswordRepeated,
		Avatar:           in.Avatar,
	})
	if in.Email != "" {
		existing, err := s.users.FindByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			errs.Add(validation.MsgEmailTaken)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Avatar:       in.Avatar,
		IsOwner:      count == 0,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, models.NewValidationError(validation.MsgEmailTaken)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindByEmail(ctx, email)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", id)
	}
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError(MsgBadCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError(MsgBadCredentials)
	}
	return user, nil
}
