package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/sifan077/FoodGram/internal/app/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxNameLength  = 150
	minPasswordLen = 8
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	// reserved usernames collide with fixed routes under /api/users/.
	reservedUsernames = map[string]bool{"me": true, "subscriptions": true, "set_password": true}

	passwordCost = bcrypt.DefaultCost
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// UserView is a user as seen by a particular viewer.
type UserView struct {
	User         model.User
	IsSubscribed bool
}

// UserService manages accounts and profiles.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Get(ctx context.Context, viewerID, id uint) (*UserView, error)
	List(ctx context.Context, viewerID uint, limit, offset int) ([]UserView, int64, error)
	SetPassword(ctx context.Context, userID uint, current, next string) error
	SetAvatar(ctx context.Context, userID uint, avatar string) error
}

type userService struct {
	users repository.UserRepository
	subs  repository.SubscriptionRepository
}

// NewUserService returns a UserService over the given repositories.
func NewUserService(users repository.UserRepository, subs repository.SubscriptionRepository) UserService {
	return &userService{users: users, subs: subs}
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	user := &model.User{
		Email:     strings.TrimSpace(input.Email),
		Username:  strings.TrimSpace(input.Username),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	}

	errs := fieldErrors{}
	if user.Email == "" {
		errs.add("email", "this field is required")
	}
	switch {
	case user.Username == "":
		errs.add("username", "this field is required")
	case utf8.RuneCountInString(user.Username) > maxNameLength:
		errs.add("username", fmt.Sprintf("ensure this field has no more than %d characters", maxNameLength))
	case !usernamePattern.MatchString(user.Username):
		errs.add("username", "enter a valid username")
	case reservedUsernames[strings.ToLower(user.Username)]:
		errs.add("username", "this username is reserved")
	}
	checkName(errs, "first_name", user.FirstName)
	checkName(errs, "last_name", user.LastName)
	checkPassword(errs, "password", input.Password)
	if err := errs.err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), passwordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func checkName(errs fieldErrors, field, value string) {
	switch {
	case value == "":
		errs.add(field, "this field is required")
	case utf8.RuneCountInString(value) > maxNameLength:
		errs.add(field, fmt.Sprintf("ensure this field has no more than %d characters", maxNameLength))
	}
}

func checkPassword(errs fieldErrors, field, value string) {
	switch {
	case utf8.RuneCountInString(value) < minPasswordLen:
		errs.add(field, fmt.Sprintf("ensure this field has at least %d characters", minPasswordLen))
	case len(value) > 72:
		// bcrypt ignores everything past 72 bytes.
		errs.add(field, "ensure this field has no more than 72 bytes")
	}
}

func (s *userService) Get(ctx context.Context, viewerID, id uint) (*UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	followed, err := s.subs.FollowedAmong(ctx, viewerID, []uint{id})
	if err != nil {
		return nil, fmt.Errorf("lookup subscriptions: %w", err)
	}
	return &UserView{User: *user, IsSubscribed: followed[id]}, nil
}

func (s *userService) List(ctx context.Context, viewerID uint, limit, offset int) ([]UserView, int64, error) {
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	followed, err := s.subs.FollowedAmong(ctx, viewerID, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("lookup subscriptions: %w", err)
	}

	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, UserView{User: u, IsSubscribed: followed[u.ID]})
	}
	return views, total, nil
}

func (s *userService) SetPassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrWrongPassword
	}

	errs := fieldErrors{}
	checkPassword(errs, "new_password", next)
	if err := errs.err(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), passwordCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// SetAvatar stores avatar for the user; an empty avatar removes it.
func (s *userService) SetAvatar(ctx context.Context, userID uint, avatar string) error {
	if err := s.users.UpdateAvatar(ctx, userID, avatar); err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	return nil
}
