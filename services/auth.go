package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"carewell-server/models"
	"carewell-server/role"
	"carewell-server/util"
)

const bcryptCost = 10

// AuthService handles registration and credential checks. Token minting
// lives in middleware; this service only proves who the caller is.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

type SignupRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	var missing []string
	if strings.TrimSpace(req.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "email")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if req.DateOfBirth == "" {
		missing = append(missing, "dateOfBirth")
	}
	if req.Gender == "" {
		missing = append(missing, "gender")
	}
	if len(missing) > 0 {
		return nil, util.ValidationError("missing required fields: %s", strings.Join(missing, ", "))
	}
	if len(req.Password) < 6 {
		return nil, util.ValidationError("password must be at least 6 characters long")
	}
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, util.ValidationError("invalid date format for dateOfBirth")
	}
	switch req.Gender {
	case "Male", "Female", "Other":
	default:
		return nil, util.ValidationError("gender must be Male, Female or Other")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:    strings.TrimSpace(req.FullName),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       req.Phone,
		DateOfBirth: dob,
		Gender:      req.Gender,
		Password:    string(hash),
		Role:        role.Patient,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, util.ConflictError("email already registered")
		}
		return nil, err
	}
	return user, nil
}

// SignIn verifies the credentials and returns the user on success.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, util.ValidationError("email and password are required")
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, util.NotFoundError("user does not exist")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.UnauthorizedError("invalid password")
	}
	return user, nil
}

// AdminSignIn is SignIn plus a staff-role gate.
func (s *AuthService) AdminSignIn(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !role.IsStaff(user.Role) {
		return nil, util.ForbiddenError("admin access required")
	}
	return user, nil
}

// SetupAdmin seeds the first admin account. Once any staff account exists
// the endpoint refuses to create more; further admins go through the
// superadmin's manage-admins surface.
func (s *AuthService) SetupAdmin(ctx context.Context, req SignupRequest, adminRole string) (*models.User, error) {
	if adminRole == "" {
		adminRole = role.Admin
	}
	if !role.IsStaff(adminRole) {
		return nil, util.ValidationError("role must be admin or superadmin")
	}
	counts, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	if counts[role.Admin] > 0 || counts[role.SuperAdmin] > 0 {
		return nil, util.ForbiddenError("an admin account already exists")
	}
	user, err := s.Signup(ctx, req)
	if err != nil {
		return nil, err
	}
	promoted, err := s.users.Update(ctx, user.ID, UserUpdate{Role: &adminRole})
	if err != nil {
		return nil, err
	}
	return promoted, nil
}

// CreateAdmin is the superadmin path for adding staff accounts.
func (s *AuthService) CreateAdmin(ctx context.Context, req SignupRequest) (*models.User, error) {
	user, err := s.Signup(ctx, req)
	if err != nil {
		return nil, err
	}
	adminRole := role.Admin
	return s.users.Update(ctx, user.ID, UserUpdate{Role: &adminRole})
}
