package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/SyntaxSorcerers2025/ticketly/internal/apperr"
	"github.com/SyntaxSorcerers2025/ticketly/internal/models"
	"github.com/SyntaxSorcerers2025/ticketly/internal/repository"
	"github.com/SyntaxSorcerers2025/ticketly/internal/utils"
)

const minPasswordLen = 6

type AuthService struct {
	users         repository.UserRepository
	sessionSecret string
	tokenTTL      time.Duration
}

func NewAuthService(users repository.UserRepository, sessionSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, sessionSecret: sessionSecret, tokenTTL: tokenTTL}
}

type RegisterInput struct {
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      models.Role `json:"role"`
}

func (a *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	var fields []apperr.FieldError
	if in.FirstName == "" {
		fields = append(fields, apperr.FieldError{Field: "firstName", Reason: "first name is required"})
	}
	if in.LastName == "" {
		fields = append(fields, apperr.FieldError{Field: "lastName", Reason: "last name is required"})
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		fields = append(fields, apperr.FieldError{Field: "email", Reason: "valid email is required"})
	}
	if len(in.Password) < minPasswordLen {
		fields = append(fields, apperr.FieldError{Field: "password", Reason: "password must be at least 6 characters"})
	}
	if !in.Role.Valid() {
		fields = append(fields, apperr.FieldError{Field: "role", Reason: "valid role is required"})
	}
	if len(fields) > 0 {
		return nil, "", apperr.NewValidation(fields...)
	}

	if existing, _, err := a.users.GetByEmail(ctx, in.Email); err != nil {
		return nil, "", err
	} else if existing != nil {
		return nil, "", apperr.NewValidation(apperr.FieldError{Field: "email", Reason: "already registered"})
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	u := &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Role:      in.Role,
	}
	if err := a.users.Create(ctx, u, hash); err != nil {
		return nil, "", err
	}

	token, err := utils.SignJWT(a.sessionSecret, u.ID, u.Role, a.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login answers with a uniform Unauthenticated error for both an unknown
// email and a wrong password.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	u, hash, err := a.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}
	if u == nil || !utils.CheckPassword(hash, password) {
		return "", nil, apperr.New(apperr.Unauthenticated, "invalid credentials")
	}
	token, err := utils.SignJWT(a.sessionSecret, u.ID, u.Role, a.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}
