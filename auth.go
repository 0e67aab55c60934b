package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const AUTH_AUDIENCE = "cadastre:auth"

const (
	DETAIL_UNAUTHORIZED         = "Unauthorized"
	DETAIL_FORBIDDEN            = "you do not have access to the admin panel"
	DETAIL_BAD_CREDENTIALS      = "LOGIN_BAD_CREDENTIALS"
	DETAIL_USER_ALREADY_EXISTS  = "REGISTER_USER_ALREADY_EXISTS"
	DETAIL_INVALID_REQUEST_BODY = "invalid request body"
)

type authClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken signs a bearer token for the user.
func (s *Server) IssueToken(u *User) (string, error) {
	now := time.Now()
	claims := authClaims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			Audience:  jwt.ClaimStrings{AUTH_AUDIENCE},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.JWTLifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
}

// ParseToken verifies a bearer token and returns the user id it carries.
func (s *Server) ParseToken(tokenString string) (int64, error) {
	claims := &authClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithAudience(AUTH_AUDIENCE))
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.New("token subject is not a user id")
	}
	return id, nil
}

type contextKey int

const userContextKey contextKey = 0

// UserFromContext returns the authenticated user set by RequireUser.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userContextKey).(*User)
	return u
}

// RequireUser resolves the Authorization header to an active User and
// stores it on the request context. Anything short of a valid token for
// an active account is a 401.
func (s *Server) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			WriteDetail(w, http.StatusUnauthorized, DETAIL_UNAUTHORIZED)
			return
		}

		id, err := s.ParseToken(token)
		if err != nil {
			WriteDetail(w, http.StatusUnauthorized, DETAIL_UNAUTHORIZED)
			return
		}

		user, err := s.store.UserByID(r.Context(), id)
		if err != nil || !user.IsActive {
			WriteDetail(w, http.StatusUnauthorized, DETAIL_UNAUTHORIZED)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

// RequireSuperuser gates the admin routes. Must run after RequireUser.
func (s *Server) RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || !user.IsSuperuser {
			WriteDetail(w, http.StatusForbidden, DETAIL_FORBIDDEN)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler handles POST /auth/register.
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteDetail(w, http.StatusBadRequest, DETAIL_INVALID_REQUEST_BODY)
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteDetail(w, http.StatusBadRequest, "email and password are required")
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		s.logger.Error("error hashing password", zap.Error(err))
		WriteDetail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Email, hashed)
	if errors.Is(err, ErrDuplicateEmail) {
		WriteDetail(w, http.StatusBadRequest, DETAIL_USER_ALREADY_EXISTS)
		return
	}
	if err != nil {
		s.logger.Error("error creating user", zap.Error(err), zap.String(ZAP_EMAIL, req.Email))
		WriteDetail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.logger.Info("registered user", zap.Int64(ZAP_USER_ID, user.ID), zap.String(ZAP_EMAIL, user.Email))
	WriteJSON(w, http.StatusCreated, user)
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LoginHandler handles POST /auth/jwt/login (form-encoded username and
// password, as issued by the auth gateway this service replaces).
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteDetail(w, http.StatusBadRequest, DETAIL_INVALID_REQUEST_BODY)
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := s.store.UserByEmail(r.Context(), email)
	if err != nil || !user.CheckPassword(password) || !user.IsActive {
		WriteDetail(w, http.StatusBadRequest, DETAIL_BAD_CREDENTIALS)
		return
	}

	token, err := s.IssueToken(user)
	if err != nil {
		s.logger.Error("error signing token", zap.Error(err), zap.Int64(ZAP_USER_ID, user.ID))
		WriteDetail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	WriteJSON(w, http.StatusOK, LoginResponse{AccessToken: token, TokenType: "bearer"})
}
