package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental/internal/apperr"
	"github.com/iliyamo/movie-rental/internal/config"
	"github.com/iliyamo/movie-rental/internal/middleware"
	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/repository"
	"github.com/iliyamo/movie-rental/internal/service"
	"github.com/iliyamo/movie-rental/internal/utils"
)

// TokenStore persists refresh token hashes. *repository.TokenRepo
// implements it.
type TokenStore interface {
	StoreRefresh(ctx context.Context, customerID uuid.UUID, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForCustomer(ctx context.Context, customerID uuid.UUID) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg       config.Config
	Customers *service.CustomerService
	Tokens    TokenStore
}

// NewAuthHandler issues tokens with cfg's secret and lifetimes.
func NewAuthHandler(cfg config.Config, customers *service.CustomerService, tokens TokenStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Customers: customers, Tokens: tokens}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginReq struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	Customer *model.Customer `json:"customer"`
	Access   tokenPart       `json:"access"`
	Refresh  tokenPart       `json:"refresh"`
}

func authTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// issue creates an access/refresh pair for cust and stores the refresh
// hash.
func (h *AuthHandler) issue(ctx context.Context, cust *model.Customer) (authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, cust.ID, cust.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, cust.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, err
	}
	return authResp{
		Customer: cust,
		Access:   tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh:  tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	}, nil
}

// Register creates a CUSTOMER account and returns tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if handled, err := bindBody(c, &req); handled {
		return err
	}
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := authTimeout(c)
	defer cancel()

	cust, err := h.Customers.Create(ctx, &model.Customer{
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         model.RoleCustomer,
		PasswordHash: hash,
	})
	if err != nil {
		return writeError(c, err)
	}
	resp, err := h.issue(ctx, cust)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies name and password and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if handled, err := bindBody(c, &req); handled {
		return err
	}

	ctx, cancel := authTimeout(c)
	defer cancel()

	cust, err := h.Customers.GetByName(ctx, req.Name)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidName) || errors.Is(err, apperr.ErrInvalidEntity) {
			return invalidCredentials(c)
		}
		return writeError(c, err)
	}
	if !utils.VerifyPassword(cust.PasswordHash, req.Password) {
		return invalidCredentials(c)
	}
	resp, err := h.issue(ctx, cust)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh validates a refresh token by hash, revokes it and issues a new
// pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return badRequest(c, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := authTimeout(c)
	defer cancel()

	customerID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, errorBody{Error: "unauthorized", Message: "invalid refresh"})
		}
		return writeError(c, err)
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return writeError(c, err)
	}
	cust, err := h.Customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidID) {
			return c.JSON(http.StatusUnauthorized, errorBody{Error: "unauthorized", Message: "invalid refresh"})
		}
		return writeError(c, err)
	}
	resp, err := h.issue(ctx, cust)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout revokes one session when a refresh_token is posted, or every
// session of the bearer when only an access token is presented.
func (h *AuthHandler) Logout(c echo.Context) error {
	var bearer uuid.UUID
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimPrefix(auth, "Bearer ")); err == nil {
			bearer, _ = claims.CustomerID()
		}
	}

	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := authTimeout(c)
	defer cancel()

	switch {
	case refreshToken != "":
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, errorBody{Error: "unauthorized", Message: "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	case bearer != uuid.Nil:
		if err := h.Tokens.RevokeAllForCustomer(ctx, bearer); err != nil {
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
	return badRequest(c, "provide Authorization header or refresh_token")
}

// Me returns the authenticated principal.
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := principalID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"customer_id": id,
		"role":        middleware.Role(c),
	})
}

func invalidCredentials(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorBody{Error: "unauthorized", Message: "invalid credentials"})
}
