package handlers

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mnorov/todo-api/config"
	"github.com/mnorov/todo-api/database"
	"github.com/mnorov/todo-api/models"
)

const tokenLifetime = 30 * 24 * time.Hour

// SignToken issues the bearer token the auth middleware accepts; the subject
// carries the user ID hex.
func SignToken(user *models.User) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.Hex(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.GetEnv("JWT_SECRET")))
}

// @Summary Register a user.
// @Description create an account and return a bearer token.
// @Tags users
// @Accept json
// @Param user body models.RegisterRequest true "User to register"
// @Produce json
// @Success 201 {object} models.AuthResponse
// @Router /api/users [post]
func RegisterUser(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		req := new(models.RegisterRequest)
		if err := c.BodyParser(req); err != nil {
			return ErrorResponse(c, fiber.StatusBadRequest, "request body malformed")
		}
		if req.Name == "" || req.Email == "" || req.Password == "" {
			return ErrorResponse(c, fiber.StatusBadRequest, "Please add all fields")
		}

		_, err := h.Users.FindByEmail(c.Context(), req.Email)
		if err == nil {
			return ErrorResponse(c, fiber.StatusBadRequest, "User already exists")
		}
		if err != database.ErrNotFound {
			h.L.WithError(err).Error("[UserDB] failed checking existing user")
			return ErrorResponse(c, fiber.StatusInternalServerError, "Server Error")
		}

		hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
		if err != nil {
			h.L.WithError(err).Error("failed hashing password")
			return ErrorResponse(c, fiber.StatusInternalServerError, "Server Error")
		}

		user := &models.User{
			Name:      req.Name,
			Email:     req.Email,
			Password:  hash,
			CreatedAt: time.Now().UTC(),
		}
		if err := h.Users.Insert(c.Context(), user); err != nil {
			h.L.WithError(err).Error("[UserDB] failed creating user")
			return ErrorResponse(c, fiber.StatusInternalServerError, "Server Error")
		}

		token, err := SignToken(user)
		if err != nil {
			h.L.WithError(err).Error("failed signing token")
			return ErrorResponse(c, fiber.StatusInternalServerError, "Server Error")
		}
		return c.Status(fiber.StatusCreated).JSON(models.AuthResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Token: token,
		})
	}
}

// @Summary Log a user in.
// @Description verify credentials and return a bearer token.
// @Tags users
// @Accept json
// @Param credentials body models.LoginRequest true "Login credentials"
// @Produce json
// @Success 200 {object} models.AuthResponse
// @Router /api/users/login [post]
func LoginUser(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		req := new(models.LoginRequest)
		if err := c.BodyParser(req); err != nil {
			return ErrorResponse(c, fiber.StatusBadRequest, "request body malformed")
		}

		user, err := h.Users.FindByEmail(c.Context(), req.Email)
		if err != nil {
			if err == database.ErrNotFound {
				return ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials")
			}
			h.L.WithError(err).Error("[UserDB] failed fetching user")
			return ErrorResponse(c, fiber.StatusInternalServerError, "Server Error")
		}

		match, err := argon2id.ComparePasswordAndHash(req.Password, user.Password)
		if err != nil {
			h.L.WithError(err).Error("failed comparing password hash")
			return ErrorResponse(c, fiber.StatusInternalServerError, "Server Error")
		}
		if !match {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials")
		}

		token, err := SignToken(user)
		if err != nil {
			h.L.WithError(err).Error("failed signing token")
			return ErrorResponse(c, fiber.StatusInternalServerError, "Server Error")
		}
		return c.Status(fiber.StatusOK).JSON(models.AuthResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Token: token,
		})
	}
}

// @Summary Get the current user.
// @Description fetch the authenticated caller's profile.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /api/users/me [get]
func GetMe() func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(CurrentUser(c))
	}
}
