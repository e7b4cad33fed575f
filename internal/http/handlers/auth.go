package handlers

import (
	"net/http"
	"strings"
	"time"

	"garageclient/internal/domain/models"
	"garageclient/internal/http/middleware"
	"garageclient/internal/store"
	"garageclient/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (g *Garage) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}

	user, ok := g.findUserByLogin(req.Email)
	if !ok || !g.State.checkPassword(user.ID, req.Password) {
		fail(c, http.StatusUnauthorized, "wrong email/username or password")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(g.State.Env.TokenTTL).Unix(),
	})

	tokenString, err := token.SignedString([]byte(g.State.Env.JWTSecret))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to sign token")
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "login", "user_id="+user.ID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   tokenString,
		"user":    user,
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// POST /api/auth/register
func (g *Garage) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	if _, exists := g.findUserByLogin(req.Email); exists {
		fail(c, http.StatusBadRequest, "email or username already registered")
		return
	}
	if _, exists := g.findUserByLogin(req.Username); req.Username != "" && exists {
		fail(c, http.StatusBadRequest, "email or username already registered")
		return
	}

	user := g.State.Users.Insert(models.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     "user",
		Status:   "active",
	})
	g.State.setPassword(user.ID, req.Password)

	utils.LogEvent(middleware.GetRequestID(c), "auth", "register", "user_id="+user.ID)
	okData(c, http.StatusCreated, user)
}

func (g *Garage) findUserByLogin(login string) (models.User, bool) {
	login = strings.TrimSpace(strings.ToLower(login))
	if login == "" {
		return models.User{}, false
	}
	users, _ := g.State.Users.List(store.ListQuery{Page: 1, Limit: 200})
	for _, u := range users {
		if strings.ToLower(u.Email) == login || strings.ToLower(u.Username) == login {
			return u, true
		}
	}
	return models.User{}, false
}
