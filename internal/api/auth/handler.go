package auth

import (
	"errors"
	"net/http"
	"time"

	"vpn-backend/config"
	"vpn-backend/database"
	"vpn-backend/internal/api/httperr"
	"vpn-backend/internal/domain/devices"
	"vpn-backend/internal/domain/subscriptions"
	"vpn-backend/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func issueAppJWT(user *users.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	})
	return token.SignedString([]byte(config.JWT_SECRET))
}

func Register(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := users.User{
		Email:        input.Email,
		PasswordHash: string(hashed),
		AuthProvider: "local",
		Role:         users.RoleUser,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
			return
		}
		httperr.Respond(c, err)
		return
	}

	// every user carries a subscription, at minimum the free tier
	if _, err := subscriptions.Ensure(database.DB, user.ID); err != nil {
		httperr.Respond(c, err)
		return
	}

	tokenString, err := issueAppJWT(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": tokenString, "token_type": "bearer"})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user users.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Bad credentials"})
		return
	}

	if user.PasswordHash == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "This account uses Google sign-in"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Bad credentials"})
		return
	}

	tokenString, err := issueAppJWT(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	// Device slot enforcement happens after the credential check. An
	// expired subscription still gets its token (the device just isn't
	// registered); no subscription at all blocks the login.
	err = devices.RegisterOrTouchLogin(
		database.DB,
		&user,
		c.GetHeader("X-Device-Id"),
		c.GetHeader("X-Device-Name"),
	)
	if err != nil && !errors.Is(err, subscriptions.ErrExpired) {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": tokenString, "token_type": "bearer"})
}
