package controllers

import (
	"errors"
	"net/http"

	"github.com/suraj371k/trello/config"
	"github.com/suraj371k/trello/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserController exposes read-only views of borrowed users. Accounts are
// owned by the external auth service; the board only lists them for
// assignment pickers and echoes the acting user's profile.
type UserController struct{}

// GetUsers handles GET /api/users/.
func (uc *UserController) GetUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Order("username ASC").Find(&users).Error; err != nil {
		config.Logger.Errorw("failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error."})
		return
	}

	refs := make([]models.UserRef, len(users))
	for i := range users {
		refs[i] = *models.NewUserRef(&users[i])
	}
	c.JSON(http.StatusOK, gin.H{"users": refs})
}

// GetProfile handles GET /api/users/me.
func (uc *UserController) GetProfile(c *gin.Context) {
	uid := c.GetString("uid")

	var user models.User
	if err := config.DB.First(&user, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}
		config.Logger.Errorw("failed to load user", "uid", uid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": models.NewUserRef(&user)})
}
