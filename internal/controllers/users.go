package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jaiparmani/ToolBoxWebServices/internal/apperr"
	"github.com/jaiparmani/ToolBoxWebServices/internal/scope"
	"github.com/jaiparmani/ToolBoxWebServices/models"
)

const minPasswordLength = 8

type UserController struct {
	DB  *gorm.DB
	Log *logrus.Logger
}

type registrationRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type profileRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type passwordChangeRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// Register creates a new account. Registration is the only user
// endpoint that does not require a scope.
func (uc UserController) Register(c *gin.Context) {
	var req registrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	if req.Username == "" || req.Email == "" {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "username and email are required"))
		return
	}
	if len(req.Password) < minPasswordLength {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "password must be at least %d characters", minPasswordLength))
		return
	}
	if req.Password != req.PasswordConfirm {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "passwords do not match"))
		return
	}

	var existing int64
	uc.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&existing)
	if existing > 0 {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "a user with this username already exists"))
		return
	}
	uc.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&existing)
	if existing > 0 {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "a user with this email already exists"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	uc.Log.WithField("username", user.Username).Info("user registered")
	c.JSON(http.StatusCreated, user)
}

// Get returns a user's profile. Only the acting account's own profile
// is visible; anything else behaves like a miss.
func (uc UserController) Get(c *gin.Context) {
	user, err := scope.Require(c)
	if err != nil {
		respondError(c, err)
		return
	}
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if id != user.ID {
		respondError(c, apperr.Wrap(apperr.ErrNotFound, "user %d", id))
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc UserController) Profile(c *gin.Context) {
	user, err := scope.Require(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc UserController) UpdateProfile(c *gin.Context) {
	user, err := scope.Require(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	if req.Username != nil && *req.Username != user.Username {
		var existing int64
		uc.DB.Model(&models.User{}).Where("username = ? AND id <> ?", *req.Username, user.ID).Count(&existing)
		if existing > 0 {
			respondError(c, apperr.Wrap(apperr.ErrValidation, "a user with this username already exists"))
			return
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		var existing int64
		uc.DB.Model(&models.User{}).Where("email = ? AND id <> ?", *req.Email, user.ID).Count(&existing)
		if existing > 0 {
			respondError(c, apperr.Wrap(apperr.ErrValidation, "a user with this email already exists"))
			return
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if err := uc.DB.Save(user).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc UserController) ChangePassword(c *gin.Context) {
	user, err := scope.Require(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req passwordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "old password is incorrect"))
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "password must be at least %d characters", minPasswordLength))
		return
	}
	if req.NewPassword != req.NewPasswordConfirm {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "new passwords do not match"))
		return
	}
	if req.NewPassword == req.OldPassword {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "new password must be different from old password"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := uc.DB.Model(user).Update("password_hash", string(hash)).Error; err != nil {
		respondError(c, err)
		return
	}
	uc.Log.WithField("account", user.ID).Info("password changed")
	c.JSON(http.StatusOK, gin.H{"detail": "Password changed successfully."})
}

// Login confirms the scoped account resolves and echoes its profile.
func (uc UserController) Login(c *gin.Context) {
	user, err := scope.Require(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Login successful.", "user": user})
}
