package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/jaiparmani/ToolBoxWebServices/internal/apperr"
	"github.com/jaiparmani/ToolBoxWebServices/internal/scope"
	"github.com/jaiparmani/ToolBoxWebServices/models"
)

// TagController manages per-account tags. Unlike categories, tags are
// created and visible only within the acting account's scope.
type TagController struct {
	DB  *gorm.DB
	Log *logrus.Logger
}

type tagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (tc TagController) List(c *gin.Context) {
	page, size := pagination(c)

	user, ok := scope.FromContext(c)
	if !ok {
		c.JSON(http.StatusOK, paginated{Count: 0, Page: page, PageSize: size, Results: []models.Tag{}})
		return
	}

	q := scope.Owned(tc.DB.Model(&models.Tag{}), user.ID)
	var count int64
	if err := q.Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}

	var tags []models.Tag
	if err := q.Order("name").Limit(size).Offset((page - 1) * size).Find(&tags).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated{Count: count, Page: page, PageSize: size, Results: tags})
}

func (tc TagController) Create(c *gin.Context) {
	user, err := scope.Require(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	if req.Name == nil || *req.Name == "" {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "name is required"))
		return
	}

	var existing int64
	scope.Owned(tc.DB.Model(&models.Tag{}), user.ID).Where("name = ?", *req.Name).Count(&existing)
	if existing > 0 {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "you already have a tag with this name"))
		return
	}

	tag := models.Tag{Name: *req.Name, Color: "#6c757d", UserID: user.ID}
	if req.Color != nil && *req.Color != "" {
		tag.Color = *req.Color
	}
	if err := tc.DB.Create(&tag).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	tc.Log.WithFields(logrus.Fields{"tag": tag.Name, "account": user.ID}).Info("tag created")
	c.JSON(http.StatusCreated, tag)
}

func (tc TagController) Get(c *gin.Context) {
	tag, err := tc.fetchOwned(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (tc TagController) Update(c *gin.Context) {
	user, err := scope.Require(c)
	if err != nil {
		respondError(c, err)
		return
	}
	tag, err := tc.fetchOwned(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	if req.Name != nil && *req.Name != tag.Name {
		var existing int64
		scope.Owned(tc.DB.Model(&models.Tag{}), user.ID).Where("name = ?", *req.Name).Count(&existing)
		if existing > 0 {
			respondError(c, apperr.Wrap(apperr.ErrValidation, "you already have a tag with this name"))
			return
		}
		tag.Name = *req.Name
	}
	if req.Color != nil && *req.Color != "" {
		tag.Color = *req.Color
	}
	if err := tc.DB.Save(&tag).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (tc TagController) Delete(c *gin.Context) {
	tag, err := tc.fetchOwned(c)
	if err != nil {
		respondError(c, err)
		return
	}
	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM expense_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (tc TagController) fetchOwned(c *gin.Context) (models.Tag, error) {
	var tag models.Tag
	user, err := scope.Require(c)
	if err != nil {
		return tag, err
	}
	id, err := parseID(c)
	if err != nil {
		return tag, err
	}
	err = scope.Owned(tc.DB, user.ID).First(&tag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tag, apperr.Wrap(apperr.ErrNotFound, "tag %d", id)
	}
	return tag, err
}
