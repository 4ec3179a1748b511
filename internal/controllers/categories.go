package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/jaiparmani/ToolBoxWebServices/internal/apperr"
	"github.com/jaiparmani/ToolBoxWebServices/models"
)

// CategoryController manages the global (account-independent) expense
// categories. Deactivation is soft; DELETE removes the row and cascades
// are left to the record endpoints.
type CategoryController struct {
	DB  *gorm.DB
	Log *logrus.Logger
}

type categoryRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Color           *string `json:"color"`
	Icon            *string `json:"icon"`
	TransactionType *string `json:"transaction_type"`
	IsActive        *bool   `json:"is_active"`
}

// categoryKindValid reports whether the kind may be declared on a
// category. Repayment exists only on records, as part of a debt chain.
func categoryKindValid(t models.TransactionType) bool {
	return t.Valid() && t != models.TypeRepayment
}

func (cc CategoryController) List(c *gin.Context) {
	page, size := pagination(c)

	q := cc.DB.Model(&models.Category{}).Where("is_active = ?", true)
	if v := c.Query("type"); v != "" {
		q = q.Where("transaction_type = ?", v)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}

	var categories []models.Category
	err := q.Order("transaction_type").Order("name").
		Limit(size).Offset((page - 1) * size).
		Find(&categories).Error
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated{Count: count, Page: page, PageSize: size, Results: categories})
}

func (cc CategoryController) Create(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	if req.Name == nil || *req.Name == "" {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "name is required"))
		return
	}

	category := models.Category{
		Name:            *req.Name,
		Color:           "#007bff",
		TransactionType: models.TypeExpense,
		IsActive:        true,
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Color != nil && *req.Color != "" {
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.TransactionType != nil {
		t := models.TransactionType(*req.TransactionType)
		if !categoryKindValid(t) {
			respondError(c, apperr.Wrap(apperr.ErrValidation, "transaction_type %q", *req.TransactionType))
			return
		}
		category.TransactionType = t
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	var existing int64
	cc.DB.Model(&models.Category{}).Where("name = ?", category.Name).Count(&existing)
	if existing > 0 {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "a category with this name already exists"))
		return
	}

	if err := cc.DB.Create(&category).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	cc.Log.WithField("category", category.Name).Info("category created")
	c.JSON(http.StatusCreated, category)
}

func (cc CategoryController) Get(c *gin.Context) {
	category, err := cc.fetch(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (cc CategoryController) Update(c *gin.Context) {
	category, err := cc.fetch(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	if req.Name != nil && *req.Name != category.Name {
		var existing int64
		cc.DB.Model(&models.Category{}).Where("name = ?", *req.Name).Count(&existing)
		if existing > 0 {
			respondError(c, apperr.Wrap(apperr.ErrValidation, "a category with this name already exists"))
			return
		}
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Color != nil && *req.Color != "" {
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.TransactionType != nil {
		t := models.TransactionType(*req.TransactionType)
		if !categoryKindValid(t) {
			respondError(c, apperr.Wrap(apperr.ErrValidation, "transaction_type %q", *req.TransactionType))
			return
		}
		// Kind changes are not retroactive; existing records keep the
		// kind they were written with.
		category.TransactionType = t
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := cc.DB.Save(&category).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	c.JSON(http.StatusOK, category)
}

func (cc CategoryController) Delete(c *gin.Context) {
	category, err := cc.fetch(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := cc.DB.Delete(&category).Error; err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (cc CategoryController) fetch(c *gin.Context) (models.Category, error) {
	var category models.Category
	id, err := parseID(c)
	if err != nil {
		return category, err
	}
	err = cc.DB.First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return category, apperr.Wrap(apperr.ErrNotFound, "category %d", id)
	}
	return category, err
}
