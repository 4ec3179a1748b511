package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/jaiparmani/ToolBoxWebServices/internal/apperr"
	"github.com/jaiparmani/ToolBoxWebServices/internal/arraysum"
	"github.com/jaiparmani/ToolBoxWebServices/models"
)

const (
	arraySumToolName     = "Array Sum Tool"
	arraySumCategoryName = "Math"
)

type ToolController struct {
	DB  *gorm.DB
	Log *logrus.Logger
}

type toolCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type toolRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CategoryID  *uint   `json:"category"`
	InputType   *string `json:"input_type"`
	OutputType  *string `json:"output_type"`
	IsActive    *bool   `json:"is_active"`
}

type arraySumBody struct {
	InputData struct {
		Array *[]any `json:"array"`
	} `json:"input_data"`
}

func (tc ToolController) ListCategories(c *gin.Context) {
	page, pageSize := pagination(c)

	var count int64
	if err := tc.DB.Model(&models.ToolCategory{}).Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}
	var categories []models.ToolCategory
	err := tc.DB.Order("name ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&categories).Error
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated{Count: count, Page: page, PageSize: pageSize, Results: categories})
}

func (tc ToolController) CreateCategory(c *gin.Context) {
	var req toolCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	if req.Name == "" {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "name is required"))
		return
	}
	var existing int64
	tc.DB.Model(&models.ToolCategory{}).Where("name = ?", req.Name).Count(&existing)
	if existing > 0 {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "a tool category with this name already exists"))
		return
	}
	category := models.ToolCategory{Name: req.Name, Description: req.Description}
	if err := tc.DB.Create(&category).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (tc ToolController) ListTools(c *gin.Context) {
	page, pageSize := pagination(c)

	q := tc.DB.Model(&models.Tool{})
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, apperr.Wrap(apperr.ErrInvalidFilter, "category %q", raw))
			return
		}
		q = q.Where("category_id = ?", id)
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, apperr.Wrap(apperr.ErrInvalidFilter, "is_active %q", raw))
			return
		}
		q = q.Where("is_active = ?", active)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}
	var tools []models.Tool
	err := q.Order("name ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&tools).Error
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated{Count: count, Page: page, PageSize: pageSize, Results: tools})
}

func (tc ToolController) CreateTool(c *gin.Context) {
	var req toolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	if req.Name == nil || *req.Name == "" {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "name is required"))
		return
	}
	if req.CategoryID == nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "category is required"))
		return
	}
	var category models.ToolCategory
	if err := tc.DB.First(&category, *req.CategoryID).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "invalid tool category"))
		return
	}

	tool := models.Tool{
		Name:       *req.Name,
		CategoryID: category.ID,
		InputType:  models.ToolInputText,
		OutputType: models.ToolOutputText,
		IsActive:   true,
	}
	if req.Description != nil {
		tool.Description = *req.Description
	}
	if req.InputType != nil {
		tool.InputType = *req.InputType
	}
	if req.OutputType != nil {
		tool.OutputType = *req.OutputType
	}
	if req.IsActive != nil {
		tool.IsActive = *req.IsActive
	}
	if err := tc.DB.Create(&tool).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	c.JSON(http.StatusCreated, tool)
}

func (tc ToolController) GetTool(c *gin.Context) {
	tool, err := tc.fetchTool(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool)
}

func (tc ToolController) UpdateTool(c *gin.Context) {
	tool, err := tc.fetchTool(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req toolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	if req.Name != nil {
		tool.Name = *req.Name
	}
	if req.Description != nil {
		tool.Description = *req.Description
	}
	if req.CategoryID != nil {
		var category models.ToolCategory
		if err := tc.DB.First(&category, *req.CategoryID).Error; err != nil {
			respondError(c, apperr.Wrap(apperr.ErrValidation, "invalid tool category"))
			return
		}
		tool.CategoryID = category.ID
	}
	if req.InputType != nil {
		tool.InputType = *req.InputType
	}
	if req.OutputType != nil {
		tool.OutputType = *req.OutputType
	}
	if req.IsActive != nil {
		tool.IsActive = *req.IsActive
	}
	if err := tc.DB.Save(tool).Error; err != nil {
		respondError(c, apperr.Wrap(apperr.ErrValidation, "%s", err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool)
}

func (tc ToolController) DeleteTool(c *gin.Context) {
	tool, err := tc.fetchTool(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := tc.DB.Delete(tool).Error; err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (tc ToolController) ListExecutions(c *gin.Context) {
	page, pageSize := pagination(c)

	q := tc.DB.Model(&models.ToolExecution{})
	if raw := c.Query("tool"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, apperr.Wrap(apperr.ErrInvalidFilter, "tool %q", raw))
			return
		}
		q = q.Where("tool_id = ?", id)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}
	var executions []models.ToolExecution
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&executions).Error
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated{Count: count, Page: page, PageSize: pageSize, Results: executions})
}

// ArraySumQuery sums a numeric sequence supplied via query parameters.
func (tc ToolController) ArraySumQuery(c *gin.Context) {
	started := time.Now()
	nums, err := arraysum.ParseQuery(c.Request.URL.Query())
	tc.finishArraySum(c, started, c.Request.URL.RawQuery, nums, err)
}

// ArraySumBody sums a numeric sequence supplied in the request body.
func (tc ToolController) ArraySumBody(c *gin.Context) {
	started := time.Now()

	var body arraySumBody
	if err := c.ShouldBindJSON(&body); err != nil {
		tc.finishArraySum(c, started, "", nil, apperr.Wrap(apperr.ErrMalformedArray, "%s", err.Error()))
		return
	}
	if body.InputData.Array == nil {
		tc.finishArraySum(c, started, "", nil, apperr.Wrap(apperr.ErrMissingInput, `"input_data.array" is required`))
		return
	}

	nums, err := arraysum.ParseBody(*body.InputData.Array)
	raw, _ := json.Marshal(gin.H{"array": *body.InputData.Array})
	tc.finishArraySum(c, started, string(raw), nums, err)
}

func (tc ToolController) finishArraySum(c *gin.Context, started time.Time, rawInput string, nums []float64, parseErr error) {
	elapsed := time.Since(started).Seconds()

	if parseErr != nil {
		tc.recordExecution(rawInput, "", elapsed, parseErr)
		respondError(c, parseErr)
		return
	}

	total, count := arraysum.Sum(nums)
	output, _ := json.Marshal(gin.H{"result": total, "count": count})
	executionID := tc.recordExecution(rawInput, string(output), elapsed, nil)

	c.JSON(http.StatusOK, gin.H{
		"result":         total,
		"count":          count,
		"execution_id":   executionID,
		"execution_time": elapsed,
	})
}

// recordExecution writes the audit row for an array-sum invocation.
// Auditing is best effort and never fails the request.
func (tc ToolController) recordExecution(input, output string, elapsed float64, execErr error) uint {
	tool, err := tc.arraySumTool()
	if err != nil {
		tc.Log.WithError(err).Warn("tool execution audit skipped")
		return 0
	}

	execution := models.ToolExecution{
		ToolID:        tool.ID,
		InputData:     input,
		OutputData:    output,
		ExecutionTime: elapsed,
		Status:        models.ExecutionSuccess,
	}
	if execErr != nil {
		execution.Status = models.ExecutionFailed
		execution.ErrorMessage = execErr.Error()
	}
	if err := tc.DB.Create(&execution).Error; err != nil {
		tc.Log.WithError(err).Warn("tool execution audit failed")
		return 0
	}
	return execution.ID
}

// arraySumTool returns the registry entry for the array-sum tool,
// creating the tool and its category on first use.
func (tc ToolController) arraySumTool() (*models.Tool, error) {
	var category models.ToolCategory
	err := tc.DB.Where(models.ToolCategory{Name: arraySumCategoryName}).
		Attrs(models.ToolCategory{Description: "Mathematical operations"}).
		FirstOrCreate(&category).Error
	if err != nil {
		return nil, err
	}

	var tool models.Tool
	err = tc.DB.Where(models.Tool{Name: arraySumToolName, CategoryID: category.ID}).
		Attrs(models.Tool{
			Description: "Sums an array of numbers",
			InputType:   models.ToolInputArray,
			OutputType:  models.ToolOutputNumber,
			IsActive:    true,
		}).
		FirstOrCreate(&tool).Error
	if err != nil {
		return nil, err
	}
	return &tool, nil
}

func (tc ToolController) fetchTool(c *gin.Context) (*models.Tool, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	var tool models.Tool
	if err := tc.DB.First(&tool, id).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "tool %d", id)
	}
	return &tool, nil
}
