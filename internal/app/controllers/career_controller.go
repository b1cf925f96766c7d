package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/middleware"
)

// CareerService manages guidelines, interview tips and CV templates
type CareerService interface {
	ListGuidelines(ctx context.Context, category string, public bool) ([]dto.CareerGuidelineResponse, error)
	RecordGuidelineView(ctx context.Context, id int64) (dto.ViewCountResponse, error)
	CreateGuideline(ctx context.Context, form dto.CareerGuidelineForm) (int64, error)
	UpdateGuideline(ctx context.Context, id int64, form dto.CareerGuidelineForm) error
	DeleteGuideline(ctx context.Context, id int64) error

	ListInterviewTips(ctx context.Context, category string, public bool) ([]dto.InterviewTipResponse, error)
	RecordInterviewTipView(ctx context.Context, id int64) (dto.ViewCountResponse, error)
	CreateInterviewTip(ctx context.Context, form dto.InterviewTipForm) (int64, error)
	UpdateInterviewTip(ctx context.Context, id int64, form dto.InterviewTipForm) error
	DeleteInterviewTip(ctx context.Context, id int64) error

	ListCVTemplates(ctx context.Context, category string, public bool) ([]*models.CVTemplate, error)
	RecordCVTemplateDownload(ctx context.Context, id int64) (dto.DownloadCountResponse, error)
	CreateCVTemplate(ctx context.Context, form dto.CVTemplateForm) (int64, error)
	UpdateCVTemplate(ctx context.Context, id int64, form dto.CVTemplateForm) error
	DeleteCVTemplate(ctx context.Context, id int64) error
}

// CareerController handles the career resources section
type CareerController struct {
	service CareerService
}

// NewCareerController creates a new CareerController
func NewCareerController(service CareerService) *CareerController {
	return &CareerController{service: service}
}

// respond writes data or maps err
func respond(c *gin.Context, data any, err error) {
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, data, "")
}

// withID runs fn with the :id parameter and writes its result
func withID[T any](c *gin.Context, fn func(ctx context.Context, id int64) (T, error)) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	res, err := fn(c.Request.Context(), id)
	respond(c, res, err)
}

// Guidelines

func (cc *CareerController) ListGuidelines(c *gin.Context) {
	items, err := cc.service.ListGuidelines(c.Request.Context(), c.Query("category"), true)
	respond(c, items, err)
}

func (cc *CareerController) ListGuidelinesAdmin(c *gin.Context) {
	items, err := cc.service.ListGuidelines(c.Request.Context(), c.Query("category"), false)
	respond(c, items, err)
}

// RecordGuidelineView returns the counter after the increment
func (cc *CareerController) RecordGuidelineView(c *gin.Context) {
	withID(c, cc.service.RecordGuidelineView)
}

func (cc *CareerController) CreateGuideline(c *gin.Context) {
	var form dto.CareerGuidelineForm
	if !bindForm(c, &form) {
		return
	}
	id, err := cc.service.CreateGuideline(c.Request.Context(), form)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	created(c, id, "Guideline created")
}

func (cc *CareerController) UpdateGuideline(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var form dto.CareerGuidelineForm
	if !bindForm(c, &form) {
		return
	}
	if err := cc.service.UpdateGuideline(c.Request.Context(), id, form); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, dto.IDResponse{ID: id}, "Guideline updated")
}

func (cc *CareerController) DeleteGuideline(c *gin.Context) {
	cc.delete(c, cc.service.DeleteGuideline, "Guideline deleted")
}

// Interview tips

func (cc *CareerController) ListInterviewTips(c *gin.Context) {
	items, err := cc.service.ListInterviewTips(c.Request.Context(), c.Query("category"), true)
	respond(c, items, err)
}

func (cc *CareerController) ListInterviewTipsAdmin(c *gin.Context) {
	items, err := cc.service.ListInterviewTips(c.Request.Context(), c.Query("category"), false)
	respond(c, items, err)
}

func (cc *CareerController) RecordInterviewTipView(c *gin.Context) {
	withID(c, cc.service.RecordInterviewTipView)
}

func (cc *CareerController) CreateInterviewTip(c *gin.Context) {
	var form dto.InterviewTipForm
	if !bindForm(c, &form) {
		return
	}
	id, err := cc.service.CreateInterviewTip(c.Request.Context(), form)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	created(c, id, "Interview tip created")
}

func (cc *CareerController) UpdateInterviewTip(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var form dto.InterviewTipForm
	if !bindForm(c, &form) {
		return
	}
	if err := cc.service.UpdateInterviewTip(c.Request.Context(), id, form); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, dto.IDResponse{ID: id}, "Interview tip updated")
}

func (cc *CareerController) DeleteInterviewTip(c *gin.Context) {
	cc.delete(c, cc.service.DeleteInterviewTip, "Interview tip deleted")
}

// CV templates

func (cc *CareerController) ListCVTemplates(c *gin.Context) {
	items, err := cc.service.ListCVTemplates(c.Request.Context(), c.Query("category"), true)
	respond(c, items, err)
}

func (cc *CareerController) ListCVTemplatesAdmin(c *gin.Context) {
	items, err := cc.service.ListCVTemplates(c.Request.Context(), c.Query("category"), false)
	respond(c, items, err)
}

// RecordCVTemplateDownload returns the new counter and the file URL to open
func (cc *CareerController) RecordCVTemplateDownload(c *gin.Context) {
	withID(c, cc.service.RecordCVTemplateDownload)
}

func (cc *CareerController) CreateCVTemplate(c *gin.Context) {
	var form dto.CVTemplateForm
	if !bindForm(c, &form) {
		return
	}
	id, err := cc.service.CreateCVTemplate(c.Request.Context(), form)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	created(c, id, "CV template created")
}

func (cc *CareerController) UpdateCVTemplate(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var form dto.CVTemplateForm
	if !bindForm(c, &form) {
		return
	}
	if err := cc.service.UpdateCVTemplate(c.Request.Context(), id, form); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, dto.IDResponse{ID: id}, "CV template updated")
}

func (cc *CareerController) DeleteCVTemplate(c *gin.Context) {
	cc.delete(c, cc.service.DeleteCVTemplate, "CV template deleted")
}

func (cc *CareerController) delete(c *gin.Context, fn func(ctx context.Context, id int64) error, message string) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, nil, message)
}
