package backend

import (
	"errors"
	"net/http"

	"github.com/jo-hoe/goresize/internal/convert"
	"github.com/jo-hoe/goresize/internal/core"
	"github.com/jo-hoe/goresize/internal/format"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type APIService struct {
	coreService *core.CoreService
	logger      *zap.Logger
}

type ConvertRequest struct {
	SourcePath string `json:"sourcePath"`
	Width      int    `json:"width" validate:"min=1,max=9999"`
	Height     int    `json:"height" validate:"min=1,max=9999"`
	Format     string `json:"format" validate:"required"`
}

type ConvertResponse struct {
	Path string `json:"path"`
}

type ErrorResponse struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type FormatsResponse struct {
	Formats         []string `json:"formats"`
	OutputDirectory string   `json:"outputDirectory"`
}

func NewAPIService(coreService *core.CoreService, logger *zap.Logger) *APIService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIService{
		coreService: coreService,
		logger:      logger,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET("/probe", func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})

	e.GET("/api/formats", s.formatsHandler)
	e.POST("/api/convert", s.convertHandler)
}

func (s *APIService) formatsHandler(ctx echo.Context) error {
	formats := s.coreService.Formats()
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, f.String())
	}
	return ctx.JSON(http.StatusOK, FormatsResponse{
		Formats:         names,
		OutputDirectory: s.coreService.OutputDirectory(),
	})
}

func (s *APIService) convertHandler(ctx echo.Context) error {
	var body ConvertRequest
	if err := ctx.Bind(&body); err != nil {
		s.logger.Warn("convertHandler: failed to bind request body", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "received malformed request body")
	}
	if err := ctx.Validate(&body); err != nil {
		return err
	}

	f, err := format.Parse(body.Format)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Category: convert.KindInvalidRequest.String(),
			Message:  err.Error(),
		})
	}

	dest, err := s.coreService.Convert(ctx.Request().Context(), convert.Request{
		SourcePath: body.SourcePath,
		Width:      body.Width,
		Height:     body.Height,
		Format:     f,
	})
	if err != nil {
		status := statusFor(err)
		s.logger.Warn("convertHandler: conversion failed",
			zap.Int("status", status),
			zap.String("source", body.SourcePath),
			zap.Error(err))
		return ctx.JSON(status, ErrorResponse{
			Category: convert.KindOf(err).String(),
			Message:  convert.Message(err),
		})
	}

	return ctx.JSON(http.StatusOK, ConvertResponse{Path: dest})
}

// statusFor maps conversion failures to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, convert.ErrNoFileSelected), errors.Is(err, convert.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, convert.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, convert.ErrCanceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
