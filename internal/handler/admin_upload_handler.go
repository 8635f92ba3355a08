package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rainbowlistings/directory/internal/service"
)

// MaxUploadBytes caps the size of an imported CSV file.
const MaxUploadBytes = 10 << 20

// AdminUploadHandler imports business listings from CSV files.
type AdminUploadHandler struct {
	imports *service.ImportService
}

// NewAdminUploadHandler wires a handler backed by the import service.
func NewAdminUploadHandler(imports *service.ImportService) *AdminUploadHandler {
	return &AdminUploadHandler{imports: imports}
}

// UploadCSV handles POST /admin/upload-csv with the file in the "file" form field.
func (h *AdminUploadHandler) UploadCSV(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, http.StatusBadRequest, "missing csv file")
	}
	if fileHeader.Size > MaxUploadBytes {
		return Error(c, http.StatusRequestEntityTooLarge, "csv file is too large")
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != "" && ext != ".csv" {
		return Error(c, http.StatusBadRequest, "file must be a .csv")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "unable to open file")
	}
	defer file.Close()

	ctx := c.Request().Context()
	logger := zerolog.Ctx(ctx).With().Str("file", fileHeader.Filename).Logger()

	summary, err := h.imports.ImportBusinessesCSV(ctx, file)
	if err != nil {
		var invalid service.CSVValidationError
		if errors.As(err, &invalid) {
			logger.Info().Str("reason", invalid.Message).Msg("csv import rejected")
			return Error(c, http.StatusBadRequest, invalid.Error())
		}
		logger.Error().Err(err).Msg("csv import failed")
		return Error(c, http.StatusInternalServerError, "failed to process csv")
	}

	logger.Info().
		Int("inserted", summary.Inserted).
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Msg("csv import finished")
	return Success(c, http.StatusOK, "businesses CSV processed", summary)
}
