package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"crmhygiene/ingest"
	"crmhygiene/record"
	apperrors "crmhygiene/server/errors"
)

// Максимальный размер загружаемого файла с записями
const MaxUploadSize = 50 << 20 // 50MB

// HandleAuditUpload запускает аудит записей из загруженного файла
// @Summary Провести аудит записей из файла
// @Description Принимает CSV или XLSX файл с записями, прогоняет их через аудит и возвращает результат
// @Tags audit
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV или XLSX файл с записями"
// @Success 200 {object} AuditResponse "Результат аудита"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Failure 413 {object} ErrorResponse "Файл слишком большой"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/audit/upload [post]
func (h *AuditHandler) HandleAuditUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		appErr := apperrors.NewValidationError("не удалось получить файл из формы", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}
	defer file.Close()

	if header.Size > MaxUploadSize {
		appErr := apperrors.NewPayloadTooLargeError(
			fmt.Sprintf("file exceeds maximum size of %d bytes", int64(MaxUploadSize)), nil)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	batch, err := readUploadedBatch(file, header.Filename)
	if err != nil {
		HandleAppError(c, err)
		return
	}

	if len(batch) == 0 {
		SendJSONError(c, http.StatusBadRequest, "file contains no records")
		return
	}

	result := h.runAudit(batch, nil, nil)
	c.JSON(http.StatusOK, h.auditResponse(result))
}

// readUploadedBatch читает батч записей из файла по его расширению
func readUploadedBatch(file io.Reader, filename string) (record.Batch, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, apperrors.NewInternalError("не удалось прочитать файл", err)
		}
		if !utf8.Valid(data) {
			decoded, _, err := transform.Bytes(charmap.Windows1251.NewDecoder(), data)
			if err != nil {
				return nil, apperrors.NewValidationError("не удалось определить кодировку файла", err)
			}
			data = decoded
		}
		batch, err := ingest.ReadCSV(bytes.NewReader(data))
		if err != nil {
			return nil, apperrors.NewValidationError("не удалось разобрать CSV", err)
		}
		return batch, nil
	case ".xlsx":
		batch, err := ingest.ReadXLSX(file)
		if err != nil {
			return nil, apperrors.NewValidationError("не удалось разобрать XLSX", err)
		}
		return batch, nil
	default:
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unsupported file extension: %s (expected .csv or .xlsx)", filepath.Ext(filename)), nil)
	}
}
