package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casestudyai/casestudyai/internal/model"
	appErr "github.com/casestudyai/casestudyai/internal/pkg/errors"
	"github.com/casestudyai/casestudyai/internal/service"
)

type UploadHandler struct {
	svc      *service.UploadService
	openPart func(*multipart.FileHeader) (multipart.File, error)
}

func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{
		svc: svc,
		openPart: func(fh *multipart.FileHeader) (multipart.File, error) {
			return fh.Open()
		},
	}
}

// Upload accepts a multipart document and forwards it through the ingestion
// path. Failures keep the endpoint's response shape (success=false plus a
// message) with the status mapped from the error kind. A missing file part
// is a client fault; failing to open or read an accepted part is ours.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, model.UploadResponse{
			Success: false,
			Message: "file is required",
		})
		return
	}
	opened, err := h.openPart(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.UploadResponse{
			Success:  false,
			Filename: file.Filename,
			Message:  "failed to open uploaded file",
		})
		return
	}
	defer opened.Close()

	// The whole upload is read into memory so the size check sees the real
	// byte count, not the client-declared one.
	data, err := io.ReadAll(opened)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.UploadResponse{
			Success:  false,
			Filename: file.Filename,
			Message:  "failed to read uploaded file",
		})
		return
	}

	resp, err := h.svc.Ingest(c.Request.Context(), file.Filename, data)
	if err != nil {
		logError(c, err)
		c.JSON(statusFor(err), model.UploadResponse{
			Success:  false,
			Filename: file.Filename,
			Message:  failureMessage(err),
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// failureMessage keeps validation detail client-visible while upstream and
// internal detail stays in the server log.
func failureMessage(err error) string {
	if appErr.IsInvalid(err) || appErr.IsUnavailable(err) {
		return appErr.Message(err)
	}
	return "upload failed, please try again later"
}
