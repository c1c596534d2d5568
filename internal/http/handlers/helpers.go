package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/services"
)

// pathID parses the :id param, writing a 400 when it is not a uuid.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		if err == nil {
			err = errors.New("id is required")
		}
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}

// formUpload reads the named multipart file. The caller must close the returned body.
func formUpload(c *gin.Context, field string) (services.Upload, func(), bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxUploadBytes+1<<20)
	fh, err := c.FormFile(field)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return services.Upload{}, nil, false
	}
	if fh.Size > services.MaxUploadBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", errors.New("file exceeds the upload limit"))
		return services.Upload{}, nil, false
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return services.Upload{}, nil, false
	}
	return services.Upload{Filename: fh.Filename, Body: f}, func() { _ = f.Close() }, true
}

func respondAck(c *gin.Context) {
	response.RespondOK(c, gin.H{"ok": true})
}
