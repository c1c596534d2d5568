package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/objectstore"
)

// FileHandler streams objects from the local backend under /files/<category>/<key>.
type FileHandler struct {
	log   *logger.Logger
	store objectstore.Store
}

func NewFileHandler(log *logger.Logger, store objectstore.Store) *FileHandler {
	return &FileHandler{log: log.With("handler", "FileHandler"), store: store}
}

// GET /files/*path
func (h *FileHandler) Serve(c *gin.Context) {
	category, key, found := strings.Cut(strings.TrimPrefix(c.Param("path"), "/"), "/")
	cat := objectstore.Category(category)
	if !found || key == "" || !cat.Valid() {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("file not found"))
		return
	}
	rc, err := h.store.Open(c.Request.Context(), cat, key)
	if errors.Is(err, objectstore.ErrNotFound) {
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("file not found"))
		return
	}
	if err != nil {
		h.log.Warn("Open object failed", "category", category, "key", key, "error", err)
		response.RespondError(c, http.StatusNotFound, "not_found", errors.New("file not found"))
		return
	}
	defer rc.Close()

	ctype := mime.TypeByExtension(path.Ext(key))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	c.Header("Content-Type", ctype)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.Debug("Stream object interrupted", "key", key, "error", err)
	}
}
