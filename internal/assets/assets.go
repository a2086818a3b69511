package assets

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"escaperoom/internal/source"
)

//go:embed index.html
var indexHTML []byte

// Handler serves the page and the JSON documents the rooms fetch.
type Handler struct {
	DataDir string
}

func NewHandler(dataDir string) *Handler {
	return &Handler{DataDir: dataDir}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.index)
	r.GET("/"+source.BooksDocument, h.document(source.BooksDocument))
	r.GET("/"+source.DirectionsDocument, h.document(source.DirectionsDocument))
}

func (h *Handler) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// document reads the file on every request so edits show up without a
// restart.
func (h *Handler) document(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := os.ReadFile(filepath.Join(h.DataDir, name))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read " + name + ": " + err.Error()})
			return
		}
		// refuse to serve a broken file as if it were fine
		if !json.Valid(b) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": name + " is not valid JSON"})
			return
		}
		c.Data(http.StatusOK, "application/json", b)
	}
}
