package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/johnwmail/lpaste/internal/highlight"
	"github.com/johnwmail/lpaste/internal/languages"
	"github.com/johnwmail/lpaste/internal/metrics"
	"github.com/johnwmail/lpaste/internal/models"
	"github.com/johnwmail/lpaste/internal/services"
	"github.com/johnwmail/lpaste/internal/session"
)

// DeletedMessage is flashed after a paste has been deleted.
const DeletedMessage = "The item has been deleted."

// ParamPasteID names the route parameter carrying the paste id.
const ParamPasteID = "paste_id"

// page is the data every template is rendered with.
type page struct {
	PageTitle string
	CSS       template.CSS

	// index.html
	Messages  []string
	Missing   []string
	Form      services.CreatePasteRequest
	Languages []string

	// show_item.html
	Item        *models.Paste
	Date        string
	Highlighted template.HTML
}

// PasteHandler serves the paste pages.
type PasteHandler struct {
	service  *services.PasteService
	renderer *highlight.Renderer
	logger   zerolog.Logger
}

// NewPasteHandler creates a new paste handler
func NewPasteHandler(service *services.PasteService, renderer *highlight.Renderer, logger zerolog.Logger) *PasteHandler {
	return &PasteHandler{
		service:  service,
		renderer: renderer,
		logger:   logger,
	}
}

// Index renders the submission form via GET /
func (h *PasteHandler) Index(c *gin.Context) {
	messages := session.FromContext(c).DrainFlashes()

	c.HTML(http.StatusOK, "index.html", page{
		Messages:  messages,
		Form:      services.CreatePasteRequest{Language: languages.Names()[0]},
		Languages: languages.Names(),
	})
}

// Create stores a submitted paste via POST / and redirects to it.
func (h *PasteHandler) Create(c *gin.Context) {
	req, err := bindPasteForm(c)
	if err != nil {
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	id, err := h.service.CreatePaste(c.Request.Context(), req)
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.HTML(http.StatusBadRequest, "index.html", page{
			Missing:   verr.Fields,
			Form:      req,
			Languages: languages.Names(),
		})
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/"+id)
}

// Show renders a paste page via GET /:paste_id
func (h *PasteHandler) Show(c *gin.Context) {
	p, ok := h.lookup(c)
	if !ok {
		return
	}

	highlighted, err := h.renderer.Render(p.Content, p.Language, false)
	if err != nil {
		h.fail(c, err)
		return
	}
	css, err := h.renderer.CSS()
	if err != nil {
		h.fail(c, err)
		return
	}

	metrics.PastesViewed.WithLabelValues("page").Inc()
	c.HTML(http.StatusOK, "show_item.html", page{
		PageTitle:   p.Title,
		CSS:         css,
		Item:        p,
		Date:        p.DisplayDate(),
		Highlighted: highlighted,
	})
}

// HTML serves the highlighted fragment with inline styles via GET /:paste_id/html
func (h *PasteHandler) HTML(c *gin.Context) {
	p, ok := h.lookup(c)
	if !ok {
		return
	}

	fragment, err := h.renderer.Render(p.Content, p.Language, true)
	if err != nil {
		h.fail(c, err)
		return
	}

	metrics.PastesViewed.WithLabelValues("html").Inc()
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fragment))
}

// Plain serves the stored content unchanged via GET /:paste_id/plain
func (h *PasteHandler) Plain(c *gin.Context) {
	p, ok := h.lookup(c)
	if !ok {
		return
	}

	metrics.PastesViewed.WithLabelValues("plain").Inc()
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(p.Content))
}

// Delete removes a paste via GET /:paste_id/delete and returns to the index.
func (h *PasteHandler) Delete(c *gin.Context) {
	lookup, err := h.service.DeletePaste(c.Request.Context(), c.Param(ParamPasteID))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !lookup.Found() {
		h.NotFound(c)
		return
	}

	session.FromContext(c).PushFlash(DeletedMessage)
	c.Redirect(http.StatusFound, "/")
}

// NotFound renders the 404 page.
func (h *PasteHandler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", page{PageTitle: "Not Found"})
}

// lookup fetches the paste named in the path. It writes the response itself
// when there is nothing to show.
func (h *PasteHandler) lookup(c *gin.Context) (*models.Paste, bool) {
	lookup, err := h.service.GetPaste(c.Request.Context(), c.Param(ParamPasteID))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	if !lookup.Found() {
		h.NotFound(c)
		return nil, false
	}
	return lookup.Paste, true
}

// fail records err on the context and sets the status it maps to. The
// response body is left to the error middleware.
func (h *PasteHandler) fail(c *gin.Context, err error) {
	h.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	_ = c.AbortWithError(models.Status(err), err)
}
