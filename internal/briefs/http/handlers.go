package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/builderstudio/briefs-backend/internal/apperr"
	"github.com/builderstudio/briefs-backend/internal/briefs/domain"
	"github.com/builderstudio/briefs-backend/internal/logging"
	"github.com/builderstudio/briefs-backend/internal/store"
	"github.com/gin-gonic/gin"
)

type Options struct {
	DefaultLimit int
	MaxLimit     int
}

// Handler serves the project brief endpoints. A nil gateway means the store
// could not be reached at startup; every request then fails with a 500.
type Handler struct {
	gateway      store.Gateway
	defaultLimit int
	maxLimit     int
}

func NewHandler(gateway store.Gateway, opts Options) *Handler {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 20
	}
	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = opts.DefaultLimit
	}
	return &Handler{
		gateway:      gateway,
		defaultLimit: opts.DefaultLimit,
		maxLimit:     opts.MaxLimit,
	}
}

// CreateBrief validates the body and stores a new ProjectBrief.
func (h *Handler) CreateBrief(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		writeUnprocessable(c, ErrorDetail{
			Loc:  []string{"body"},
			Msg:  "request body must be a JSON object",
			Type: "json_invalid",
		})
		return
	}

	brief, err := domain.ParseProjectBrief(body)
	if err != nil {
		writeError(c, "create_brief", apperr.Validation("create_brief", err))
		return
	}

	id, err := store.CreateEntity(c.Request.Context(), h.gateway, brief)
	if err != nil {
		writeError(c, "create_brief", err)
		return
	}

	logging.New(c.Request.Context()).LogInfof("create_brief", "id=%s", id)
	c.JSON(http.StatusOK, CreateBriefResponse{ID: id})
}

// ListBriefs returns up to ?limit= briefs, most recent first.
func (h *Handler) ListBriefs(c *gin.Context) {
	limit := h.defaultLimit
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeUnprocessable(c, ErrorDetail{
				Loc:  []string{"query", "limit"},
				Msg:  "limit must be a positive integer",
				Type: "int_parsing",
			})
			return
		}
		limit = n
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	if h.gateway == nil {
		writeError(c, "list_briefs", store.ErrUnavailable)
		return
	}

	docs, err := h.gateway.GetDocuments(c.Request.Context(), domain.CollectionProjectBrief, limit)
	if err != nil {
		writeError(c, "list_briefs", err)
		return
	}

	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, publicRecord(d))
	}
	c.JSON(http.StatusOK, out)
}

// publicRecord replaces the internal id key with a text "id" field.
func publicRecord(d store.Document) map[string]any {
	out := make(map[string]any, len(d))
	for k, v := range d {
		if k == store.IDField {
			continue
		}
		out[k] = v
	}
	if id, ok := d[store.IDField]; ok && id != nil {
		out["id"] = fmt.Sprint(id)
	}
	return out
}
