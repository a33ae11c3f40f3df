package http

import (
	"errors"
	"net/http"

	"github.com/builderstudio/briefs-backend/internal/apperr"
	"github.com/builderstudio/briefs-backend/internal/briefs/domain"
	"github.com/builderstudio/briefs-backend/internal/logging"
	"github.com/gin-gonic/gin"
)

// maxDetailLen bounds error messages rendered to clients.
const maxDetailLen = 200

type CreateBriefResponse struct {
	ID string `json:"id"`
}

// ErrorDetail is one entry of a 422 response's "detail" list.
type ErrorDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func validationDetails(source string, verr *domain.ValidationError) []ErrorDetail {
	out := make([]ErrorDetail, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		out = append(out, ErrorDetail{Loc: []string{source, f.Field}, Msg: f.Message, Type: f.Type})
	}
	return out
}

func writeUnprocessable(c *gin.Context, details ...ErrorDetail) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": details})
}

// writeError renders err at the HTTP boundary. Validation failures become
// 422s; everything else is a 500 with a truncated message.
func writeError(c *gin.Context, op string, err error) {
	log := logging.New(c.Request.Context())

	if apperr.KindOf(err) == apperr.KindValidation {
		log.LogWarnf(op, "rejected: %v", err)
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeUnprocessable(c, validationDetails("body", verr)...)
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": apperr.Truncate(err.Error(), maxDetailLen)})
		return
	}

	log.LogError(op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": apperr.Truncate(err.Error(), maxDetailLen)})
}
