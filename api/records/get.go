package records

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/corpus-api/api/types"
)

// Get lists every audio and text record
// @Summary      List records
// @Description  Audio and text records, most recent upload first. Linked audio records carry the extracted content of their text file; unlinked ones carry placeholders.
// @Tags         records
// @Produce      json
// @Success      200 {object} types.RecordsResponse
// @Failure      500 {object} types.ErrorResponse "Database failure"
// @Router       /records [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := deps.RecordService.List(c.Request.Context())
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.NewRecordsResponse(listing))
	}
}
