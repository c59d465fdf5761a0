package records

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/corpus-api/api/types"
)

// DeleteAudio deletes audio records and their files
// @Summary      Delete audio records
// @Description  Delete audio records by id and remove their files. Text records are not affected.
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        request body types.DeleteRequest true "Record ids"
// @Success      200 {object} types.DeleteResponse
// @Failure      400 {object} types.ErrorResponse "Missing or malformed ids"
// @Failure      429 {object} types.ErrorResponse "Rate limit exceeded"
// @Failure      500 {object} types.ErrorResponse "Database failure"
// @Router       /delete_audio [post]
func DeleteAudio(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, ok := types.BindIDs(c)
		if !ok {
			return // Error response already sent by utility
		}

		result, err := deps.RecordService.DeleteAudio(c.Request.Context(), ids)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.NewDeleteResponse(result))
	}
}

// DeleteText deletes text records and their files
// @Summary      Delete text records
// @Description  Delete text records by id and remove their files. Audio records linked to a removed file are unlinked.
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        request body types.DeleteRequest true "Record ids"
// @Success      200 {object} types.DeleteResponse
// @Failure      400 {object} types.ErrorResponse "Missing or malformed ids"
// @Failure      429 {object} types.ErrorResponse "Rate limit exceeded"
// @Failure      500 {object} types.ErrorResponse "Database failure"
// @Router       /delete_text [post]
func DeleteText(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, ok := types.BindIDs(c)
		if !ok {
			return
		}

		result, err := deps.RecordService.DeleteText(c.Request.Context(), ids)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.NewDeleteResponse(result))
	}
}
