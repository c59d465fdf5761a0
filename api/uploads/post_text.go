package uploads

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/corpus-api/api/types"
)

// PostText handles a batch of transcript or annotation uploads
// @Summary      Upload text files
// @Description  Store one or more text files and record their metadata. Every audio record whose base name prefixes an uploaded filename is linked to it.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        text[]    formData file   true  "Text files (.txt, .docx, .vtt, .srt)"
// @Param        language  formData string false "Language"
// @Success      200 {object} types.UploadTextResponse
// @Failure      400 {object} types.ErrorResponse "No files uploaded or selected"
// @Failure      413 {object} types.ErrorResponse "Request body too large"
// @Failure      429 {object} types.ErrorResponse "Rate limit exceeded"
// @Failure      500 {object} types.ErrorResponse "Storage failure"
// @Router       /upload_text [post]
func PostText(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, ok := readForm(c, TextField)
		if !ok {
			return
		}
		defer form.Close()

		language := form.Value("language")
		result, err := deps.RecordService.UploadText(c.Request.Context(), form.files, language)
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.UploadTextResponse{
			Message:    SuccessMessage,
			Files:      result.Files,
			Language:   language,
			TotalFiles: len(result.Files),
		})
	}
}
