package uploads

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/corpus-api/api/types"
	"github.com/killallgit/corpus-api/internal/services/records"
)

// PostAudio handles a batch of audio uploads
// @Summary      Upload audio files
// @Description  Store one or more audio files and record their metadata. Each file is linked to the newest text record whose filename starts with the audio file's base name.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio[]      formData file   true  "Audio files"
// @Param        language     formData string false "Language"
// @Param        sample_rate  formData string false "Sample rate"
// @Param        channels     formData string false "Channel count"
// @Success      200 {object} types.UploadAudioResponse
// @Failure      400 {object} types.ErrorResponse "No files uploaded or selected"
// @Failure      413 {object} types.ErrorResponse "Request body too large"
// @Failure      429 {object} types.ErrorResponse "Rate limit exceeded"
// @Failure      500 {object} types.ErrorResponse "Storage failure"
// @Router       /upload [post]
func PostAudio(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, ok := readForm(c, AudioField)
		if !ok {
			return // Error response already sent
		}
		defer form.Close()

		meta := records.AudioMetadata{
			Language:   form.Value("language"),
			SampleRate: form.Value("sample_rate"),
			Channels:   form.Value("channels"),
		}

		result, err := deps.RecordService.UploadAudio(c.Request.Context(), form.files, meta)
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.UploadAudioResponse{
			Message:    SuccessMessage,
			Files:      result.Files,
			Language:   meta.Language,
			SampleRate: meta.SampleRate,
			Channels:   meta.Channels,
			TotalFiles: len(result.Files),
		})
	}
}
