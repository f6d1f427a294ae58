package i18n

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondWithError sends an appropriate HTTP error response for the given error.
// Errors without a code answer 500 with the generic server message; the cause
// is expected to be logged by the caller.
func RespondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	ec := AsErrorWithCode(err)
	if ec == nil {
		ec = ErrInternal
	}
	c.AbortWithStatusJSON(int(ec.GetCode()), gin.H{"error": ec.TranslateByContext(c)})
}

// RespondWithMessage sends a translated success message merged with payload
func RespondWithMessage(c *gin.Context, msgID string, payload gin.H) {
	response := gin.H{"message": TranslateMessage(c, msgID, nil)}
	for k, v := range payload {
		response[k] = v
	}
	c.JSON(http.StatusOK, response)
}
