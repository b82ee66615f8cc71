package handlers

import (
	"github.com/gin-gonic/gin"
)

// attachError records err on the gin context so the observability middleware
// can log the failure reason alongside the request line. c.Error returns
// *gin.Error rather than error, hence the suppressed errcheck.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError writes the uniform {"error": message} envelope and records the
// underlying error for the request log. The message is what the client sees;
// err is what the operator sees.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails adds a details field, used for field-level
// validation feedback on bound request bodies.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) { //nolint:unparam
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}
