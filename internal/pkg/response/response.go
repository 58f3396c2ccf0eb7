package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the envelope every endpoint answers with. Code mirrors the
// HTTP status so clients can switch on either.
type Body struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Code: http.StatusOK, Msg: "success", Data: data})
}

func SuccessMsg(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Body{Code: http.StatusOK, Msg: msg})
}

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, Body{Code: status, Msg: msg})
}
