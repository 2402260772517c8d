package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCurrentUserID(t *testing.T) {
	e := echo.New()
	newCtx := func() echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	c := newCtx()
	assert.Equal(t, "anon", currentUserID(c))

	c = newCtx()
	c.Set("user_id", "42")
	assert.Equal(t, "42", currentUserID(c))

	c = newCtx()
	c.Set("userID", "7")
	assert.Equal(t, "7", currentUserID(c))
}
