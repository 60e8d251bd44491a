package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParseDefaults(t *testing.T) {
	p := paramsFor(t, "")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestParseExplicit(t *testing.T) {
	p := paramsFor(t, "page=3&limit=50")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.Limit)
	assert.Equal(t, 100, p.Offset)
}

func TestParseClampsInvalid(t *testing.T) {
	p := paramsFor(t, "page=-2&limit=0")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)

	p = paramsFor(t, "page=abc&limit=xyz")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)

	p = paramsFor(t, "limit=5000")
	assert.Equal(t, 100, p.Limit)
}
