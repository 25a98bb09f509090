package request

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festy23/consultant_staffing/internal/apperror"
)

func testContext(method, target string, headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c
}

func int64Ptr(v int64) *int64 { return &v }

func TestVersion(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		headers map[string]string
		body    *int64
		want    int64
		wantErr bool
	}{
		{name: "if-match header", target: "/a", headers: map[string]string{"If-Match": "3"}, want: 3},
		{name: "quoted etag", target: "/a", headers: map[string]string{"If-Match": `"7"`}, want: 7},
		{name: "weak etag", target: "/a", headers: map[string]string{"If-Match": `W/"2"`}, want: 2},
		{name: "header wins over body", target: "/a", headers: map[string]string{"If-Match": "5"}, body: int64Ptr(1), want: 5},
		{name: "body", target: "/a", body: int64Ptr(0), want: 0},
		{name: "query", target: "/a?version=4", want: 4},
		{name: "negative body", target: "/a", body: int64Ptr(-1), wantErr: true},
		{name: "garbage header", target: "/a", headers: map[string]string{"If-Match": "abc"}, wantErr: true},
		{name: "missing", target: "/a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testContext(http.MethodPatch, tt.target, tt.headers)
			got, err := Version(c, tt.body)
			if tt.wantErr {
				var verr *apperror.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.True(t, verr.HasField("version"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUUIDParam(t *testing.T) {
	c := testContext(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "0B1F5A52-6C1E-4C36-9A4C-0C2D1D8F3E11"}}

	id, err := UUIDParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, "0b1f5a52-6c1e-4c36-9a4c-0c2d1d8f3e11", id)

	c.Params = gin.Params{{Key: "id", Value: "42"}}
	_, err = UUIDParam(c, "id")
	assert.Error(t, err)
}

func TestSetETag(t *testing.T) {
	c := testContext(http.MethodGet, "/", nil)
	SetETag(c, 9)
	assert.Equal(t, `"9"`, c.Writer.Header().Get("ETag"))
}
