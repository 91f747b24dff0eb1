package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerInfo_RendersValidJSON(t *testing.T) {
	raw := SwaggerInfo.ReadDoc()

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "LORO API", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/tasks/{id}/routes")
	assert.Contains(t, doc.Paths["/reports/{type}/export"], "get")
}
