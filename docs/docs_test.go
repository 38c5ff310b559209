package docs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectRefs(v interface{}, refs map[string]bool) {
	switch node := v.(type) {
	case map[string]interface{}:
		for key, child := range node {
			if ref, ok := child.(string); ok && key == "$ref" {
				refs[strings.TrimPrefix(ref, "#/definitions/")] = true
				continue
			}
			collectRefs(child, refs)
		}
	case []interface{}:
		for _, child := range node {
			collectRefs(child, refs)
		}
	}
}

func TestSwaggerDocumentResolves(t *testing.T) {
	var doc struct {
		Info        map[string]interface{}            `json:"info"`
		Paths       map[string]map[string]interface{} `json:"paths"`
		Definitions map[string]interface{}            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	assert.Equal(t, "Storefront API", doc.Info["title"])
	for _, path := range []string{"/products", "/sessions", "/session", "/session/token", "/session/cart", "/session/search", "/session/events"} {
		assert.Contains(t, doc.Paths, path)
	}

	refs := map[string]bool{}
	collectRefs(doc.Paths, refs)
	collectRefs(doc.Definitions, refs)
	require.NotEmpty(t, refs)
	for name := range refs {
		assert.Contains(t, doc.Definitions, name, "dangling $ref")
	}
	assert.Contains(t, refs, "models.SessionView", "response data carries a schema")
}
