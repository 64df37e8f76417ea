package api

import (
	"fmt"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// links maps operation paths to their RFC 8288 Link header values.
var links = map[string][]string{
	"/health": {
		`</api/v1/info>; rel="info"`,
		`</api/murals>; rel="murals"`,
		`</api/buildings>; rel="buildings"`,
	},
	"/api/v1/info": {
		`</health>; rel="health"`,
		`</api/murals>; rel="murals"`,
	},
	"/api/murals": {
		`</api/murals/nearest>; rel="nearest"`,
		`</api/map/style>; rel="style"`,
		`</api/buildings>; rel="buildings"`,
	},
	"/api/murals/nearest": {
		`</api/murals>; rel="collection"`,
		`</api/directions>; rel="directions"`,
	},
	"/api/buildings": {
		`</api/buildings/summary>; rel="summary"`,
		`</api/murals>; rel="murals"`,
	},
	"/api/buildings/summary": {
		`</api/buildings>; rel="collection"`,
	},
	"/api/map/style": {
		`</api/map/pitch-presets>; rel="pitch-presets"`,
		`</api/murals>; rel="murals"`,
	},
	"/api/v1/tables": {
		`</api/v1/query>; rel="query"`,
	},
}

// LinkTransformer returns a Huma Transformer that injects RFC 8288 Link
// headers. Streaming and binary responses pass through untouched.
func LinkTransformer() huma.Transformer {
	return func(ctx huma.Context, status string, v any) (any, error) {
		op := ctx.Operation()
		if op == nil {
			return v, nil
		}

		for _, link := range links[op.Path] {
			ctx.AppendHeader("Link", link)
		}

		if strings.Contains(op.Path, "{") && !strings.HasPrefix(op.Path, "/api/tiles/") {
			ctx.AppendHeader("Link", fmt.Sprintf(`<%s>; rel="self"`, ctx.URL().Path))
		}
		return v, nil
	}
}
