package openapi

import (
	"io"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"varly.lol/context"
	"varly.lol/log"
	"varly.lol/varly/helpers"
)

// ImportInput is the parameters of an import operation, authentication and a
// request body streaming varint length prefixed binary records.
type ImportInput struct {
	Auth string `header:"Authorization" doc:"basic auth with the admin credentials" required:"false"`
}

// ImportOutput is nothing, a 204 status is expected.
type ImportOutput struct{}

// RegisterImport implements the Import HTTP API method, the inverse of
// Export. Records already in the log just log and skip.
func (x *Operations) RegisterImport(api huma.API) {
	name := "Import"
	description := "Import a stream of varint length prefixed binary records"
	path := x.path + "/import"
	scopes := []string{"admin", "write"}
	method := http.MethodPost
	huma.Register(api, huma.Operation{
		OperationID:   name,
		Summary:       name,
		Path:          path,
		Method:        method,
		Tags:          []string{"admin"},
		Description:   helpers.GenerateDescription(description, scopes),
		Security:      []map[string][]string{{"auth": scopes}},
		DefaultStatus: 204,
	}, func(ctx context.T, input *ImportInput) (output *ImportOutput, err error) {
		r := ctx.Value("http-request").(*http.Request)
		remote := helpers.GetRemoteFromReq(r)
		if !x.AdminAuth(r) {
			err = huma.Error401Unauthorized("authorization required")
			return
		}
		log.I.F("%s importing record data", remote)
		read := io.LimitReader(r.Body, r.ContentLength)
		x.Storage().Import(read)
		return
	})
}
