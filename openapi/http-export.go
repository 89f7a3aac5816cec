package openapi

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"varly.lol/context"
	"varly.lol/log"
	"varly.lol/varly/helpers"
)

// ExportInput is the parameters for the HTTP API Export method.
type ExportInput struct {
	Auth string `header:"Authorization" doc:"basic auth with the admin credentials" required:"false"`
}

// RegisterExport implements the Export HTTP API method, streaming the whole
// log out as varint length prefixed binary records.
func (x *Operations) RegisterExport(api huma.API) {
	name := "Export"
	description := "Export the whole record log as a stream of varint length prefixed binary records"
	path := x.path + "/export"
	scopes := []string{"admin", "read"}
	method := http.MethodGet
	huma.Register(api, huma.Operation{
		OperationID: name,
		Summary:     name,
		Path:        path,
		Method:      method,
		Tags:        []string{"admin"},
		Description: helpers.GenerateDescription(description, scopes),
		Security:    []map[string][]string{{"auth": scopes}},
	}, func(ctx context.T, input *ExportInput) (resp *huma.StreamResponse, err error) {
		r := ctx.Value("http-request").(*http.Request)
		remote := helpers.GetRemoteFromReq(r)
		if !x.AdminAuth(r) {
			err = huma.Error401Unauthorized("authorization required")
			return
		}
		log.I.F("%s requested an export of the log", remote)
		sto := x.Storage()
		resp = &huma.StreamResponse{
			Body: func(ctx huma.Context) {
				ctx.SetHeader("Content-Type", "application/octet-stream")
				sto.Export(x.Context(), ctx.BodyWriter())
				if f, ok := ctx.BodyWriter().(http.Flusher); ok {
					f.Flush()
				} else {
					log.W.F("error: unable to flush")
				}
			},
		}
		return
	})
}
