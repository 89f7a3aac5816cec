package openapi

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/log"
	"varly.lol/varly/helpers"
)

// NukeInput is the parameters for the HTTP API method Nuke. It has a
// confirmation header that must be provided to prevent accidental
// invocation.
type NukeInput struct {
	Auth    string `header:"Authorization" doc:"basic auth with the admin credentials" required:"false"`
	Confirm string `header:"X-Confirm" doc:"must put 'Yes I Am Sure' in this field as confirmation"`
}

// NukeOutput is basically nothing, a 204 HTTP status response is normal.
type NukeOutput struct{}

// RegisterNuke implements the Nuke HTTP API method, deleting every record in
// the log.
func (x *Operations) RegisterNuke(api huma.API) {
	name := "Nuke"
	description := "Delete all records in the log"
	path := x.path + "/nuke"
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
	}, func(ctx context.T, input *NukeInput) (output *NukeOutput, err error) {
		r := ctx.Value("http-request").(*http.Request)
		remote := helpers.GetRemoteFromReq(r)
		if !x.AdminAuth(r) {
			err = huma.Error401Unauthorized("authorization required")
			return
		}
		if input.Confirm != "Yes I Am Sure" {
			err = huma.Error403Forbidden("Confirm missing or incorrect")
			return
		}
		log.I.F("nuking the log on the order of %s", remote)
		if err = x.Storage().Nuke(); chk.E(err) {
			if strings.HasPrefix(err.Error(), "Value log GC attempt") {
				err = nil
				return
			}
			err = huma.Error500InternalServerError(err.Error())
			return
		}
		return
	})
}
