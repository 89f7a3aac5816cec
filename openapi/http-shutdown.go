package openapi

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"varly.lol/context"
	"varly.lol/log"
	"varly.lol/varly/helpers"
)

type ShutdownInput struct {
	Auth string `header:"Authorization" doc:"basic auth with the admin credentials" required:"false"`
}

type ShutdownOutput struct{}

// RegisterShutdown implements the Shutdown HTTP API method. The stop runs a
// second after the response so the request can complete.
func (x *Operations) RegisterShutdown(api huma.API) {
	name := "Shutdown"
	description := "Shut the server down"
	path := x.path + "/shutdown"
	scopes := []string{"admin"}
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
	}, func(ctx context.T, input *ShutdownInput) (output *ShutdownOutput, err error) {
		r := ctx.Value("http-request").(*http.Request)
		remote := helpers.GetRemoteFromReq(r)
		if !x.AdminAuth(r) {
			err = huma.Error401Unauthorized("authorization required")
			return
		}
		log.I.F("shutting down on the order of %s", remote)
		go func() {
			time.Sleep(time.Second)
			x.Shutdown()
		}()
		return
	})
}
