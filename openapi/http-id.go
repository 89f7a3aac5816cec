package openapi

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/hex"
	"varly.lol/record"
	"varly.lol/store"
	"varly.lol/varly/helpers"
)

// IdInput selects a record by its hex encoded id.
type IdInput struct {
	Id string `path:"id" doc:"hex encoded record id" minLength:"64" maxLength:"64"`
}

type IdOutput struct{ Body RecordOutputBody }

// RegisterId implements the Id HTTP API method, fetching one record by id.
func (x *Operations) RegisterId(api huma.API) {
	name := "Id"
	description := "Fetch a record by its id"
	path := x.path + "/id/{id}"
	scopes := []string{"user", "read"}
	method := http.MethodGet
	huma.Register(api, huma.Operation{
		OperationID: name,
		Summary:     name,
		Path:        path,
		Method:      method,
		Tags:        []string{"records"},
		Description: helpers.GenerateDescription(description, scopes),
		Security:    []map[string][]string{{"auth": scopes}},
	}, func(ctx context.T, input *IdInput) (output *IdOutput, err error) {
		var id []byte
		if id, err = hex.Dec(input.Id); chk.E(err) {
			err = huma.Error400BadRequest(err.Error())
			return
		}
		if len(id) != record.IdLen {
			err = huma.Error400BadRequest("id must be 32 bytes of hex")
			return
		}
		var rec *record.T
		if rec, err = x.Storage().FetchById(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				err = huma.Error404NotFound(err.Error())
				return
			}
			err = huma.Error500InternalServerError(err.Error())
			return
		}
		output = &IdOutput{Body: RecordOutputBody{
			Serial: rec.Serial,
			Record: rec.ToRecordJ(),
		}}
		return
	})
}
