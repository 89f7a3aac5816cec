package openapi

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"varly.lol/context"
	"varly.lol/record"
	"varly.lol/store"
	"varly.lol/varly/helpers"
)

// RecordInput selects a record by its position in the log.
type RecordInput struct {
	Serial uint64 `path:"serial" doc:"position of the record in the log"`
}

type RecordOutputBody struct {
	Serial uint64    `json:"serial" doc:"position of the record in the log"`
	Record *record.J `json:"record"`
}

type RecordOutput struct{ Body RecordOutputBody }

// RegisterRecord implements the Record HTTP API method, fetching one record
// by serial.
func (x *Operations) RegisterRecord(api huma.API) {
	name := "Record"
	description := "Fetch a record by its position in the log"
	path := x.path + "/record/{serial}"
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
	}, func(ctx context.T, input *RecordInput) (output *RecordOutput, err error) {
		var rec *record.T
		if rec, err = x.Storage().FetchBySerial(ctx, input.Serial); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				err = huma.Error404NotFound(err.Error())
				return
			}
			err = huma.Error500InternalServerError(err.Error())
			return
		}
		output = &RecordOutput{Body: RecordOutputBody{
			Serial: rec.Serial,
			Record: rec.ToRecordJ(),
		}}
		return
	})
}
