package openapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"varly.lol/chk"
	"varly.lol/context"
	"varly.lol/log"
	"varly.lol/record"
	"varly.lol/store"
	"varly.lol/varly/helpers"
)

// AppendInput carries a record, the binary form when the content type is
// application/octet-stream, the JSON form otherwise.
type AppendInput struct {
	ContentType string `header:"Content-Type" doc:"application/octet-stream submits the binary record form, anything else is read as JSON" required:"false"`
	RawBody     []byte
}

type AppendOutputBody struct {
	Serial uint64 `json:"serial" doc:"position the record took in the log"`
}

// AppendOutput returns the serial the record is stored under.
type AppendOutput struct{ Body AppendOutputBody }

// RegisterAppend implements the Append HTTP API method.
func (x *Operations) RegisterAppend(api huma.API) {
	name := "Append"
	description := "Append a record to the log"
	path := x.path + "/append"
	scopes := []string{"user", "write"}
	method := http.MethodPost
	huma.Register(api, huma.Operation{
		OperationID: name,
		Summary:     name,
		Path:        path,
		Method:      method,
		Tags:        []string{"records"},
		Description: helpers.GenerateDescription(description, scopes),
		Security:    []map[string][]string{{"auth": scopes}},
	}, func(ctx context.T, input *AppendInput) (output *AppendOutput, err error) {
		r := ctx.Value("http-request").(*http.Request)
		remote := helpers.GetRemoteFromReq(r)
		var rec *record.T
		if input.ContentType == "application/octet-stream" {
			rec = &record.T{}
			var rem []byte
			if rem, err = rec.UnmarshalBinary(input.RawBody); chk.E(err) {
				err = huma.Error406NotAcceptable(err.Error())
				return
			}
			if len(rem) > 0 {
				log.T.F("extra '%0x'", rem)
			}
		} else {
			rj := &record.J{}
			if err = json.Unmarshal(input.RawBody, rj); chk.E(err) {
				err = huma.Error406NotAcceptable(err.Error())
				return
			}
			if rec, err = rj.ToRecord(); chk.E(err) {
				err = huma.Error406NotAcceptable(err.Error())
				return
			}
		}
		if !rec.CheckId() {
			err = huma.Error400BadRequest("record id is computed incorrectly")
			return
		}
		log.T.F("appending record %0x from %s", rec.Id, remote)
		if err = x.AddRecord(ctx, rec); err != nil {
			if errors.Is(err, store.ErrDupRecord) {
				err = huma.Error409Conflict(err.Error())
				return
			}
			err = huma.Error500InternalServerError(err.Error())
			return
		}
		output = &AppendOutput{Body: AppendOutputBody{Serial: rec.Serial}}
		return
	})
}
