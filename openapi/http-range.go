package openapi

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"varly.lol/context"
	"varly.lol/kind"
	"varly.lol/record"
	"varly.lol/store"
	"varly.lol/timestamp"
	"varly.lol/varly/helpers"
)

// WindowInput bounds a selection of records by time and kind, the same
// dimensions a socket subscription filters on plus an upper time bound.
type WindowInput struct {
	Since int64    `query:"since" doc:"include records created at or after this unix second, 0 means from the beginning"`
	Until int64    `query:"until" doc:"include records created at or before this unix second, 0 means up to now"`
	Kinds []uint16 `query:"kind" doc:"restrict to records of these kinds, empty means all"`
}

// Query renders the window into the store's range form.
func (in *WindowInput) Query() (q *store.Range) {
	q = &store.Range{}
	if in.Since != 0 {
		q.Since = timestamp.FromUnix(in.Since)
	}
	if in.Until != 0 {
		q.Until = timestamp.FromUnix(in.Until)
	}
	for _, k := range in.Kinds {
		q.Kinds = append(q.Kinds, kind.New(k))
	}
	return
}

// RangeInput is a window plus a cap on how many records come back.
type RangeInput struct {
	WindowInput
	Limit uint `query:"limit" doc:"cap on the number of records returned, newest first, 0 means the server maximum"`
}

// Query renders the input into the store's range form, clamping the limit to
// the server maximum.
func (in *RangeInput) Query(maxLimit int) (q *store.Range) {
	q = in.WindowInput.Query()
	q.Limit = in.Limit
	if q.Limit == 0 || q.Limit > uint(maxLimit) {
		q.Limit = uint(maxLimit)
	}
	return
}

type RangeOutput struct{ Body []RecordOutputBody }

// RegisterRange implements the Range HTTP API method, fetching the records
// in a time window, newest first.
func (x *Operations) RegisterRange(api huma.API) {
	name := "Range"
	description := "Fetch the records in a time window, newest first"
	path := x.path + "/range"
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
	}, func(ctx context.T, input *RangeInput) (output *RangeOutput, err error) {
		var recs record.Ts
		if recs, err = x.Storage().QueryRecords(ctx,
			input.Query(x.MaxLimit())); err != nil {
			err = huma.Error500InternalServerError(err.Error())
			return
		}
		output = &RangeOutput{Body: make([]RecordOutputBody, 0, len(recs))}
		for _, rec := range recs {
			output.Body = append(output.Body, RecordOutputBody{
				Serial: rec.Serial,
				Record: rec.ToRecordJ(),
			})
		}
		return
	})
}
