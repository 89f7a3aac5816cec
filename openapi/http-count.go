package openapi

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"varly.lol/context"
	"varly.lol/log"
	"varly.lol/varly/helpers"
)

type CountOutputBody struct {
	Count  int  `json:"count" doc:"number of records in the range"`
	Approx bool `json:"approx" doc:"true when the count came off an index without filtering and may overshoot"`
}

type CountOutput struct{ Body CountOutputBody }

// RegisterCount implements the Count HTTP API method, counting the records
// in a range without fetching them.
func (x *Operations) RegisterCount(api huma.API) {
	name := "Count"
	description := "Count the records in a time window"
	path := x.path + "/count"
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
	}, func(ctx context.T, input *WindowInput) (output *CountOutput, err error) {
		var count int
		var approx bool
		now := time.Now()
		if count, approx, err = x.Storage().CountRecords(ctx,
			input.Query()); err != nil {
			err = huma.Error500InternalServerError(err.Error())
			return
		}
		log.T.F("counted %d records in %v", count, time.Since(now))
		output = &CountOutput{Body: CountOutputBody{Count: count, Approx: approx}}
		return
	})
}
