package erp

import (
	"encoding/json"
	"fmt"

	"github.com/Harith-design/webportal-sub000/internal/core"
)

// The ERP wraps most responses in a {"data": ...} envelope, but a few
// endpoints return the payload bare. Both shapes are accepted.

type listEnvelope struct {
	Data []core.Record `json:"data"`
}

type recordEnvelope struct {
	Data core.Record `json:"data"`
}

func decodeRecords(body []byte) ([]core.Record, error) {
	var env listEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}

	var bare []core.Record
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	// An enveloped empty result ({"data": null} or {}) is an empty list.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err == nil {
		return nil, nil
	}

	return nil, fmt.Errorf("malformed list response")
}

func decodeRecord(body []byte) (core.Record, error) {
	var env recordEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}

	var bare core.Record
	if err := json.Unmarshal(body, &bare); err == nil && bare != nil {
		return bare, nil
	}

	return nil, fmt.Errorf("malformed record response")
}
