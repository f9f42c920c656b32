package imagegraph

import (
	"encoding/json"

	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/jsonapi"
)

// SendJSON dispatches one of the three send_json endpoints of spec.md §6
// and returns an HTTP-style status plus a UTF-8 response body.
func (c *Context) SendJSON(method string, body []byte) (int, []byte) {
	switch method {
	case "v1/get_version_info":
		resp, _ := json.Marshal(GetVersionInfo())
		return 200, resp
	case "v1/build":
		return c.handleBuild(body)
	case "v1/execute":
		return c.handleExecute()
	default:
		return 404, []byte(`{"error":"unknown method"}`)
	}
}

func (c *Context) handleBuild(body []byte) (int, []byte) {
	unlock := c.jc.BeginOperation()
	defer unlock()

	var req jsonapi.BuildRequest
	if err := json.Unmarshal(body, &req); err != nil {
		appErr := apperrors.New(apperrors.KindInvalidArgument, "imagegraph.send_json.build", err)
		return appErr.Kind.AsHTTPCode(), errorBody(appErr)
	}
	if _, err := jsonapi.ApplyBuild(c.job.Graph, req); err != nil {
		c.jc.RaiseError(asAppError(err, "imagegraph.send_json.build"))
		return apperrors.KindOf(err).AsHTTPCode(), errorBody(err)
	}
	c.job.Touch()
	return 200, []byte(`{"status":"ok"}`)
}

func (c *Context) handleExecute() (int, []byte) {
	if err := c.Execute(); err != nil {
		return apperrors.KindOf(err).AsHTTPCode(), errorBody(err)
	}
	return 200, []byte(`{"status":"ok"}`)
}

func errorBody(err error) []byte {
	resp, _ := json.Marshal(struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}{Error: err.Error(), Kind: string(apperrors.KindOf(err))})
	return resp
}
