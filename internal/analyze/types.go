package analyze

import "encoding/json"

// Response is the analyze endpoint's payload. The endpoint is free to
// return arbitrary JSON; the fields teamscribe understands are lifted into
// Data and the full document is retained in Raw.
type Response struct {
	Data *ResponseData
	Raw  map[string]any
}

// ResponseData holds the analyze fields teamscribe renders.
type ResponseData struct {
	Mode    string `json:"mode,omitempty"`
	PageURL string `json:"page_url,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// parseResponse decodes an analyze body. An empty or non-JSON body yields
// a Response with only Raw unset; analyze output is passthrough, never a
// hard failure once the endpoint has answered.
func parseResponse(body []byte) *Response {
	resp := &Response{}
	if len(body) == 0 {
		return resp
	}

	if err := json.Unmarshal(body, &resp.Raw); err != nil {
		return resp
	}

	var typed struct {
		Data *ResponseData `json:"data"`
	}
	if err := json.Unmarshal(body, &typed); err == nil {
		resp.Data = typed.Data
	}
	return resp
}
