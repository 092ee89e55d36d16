package license

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/sanitize"
)

// Response is the parsed part of a verification response.
type Response struct {
	Success bool
	Message string
	Email   string
	Payload entitlement.Payload
}

// firstOf returns the first path that exists in the document.
func firstOf(doc gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := doc.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

// stringMap flattens a JSON object of scalars into strings. Non-objects yield nil.
func stringMap(r gjson.Result) map[string]string {
	if !r.IsObject() {
		return nil
	}
	out := make(map[string]string)
	r.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.String()
		return true
	})
	return out
}

// ParseResponse extracts the verification outcome and tier signals from a
// license API response body. Purchase fields are read from "purchase" first
// and from the document root otherwise.
func ParseResponse(body []byte) (Response, error) {
	if !gjson.ValidBytes(body) {
		return Response{}, fmt.Errorf("license response is not valid JSON")
	}
	doc := gjson.ParseBytes(body)

	resp := Response{
		Success: doc.Get("success").Bool(),
		Message: doc.Get("message").String(),
		Email:   sanitize.Email(firstOf(doc, "purchase.email", "email").String()),
		Payload: entitlement.Payload{
			ProductName:  firstOf(doc, "purchase.product_name", "product_name").String(),
			CustomFields: stringMap(firstOf(doc, "purchase.custom_fields", "custom_fields")),
			Metadata:     stringMap(firstOf(doc, "purchase.metadata", "metadata")),
		},
	}

	if metaTier := doc.Get("meta.tier"); metaTier.Exists() {
		if resp.Payload.Metadata == nil {
			resp.Payload.Metadata = make(map[string]string)
		}
		if _, ok := resp.Payload.Metadata["tier"]; !ok {
			resp.Payload.Metadata["tier"] = metaTier.String()
		}
	}

	return resp, nil
}
