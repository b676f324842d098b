package payload

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RawRequest is a pass-through request for the api command. The body is
// forwarded exactly as given.
type RawRequest struct {
	Method string
	Path   string
	Body   []byte
}

var rawMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
}

// AssembleRaw validates a raw request. No field or content resolution happens.
func AssembleRaw(method, path string, body []byte) (*RawRequest, error) {
	m := strings.ToUpper(strings.TrimSpace(method))
	if !rawMethods[m] {
		return nil, fmt.Errorf("unsupported method %q (use GET, POST, PUT or DELETE)", method)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(body) > 0 && !json.Valid(body) {
		return nil, fmt.Errorf("request body is not valid JSON")
	}
	return &RawRequest{Method: m, Path: path, Body: body}, nil
}

// InjectBody sets "body" in the JSON object data, starting from {} when data is empty.
func InjectBody(data []byte, body string) ([]byte, error) {
	obj := map[string]any{}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("--data must be a JSON object to add a body: %w", err)
		}
	}
	obj["body"] = body
	return json.Marshal(obj)
}

// ParseFieldArgs parses repeated alias=value arguments. Values starting with
// { or [ are decoded as JSON so structured fields can be set.
func ParseFieldArgs(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid field format: %s", arg)
		}
		alias := strings.TrimSpace(parts[0])
		value := parts[1]

		trimmed := strings.TrimSpace(value)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			var decoded any
			if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
				return nil, fmt.Errorf("invalid JSON value for field %s: %w", alias, err)
			}
			fields[alias] = decoded
			continue
		}
		fields[alias] = value
	}
	return fields, nil
}
