package mcp

import (
	"encoding/json"
	"fmt"
)

// jsonRPCVersion is the only protocol version accepted on the wire.
const jsonRPCVersion = "2.0"

// RPCRequest is a JSON-RPC 2.0 request or notification (nil ID).
type RPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// RPCError is the error member of a failed JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// RPCResponse is a JSON-RPC 2.0 response. Exactly one of Result and Error is
// populated.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// NewRequest returns a request for method with the given id and params.
func NewRequest(id any, method string, params any) *RPCRequest {
	return &RPCRequest{JSONRPC: jsonRPCVersion, ID: id, Method: method, Params: params}
}

// EncodeRequest marshals a request and wraps it in a Content-Length frame
// ready for the transport.
func EncodeRequest(req *RPCRequest) ([]byte, error) {
	if req.JSONRPC == "" {
		req.JSONRPC = jsonRPCVersion
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return EncodeFrame(payload), nil
}

// DecodeResponse parses one framed payload into a response. Malformed
// payloads fail fast; the error carries the offending method-level context
// the codec cannot supply itself.
func DecodeResponse(payload []byte) (*RPCResponse, error) {
	var resp RPCResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode jsonrpc response: %w", err)
	}
	if resp.JSONRPC != jsonRPCVersion {
		return nil, fmt.Errorf("unexpected jsonrpc version: %q", resp.JSONRPC)
	}
	return &resp, nil
}
