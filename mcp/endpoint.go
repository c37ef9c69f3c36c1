package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flarexio/ragblade"
)

type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      mcp.RequestId   `json:"id"`
	Method  mcp.MCPMethod   `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

func errorResponse(id mcp.RequestId, code int, message string) mcp.JSONRPCError {
	return mcp.JSONRPCError{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      id,
		Error: struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Data    any    `json:"data,omitempty"`
		}{
			Code:    code,
			Message: message,
		},
	}
}

func MethodNotFound(id mcp.RequestId) mcp.JSONRPCError {
	return errorResponse(id, mcp.METHOD_NOT_FOUND, "method not found")
}

type MCPEndpoint func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage

const ToolRetrieveAndGenerate = "retrieve_and_generate"

const MCPSERVER_INSTRUCTIONS string = `RAGBlade answers questions grounded on a fixed document corpus.

Each question is embedded, matched against the indexed corpus, and the single
most relevant passage is used as context for the generated answer.

Available operations:
- tools/list: Get the retrieval tool
- tools/call: Call retrieve_and_generate with a non-empty query`

func RetrieveAndGenerateTool() mcp.Tool {
	return mcp.NewTool(ToolRetrieveAndGenerate,
		mcp.WithDescription("Answer a question using the most relevant passage from the corpus"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The question to answer"),
		),
		mcp.WithNumber("top_k",
			mcp.Description("Number of candidates to retrieve; the best one grounds the answer"),
		),
	)
}

func InitializeEndpoint(svc ragblade.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		var params mcp.InitializeParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, mcp.INVALID_PARAMS, err.Error())
		}

		protocolVersion := mcp.LATEST_PROTOCOL_VERSION
		if clientVersion := params.ProtocolVersion; clientVersion != "" {
			if slices.Contains(mcp.ValidProtocolVersions, clientVersion) {
				protocolVersion = clientVersion
			}
		}

		result := &mcp.InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities: mcp.ServerCapabilities{
				Tools: &struct {
					ListChanged bool `json:"listChanged,omitempty"`
				}{},
			},
			ServerInfo: mcp.Implementation{
				Name:    "ragblade",
				Version: "1.0.0",
			},
			Instructions: MCPSERVER_INSTRUCTIONS,
		}

		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  result,
		}
	}
}

func PingEndpoint(svc ragblade.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  struct{}{}, // empty response
		}
	}
}

func ListToolsEndpoint(svc ragblade.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		result := &mcp.ListToolsResult{
			Tools: []mcp.Tool{
				RetrieveAndGenerateTool(),
			},
		}

		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  result,
		}
	}
}

func CallToolEndpoint(svc ragblade.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		var params mcp.CallToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, mcp.INVALID_PARAMS, err.Error())
		}

		if params.Name != ToolRetrieveAndGenerate {
			return errorResponse(req.ID, mcp.INVALID_PARAMS, "unknown tool: "+params.Name)
		}

		args, _ := params.Arguments.(map[string]any)

		query, _ := args["query"].(string)

		var k int
		if n, ok := args["top_k"].(float64); ok {
			k = int(n)
		}

		queryReq := ragblade.QueryRequest{
			Query: query,
			TopK:  k,
		}

		if err := queryReq.Validate(); err != nil {
			return errorResponse(req.ID, mcp.INVALID_PARAMS, err.Error())
		}

		var result *mcp.CallToolResult

		resp, err := svc.RetrieveAndGenerate(ctx, queryReq.Query, queryReq.TopK)
		switch {
		case err == nil:
			result = mcp.NewToolResultText(resp.Answer)
			result.Content = append(result.Content,
				mcp.NewTextContent("Retrieved: "+resp.RetrievedDocument),
			)

		case errors.Is(err, ragblade.ErrGeneration), errors.Is(err, ragblade.ErrEncoding):
			result = mcp.NewToolResultError(err.Error())

		default:
			return errorResponse(req.ID, mcp.INTERNAL_ERROR, err.Error())
		}

		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  result,
		}
	}
}
