// Package mcptools exposes the side-effect free decision functions as MCP
// tools so agents can check routing, validation and scoring without
// uploading anything.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akolanti/propdocs/internal/analysis"
	"github.com/akolanti/propdocs/internal/compose"
	"github.com/akolanti/propdocs/internal/intake"
	"github.com/akolanti/propdocs/internal/routing"
	"github.com/akolanti/propdocs/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var logger = logger_i.NewLogger("MCP Tools")

// Register adds every tool to srv.
func Register(srv *mcp.Server) {
	addTool(srv, &mcp.Tool{
		Name:        "document_route",
		Description: "Decide whether a document of the given size and question would be answered live or queued for background processing.",
		InputSchema: inputSchema(map[string]any{
			"size_bytes": map[string]any{"type": "integer", "description": "Document size in bytes"},
			"question":   map[string]any{"type": "string", "description": "The question to be asked"},
		}, []string{"size_bytes", "question"}),
	}, routeTool)

	addTool(srv, &mcp.Tool{
		Name:        "document_validate",
		Description: "Validate an upload (emptiness, size, file type) and report how it would be classified.",
		InputSchema: inputSchema(map[string]any{
			"file_name": map[string]any{"type": "string", "description": "Original file name"},
			"content":   map[string]any{"type": "string", "contentEncoding": "base64", "description": "File bytes, base64 encoded"},
			"max_bytes": map[string]any{"type": "integer", "description": "Upload limit, defaults to the server limit"},
		}, []string{"file_name", "content"}),
	}, validateTool)

	addTool(srv, &mcp.Tool{
		Name:        "confidence_score",
		Description: "Score an answer between 0.1 and 0.95 from the extracted text, the question, matching sections and citation count.",
		InputSchema: inputSchema(map[string]any{
			"text":              map[string]any{"type": "string"},
			"question":          map[string]any{"type": "string"},
			"relevant_sections": map[string]any{"type": "integer", "minimum": 0},
			"citations":         map[string]any{"type": "integer", "minimum": 0},
		}, []string{"text", "question"}),
	}, scoreTool)

	addTool(srv, &mcp.Tool{
		Name:        "relevant_excerpt",
		Description: "Return the paragraphs of a text that mention the question's keywords.",
		InputSchema: inputSchema(map[string]any{
			"text":     map[string]any{"type": "string"},
			"question": map[string]any{"type": "string"},
		}, []string{"text", "question"}),
	}, excerptTool)

	addTool(srv, &mcp.Tool{
		Name:        "question_alternatives",
		Description: "Suggest narrower questions to ask while a document is processed in the background.",
		InputSchema: inputSchema(map[string]any{
			"question": map[string]any{"type": "string"},
			"limit":    map[string]any{"type": "integer", "minimum": 1, "maximum": compose.MaxAlternatives},
		}, []string{"question"}),
	}, alternativesTool)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// addTool decodes arguments into Req and marshals the handler's reply as
// text content. Failures become tool errors rather than protocol errors.
func addTool[Req any](srv *mcp.Server, tool *mcp.Tool, handle func(ctx context.Context, req Req) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, call *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var req Req
		if len(call.Params.Arguments) > 0 {
			if err := json.Unmarshal(call.Params.Arguments, &req); err != nil {
				return toolError(tool.Name, fmt.Errorf("invalid arguments: %w", err)), nil
			}
		}

		resp, err := handle(ctx, req)
		if err != nil {
			return toolError(tool.Name, err), nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return toolError(tool.Name, fmt.Errorf("marshal: %w", err)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

func toolError(name string, err error) *mcp.CallToolResult {
	logger.Warn("tool call failed", "tool", name, "error", err)
	var res mcp.CallToolResult
	res.SetError(err)
	return &res
}

type routeReq struct {
	SizeBytes int64  `json:"size_bytes"`
	Question  string `json:"question"`
}

func routeTool(_ context.Context, r routeReq) (any, error) {
	if r.SizeBytes < 0 {
		return nil, errors.New("size_bytes must not be negative")
	}
	d := routing.Decide(r.SizeBytes, r.Question)
	return map[string]any{
		"quick":     d.Quick,
		"rationale": d.Rationale,
		"targeted":  routing.IsTargeted(r.Question),
	}, nil
}

type validateReq struct {
	FileName string `json:"file_name"`
	Content  []byte `json:"content"`
	MaxBytes int64  `json:"max_bytes"`
}

type validateResp struct {
	Valid       bool     `json:"valid"`
	Code        string   `json:"code,omitempty"`
	Message     string   `json:"message,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	DocType     string   `json:"doc_type"`
	MediaType   string   `json:"media_type"`
}

func validateTool(_ context.Context, r validateReq) (any, error) {
	resp := validateResp{
		DocType:   string(intake.Classify(r.FileName, r.Content)),
		MediaType: intake.MediaType(r.FileName, r.Content),
	}
	v := intake.Validate(r.Content, r.FileName, r.MaxBytes)
	resp.Valid = v.Valid
	if v.Err != nil {
		resp.Code = string(v.Err.Code)
		resp.Message = v.Err.Message
		resp.Suggestions = v.Err.Suggestions
	}
	return resp, nil
}

type scoreReq struct {
	Text             string `json:"text"`
	Question         string `json:"question"`
	RelevantSections int    `json:"relevant_sections"`
	Citations        int    `json:"citations"`
}

func scoreTool(_ context.Context, r scoreReq) (any, error) {
	if r.RelevantSections < 0 || r.Citations < 0 {
		return nil, errors.New("counts must not be negative")
	}
	return map[string]float64{
		"confidence": analysis.Score(r.Text, r.Question, r.RelevantSections, r.Citations),
	}, nil
}

type excerptReq struct {
	Text     string `json:"text"`
	Question string `json:"question"`
}

func excerptTool(_ context.Context, r excerptReq) (any, error) {
	excerpt, sections := analysis.RelevantExcerpt(r.Text, r.Question)
	return map[string]any{
		"excerpt":  excerpt,
		"sections": sections,
		"keywords": analysis.Keywords(r.Question),
	}, nil
}

type alternativesReq struct {
	Question string `json:"question"`
	Limit    int    `json:"limit"`
}

func alternativesTool(_ context.Context, r alternativesReq) (any, error) {
	return map[string][]string{
		"alternatives": compose.Alternatives(r.Question, r.Limit),
	}, nil
}
