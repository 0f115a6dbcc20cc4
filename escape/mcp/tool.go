package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
	protoserver "github.com/viant/mcp-protocol/server"

	essvc "github.com/viant/escfix/escape/service"
)

//go:embed tools/escfixFixText.md
var descFixText string

//go:embed tools/escfixPreviewFile.md
var descPreviewFile string

//go:embed tools/escfixFixFile.md
var descFixFile string

//go:embed tools/escfixFixFiles.md
var descFixFiles string

func registerTools(base *protoserver.DefaultHandler, h *Handler) error {
	svc := h.service

	// Repair text passed inline
	if err := protoserver.RegisterTool[*essvc.FixTextInput, *essvc.FixTextOutput](base.Registry, "escfixFixText", descFixText, func(ctx context.Context, in *essvc.FixTextInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := svc.FixText(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	// Read-only preview with diff
	if err := protoserver.RegisterTool[*essvc.PreviewFileInput, *essvc.PreviewFileOutput](base.Registry, "escfixPreviewFile", descPreviewFile, func(ctx context.Context, in *essvc.PreviewFileInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if in == nil || strings.TrimSpace(in.URL) == "" {
			return buildErrorResult("url is required")
		}
		out, err := svc.PreviewFile(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	// In-place repair
	if err := protoserver.RegisterTool[*essvc.FixFileInput, *essvc.FixFileOutput](base.Registry, "escfixFixFile", descFixFile, func(ctx context.Context, in *essvc.FixFileInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if in == nil || strings.TrimSpace(in.URL) == "" {
			return buildErrorResult("url is required")
		}
		out, err := svc.FixFile(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	// Batch in-place repair
	if err := protoserver.RegisterTool[*essvc.FixFilesInput, *essvc.FixFilesOutput](base.Registry, "escfixFixFiles", descFixFiles, func(ctx context.Context, in *essvc.FixFilesInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if in == nil || len(in.URLs) == 0 {
			return buildErrorResult("urls are required")
		}
		out, err := svc.FixFiles(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	return nil
}

func buildErrorResult(message string) (*schema.CallToolResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.InvalidParams, message, nil)
}

func buildSuccessResultOut(service *essvc.Service, payload any) (*schema.CallToolResult, *jsonrpc.Error) {
	if service.UseTextField() {
		b, _ := json.Marshal(payload)
		return &schema.CallToolResult{Content: []schema.CallToolResultContentElem{{Type: "text", Text: string(b)}}}, nil
	}
	return &schema.CallToolResult{StructuredContent: map[string]any{"result": payload}}, nil
}
