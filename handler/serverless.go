package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Saideva9826/YOLO/service"
	"github.com/Saideva9826/YOLO/utils"
	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// ServerlessHandler Lambda 事件适配器
type ServerlessHandler struct {
	pipeline    *service.Pipeline
	defaultName string
}

func NewServerlessHandler(pipeline *service.Pipeline, defaultName string) *ServerlessHandler {
	return &ServerlessHandler{
		pipeline:    pipeline,
		defaultName: defaultName,
	}
}

// Handle 处理事件。body 可以是 JSON 字符串、JSON 对象，或缺省（事件本身即请求体）。
// 所有结果都编码在响应中，返回的 error 恒为 nil。
func (h *ServerlessHandler) Handle(ctx context.Context, event json.RawMessage) (resp events.APIGatewayProxyResponse, _ error) {
	defer func() {
		if r := recover(); r != nil {
			resp = h.fail(service.ErrInternal(fmt.Errorf("panic: %v", r)))
		}
	}()

	req, err := parseEvent(event)
	if err != nil {
		return h.fail(err), nil
	}
	if req.ImageData == "" {
		return h.fail(service.ErrMissingInput("No image_data provided")), nil
	}

	data, err := service.DecodeBase64Image(req.ImageData)
	if err != nil {
		return h.fail(err), nil
	}

	name := req.ImageName
	if name == "" {
		name = h.defaultName
	}

	result, err := h.pipeline.Analyze(ctx, name, data)
	if err != nil {
		return h.fail(err), nil
	}
	return proxyResponse(http.StatusOK, result), nil
}

func parseEvent(raw json.RawMessage) (analyzeRequest, error) {
	var req analyzeRequest

	var ev struct {
		Body            json.RawMessage `json:"body"`
		IsBase64Encoded bool            `json:"isBase64Encoded"`
	}
	if err := json.Unmarshal(raw, &ev); err != nil {
		return req, service.ErrMissingInput("Invalid event: " + err.Error())
	}

	body := []byte(raw)
	if len(ev.Body) > 0 && string(ev.Body) != "null" {
		body = ev.Body
		if ev.Body[0] == '"' {
			var s string
			if err := json.Unmarshal(ev.Body, &s); err != nil {
				return req, service.ErrMissingInput("Invalid event body: " + err.Error())
			}
			if ev.IsBase64Encoded {
				decoded, err := base64.StdEncoding.DecodeString(s)
				if err != nil {
					return req, service.ErrMissingInput("Invalid event body: " + err.Error())
				}
				s = string(decoded)
			}
			body = []byte(s)
		}
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return req, service.ErrMissingInput("Invalid event body: " + err.Error())
	}
	return req, nil
}

func (h *ServerlessHandler) fail(err error) events.APIGatewayProxyResponse {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		utils.Logger.Error("lambda error", zap.Error(err))
	}
	return proxyResponse(status, body)
}

func proxyResponse(status int, body any) events.APIGatewayProxyResponse {
	headers := map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}

	data, err := json.Marshal(body)
	if err != nil {
		utils.Logger.Error("failed to marshal response", zap.Error(err))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    headers,
			Body:       `{"status":"error","error":"Internal server error"}`,
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(data),
	}
}
