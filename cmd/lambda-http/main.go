package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"resume-formatter/internal/bootstrap"
	"resume-formatter/internal/shared/config"
	"resume-formatter/internal/shared/server/respond"
	"resume-formatter/internal/shared/telemetry"
)

var (
	initOnce  sync.Once
	initErr   error
	ginLambda *ginadapter.GinLambdaV2
)

// initApp runs once per sandbox; the pool and clients are reused across
// invocations.
func initApp() {
	start := time.Now()
	app, err := bootstrap.Build(config.Load())
	if err != nil {
		initErr = err
		telemetry.Error("lambda.init.failed", map[string]any{"error": err.Error()})
		return
	}
	ginLambda = ginadapter.NewV2(app.Router)
	telemetry.Info("lambda.init", map[string]any{
		"duration_ms":    time.Since(start).Milliseconds(),
		"llm_configured": app.LLM != nil,
		"database":       app.DB != nil,
	})
}

func errorResponse(code, message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(respond.ErrorResponse{Error: respond.ErrorBody{Code: code, Message: message}})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		return errorResponse("bootstrap_failed", "Service failed to start"), nil
	}
	if ginLambda == nil {
		return errorResponse("internal", "Router not initialized"), nil
	}
	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(handler)
}
