package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/johnwmail/lpaste/internal/config"
	"github.com/johnwmail/lpaste/internal/logging"
	"github.com/johnwmail/lpaste/internal/server"
)

var (
	ginLambdaV1 *ginadapter.GinLambda
	ginLambdaV2 *ginadapter.GinLambdaV2
	logger      zerolog.Logger
)

func main() {
	_ = godotenv.Load()

	// Lambda passes no arguments; configuration comes from LPASTE_* variables.
	cfg, err := config.Load(nil, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger = logging.New(os.Stdout, cfg.LogLevel, "json")
	gin.SetMode(gin.ReleaseMode)

	app, err := server.NewApp(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize lpaste")
	}

	ginLambdaV1 = ginadapter.New(app.Router)
	ginLambdaV2 = ginadapter.NewV2(app.Router)

	logger.Info().
		Str("storage_type", cfg.StorageType).
		Str("session_store", cfg.SessionStore).
		Msg("Lambda function initialized")

	lambda.Start(lambdaHandler)
}

// lambdaHandler handles Lambda requests for both v1 and v2 formats
func lambdaHandler(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Try to parse as APIGatewayV2HTTPRequest first (for Lambda Function URLs and HTTP API)
	var reqV2 events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(event, &reqV2); err == nil && reqV2.RequestContext.HTTP.Method != "" {
		logger.Debug().
			Str("method", reqV2.RequestContext.HTTP.Method).
			Str("path", reqV2.RawPath).
			Msg("Handling as APIGatewayV2HTTPRequest")
		return ginLambdaV2.ProxyWithContext(ctx, reqV2)
	}

	// Try to parse as APIGatewayProxyRequest (for REST API and ALB)
	var reqV1 events.APIGatewayProxyRequest
	if err := json.Unmarshal(event, &reqV1); err == nil && reqV1.HTTPMethod != "" {
		logger.Debug().
			Str("method", reqV1.HTTPMethod).
			Str("path", reqV1.Path).
			Msg("Handling as APIGatewayProxyRequest")
		return ginLambdaV1.ProxyWithContext(ctx, reqV1)
	}

	logger.Error().RawJSON("event", event).Msg("Unable to parse event as APIGateway v1 or v2 format")
	return events.APIGatewayV2HTTPResponse{
		StatusCode: 500,
		Body:       "Unsupported event type - this function expects API Gateway or Lambda Function URL events",
		Headers: map[string]string{
			"Content-Type": "text/plain",
		},
	}, fmt.Errorf("unsupported event type")
}
