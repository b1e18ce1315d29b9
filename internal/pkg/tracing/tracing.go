package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName はこのサービスが作るスパンの計装名
const InstrumentationName = "github.com/sanosuguru/go-hotel-reservation"

// Config はトレーシングの設定
type Config struct {
	Endpoint    string
	ServiceName string
	Environment string
}

// ShutdownFunc はプロバイダを停止し未送信のスパンを送る
type ShutdownFunc func(context.Context) error

// Init はOTLP gRPCエクスポーターを使うトレーサープロバイダを登録する
// Endpoint が空ならグローバルの no-op プロバイダのままにする
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if cfg.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("OTLPエクスポーターの作成に失敗: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.DeploymentEnvironmentKey.String(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("リソースの作成に失敗: %w", err)
	}

	tp := NewProvider(sdktrace.WithBatcher(exp), sdktrace.WithResource(res))
	return tp.Shutdown, nil
}

// NewProvider は sdk のプロバイダを作成しグローバルに登録する
func NewProvider(opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp
}

// Tracer はグローバルプロバイダからトレーサーを返す
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}
