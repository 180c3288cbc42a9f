package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/jingkaihe/skillkit/pkg/telemetry"
	"github.com/jingkaihe/skillkit/pkg/version"
)

var (
	tracer = telemetry.Tracer("skillkit.cli")

	shutdownTracer telemetry.ShutdownFunc
	commandSpan    trace.Span
)

// startTracing installs the tracer provider and opens a span covering the
// command. The span context is handed to the command through cmd.Context().
func startTracing(cmd *cobra.Command) error {
	ctx := cmd.Context()

	shutdown, err := telemetry.InitTracer(ctx, telemetry.Config{
		Enabled:        viper.GetBool("tracing.enabled"),
		ServiceName:    "skillkit",
		ServiceVersion: version.Get().Version,
		SamplerType:    viper.GetString("tracing.sampler"),
		SamplerRatio:   viper.GetFloat64("tracing.ratio"),
	})
	if err != nil {
		return err
	}
	shutdownTracer = shutdown

	attrs := []attribute.KeyValue{
		attribute.String("command.name", cmd.Name()),
		attribute.String("command.path", cmd.CommandPath()),
	}
	cmd.Flags().Visit(func(flag *pflag.Flag) {
		attrs = append(attrs, attribute.String("flag."+flag.Name, flag.Value.String()))
	})

	ctx, commandSpan = tracer.Start(ctx, "cli.command", trace.WithAttributes(attrs...))
	cmd.SetContext(ctx)
	return nil
}

// stopTracing ends the command span and flushes the exporter.
func stopTracing(ctx context.Context) {
	if commandSpan != nil {
		commandSpan.End()
		commandSpan = nil
	}
	if shutdownTracer == nil {
		return
	}
	if err := shutdownTracer(ctx); err != nil {
		logger.G(ctx).WithError(err).Warn("failed to shut down tracer")
	}
	shutdownTracer = nil
}

func init() {
	rootCmd.PersistentFlags().Bool("tracing-enabled", false, "Enable OpenTelemetry tracing")
	rootCmd.PersistentFlags().String("tracing-sampler", "ratio", "Tracing sampler type (always, never, ratio)")
	rootCmd.PersistentFlags().Float64("tracing-ratio", 1, "Sampling ratio when using ratio sampler")

	viper.BindPFlag("tracing.enabled", rootCmd.PersistentFlags().Lookup("tracing-enabled"))
	viper.BindPFlag("tracing.sampler", rootCmd.PersistentFlags().Lookup("tracing-sampler"))
	viper.BindPFlag("tracing.ratio", rootCmd.PersistentFlags().Lookup("tracing-ratio"))
}
