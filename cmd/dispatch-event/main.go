package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"webhookhub/internal/application/dto"
	"webhookhub/internal/infrastructure/config"
	"webhookhub/internal/infrastructure/di"
	"webhookhub/internal/infrastructure/logging"
	"webhookhub/internal/infrastructure/telemetry"
)

type dispatchEventArgs struct {
	EventType string
	OrderID   int64
	JSON      bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	args, argsErr := parseArgs(argv, stderr)
	if argsErr != nil {
		if errors.Is(argsErr, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "dispatch-event: %v\n", argsErr)
		return 2
	}

	cfg, cfgErr := config.LoadConfig()
	if cfgErr != nil {
		fmt.Fprintf(stderr, "startup config error code=%s message=%s metadata=%v\n", cfgErr.Code, cfgErr.Message, cfgErr.Metadata)
		return 1
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat, stderr)
	tracing := telemetry.Setup("webhookhub-dispatch-event", cfg.TracingEnabled, logger)
	defer func() {
		if err := tracing.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Warn("tracer shutdown warning")
		}
	}()

	container, buildErr := di.Build(cfg, logger)
	if buildErr != nil {
		logger.WithError(buildErr).Error("dependency wiring error")
		return 1
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.WithError(err).Warn("resource close warning")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if container.InitializePersistenceUseCase != nil {
		persistenceErr := container.InitializePersistenceUseCase.Execute(ctx, dto.InitializePersistenceCommand{
			ReadinessTimeout:       cfg.DBReadinessTimeout,
			EventTypes:             cfg.EventTypes,
			ReadinessRetryInterval: cfg.DBReadinessRetryInterval,
		})
		if persistenceErr != nil {
			logger.WithFields(logrus.Fields{
				"code":     persistenceErr.Code,
				"metadata": persistenceErr.Details,
			}).Error(persistenceErr.Message)
			return 1
		}
	}

	report, appErr := container.ProcessEvent.Execute(ctx, dto.ProcessEventCommand{
		EventType: args.EventType,
		OrderID:   args.OrderID,
	})
	if appErr != nil {
		logger.WithFields(logrus.Fields{
			"code":    appErr.Code,
			"details": appErr.Details,
		}).Error(appErr.Error())
		return 1
	}

	if err := writeReport(stdout, report, args.JSON); err != nil {
		logger.WithError(err).Error("failed to write dispatch report")
		return 1
	}
	return 0
}

func parseArgs(argv []string, output io.Writer) (dispatchEventArgs, error) {
	flags := flag.NewFlagSet("dispatch-event", flag.ContinueOnError)
	flags.SetOutput(output)

	args := dispatchEventArgs{}
	flags.StringVar(&args.EventType, "event-type", "", "event type name, e.g. OrderPlaced")
	flags.Int64Var(&args.OrderID, "order-id", 0, "order identifier carried in the payload")
	flags.BoolVar(&args.JSON, "json", false, "print the dispatch report as JSON")

	if err := flags.Parse(argv); err != nil {
		return dispatchEventArgs{}, err
	}
	if flags.NArg() > 0 {
		return dispatchEventArgs{}, fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}

	args.EventType = strings.TrimSpace(args.EventType)
	if args.EventType == "" {
		return dispatchEventArgs{}, errors.New("-event-type is required")
	}
	if args.OrderID <= 0 {
		return dispatchEventArgs{}, errors.New("-order-id must be greater than zero")
	}
	return args, nil
}

func writeReport(w io.Writer, report dto.DispatchReport, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	fmt.Fprintf(w, "dispatch %s event=%s order=%d state=%s attempted=%d succeeded=%d failed=%d latency=%s\n",
		report.DispatchID,
		report.EventType,
		report.OrderID,
		report.State,
		report.Attempted(),
		report.Succeeded(),
		report.Failed(),
		report.Latency,
	)
	if report.Attempted() == 0 {
		return nil
	}

	table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "SUBSCRIBER\tURL\tRESULT\tSTATUS\tDURATION_MS\tERROR")
	for _, outcome := range report.Outcomes {
		result := "ok"
		if !outcome.Success {
			result = "failed"
		}
		status := "-"
		if outcome.StatusCode != nil {
			status = strconv.Itoa(*outcome.StatusCode)
		}
		fmt.Fprintf(table, "%d\t%s\t%s\t%s\t%d\t%s\n",
			outcome.SubscriberID,
			outcome.URL,
			result,
			status,
			outcome.DurationMS,
			outcome.Error,
		)
	}
	return table.Flush()
}
