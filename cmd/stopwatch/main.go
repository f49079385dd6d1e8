// Command stopwatch runs a two-button stopwatch on GPIO lines, mirrors its
// state on two LEDs and prints the elapsed time on a single status line.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sweeney/stopwatch/internal/display"
	"github.com/sweeney/stopwatch/internal/gpio"
	"github.com/sweeney/stopwatch/internal/mqtt"
	"github.com/sweeney/stopwatch/internal/status"
	"github.com/sweeney/stopwatch/internal/stopwatch"
	"github.com/sweeney/stopwatch/internal/web"
)

// eventBuffer is the capacity of the channel between the button worker and
// the publishing loop.
const eventBuffer = 16

type config struct {
	gpio      gpio.Config
	poll      time.Duration
	broker    string
	heartbeat time.Duration
	httpAddr  string
	strict    bool
}

func main() {
	backend := flag.String("backend", string(gpio.BackendSysfs), "GPIO backend: sysfs, cdev or periph")
	gpioRoot := flag.String("gpio-root", gpio.DefaultSysfsRoot, "Directory holding exported gpio<N> entries (sysfs backend)")
	chipLines := flag.Int("chip-lines", gpio.DefaultLinesPerChip, "Lines per gpiochip when mapping pin numbers (cdev backend)")
	poll := flag.Duration("poll", 5*time.Millisecond, "Button polling interval")
	broker := flag.String("broker", "", "MQTT broker address (empty to disable)")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", "", "HTTP status address (empty to disable)")
	strict := flag.Bool("strict", false, "Fail at startup if a GPIO line cannot be opened or read")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")

	flag.Parse()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg := config{
		gpio: gpio.Config{
			Backend:      gpio.Backend(*backend),
			SysfsRoot:    *gpioRoot,
			LinesPerChip: *chipLines,
		},
		poll:      *poll,
		broker:    *broker,
		heartbeat: *heartbeat,
		httpAddr:  *httpAddr,
		strict:    *strict,
	}
	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config) error {
	if err := validateBackend(cfg.gpio.Backend); err != nil {
		return err
	}

	lines, err := openLines(cfg.gpio, cfg.strict)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return serve(cfg, lines, os.Stdout, sigCh)
}

// serve runs the stopwatch on lines until a signal arrives. Lines are closed
// only after both workers have stopped.
func serve(cfg config, lines *lineSet, out io.Writer, sig <-chan os.Signal) error {
	defer func() {
		if err := lines.Close(); err != nil {
			log.Warnf("close gpio: %v", err)
		}
	}()

	sw := stopwatch.New()
	renderer := display.NewRenderer(out)
	defer renderer.Finish()

	var publisher mqtt.Publisher = mqtt.NopPublisher{}
	var mqttStatus mqtt.ConnectionStatus
	if cfg.broker != "" {
		p := mqtt.NewRealPublisher(cfg.broker, "stopwatch")
		publisher, mqttStatus = p, p
	}
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		Backend:     string(cfg.gpio.Backend),
		IntervalMs:  stopwatch.TimerInterval.Milliseconds(),
		PollMs:      cfg.poll.Milliseconds(),
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		Broker:      cfg.broker,
		HTTPAddr:    cfg.httpAddr,
	}, sw)

	startup := mqtt.SystemEvent{
		Timestamp:  time.Now(),
		Event:      mqtt.EventStartup,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(tracker.Snapshot(), mqtt.EventStartup, ""),
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.Warnf("failed to publish startup event: %v", err)
	}

	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Infof("http status server listening on %s", cfg.httpAddr)
	}

	log.Infof("started: backend=%s poll=%v broker=%q heartbeat=%v", cfg.gpio.Backend, cfg.poll, cfg.broker, cfg.heartbeat)

	if err := renderer.Render(sw.Snapshot()); err != nil {
		log.Debugf("render: %v", err)
	}

	events := make(chan stopwatch.Event, eventBuffer)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	timer := newTimer(sw, lines, renderer)
	buttons := newButtons(sw, lines, cfg.poll, events)
	g.Go(func() error { return timer.Run(gctx) })
	g.Go(func() error { return buttons.Run(gctx) })

	var heartbeatTick <-chan time.Time
	if cfg.heartbeat > 0 {
		ticker := time.NewTicker(cfg.heartbeat)
		defer ticker.Stop()
		heartbeatTick = ticker.C
	}

	loopErr := runLoop(publisher, mqttStatus, tracker, events, heartbeatTick, time.Now, sig)

	cancel()
	if err := g.Wait(); err != nil {
		return fmt.Errorf("worker: %w", err)
	}
	return loopErr
}

// runLoop forwards stopwatch events to MQTT and publishes heartbeats until a
// signal arrives, then publishes SHUTDOWN.
func runLoop(publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, events <-chan stopwatch.Event, heartbeat <-chan time.Time, now func() time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Infof("received %v, shutting down", s)

			// Events already queued by the button worker still go out.
		drain:
			for {
				select {
				case e := <-events:
					forwardEvent(publisher, e)
				default:
					break drain
				}
			}

			reason := signalName(s)
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     mqtt.EventShutdown,
				Reason:    reason,
				Retained:  true,
			}
			if tracker != nil {
				refreshMQTTStatus(tracker, mqttStatus)
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), mqtt.EventShutdown, reason)
			}
			switch err := publisher.PublishSystem(event); {
			case err != nil:
				log.Warnf("failed to publish shutdown event: %v", err)
			case mqttStatus != nil && !mqttStatus.IsConnected():
				log.Warn("broker not connected, shutdown event queued and may be lost")
			default:
				log.Info("published shutdown event")
			}
			return nil

		case e := <-events:
			forwardEvent(publisher, e)

		case <-heartbeat:
			hb := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     mqtt.EventHeartbeat,
			}
			if tracker != nil {
				refreshMQTTStatus(tracker, mqttStatus)
				snap := tracker.Snapshot()
				log.Infof("heartbeat: uptime=%v state=%s elapsed=%ss started=%d paused=%d resets=%d",
					snap.Uptime().Truncate(time.Second), snap.State(), display.Seconds(snap.Stopwatch),
					snap.Counts.Started, snap.Counts.Paused, snap.Counts.Resets)
				hb.RawPayload = status.FormatStatusEvent(snap, mqtt.EventHeartbeat, "")
			}
			if err := publisher.PublishSystem(hb); err != nil {
				log.Warnf("heartbeat publish error: %v", err)
			}
		}
	}
}

func forwardEvent(publisher mqtt.Publisher, e stopwatch.Event) {
	log.Infof("event: %s (running=%v elapsed=%ss)", e.Type, e.Snapshot.Running, display.Seconds(e.Snapshot))
	if err := publisher.Publish(e); err != nil {
		// Don't crash on publish failure
		log.Warnf("publish error: %v", err)
	}
}

func refreshMQTTStatus(tracker *status.Tracker, mqttStatus mqtt.ConnectionStatus) {
	if mqttStatus != nil {
		tracker.SetMQTTConnected(mqttStatus.IsConnected())
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "UNKNOWN"
	}
}

func validateBackend(b gpio.Backend) error {
	switch b {
	case gpio.BackendSysfs, gpio.BackendCdev, gpio.BackendPeriph:
		return nil
	default:
		return fmt.Errorf("unknown gpio backend %q (want sysfs, cdev or periph)", b)
	}
}
