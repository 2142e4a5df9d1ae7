package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/casualjim/rex"
	"github.com/casualjim/rex/notify"
	"github.com/casualjim/rex/pkg/natsx"
	"github.com/casualjim/rex/pkg/slogx"
	"github.com/casualjim/rex/queue"
	_ "github.com/joho/godotenv/autoload"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
)

type config struct {
	level   slog.Level
	delay   time.Duration
	natsURL string
}

func loadConfig() config {
	cfg := config{level: slog.LevelInfo, delay: 200 * time.Millisecond, natsURL: os.Getenv("NATS_URL")}
	if lvl := os.Getenv("REX_LOG_LEVEL"); lvl != "" {
		if err := cfg.level.UnmarshalText([]byte(lvl)); err != nil {
			slog.Warn("ignoring REX_LOG_LEVEL", slog.String("value", lvl), slogx.Error(err))
		}
	}
	if d := os.Getenv("REX_DEMO_DELAY"); d != "" {
		parsed, err := time.ParseDuration(d)
		if err != nil {
			slog.Warn("ignoring REX_DEMO_DELAY", slog.String("value", d), slogx.Error(err))
		} else {
			cfg.delay = parsed
		}
	}
	return cfg
}

func setupLogging(level slog.Level) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log := zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: level}),
	))
	rex.SetLogger(slog.Default())
}

func main() {
	cfg := loadConfig()
	setupLogging(cfg.level)
	slog.Info("running rex demo", slog.Duration("delay", cfg.delay))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out := newConsole(os.Stdout)
	if err := run(ctx, cfg, out); err != nil {
		slog.Error("demo failed", slogx.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, out *console) error {
	q := queue.New(queue.Name("rexdemo"), queue.WithLogger(slog.Default()))
	defer q.Shutdown()

	out.section("broadcaster")
	headlines := rex.NewBroadcaster[string]()
	defer headlines.Close()
	loud := rex.Transform(headlines.Publisher(), strings.ToUpper)
	sub := loud.Filter(func(s string) bool { return s != "" }).Subscribe(func(s string) {
		out.update("headline", s)
	})
	for _, h := range []string{"rex ships", "", "subscriptions are weak"} {
		headlines.Broadcast(h)
	}
	sub.Invalidate()
	headlines.Broadcast("nobody listens")

	out.section("published value")
	temperature := rex.NewPublishedValue(21.5)
	defer temperature.Close()
	sub = temperature.Subscribe(func(v float64) {
		out.update("temperature", fmt.Sprintf("%.1f", v))
	})
	temperature.Set(21.5)
	temperature.Set(23)
	sub.Invalidate()

	out.section("task")
	count := rex.NewTask(q, func(ctx context.Context, update func(rex.Status[int, string])) {
		go func() {
			for i := 1; i <= 3; i++ {
				select {
				case <-ctx.Done():
					return
				case <-time.After(cfg.delay / 4):
				}
				update(rex.InProgress[int, string](i))
			}
			update(rex.Success[int]("counted to three"))
		}()
	})
	hook := rex.NewCompositeTaskHook[int, string](
		rex.LoggingTaskHook[int, string](slog.Default()),
		out.taskHook(),
	)
	sub = count.SubscribeHook(hook)
	defer sub.Invalidate()
	if _, err := count.Await(ctx); err != nil {
		return err
	}

	out.section("delay")
	fired := make(chan struct{})
	sub = rex.Constant("later").Delay(cfg.delay).SubscribeOnce(func(s string) {
		out.update("delayed", s)
		close(fired)
	})
	defer sub.Invalidate()
	select {
	case <-fired:
	case <-ctx.Done():
		return ctx.Err()
	}

	out.section("notifications")
	center := notify.NewCenter()
	defer center.Close()
	sub = center.Publisher("").DeliverOn(q).Subscribe(func(n notify.Notification) {
		out.update("notification", n.Name)
	})
	defer sub.Invalidate()
	center.PostName("started", "rexdemo", nil)
	center.PostName("stopped", "rexdemo", nil)
	if err := q.Wait(ctx); err != nil {
		return err
	}

	if cfg.natsURL == "" {
		slog.Debug("NATS_URL not set, skipping nats bridge")
		return nil
	}
	return runNATS(ctx, headlines, out)
}

func runNATS(ctx context.Context, headlines *rex.Broadcaster[string], out *console) error {
	out.section("nats")
	nc, err := natsx.NewClient()
	if err != nil {
		return fmt.Errorf("connect to nats: %w", err)
	}
	defer nc.Close()

	const subject = "rex.demo.headlines"
	received := make(chan struct{})
	in := natsx.Data(nc, subject).SubscribeOnce(func(data []byte) {
		out.update("nats", string(data))
		close(received)
	})
	defer in.Invalidate()
	if err := nc.Flush(); err != nil {
		return fmt.Errorf("flush nats: %w", err)
	}

	bytes := rex.Transform(headlines.Publisher(), func(s string) []byte { return []byte(s) })
	forward := natsx.Forward(nc, subject, bytes)
	defer forward.Invalidate()
	headlines.Broadcast("over the wire")

	select {
	case <-received:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("no message from nats"), ctx.Err())
	}
}
