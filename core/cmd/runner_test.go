package cmd

import (
	"context"
	"errors"
	"testing"

	coreconfig "github.com/m3rciful/recipebot/core/config"
	coretelegram "github.com/m3rciful/recipebot/core/telegram"
)

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type app struct{ closed bool }

func (a *app) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{}, nil
}

func (a *app) Close() error {
	a.closed = true
	return nil
}

func TestRunWiresLifecycle(t *testing.T) {
	t.Setenv("RECIPEBOT_TEST_CONFIG", "from-env.yaml")
	var gotPath string
	a := &app{}
	started, stopped := false, false

	err := Run(Options{
		ConfigEnvVar: "RECIPEBOT_TEST_CONFIG",
		LoadConfig: func(path string) (ConfigCarrier, error) {
			gotPath = path
			return carrier{cfg: &coreconfig.Config{}}, nil
		},
		Bootstrap:      func(ConfigCarrier) (TelegramApp, error) { return a, nil },
		ShutdownLogger: func() error { return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			started = true
			stopped = opts.OnStop(ctx, coretelegram.Runtime{}) == nil
			return nil
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if gotPath != "from-env.yaml" {
		t.Fatalf("config path = %q", gotPath)
	}
	if !started || !stopped || !a.closed {
		t.Fatalf("lifecycle started=%v stopped=%v closed=%v", started, stopped, a.closed)
	}
}

func TestRunReportsLoadFailure(t *testing.T) {
	boom := errors.New("boom")
	err := Run(Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        func(string) (ConfigCarrier, error) { return nil, boom },
		Bootstrap:         func(ConfigCarrier) (TelegramApp, error) { return nil, nil },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
