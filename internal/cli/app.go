package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"slices"

	"github.com/darkkaiser/offer-notifier/internal/config"
	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
	"github.com/darkkaiser/offer-notifier/internal/pkg/version"
	"github.com/darkkaiser/offer-notifier/internal/service/notification"
	"github.com/darkkaiser/offer-notifier/internal/service/notification/mail"
	"github.com/darkkaiser/offer-notifier/internal/service/notification/telegram"
	"github.com/darkkaiser/offer-notifier/internal/service/watch"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/fetcher"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/offer"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/report"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/storage"
	applog "github.com/darkkaiser/offer-notifier/pkg/log"
	"github.com/joho/godotenv"
)

// app 하나의 명령 실행 동안 사용하는 설정과 의존성 묶음입니다.
type app struct {
	cfg     *config.AppConfig
	runner  *watch.Runner
	sources []watch.Source
	closers []io.Closer
}

// Close 열린 자원을 생성의 역순으로 닫습니다.
func (a *app) Close() error {
	var errs []error
	for _, c := range slices.Backward(a.closers) {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// loadEnvFile .env 파일이 있으면 환경 변수로 적재합니다. 이미 설정된 환경 변수는 덮어쓰지 않습니다.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return apperrors.Wrapf(err, apperrors.InvalidInput, "환경 변수 파일(%s)을 읽을 수 없습니다", path)
	}
	return nil
}

// loadConfig .env 파일과 설정 파일을 읽고 로그 시스템을 초기화합니다.
// 실패는 모두 설정 오류(종료 코드 2)로 취급합니다.
func loadConfig(opts *options) (*config.AppConfig, io.Closer, error) {
	if err := loadEnvFile(opts.envFile); err != nil {
		return nil, nil, configError(err)
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, nil, configError(err)
	}

	logCloser, err := applog.Setup(applog.StandardLogger(), logOptions(cfg))
	if err != nil {
		return nil, nil, configError(apperrors.Wrap(err, apperrors.System, "로그 시스템 초기화에 실패했습니다"))
	}
	applog.SetDebugMode(cfg.Debug)

	applog.WithComponentAndFields(component, applog.Fields{
		"version": version.Get().String(),
		"env":     map[bool]string{true: "development", false: "production"}[cfg.Debug],
		"config":  opts.configFile,
	}).Info("설정 로드 완료")

	return cfg, logCloser, nil
}

func logOptions(cfg *config.AppConfig) applog.Options {
	var opts applog.Options
	if cfg.Debug {
		opts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		opts = applog.NewProductionOptions(config.AppName)
	}

	opts.Dir = cfg.Log.Dir
	if cfg.Log.MaxSizeMB > 0 {
		opts.MaxSizeMB = cfg.Log.MaxSizeMB
	}
	if cfg.Log.MaxBackups > 0 {
		opts.MaxBackups = cfg.Log.MaxBackups
	}
	if cfg.Log.MaxAgeDays > 0 {
		opts.MaxAge = cfg.Log.MaxAgeDays
	}
	opts.EnableConsoleLog = opts.EnableConsoleLog || cfg.Log.Console

	return opts
}

// bootstrap 감시 주기 실행에 필요한 모든 의존성을 구성합니다.
func bootstrap(ctx context.Context, opts *options) (*app, error) {
	cfg, logCloser, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, closers: []io.Closer{logCloser}}
	completed := false
	defer func() {
		// 구성 도중 실패하면 지금까지 연 자원을 모두 닫는다.
		if !completed {
			_ = a.Close()
		}
	}()

	creds, err := config.LoadCredentials(opts.credentialsFile)
	if err != nil {
		return nil, configError(err)
	}

	if a.sources, err = buildSources(cfg, opts.sourceIDs); err != nil {
		return nil, configError(err)
	}

	// 기본 템플릿은 매 주기마다 다시 읽지만, 잘못된 템플릿은 시작 시점에 걸러낸다.
	if cfg.Report.TemplateFile != "" {
		if _, err := report.LoadTemplate(cfg.Report.TemplateFile); err != nil {
			return nil, configError(err)
		}
	}

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return nil, failedError(err)
	}
	if c, ok := store.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	dispatcher, err := newDispatcher(cfg, creds)
	if err != nil {
		return nil, configError(err)
	}

	a.runner = watch.NewRunner(watch.AppContext{
		Fetcher: fetcher.New(fetcher.Config{
			Timeout:            cfg.HTTP.Timeout,
			UserAgent:          cfg.HTTP.UserAgent,
			MaxBodyBytes:       cfg.HTTP.MaxBodyBytes,
			MinRequestInterval: cfg.HTTP.MinRequestInterval,
		}),
		Store:      store,
		Dispatcher: dispatcher,
		Report: watch.ReportOptions{
			TemplateFile: cfg.Report.TemplateFile,
			Currency:     cfg.Report.Currency,
			LinkLabel:    cfg.Report.LinkLabel,
			NewColor:     cfg.Report.NewColor,
		},
		From: creds.Sender,
		To:   creds.Recipient,
	})

	completed = true
	return a, nil
}

func openStore(ctx context.Context, cfg config.StorageConfig) (storage.SnapshotStore, error) {
	switch cfg.Driver {
	case config.StorageDriverSQLite:
		return storage.OpenSQLiteStore(ctx, cfg.SQLitePath)
	default:
		return storage.NewFileStore(cfg.Dir)
	}
}

func newDispatcher(cfg *config.AppConfig, creds *config.Credentials) (*notification.Dispatcher, error) {
	mailer, err := mail.New(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: creds.Sender,
		Password: creds.Password,
		Timeout:  cfg.SMTP.Timeout,
		From:     creds.Sender,
		To:       creds.Recipient,
	})
	if err != nil {
		return nil, err
	}

	notifiers := []notification.Notifier{mailer}

	if cfg.Telegram.Enabled {
		bot, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, bot)
	}

	return notification.NewDispatcher(notifiers...), nil
}

// buildSources 설정의 소스 목록을 watch.Source로 변환합니다. ids가 주어지면 해당 소스만 순서대로 선택합니다.
func buildSources(cfg *config.AppConfig, ids []string) ([]watch.Source, error) {
	selected := cfg.Sources
	if len(ids) > 0 {
		selected = make([]config.SourceConfig, 0, len(ids))
		for _, id := range ids {
			sc, ok := cfg.FindSource(id)
			if !ok {
				return nil, newErrUnknownSource(id, cfg.Sources)
			}
			selected = append(selected, sc)
		}
	}

	sources := make([]watch.Source, 0, len(selected))
	for _, sc := range selected {
		src, err := toSource(sc)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func toSource(sc config.SourceConfig) (watch.Source, error) {
	window, err := sc.Window.Build()
	if err != nil {
		return watch.Source{}, err
	}

	if sc.TemplateFile != "" {
		if _, err := report.LoadTemplate(sc.TemplateFile); err != nil {
			return watch.Source{}, err
		}
	}

	src := watch.Source{
		ID:           sc.ID,
		Title:        sc.Title,
		Heading:      sc.Heading,
		URL:          sc.URL,
		Selectors:    sc.Selectors,
		StorageKey:   sc.Key(),
		Window:       window,
		TemplateFile: sc.TemplateFile,
	}
	if sc.PriceFormat == config.PriceFormatCompact {
		src.Hooks.FormatPrice = offer.NormalizePrice
	}

	return src, nil
}
