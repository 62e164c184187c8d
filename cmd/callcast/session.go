package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"callcast/adapters/api"
	"callcast/adapters/console"
	"callcast/adapters/excel"
	"callcast/app"
	"callcast/internal"
	"callcast/internal/config"
	"callcast/internal/errors"
	"callcast/ports"
)

// errNoticeRaised marks a run that showed the user at least one notice.
// The notice itself was already printed.
var errNoticeRaised = stderrors.New("notice raised")

// sessionOptions are the settings that have no environment variable
type sessionOptions struct {
	xlsxPath string
	summary  bool
}

// session wires the two handlers to a terminal for the lifetime of one command
type session struct {
	logger   *internal.Logger
	loop     *app.Loop
	files    *console.Files
	week     *console.Field
	weeks    *console.Element
	result   *console.Element
	notices  *console.Notices
	upload   *app.UploadHandler
	predict  *app.PredictionHandler
	workbook *excel.PredictionWorkbook
}

func newSession(cfg *config.Config, opts sessionOptions, stdout, stderr io.Writer) (*session, error) {
	logger := internal.NewLoggerTo(stderr, cfg.LogLevel)

	client, err := api.NewClient(api.ClientConfig{
		BaseURL: cfg.Service.BaseURL,
		Timeout: cfg.Service.Timeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	s := &session{
		logger:  logger,
		files:   console.NewFiles(),
		week:    console.NewField(console.WeekInputID, ""),
		weeks:   console.NewElement(console.WeeksInfoID, stdout),
		result:  console.NewElement(console.PredictionResultID, stdout),
		notices: console.NewNotices(stderr),
	}

	var handlerOpts []app.Option
	if cfg.Dispatch.LatestOnly {
		handlerOpts = append(handlerOpts, app.WithLatestOnly())
	}
	var sinks []ports.PredictionSink
	if opts.summary {
		sinks = append(sinks, console.NewSummaryPrinter(stdout))
	}
	if opts.xlsxPath != "" {
		s.workbook, err = excel.OpenPredictionWorkbook(excel.DefaultWorkbookConfig(opts.xlsxPath))
		if err != nil {
			return nil, errors.Wrap(err, "failed to open prediction workbook")
		}
		sinks = append(sinks, s.workbook)
	}

	s.loop = app.NewLoop()
	s.upload = app.NewUploadHandler(s.loop, client,
		app.UploadElements{FileInput: s.files, WeeksInfo: s.weeks},
		s.notices, logger, handlerOpts...)
	s.predict = app.NewPredictionHandler(s.loop, client,
		app.PredictionElements{WeekInput: s.week, PredictionResult: s.result},
		s.notices, logger,
		append(handlerOpts, app.WithModel(cfg.Service.Model), app.WithSinks(sinks...))...)

	logger.Debug("[callcast] session ready: base=%s model=%q latest-only=%v sinks=%d",
		cfg.Service.BaseURL, cfg.Service.Model, cfg.Dispatch.LatestOnly, len(sinks))
	return s, nil
}

// uploadFiles selects paths and triggers one upload. Only the first path is sent.
func (s *session) uploadFiles(ctx context.Context, paths ...string) error {
	s.files.Select(paths...)
	return ignoreInvalidInput(s.upload.Trigger(ctx))
}

// predictWeek types week into the week field and triggers one prediction
func (s *session) predictWeek(ctx context.Context, week string) error {
	s.week.Set(week)
	return ignoreInvalidInput(s.predict.Trigger(ctx))
}

// finish waits for every reply, saves the workbook and reports whether a
// notice was shown.
func (s *session) finish() error {
	if err := s.loop.Close(); err != nil {
		return err
	}
	if s.workbook != nil {
		defer s.workbook.Close()
		if err := s.workbook.Save(); err != nil {
			return err
		}
	}
	if s.notices.Count() > 0 {
		return errNoticeRaised
	}
	return nil
}

// ignoreInvalidInput drops guard failures; the guard already notified the user.
func ignoreInvalidInput(err error) error {
	if errors.GetCode(err) == errors.CodeInvalidInput {
		return nil
	}
	if err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}
	return nil
}
