package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/listentwo/internal/app"
	"github.com/llehouerou/listentwo/internal/config"
	"github.com/llehouerou/listentwo/internal/effect"
	"github.com/llehouerou/listentwo/internal/logging"
	"github.com/llehouerou/listentwo/internal/mpris"
	"github.com/llehouerou/listentwo/internal/notify"
	"github.com/llehouerou/listentwo/internal/playback"
	"github.com/llehouerou/listentwo/internal/player"
	"github.com/llehouerou/listentwo/internal/snapshot"
	"github.com/llehouerou/listentwo/internal/state"
	"github.com/llehouerou/listentwo/internal/stderr"
)

func runPlayer(opts *rootOptions, folder string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logging.New(cfg.Logging())
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = log.Sync() }()
	log.Info("starting")

	var stderrLines <-chan string
	if capture, err := stderr.Start(log); err != nil {
		log.Warn("capture stderr", zap.Error(err))
	} else {
		defer capture.Stop()
		stderrLines = capture.Lines()
	}

	store, err := opts.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("close state", zap.Error(err))
		}
	}()

	ctrl := playback.New(playback.Deps{
		Player: player.New(),
		Store:  store,
		Logger: log,
	}, playback.Options{
		ShuffleAvoidRepeat: cfg.ShuffleAvoidRepeat(),
		SeekStep:           cfg.SeekStep(),
		RestoreSidecar:     cfg.RestoreSidecar(),
		SidecarAutosave:    cfg.State.SidecarAutosave,
	})
	defer ctrl.Close()
	store.OnError(ctrl.ReportSaveError)

	restoreSession(ctrl, store, cfg, log)
	if folder == "" && ctrl.Folder() == "" {
		folder = cfg.DefaultFolder
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctrl.RunAutosave(ctx, cfg.AutosaveInterval())

	stopDesktop := startDesktop(ctx, ctrl, cfg, log)
	defer stopDesktop()

	effects := effect.NewManager(log)
	if name := cfg.Effect(); name != "" {
		if err := effects.Select(name); err != nil {
			log.Warn("start effect", zap.String("effect", name), zap.Error(err))
		}
	}

	model := app.New(ctrl, effects, app.Options{
		Folder: folder,
		Poll:   cfg.LyricPoll(),
		Stderr: stderrLines,
		Logger: log,
	})
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if m, ok := final.(app.Model); ok {
		m.Close()
	}
	log.Info("stopped")
	return err
}

// restoreSession applies the stored session, or the configured defaults
// when there is none yet. A failed read is not "none yet": whatever could
// be restored stays.
func restoreSession(ctrl *playback.Controller, store state.Interface, cfg *config.Config, log *zap.Logger) {
	_, stored, readErr := store.Get(snapshot.Key)
	if readErr != nil {
		log.Warn("read stored session", zap.Error(readErr))
	}
	warnings, err := ctrl.RestoreStored()
	if err != nil {
		log.Warn("restore session", zap.Error(err))
	}
	if len(warnings) > 0 {
		log.Info("session restored with warnings", zap.Int("count", len(warnings)))
	}
	if stored || readErr != nil {
		return
	}
	ctrl.SetVolume(cfg.DefaultVolume())
	if show, ok := cfg.ShowLyrics(); ok {
		ctrl.SetShowLyrics(show)
	}
}

// startDesktop registers the MPRIS player and the track announcer. Both are
// optional; failures are logged. The returned func unregisters MPRIS.
func startDesktop(ctx context.Context, ctrl *playback.Controller, cfg *config.Config, log *zap.Logger) func() {
	stop := func() {}
	if cfg.MPRISEnabled() {
		adapter, err := mpris.New(ctrl, log)
		switch {
		case errors.Is(err, mpris.ErrUnavailable):
			log.Debug("mpris unavailable")
		case err != nil:
			log.Warn("start mpris", zap.Error(err))
		default:
			stop = func() {
				if err := adapter.Close(); err != nil {
					log.Debug("stop mpris", zap.Error(err))
				}
			}
		}
	}
	if cfg.NotificationsEnabled() {
		n, err := notify.New()
		if err != nil {
			log.Warn("start notifications", zap.Error(err))
			return stop
		}
		go notify.NewAnnouncer(n, log).Run(ctx, ctrl.Subscribe())
	}
	return stop
}
