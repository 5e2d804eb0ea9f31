package main

import (
	"errors"
	"log/slog"
	"os"

	"dayjourney/internal/audio"
	"dayjourney/internal/core/journey"
	"dayjourney/internal/core/model"
	"dayjourney/internal/i18n"
	"dayjourney/internal/lifecycle"
	"dayjourney/internal/platform"
	"dayjourney/internal/storage"
	"dayjourney/internal/ui/journeyview"
	"dayjourney/internal/ui/panels"
	"dayjourney/internal/ui/preferences"
	"dayjourney/internal/ui/tray"
	"dayjourney/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const (
	appName = "DayJourney"
	appID   = "com.dayjourney.app"
)

func main() {
	overrides, envErr := storage.ParseEnv()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: overrides.Level()}))
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Warn("ignoring environment overrides", "error", envErr)
		overrides = storage.EnvOverrides{}
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Info("already running, activating the open window")
			if err := platform.ActivateRunning(appName); err != nil {
				logger.Warn("activate running instance", "error", err)
			}
			return
		}
		logger.Error("single instance", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = guard.Release()
	}()

	settings := loadSettings(logger, overrides)

	catalog, err := i18n.Load(resources.Locales())
	if err != nil {
		logger.Error("load locale catalogs", "error", err)
		os.Exit(1)
	}
	texts := catalog.Localizer(settings.Locale)
	logger.Info("locale selected", "requested", settings.Locale, "resolved", texts.Locale())

	journeyConfig, err := settings.JourneyConfig()
	if err != nil {
		logger.Error("build journey config", "error", err)
		os.Exit(1)
	}
	keeper, err := journey.New(journeyConfig, journey.Options{Logger: logger})
	if err != nil {
		logger.Error("create journey", "error", err)
		os.Exit(1)
	}

	var scope lifecycle.Scope
	defer scope.Close()
	scope.Add(keeper.Stop)

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustLogo("heart.svg"))

	audioConfig := settings.AudioConfig()
	music := newController(&scope, "music", audioConfig.MusicURL, audioConfig.Volume, audioConfig.Loop, logger)
	song := newController(&scope, "song", audioConfig.SongURL, audioConfig.Volume, audioConfig.Loop, logger)
	voice := newController(&scope, "voice", audioConfig.VoiceURL, audioConfig.Volume, false, logger)

	var morning *panels.MorningPanel
	if song != nil || voice != nil {
		morning = panels.NewMorningPanel(texts, song, voice)
	}

	view := journeyview.New(fyneApp, journeyview.Config{
		RootURL: settings.RootURL,
		Trail:   settings.TrailConfig(),
	}, journeyview.Options{
		Journey:  keeper,
		Texts:    texts,
		Renderer: panels.NewCatalog(texts, morning),
		Music:    music,
		Logger:   logger,
	})
	scope.Add(view.Close)

	var (
		trayManager *tray.Manager
		trayIcon    fyne.Resource
		setTrayIcon func(fyne.Resource)
	)
	activeIcon := resources.MustLogo("heart.svg")
	quietIcon := resources.MustLogo("heart-muted.svg")
	updateTray := func() {
		if trayManager == nil {
			return
		}
		status := tray.Status{
			View:           keeper.View(),
			Progress:       keeper.Progress(),
			PreviewEnabled: keeper.PreviewEnabled(),
			TrailEnabled:   view.TrailEnabled(),
		}
		if music != nil {
			status.MusicPlaying = music.Playing()
		}
		trayManager.SetStatus(status)

		icon := quietIcon
		if status.MusicPlaying {
			icon = activeIcon
		}
		if icon != trayIcon && setTrayIcon != nil {
			trayIcon = icon
			setTrayIcon(icon)
		}
	}
	afterAction := func(action func()) func() {
		return func() {
			action()
			view.Refresh()
			updateTray()
		}
	}

	prefsWindow := preferences.New(fyneApp, texts, catalog.Locales(), settings, func(updated preferences.Settings) {
		if err := keeper.SetBaseMode(updated.Mode, updated.PreviewEnabled); err != nil {
			logger.Warn("apply selection mode", "error", err)
			return
		}
		if updated.Locale != settings.Locale || updated.Preset != settings.Preset {
			logger.Info("locale and partition changes apply on next start")
		}
		settings = updated
		view.SetTrailEnabled(settings.TrailEnabled)
		if err := storage.SaveSettings(appName, settings); err != nil {
			logger.Warn("save settings", "error", err)
		}
		view.Refresh()
		updateTray()
	})

	selectSection := func(section model.SectionID) {
		keeper.Select(section)
		view.Refresh()
		updateTray()
	}
	quit := func() {
		scope.Close()
		fyneApp.Quit()
	}

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, texts, keeper.Sections(), tray.Callbacks{
			OnShow:           view.Show,
			OnSelect:         selectSection,
			OnTogglePreview:  afterAction(keeper.TogglePreview),
			OnConfirmPreview: afterAction(keeper.ConfirmPreview),
			OnCancelPreview:  afterAction(keeper.CancelPreview),
			OnToggleMusic:    afterAction(view.ToggleMusic),
			OnToggleTrail:    afterAction(view.ToggleTrail),
			OnPreferences:    prefsWindow.Show,
			OnQuit:           quit,
		})
		setTrayIcon = desktopApp.SetSystemTrayIcon
		updateTray()
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	events := keeper.Subscribe(8)
	go func() {
		for event := range events {
			if event.Type == journey.EventViewChange {
				fyne.Do(updateTray)
			}
		}
	}()

	guard.Serve(func() {
		fyne.Do(view.Show)
	})

	keeper.Start()
	view.Show()
	fyneApp.Run()
}

func loadSettings(logger *slog.Logger, overrides storage.EnvOverrides) preferences.Settings {
	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings, using defaults", "error", err)
	}
	if err := overrides.Apply(&settings); err != nil {
		logger.Warn("apply environment overrides", "error", err)
	}
	err = settings.Validate()
	if errors.Is(err, journey.ErrLockedPreview) {
		logger.Warn("time-locked mode does not support preview, disabling preview")
		settings.PreviewEnabled = false
		err = settings.Validate()
	}
	if err != nil {
		logger.Warn("invalid settings, using defaults", "error", err)
		settings = preferences.DefaultSettings()
	}
	return settings
}

// newController returns nil when no locator is configured.
func newController(scope *lifecycle.Scope, name, locator string, volume float64, loop bool, logger *slog.Logger) *audio.Controller {
	if locator == "" {
		return nil
	}
	controller := audio.NewController(name, func() (audio.Player, error) {
		return audio.NewStreamPlayer(locator, volume, loop), nil
	}, logger)
	scope.Add(func() {
		if err := controller.Close(); err != nil {
			logger.Warn("close audio", "resource", name, "error", err)
		}
	})
	return controller
}
