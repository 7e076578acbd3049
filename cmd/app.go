package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iksnae/ragchat/internal"
)

const logbookDirName = "logbook"

// app bundles what every command needs: the opened store, the effective
// settings and a controller wired to the feedback log and logbook
type app struct {
	paths    internal.StoragePaths
	store    *internal.Store
	saved    internal.Settings
	settings internal.Settings
	lang     internal.Lang
	theme    string
	feedback *internal.FileFeedbackSink
	logbook  *internal.Logbook
	ctrl     *internal.Controller
}

// openApp resolves configuration in the order flags > persisted settings > env
func openApp() (*app, error) {
	env, err := internal.LoadEnv()
	if err != nil {
		return nil, err
	}
	if env.LogLevel != "" && !verbose {
		level, err := internal.ParseLogLevel(env.LogLevel)
		if err != nil {
			return nil, err
		}
		internal.SetLogLevel(level)
	}

	location := storagePath
	if location == "" {
		location = env.Storage
	}
	paths, err := internal.DetectStoragePaths(location)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage paths: %w", err)
	}
	internal.LogDebug("Using database %s", paths.DatabasePath)

	store, err := internal.OpenStore(paths.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	saved := internal.LoadSettings(store, internal.DefaultSettings(env))
	settings := saved
	if endpoint != "" {
		settings.Endpoint = strings.TrimSpace(endpoint)
	}
	if timeoutSecs > 0 {
		settings.TimeoutSeconds = timeoutSecs
	}

	a := &app{
		paths:    paths,
		store:    store,
		saved:    saved,
		settings: settings,
		lang:     internal.ParseLang(firstNonEmpty(langFlag, env.Lang)),
		theme:    firstNonEmpty(themeFlag, env.Theme, "dark"),
		feedback: internal.NewFileFeedbackSink(paths.BasePath),
		logbook:  internal.NewLogbook(filepath.Join(paths.BasePath, logbookDirName)),
	}
	a.ctrl = internal.NewController(internal.ControllerOptions{
		Store:    store,
		Settings: settings,
		Feedback: a.feedback,
		Logbook:  a.logbook,
		Lang:     a.lang,
		Theme:    a.theme,
	})
	return a, nil
}

// selectThread activates id when given, otherwise keeps the most recent thread
func (a *app) selectThread(id string) error {
	if id == "" {
		return nil
	}
	if err := a.ctrl.SelectThread(a.resolveThreadID(id)); err != nil {
		return fmt.Errorf("%w (use 'ragchat threads list' to see available threads)", err)
	}
	return nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		internal.LogWarn("Failed to close store: %v", err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// resolveThreadID expands a unique ID prefix, as printed by 'threads list',
// into the full thread ID. Anything else is returned unchanged.
func (a *app) resolveThreadID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	match := ""
	for _, t := range a.ctrl.Registry().ListRecent(0) {
		if t.ID == id {
			return id
		}
		if strings.HasPrefix(t.ID, id) {
			if match != "" {
				return id
			}
			match = t.ID
		}
	}
	if match == "" {
		return id
	}
	return match
}
