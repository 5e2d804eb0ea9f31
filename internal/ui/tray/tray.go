package tray

import (
	"fyne.io/fyne/v2"

	"dayjourney/internal/core/model"
)

// MenuHost installs the tray menu. desktop.App satisfies it.
type MenuHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Texts resolves localized labels.
type Texts interface {
	Text(key string, args ...any) string
	SectionLabel(section model.SectionID) string
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow           func()
	OnSelect         func(model.SectionID)
	OnTogglePreview  func()
	OnConfirmPreview func()
	OnCancelPreview  func()
	OnToggleMusic    func()
	OnToggleTrail    func()
	OnPreferences    func()
	OnQuit           func()
}

// Status is the tray view of the journey.
type Status struct {
	View           model.ViewState
	Progress       float64
	PreviewEnabled bool
	MusicPlaying   bool
	TrailEnabled   bool
}

// Manager handles system tray state.
type Manager struct {
	host      MenuHost
	texts     Texts
	sections  []model.SectionID
	callbacks Callbacks
	status    Status
	menu      *fyne.Menu
}

// New creates a tray manager with the provided callbacks.
func New(host MenuHost, texts Texts, sections []model.SectionID, callbacks Callbacks) *Manager {
	manager := &Manager{
		host:      host,
		texts:     texts,
		sections:  append([]model.SectionID(nil), sections...),
		callbacks: callbacks,
	}
	manager.refreshMenu()
	return manager
}

// SetStatus updates the menu from a journey snapshot.
func (manager *Manager) SetStatus(status Status) {
	if status == manager.status && manager.menu != nil {
		return
	}
	manager.status = status
	manager.refreshMenu()
}

// Menu returns the installed menu.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

func (manager *Manager) refreshMenu() {
	texts := manager.texts
	status := manager.status

	statusLabel := texts.Text("app.loading")
	if status.View.Current != "" {
		statusLabel = texts.Text("app.tray_status", texts.SectionLabel(status.View.Current), status.Progress)
	}
	statusItem := fyne.NewMenuItem(statusLabel, nil)
	statusItem.Disabled = true

	displayed := status.View.Displayed()
	sectionItems := make([]*fyne.MenuItem, 0, len(manager.sections))
	for _, section := range manager.sections {
		item := fyne.NewMenuItem(texts.SectionLabel(section), manager.selectHandler(section))
		item.Checked = section == displayed
		sectionItems = append(sectionItems, item)
	}
	sectionsItem := fyne.NewMenuItem(texts.Text("tray.sections"), nil)
	sectionsItem.ChildMenu = fyne.NewMenu("", sectionItems...)

	items := []*fyne.MenuItem{
		statusItem,
		fyne.NewMenuItem(texts.Text("app.title"), invoke(manager.callbacks.OnShow)),
		sectionsItem,
	}

	if status.PreviewEnabled {
		inPreview := status.View.Mode == model.ModePreviewConfirm
		previewLabel := texts.Text("preview.enable")
		if inPreview {
			previewLabel = texts.Text("preview.disable")
		}
		items = append(items, fyne.NewMenuItem(previewLabel, invoke(manager.callbacks.OnTogglePreview)))
		if inPreview {
			items = append(items,
				fyne.NewMenuItem(texts.Text("preview.confirm"), invoke(manager.callbacks.OnConfirmPreview)),
				fyne.NewMenuItem(texts.Text("preview.cancel"), invoke(manager.callbacks.OnCancelPreview)),
			)
		}
	}

	music := fyne.NewMenuItem(texts.Text("audio.background"), invoke(manager.callbacks.OnToggleMusic))
	music.Checked = status.MusicPlaying
	trail := fyne.NewMenuItem(texts.Text("trail.toggle"), invoke(manager.callbacks.OnToggleTrail))
	trail.Checked = status.TrailEnabled

	items = append(items,
		fyne.NewMenuItemSeparator(),
		music,
		trail,
		fyne.NewMenuItem(texts.Text("tray.preferences"), invoke(manager.callbacks.OnPreferences)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(texts.Text("tray.quit"), invoke(manager.callbacks.OnQuit)),
	)

	manager.menu = fyne.NewMenu(texts.Text("app.title"), items...)
	if manager.host != nil {
		manager.host.SetSystemTrayMenu(manager.menu)
	}
}

func (manager *Manager) selectHandler(section model.SectionID) func() {
	return func() {
		if manager.callbacks.OnSelect != nil {
			manager.callbacks.OnSelect(section)
		}
	}
}

func invoke(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}
