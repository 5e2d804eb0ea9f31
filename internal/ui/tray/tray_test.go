package tray

import (
	"fmt"
	"testing"

	"fyne.io/fyne/v2"

	"dayjourney/internal/core/model"
)

type fakeHost struct {
	installs int
	menu     *fyne.Menu
}

func (host *fakeHost) SetSystemTrayMenu(menu *fyne.Menu) {
	host.installs++
	host.menu = menu
}

type stubTexts struct{}

func (stubTexts) Text(key string, args ...any) string {
	if len(args) == 0 {
		return key
	}
	return fmt.Sprintf("%s %v", key, args)
}

func (stubTexts) SectionLabel(section model.SectionID) string {
	return string(section)
}

var testSections = []model.SectionID{model.SectionMorning, model.SectionNoon, model.SectionNight}

func findItem(menu *fyne.Menu, label string) *fyne.MenuItem {
	for _, item := range menu.Items {
		if item.Label == label {
			return item
		}
	}
	return nil
}

func TestNewInstallsLoadingMenu(t *testing.T) {
	host := &fakeHost{}
	New(host, stubTexts{}, testSections, Callbacks{})

	if host.installs != 1 {
		t.Fatalf("expected menu installed once, got %d", host.installs)
	}
	if host.menu.Items[0].Label != "app.loading" || !host.menu.Items[0].Disabled {
		t.Fatalf("unexpected status item %+v", host.menu.Items[0])
	}
	if findItem(host.menu, "preview.enable") != nil {
		t.Fatal("preview item must be hidden while preview is disabled")
	}
}

func TestSetStatusMarksDisplayedSection(t *testing.T) {
	host := &fakeHost{}
	manager := New(host, stubTexts{}, testSections, Callbacks{})

	manager.SetStatus(Status{
		View:           model.ViewState{Current: model.SectionMorning, Preview: model.SectionNight, HasPreview: true, Mode: model.ModePreviewConfirm},
		Progress:       100.0 / 3,
		PreviewEnabled: true,
		TrailEnabled:   true,
	})

	sections := findItem(host.menu, "tray.sections")
	if sections == nil || sections.ChildMenu == nil {
		t.Fatal("expected sections submenu")
	}
	for _, item := range sections.ChildMenu.Items {
		if item.Checked != (item.Label == string(model.SectionNight)) {
			t.Fatalf("only the previewed section should be checked, got %s=%v", item.Label, item.Checked)
		}
	}
	for _, label := range []string{"preview.disable", "preview.confirm", "preview.cancel"} {
		if findItem(host.menu, label) == nil {
			t.Fatalf("expected %s item in preview", label)
		}
	}
	if trail := findItem(host.menu, "trail.toggle"); trail == nil || !trail.Checked {
		t.Fatal("expected checked trail item")
	}
}

func TestSetStatusSkipsUnchangedStatus(t *testing.T) {
	host := &fakeHost{}
	manager := New(host, stubTexts{}, testSections, Callbacks{})
	status := Status{View: model.ViewState{Current: model.SectionNoon}}

	manager.SetStatus(status)
	manager.SetStatus(status)
	if host.installs != 2 {
		t.Fatalf("expected a single reinstall, got %d installs", host.installs)
	}
}

func TestMenuItemsInvokeCallbacks(t *testing.T) {
	host := &fakeHost{}
	var selected model.SectionID
	quit := false
	New(host, stubTexts{}, testSections, Callbacks{
		OnSelect: func(section model.SectionID) { selected = section },
		OnQuit:   func() { quit = true },
	})

	sections := findItem(host.menu, "tray.sections")
	sections.ChildMenu.Items[1].Action()
	if selected != model.SectionNoon {
		t.Fatalf("expected noon selected, got %q", selected)
	}

	findItem(host.menu, "tray.quit").Action()
	if !quit {
		t.Fatal("expected quit callback")
	}

	// Unset callbacks are ignored.
	findItem(host.menu, "tray.preferences").Action()
}
