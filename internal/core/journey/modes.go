package journey

import (
	"time"

	"dayjourney/internal/core/model"
)

// transitions lists the user actions a mode accepts. A nil entry is a no-op.
type transitions struct {
	onSelect  func(keeper *Journey, section model.SectionID, now time.Time)
	onConfirm func(keeper *Journey, now time.Time)
	onCancel  func(keeper *Journey, now time.Time)
}

var transitionTable = map[model.Mode]transitions{
	model.ModeFreeSelect: {
		onSelect: (*Journey).setCurrentLocked,
	},
	model.ModeTimeLocked: {
		onSelect: (*Journey).raiseHintLocked,
	},
	model.ModePreviewConfirm: {
		onSelect:  (*Journey).setPreviewLocked,
		onConfirm: (*Journey).confirmPreviewLocked,
		onCancel:  (*Journey).cancelPreviewLocked,
	},
}

func (keeper *Journey) setCurrentLocked(section model.SectionID, now time.Time) {
	if keeper.view.Current == section {
		return
	}
	keeper.view.Current = section
	keeper.progress = keeper.sequence.Progress(section)
	keeper.emitViewLocked(now)
}

func (keeper *Journey) setPreviewLocked(section model.SectionID, now time.Time) {
	if keeper.view.HasPreview && keeper.view.Preview == section {
		return
	}
	keeper.view.Preview = section
	keeper.view.HasPreview = true
	keeper.emitViewLocked(now)
}

func (keeper *Journey) confirmPreviewLocked(now time.Time) {
	if !keeper.view.HasPreview {
		return
	}
	keeper.view.Current = keeper.view.Preview
	keeper.progress = keeper.sequence.Progress(keeper.view.Current)
	keeper.view.Preview = ""
	keeper.view.HasPreview = false
	keeper.view.Mode = keeper.baseMode
	keeper.emitViewLocked(now)
}

// Preview mode stays open so browsing can continue.
func (keeper *Journey) cancelPreviewLocked(now time.Time) {
	if !keeper.view.HasPreview {
		return
	}
	keeper.view.Preview = ""
	keeper.view.HasPreview = false
	keeper.emitViewLocked(now)
}

func (keeper *Journey) raiseHintLocked(section model.SectionID, now time.Time) {
	keeper.hintSeq++
	hintID := keeper.hintSeq
	keeper.activeHint = hintID
	if keeper.hintTimer != nil {
		keeper.hintTimer.Stop()
	}
	keeper.hintTimer = keeper.options.AfterFunc(keeper.config.HintDuration, func() {
		keeper.expireHint(hintID)
	})

	keeper.emitLocked(Event{
		Type:      EventHint,
		View:      keeper.view,
		Progress:  keeper.progress,
		HintID:    hintID,
		Hint:      HintTimeLocked,
		Requested: section,
		At:        now,
	})
}
