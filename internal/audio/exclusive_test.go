package audio

import "testing"

func TestExclusivePausesOtherMember(t *testing.T) {
	musicPlayer := newFakePlayer()
	voicePlayer := newFakePlayer()
	music, musicStates := newTestController(musicPlayer)
	voice, voiceStates := newTestController(voicePlayer)
	defer music.Close()
	defer voice.Close()
	group := NewExclusive(music, voice)

	group.Toggle(music)
	<-musicPlayer.started
	musicPlayer.release <- nil
	waitFor(t, musicStates, func(state State) bool { return state.Playing })

	group.Toggle(voice)
	if music.Playing() || music.Wanted() {
		t.Fatal("starting voice must pause music first")
	}
	<-voicePlayer.started
	voicePlayer.release <- nil
	waitFor(t, voiceStates, func(state State) bool { return state.Playing })

	if music.Playing() && voice.Playing() {
		t.Fatal("two resources playing at once")
	}

	group.Toggle(voice)
	if voice.Playing() {
		t.Fatal("second toggle must pause voice")
	}
	if plays, _ := musicPlayer.counts(); plays != 1 {
		t.Fatalf("expected music played once, got %d", plays)
	}
}

func TestExclusivePauseAll(t *testing.T) {
	musicPlayer := newFakePlayer()
	music, musicStates := newTestController(musicPlayer)
	defer music.Close()
	group := NewExclusive(music)

	group.Play(music)
	<-musicPlayer.started
	musicPlayer.release <- nil
	waitFor(t, musicStates, func(state State) bool { return state.Playing })

	group.PauseAll()
	if music.Playing() {
		t.Fatal("expected music paused")
	}
}
