// script_host.go - Lua session scripting for the engine control surface

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ScriptHost exposes the control surface to Lua so a mixer session can be
// described in a script instead of clicked together. Scripts run on the
// control thread only; nothing here is reachable from the render path.
//
// Script API:
//
//	idx = add_track(name, frequency)
//	add_effect(track, "gain"|"lowpass"|"highpass"|"delay"|"reverb")
//	remove_effect(track, effect)
//	toggle_effect(track, effect)
//	set_effect_param(track, effect, param, value)
//	set_volume(track, volume)        -- clamped to [0,1]
//	set_pan(track, pan)              -- clamped to [-1,1]
//	set_mute(track, bool)
//	set_solo(track, bool)
//	set_track_playing(track, bool)
//	set_master_volume(volume)
//	play()
//	stop()
type ScriptHost struct {
	engine *MixEngine
	state  *lua.LState
}

func NewScriptHost(engine *MixEngine) *ScriptHost {
	h := &ScriptHost{
		engine: engine,
		state:  lua.NewState(),
	}
	h.register()
	return h
}

func (h *ScriptHost) register() {
	L := h.state
	L.SetGlobal("add_track", L.NewFunction(h.luaAddTrack))
	L.SetGlobal("add_effect", L.NewFunction(h.luaAddEffect))
	L.SetGlobal("remove_effect", L.NewFunction(h.luaRemoveEffect))
	L.SetGlobal("toggle_effect", L.NewFunction(h.luaToggleEffect))
	L.SetGlobal("set_effect_param", L.NewFunction(h.luaSetEffectParam))
	L.SetGlobal("set_volume", L.NewFunction(h.luaSetVolume))
	L.SetGlobal("set_pan", L.NewFunction(h.luaSetPan))
	L.SetGlobal("set_mute", L.NewFunction(h.luaSetMute))
	L.SetGlobal("set_solo", L.NewFunction(h.luaSetSolo))
	L.SetGlobal("set_track_playing", L.NewFunction(h.luaSetTrackPlaying))
	L.SetGlobal("set_master_volume", L.NewFunction(h.luaSetMasterVolume))
	L.SetGlobal("play", L.NewFunction(h.luaPlay))
	L.SetGlobal("stop", L.NewFunction(h.luaStop))
}

// RunFile executes a session script from disk.
func (h *ScriptHost) RunFile(path string) error {
	if err := h.state.DoFile(path); err != nil {
		return fmt.Errorf("session script %s: %w", path, err)
	}
	return nil
}

// RunString executes an inline script chunk.
func (h *ScriptHost) RunString(src string) error {
	return h.state.DoString(src)
}

func (h *ScriptHost) Close() {
	h.state.Close()
}

func (h *ScriptHost) luaAddTrack(L *lua.LState) int {
	name := L.CheckString(1)
	frequency := float32(L.CheckNumber(2))
	L.Push(lua.LNumber(h.engine.AddTrack(name, frequency)))
	return 1
}

func (h *ScriptHost) luaAddEffect(L *lua.LState) int {
	track := L.CheckInt(1)
	name := L.CheckString(2)
	kind, ok := ParseEffectType(name)
	if !ok {
		L.RaiseError("unknown effect kind: %s", name)
		return 0
	}
	h.engine.AddEffect(track, kind)
	return 0
}

func (h *ScriptHost) luaRemoveEffect(L *lua.LState) int {
	h.engine.RemoveEffect(L.CheckInt(1), L.CheckInt(2))
	return 0
}

func (h *ScriptHost) luaToggleEffect(L *lua.LState) int {
	h.engine.ToggleEffect(L.CheckInt(1), L.CheckInt(2))
	return 0
}

func (h *ScriptHost) luaSetEffectParam(L *lua.LState) int {
	h.engine.SetEffectParam(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), float32(L.CheckNumber(4)))
	return 0
}

func (h *ScriptHost) luaSetVolume(L *lua.LState) int {
	h.engine.SetTrackVolume(L.CheckInt(1), float32(L.CheckNumber(2)))
	return 0
}

func (h *ScriptHost) luaSetPan(L *lua.LState) int {
	h.engine.SetTrackPan(L.CheckInt(1), float32(L.CheckNumber(2)))
	return 0
}

func (h *ScriptHost) luaSetMute(L *lua.LState) int {
	if t := h.engine.Track(L.CheckInt(1)); t != nil {
		t.Mute = L.CheckBool(2)
	}
	return 0
}

func (h *ScriptHost) luaSetSolo(L *lua.LState) int {
	if t := h.engine.Track(L.CheckInt(1)); t != nil {
		t.Solo = L.CheckBool(2)
	}
	return 0
}

func (h *ScriptHost) luaSetTrackPlaying(L *lua.LState) int {
	if t := h.engine.Track(L.CheckInt(1)); t != nil {
		t.SetPlaying(L.CheckBool(2))
	}
	return 0
}

func (h *ScriptHost) luaSetMasterVolume(L *lua.LState) int {
	h.engine.SetMasterVolume(float32(L.CheckNumber(1)))
	return 0
}

func (h *ScriptHost) luaPlay(L *lua.LState) int {
	h.engine.Start()
	return 0
}

func (h *ScriptHost) luaStop(L *lua.LState) int {
	h.engine.Stop()
	return 0
}
