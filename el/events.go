package el

import "github.com/weaver-dev/weaver/pkg/signal"

// onEvent binds a DOM event name to a handler signal. The tokenizer
// recognizes any Props key starting with "on" whose value satisfies
// signal.Signal and rewrites it to a data-w-on{event} binding, so h is
// carried through as-is rather than unwrapped.
func onEvent(name string, h *signal.Handler) EventHandler {
	return EventHandler{Event: "on" + name, Handler: h}
}

func OnClick(h *signal.Handler) EventHandler      { return onEvent("click", h) }
func OnDblClick(h *signal.Handler) EventHandler   { return onEvent("dblclick", h) }
func OnMouseDown(h *signal.Handler) EventHandler  { return onEvent("mousedown", h) }
func OnMouseUp(h *signal.Handler) EventHandler    { return onEvent("mouseup", h) }
func OnMouseMove(h *signal.Handler) EventHandler  { return onEvent("mousemove", h) }
func OnMouseEnter(h *signal.Handler) EventHandler { return onEvent("mouseenter", h) }
func OnMouseLeave(h *signal.Handler) EventHandler { return onEvent("mouseleave", h) }
func OnMouseOver(h *signal.Handler) EventHandler  { return onEvent("mouseover", h) }
func OnMouseOut(h *signal.Handler) EventHandler   { return onEvent("mouseout", h) }
func OnContextMenu(h *signal.Handler) EventHandler { return onEvent("contextmenu", h) }
func OnWheel(h *signal.Handler) EventHandler      { return onEvent("wheel", h) }
func OnKeyDown(h *signal.Handler) EventHandler    { return onEvent("keydown", h) }
func OnKeyUp(h *signal.Handler) EventHandler      { return onEvent("keyup", h) }
func OnKeyPress(h *signal.Handler) EventHandler   { return onEvent("keypress", h) }
func OnInput(h *signal.Handler) EventHandler      { return onEvent("input", h) }
func OnChange(h *signal.Handler) EventHandler     { return onEvent("change", h) }
func OnSubmit(h *signal.Handler) EventHandler     { return onEvent("submit", h) }
func OnFocus(h *signal.Handler) EventHandler      { return onEvent("focus", h) }
func OnBlur(h *signal.Handler) EventHandler       { return onEvent("blur", h) }
func OnFocusIn(h *signal.Handler) EventHandler    { return onEvent("focusin", h) }
func OnFocusOut(h *signal.Handler) EventHandler   { return onEvent("focusout", h) }
func OnSelect(h *signal.Handler) EventHandler     { return onEvent("select", h) }
func OnInvalid(h *signal.Handler) EventHandler    { return onEvent("invalid", h) }
func OnReset(h *signal.Handler) EventHandler      { return onEvent("reset", h) }
func OnDragStart(h *signal.Handler) EventHandler  { return onEvent("dragstart", h) }
func OnDrag(h *signal.Handler) EventHandler       { return onEvent("drag", h) }
func OnDragEnd(h *signal.Handler) EventHandler    { return onEvent("dragend", h) }
func OnDragEnter(h *signal.Handler) EventHandler  { return onEvent("dragenter", h) }
func OnDragOver(h *signal.Handler) EventHandler   { return onEvent("dragover", h) }
func OnDragLeave(h *signal.Handler) EventHandler  { return onEvent("dragleave", h) }
func OnDrop(h *signal.Handler) EventHandler       { return onEvent("drop", h) }
func OnTouchStart(h *signal.Handler) EventHandler { return onEvent("touchstart", h) }
func OnTouchMove(h *signal.Handler) EventHandler  { return onEvent("touchmove", h) }
func OnTouchEnd(h *signal.Handler) EventHandler   { return onEvent("touchend", h) }
func OnTouchCancel(h *signal.Handler) EventHandler { return onEvent("touchcancel", h) }
func OnPointerDown(h *signal.Handler) EventHandler { return onEvent("pointerdown", h) }
func OnPointerUp(h *signal.Handler) EventHandler  { return onEvent("pointerup", h) }
func OnPointerMove(h *signal.Handler) EventHandler { return onEvent("pointermove", h) }
func OnPointerEnter(h *signal.Handler) EventHandler { return onEvent("pointerenter", h) }
func OnPointerLeave(h *signal.Handler) EventHandler { return onEvent("pointerleave", h) }
func OnPointerCancel(h *signal.Handler) EventHandler { return onEvent("pointercancel", h) }
func OnScroll(h *signal.Handler) EventHandler     { return onEvent("scroll", h) }
func OnScrollEnd(h *signal.Handler) EventHandler  { return onEvent("scrollend", h) }
func OnPlay(h *signal.Handler) EventHandler       { return onEvent("play", h) }
func OnPause(h *signal.Handler) EventHandler      { return onEvent("pause", h) }
func OnEnded(h *signal.Handler) EventHandler      { return onEvent("ended", h) }
func OnTimeUpdate(h *signal.Handler) EventHandler { return onEvent("timeupdate", h) }
func OnLoadStart(h *signal.Handler) EventHandler  { return onEvent("loadstart", h) }
func OnLoadedData(h *signal.Handler) EventHandler { return onEvent("loadeddata", h) }
func OnLoadedMetadata(h *signal.Handler) EventHandler { return onEvent("loadedmetadata", h) }
func OnCanPlay(h *signal.Handler) EventHandler    { return onEvent("canplay", h) }
func OnCanPlayThrough(h *signal.Handler) EventHandler { return onEvent("canplaythrough", h) }
func OnProgress(h *signal.Handler) EventHandler   { return onEvent("progress", h) }
func OnSeeking(h *signal.Handler) EventHandler    { return onEvent("seeking", h) }
func OnSeeked(h *signal.Handler) EventHandler     { return onEvent("seeked", h) }
func OnVolumeChange(h *signal.Handler) EventHandler { return onEvent("volumechange", h) }
func OnRateChange(h *signal.Handler) EventHandler { return onEvent("ratechange", h) }
func OnDurationChange(h *signal.Handler) EventHandler { return onEvent("durationchange", h) }
func OnWaiting(h *signal.Handler) EventHandler    { return onEvent("waiting", h) }
func OnPlaying(h *signal.Handler) EventHandler    { return onEvent("playing", h) }
func OnStalled(h *signal.Handler) EventHandler    { return onEvent("stalled", h) }
func OnSuspend(h *signal.Handler) EventHandler    { return onEvent("suspend", h) }
func OnEmptied(h *signal.Handler) EventHandler    { return onEvent("emptied", h) }
func OnError(h *signal.Handler) EventHandler      { return onEvent("error", h) }
func OnLoad(h *signal.Handler) EventHandler       { return onEvent("load", h) }
func OnAbort(h *signal.Handler) EventHandler      { return onEvent("abort", h) }
func OnAnimationStart(h *signal.Handler) EventHandler { return onEvent("animationstart", h) }
func OnAnimationEnd(h *signal.Handler) EventHandler { return onEvent("animationend", h) }
func OnAnimationIteration(h *signal.Handler) EventHandler { return onEvent("animationiteration", h) }
func OnAnimationCancel(h *signal.Handler) EventHandler { return onEvent("animationcancel", h) }
func OnTransitionStart(h *signal.Handler) EventHandler { return onEvent("transitionstart", h) }
func OnTransitionEnd(h *signal.Handler) EventHandler { return onEvent("transitionend", h) }
func OnTransitionRun(h *signal.Handler) EventHandler { return onEvent("transitionrun", h) }
func OnTransitionCancel(h *signal.Handler) EventHandler { return onEvent("transitioncancel", h) }
func OnCopy(h *signal.Handler) EventHandler       { return onEvent("copy", h) }
func OnCut(h *signal.Handler) EventHandler        { return onEvent("cut", h) }
func OnPaste(h *signal.Handler) EventHandler      { return onEvent("paste", h) }
func OnToggle(h *signal.Handler) EventHandler     { return onEvent("toggle", h) }
