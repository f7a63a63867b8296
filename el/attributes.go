package el

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute (named to avoid conflict with the Style element).
func StyleAttr(style string) Attr { return attr("style", style) }

// Data attributes

// Data creates a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// DataAttr is an alias for Data.
func DataAttr(key, value string) Attr { return Data(key, value) }

// Accessibility attributes

func Role(role string) Attr                { return attr("role", role) }
func AriaLabel(label string) Attr           { return attr("aria-label", label) }
func AriaHidden(hidden bool) Attr           { return attr("aria-hidden", hidden) }
func AriaExpanded(expanded bool) Attr       { return attr("aria-expanded", expanded) }
func AriaDescribedBy(id string) Attr        { return attr("aria-describedby", id) }
func AriaLabelledBy(id string) Attr         { return attr("aria-labelledby", id) }
func AriaLive(mode string) Attr             { return attr("aria-live", mode) }
func AriaControls(id string) Attr           { return attr("aria-controls", id) }
func AriaCurrent(value string) Attr         { return attr("aria-current", value) }
func AriaDisabled(disabled bool) Attr       { return attr("aria-disabled", disabled) }
func AriaPressed(pressed string) Attr       { return attr("aria-pressed", pressed) }
func AriaSelected(selected bool) Attr       { return attr("aria-selected", selected) }
func AriaHasPopup(value string) Attr        { return attr("aria-haspopup", value) }
func AriaModal(modal bool) Attr             { return attr("aria-modal", modal) }
func AriaAtomic(atomic bool) Attr           { return attr("aria-atomic", atomic) }
func AriaBusy(busy bool) Attr               { return attr("aria-busy", busy) }
func AriaValueNow(value float64) Attr       { return attr("aria-valuenow", value) }
func AriaValueMin(value float64) Attr       { return attr("aria-valuemin", value) }
func AriaValueMax(value float64) Attr       { return attr("aria-valuemax", value) }
func TabIndex(index int) Attr               { return attr("tabindex", index) }
func AccessKey(key string) Attr             { return attr("accesskey", key) }
func Hidden() Attr                          { return attr("hidden", true) }
func TitleAttr(title string) Attr           { return attr("title", title) }
func ContentEditable(editable bool) Attr    { return attr("contenteditable", editable) }
func Draggable() Attr                       { return attr("draggable", true) }
func Spellcheck(check bool) Attr            { return attr("spellcheck", check) }
func Lang(lang string) Attr                 { return attr("lang", lang) }
func Dir(dir string) Attr                   { return attr("dir", dir) }

// Link attributes

func Href(url string) Attr             { return attr("href", url) }
func Target(target string) Attr        { return attr("target", target) }
func Rel(rel string) Attr              { return attr("rel", rel) }
func Download(filename ...string) Attr {
	if len(filename) == 0 {
		return attr("download", true)
	}
	return attr("download", filename[0])
}
func Hreflang(lang string) Attr { return attr("hreflang", lang) }

// Form attributes

func Name(name string) Attr           { return attr("name", name) }
func Value(value string) Attr         { return attr("value", value) }
func Type(t string) Attr              { return attr("type", t) }
func Placeholder(text string) Attr    { return attr("placeholder", text) }
func Disabled() Attr                  { return attr("disabled", true) }
func Readonly() Attr                  { return attr("readonly", true) }
func Required() Attr                  { return attr("required", true) }
func Checked() Attr                   { return attr("checked", true) }
func Selected() Attr                  { return attr("selected", true) }
func Multiple() Attr                  { return attr("multiple", true) }
func Autofocus() Attr                 { return attr("autofocus", true) }
func Autocomplete(value string) Attr  { return attr("autocomplete", value) }
func Pattern(pattern string) Attr     { return attr("pattern", pattern) }
func MinLength(n int) Attr            { return attr("minlength", n) }
func MaxLength(n int) Attr            { return attr("maxlength", n) }
func Min(value string) Attr           { return attr("min", value) }
func Max(value string) Attr           { return attr("max", value) }
func Step(value string) Attr          { return attr("step", value) }
func Accept(types string) Attr        { return attr("accept", types) }
func Capture(mode string) Attr        { return attr("capture", mode) }
func Rows(n int) Attr                 { return attr("rows", n) }
func Cols(n int) Attr                 { return attr("cols", n) }
func Wrap(mode string) Attr           { return attr("wrap", mode) }
func Action(url string) Attr          { return attr("action", url) }
func Method(method string) Attr       { return attr("method", method) }
func Enctype(enctype string) Attr     { return attr("enctype", enctype) }
func Novalidate() Attr                { return attr("novalidate", true) }
func For(id string) Attr              { return attr("for", id) }
func FormAttr(id string) Attr         { return attr("form", id) }

// Media attributes

func Src(url string) Attr          { return attr("src", url) }
func Alt(text string) Attr         { return attr("alt", text) }
func Width(w int) Attr             { return attr("width", w) }
func Height(h int) Attr            { return attr("height", h) }
func Loading(mode string) Attr     { return attr("loading", mode) }
func Decoding(mode string) Attr    { return attr("decoding", mode) }
func Srcset(srcset string) Attr    { return attr("srcset", srcset) }
func SizesAttr(sizes string) Attr  { return attr("sizes", sizes) }
func Controls() Attr               { return attr("controls", true) }
func Autoplay() Attr               { return attr("autoplay", true) }
func Loop() Attr                   { return attr("loop", true) }
func MutedAttr() Attr              { return attr("muted", true) }
func Preload(mode string) Attr     { return attr("preload", mode) }
func Poster(url string) Attr       { return attr("poster", url) }
func Playsinline() Attr            { return attr("playsinline", true) }
func Sandbox(value string) Attr    { return attr("sandbox", value) }
func Allow(value string) Attr      { return attr("allow", value) }
func Allowfullscreen() Attr        { return attr("allowfullscreen", true) }

// Table attributes

func Colspan(n int) Attr          { return attr("colspan", n) }
func Rowspan(n int) Attr          { return attr("rowspan", n) }
func Scope(scope string) Attr     { return attr("scope", scope) }
func HeadersAttr(ids string) Attr { return attr("headers", ids) }

// Meta attributes

func Charset(charset string) Attr    { return attr("charset", charset) }
func Content(content string) Attr    { return attr("content", content) }
func HttpEquiv(value string) Attr    { return attr("http-equiv", value) }

// Conditional / composite helpers

// ClassIf returns a class attribute only when condition is true, and the
// zero Attr otherwise.
func ClassIf(condition bool, class string) Attr {
	if !condition {
		return Attr{}
	}
	return Class(class)
}

// AttrIf returns a when condition is true, the zero Attr otherwise.
func AttrIf(condition bool, a Attr) Attr {
	if !condition {
		return Attr{}
	}
	return a
}

// Classes joins strings and ClassIf-style conditional pairs into one class attribute.
// Accepts string and Attr(with Key=="class") arguments; anything else is ignored.
func Classes(classes ...any) Attr {
	var parts []string
	for _, c := range classes {
		switch v := c.(type) {
		case string:
			if v != "" {
				parts = append(parts, v)
			}
		case Attr:
			if v.Key == "class" {
				if s, ok := v.Value.(string); ok && s != "" {
					parts = append(parts, s)
				}
			}
		}
	}
	return Class(parts...)
}

func Open() Attr                   { return attr("open", true) }
func Defer_() Attr                 { return attr("defer", true) }
func Async() Attr                  { return attr("async", true) }
func Crossorigin(value string) Attr { return attr("crossorigin", value) }
func Integrity(value string) Attr  { return attr("integrity", value) }
func List(id string) Attr          { return attr("list", id) }
func Inputmode(mode string) Attr   { return attr("inputmode", mode) }
func Enterkeyhint(hint string) Attr { return attr("enterkeyhint", hint) }
