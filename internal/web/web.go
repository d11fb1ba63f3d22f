// Package web renders the browser player page.
//
// The page is a single embedded html/template. It binds an audio element to the panel state, reports transport
// changes over a websocket and applies play, restoreState and reveal messages from the controller.
// The page script lives in assets/player.js and is minified once when the [Renderer] is built.
//
// # Wire format
//
// Outbound messages (page → controller):
//
//	{"type":"updateState","state":{...}}  on timeupdate (at most once per second), play, pause, seeked, volumechange
//	{"type":"setVolume","value":0.4}     on volume input
//	{"type":"getState"}                  on every (re)connect
//
// Inbound messages are applied to the audio element. A close frame with code 4000 means another tab took over the
// panel, and the page stops reconnecting.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/desertthunder/siren/internal/models"
	"github.com/desertthunder/siren/internal/shared"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed assets/player.js
var playerScript []byte

const scriptType = "application/javascript"

// ReplacedCloseCode is the websocket close code sent to a page whose connection was superseded.
const ReplacedCloseCode = 4000

// Page is the data bound to the player template.
type Page struct {
	Title    string
	State    models.PlayerState
	AudioURL string
	WSPath   string
}

// Position is the resume position formatted for display.
func (p Page) Position() string {
	return shared.FormatSeconds(p.State.CurrentTime)
}

// ArtistLine joins the artists for display.
func (p Page) ArtistLine() string {
	return strings.Join(p.State.Artists, ", ")
}

// CloseCode exposes [ReplacedCloseCode] to the page script.
func (p Page) CloseCode() int {
	return ReplacedCloseCode
}

// view is what the template sees: the page plus the player script.
type view struct {
	Page
	Script template.JS
}

// Renderer executes the embedded player template.
type Renderer struct {
	tmpl   *template.Template
	script template.JS
}

// NewRenderer parses the embedded templates and minifies the player script once.
//
// A script the minifier rejects is served as written.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, script: template.JS(minifyScript(playerScript))}, nil
}

// Script returns the player script as embedded in the page.
func (r *Renderer) Script() string {
	return string(r.script)
}

func minifyScript(raw []byte) []byte {
	m := minify.New()
	m.AddFunc(scriptType, js.Minify)

	out, err := m.Bytes(scriptType, raw)
	if err != nil {
		return raw
	}
	return out
}

// Render writes the player page for p to w.
func (r *Renderer) Render(w io.Writer, p Page) error {
	if p.State.Artists == nil {
		p.State.Artists = []string{}
	}
	if err := r.tmpl.ExecuteTemplate(w, "player.html", view{Page: p, Script: r.script}); err != nil {
		return fmt.Errorf("failed to render player: %w", err)
	}
	return nil
}
