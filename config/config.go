// Package config holds the application wide constants: timings, sizes,
// routes, log keys and the server runtime configuration.
package config

import (
	"flag"
	"os"
	"strings"
	"time"
)

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
)

const AppName = "bhaidooj"

// -----------------------------------------------------------------------------
// Celebration
// -----------------------------------------------------------------------------

const (
	// ParticleCount is the number of particles spawned per celebration.
	ParticleCount = 50

	// CelebrationDuration is the total time the overlay stays active.
	CelebrationDuration = 4000 * time.Millisecond

	ParticleMinSize      = 2.0
	ParticleSizeRange    = 8.0
	ParticleSpread       = 1.2
	ParticleMinDuration  = 1500 * time.Millisecond
	ParticleDurationJit  = 500 * time.Millisecond
	ParticleMaxDelay     = 200 * time.Millisecond
	ParticleEndScale     = 1.5
	ParticleEasing       = "ease-out"
	CelebrationTextColor = "#FDE047"
	CelebrationGlow      = "0 0 30px rgba(255,215,0,1)"
)

// -----------------------------------------------------------------------------
// Controls
// -----------------------------------------------------------------------------

const (
	// TilakAnchorTop and TilakAnchorLeft place the tilak mark inside the
	// controls panel, in percent of the panel size.
	TilakAnchorTop  = 35.0
	TilakAnchorLeft = 55.0

	// DragZIndex is the stacking order of an item while it is dragged.
	DragZIndex = 1000

	ItemIDThali = "thali"
	ItemIDTilak = "tilak"
)

// -----------------------------------------------------------------------------
// Thali styling
// -----------------------------------------------------------------------------

const (
	DefaultGlowRadius = 20
	MinGlowRadius     = 5
	MaxGlowRadius     = 40

	// ThaliMaxDim bounds the longest side of the processed thali image.
	ThaliMaxDim = 320

	LowPolyMaxPoints = 1500
)

// -----------------------------------------------------------------------------
// Face guide
// -----------------------------------------------------------------------------

const (
	VideoWidth  = 640
	VideoHeight = 480

	CascadeFacefinder = "/cascade/facefinder"
	CascadePuploc     = "/cascade/puploc"

	// MinDetectionQuality discards weak face detections.
	MinDetectionQuality = 5.0
)

// -----------------------------------------------------------------------------
// HTTP
// -----------------------------------------------------------------------------

const (
	RouteWish = "/api/wish"

	DefaultAddr     = "localhost:5000"
	DefaultRoot     = "."
	DefaultWishRate = 1.0 // requests per second
	WishBurst       = 5

	WishClientTimeout = 15 * time.Second
	WishServerTimeout = 20 * time.Second

	HeaderContentType = "Content-Type"
	MimeJSON          = "application/json"
	MimeWasm          = "application/wasm"
)

// -----------------------------------------------------------------------------
// Locales
// -----------------------------------------------------------------------------

const DefaultLanguage = "en"

// SupportedLanguages lists the bundled UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "hi"}

// -----------------------------------------------------------------------------
// Logging
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyAddr      = "addr"
	LogKeyRoot      = "root"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyItem      = "item"
	LogKeyPointer   = "pointer"
	LogKeyCount     = "count"
	LogKeyMessage   = "message"
	LogKeyStatus    = "status_code"
	LogKeyModel     = "model"
	LogKeyVersion   = "version"
	LogKeyURL       = "url"
)

const (
	CompMain        = "main"
	CompServer      = "server"
	CompApp         = "app"
	CompDrag        = "drag"
	CompCelebration = "celebration"
	CompWish        = "wish"
	CompGemini      = "gemini"
	CompThali       = "thali"
	CompFaceHint    = "facehint"
	CompI18n        = "i18n"
	CompCanvas      = "canvas"
)

// -----------------------------------------------------------------------------
// Server configuration
// -----------------------------------------------------------------------------

// Server stores the http connection parameters.
type Server struct {
	Addr     string
	Root     string
	Debug    bool
	WishRate float64
	APIKey   string
}

// ParseServer reads the server configuration from the command line arguments
// and the environment.
func ParseServer(args []string) (Server, error) {
	var s Server

	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.StringVar(&s.Addr, "addr", DefaultAddr, "Address to listen on")
	fs.StringVar(&s.Root, "root", DefaultRoot, "Directory holding index.html and the wasm binary")
	fs.BoolVar(&s.Debug, "debug", false, "Enable debug logging")
	fs.Float64Var(&s.WishRate, "rate", DefaultWishRate, "Wish requests allowed per second")
	if err := fs.Parse(args); err != nil {
		return Server{}, err
	}

	s.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if s.APIKey == "" {
		s.APIKey = strings.TrimSpace(os.Getenv("API_KEY"))
	}
	return s, nil
}
