package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"sync"

	"github.com/chazu/thickview/pkg/colormap"
	"github.com/chazu/thickview/pkg/config"
	"github.com/chazu/thickview/pkg/inspect"
	"github.com/chazu/thickview/pkg/params"
	"github.com/chazu/thickview/pkg/preset"
	"github.com/chazu/thickview/pkg/snapshot"
	"github.com/chazu/thickview/pkg/viewer"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// FaceColorsEvent carries a new color buffer to the frontend.
const FaceColorsEvent = "face-colors"

var errNoMesh = errors.New("no mesh loaded")

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx        context.Context
	log        logger.Logger
	cfg        config.Config
	controller *viewer.Controller
	presets    *preset.Engine
	renderer   *appRenderer
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
// Vertices holds nine floats per face, normalized to the bi-unit cube.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Faces    int       `json:"faces"`
	Name     string    `json:"name"`
}

// FaceColors is the payload of FaceColorsEvent: flat RGBA bytes, four
// per face, base64 encoded on the wire.
type FaceColors struct {
	Faces int    `json:"faces"`
	RGBA  []byte `json:"rgba"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ViewState is what the parameter panel displays.
type ViewState struct {
	Faces        int     `json:"faces"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Unit         string  `json:"unit"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	Transparency float64 `json:"transparency"`
	Bound        float64 `json:"bound"`
	Mode         string  `json:"mode"`
}

// LoadResult is returned by LoadFiles.
type LoadResult struct {
	Mesh     *MeshData `json:"mesh,omitempty"`
	State    ViewState `json:"state"`
	Error    string    `json:"error,omitempty"`
	Warnings []string  `json:"warnings"`
}

// PresetResult is returned by ApplyPreset.
type PresetResult struct {
	Name   string          `json:"name"`
	State  ViewState       `json:"state"`
	Errors []EvalErrorData `json:"errors"`
}

// InspectResult describes a picked face. Hit is false for inspect.NoHit.
type InspectResult struct {
	Hit   bool    `json:"hit"`
	Face  int     `json:"face"`
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

// emitFunc matches runtime.EventsEmit.
type emitFunc func(ctx context.Context, event string, data ...interface{})

// appRenderer forwards color buffers to the frontend and to the loaded
// scene, if any, so snapshots match what is on screen.
type appRenderer struct {
	mu    sync.Mutex
	ctx   context.Context
	emit  emitFunc
	scene *snapshot.Scene
}

func (r *appRenderer) SetFaceColors(buf colormap.Buffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ctx != nil && r.emit != nil {
		r.emit(r.ctx, FaceColorsEvent, FaceColors{Faces: buf.Len(), RGBA: buf.Bytes()})
	}
	if r.scene == nil {
		return nil
	}
	return r.scene.SetFaceColors(buf)
}

func (r *appRenderer) setScene(s *snapshot.Scene) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scene = s
}

func (r *appRenderer) currentScene() *snapshot.Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scene
}

func (r *appRenderer) bind(ctx context.Context, emit emitFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx = ctx
	r.emit = emit
}

// NewApp creates a new App seeded from cfg. A nil log writes to stdout.
func NewApp(cfg config.Config, log logger.Logger) (*App, error) {
	if log == nil {
		log = logger.NewDefaultLogger()
	}
	p, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	store, err := params.NewWith(p)
	if err != nil {
		return nil, err
	}
	r := &appRenderer{}
	return &App{
		log:      log,
		cfg:      cfg,
		renderer: r,
		presets:  preset.NewEngine(),
		controller: viewer.New(r, log,
			viewer.WithStore(store),
			viewer.WithUnit(cfg.Unit),
		),
	}, nil
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.renderer.bind(ctx, runtime.EventsEmit)
}

func (a *App) runCtx() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

// LoadFiles loads a mesh and its per-face thickness file. Either path may
// be empty to keep the current one. A failed thickness load leaves an
// empty field on screen and reports the error.
func (a *App) LoadFiles(meshPath, fieldPath string) LoadResult {
	res := LoadResult{Warnings: []string{}}

	if meshPath != "" {
		scene, err := snapshot.Load(meshPath)
		if err != nil {
			a.log.Error(fmt.Sprintf("LoadFiles: %v", err))
			res.Error = err.Error()
			res.State = a.State()
			return res
		}
		if err := scene.SetCamera(snapshot.CameraFromConfig(a.cfg.Camera)); err != nil {
			a.log.Warning(fmt.Sprintf("LoadFiles: camera: %v", err))
		}
		a.renderer.setScene(scene)
		res.Mesh = &MeshData{Vertices: scene.Geometry(), Faces: scene.FaceCount(), Name: meshPath}
		a.log.Info(fmt.Sprintf("loaded mesh %s with %d faces", meshPath, scene.FaceCount()))
	}

	if fieldPath != "" {
		// A face count mismatch is reported as a warning below.
		if err := a.controller.LoadFile(a.runCtx(), fieldPath); err != nil && !errors.Is(err, snapshot.ErrFaceCount) {
			res.Error = err.Error()
		}
	} else if meshPath != "" {
		// The new scene still needs the current colors.
		if err := a.controller.Refresh(); err != nil {
			res.Warnings = append(res.Warnings, err.Error())
		}
	}

	if scene := a.renderer.currentScene(); scene != nil {
		n := a.controller.Field().Len()
		if n > 0 && n != scene.FaceCount() {
			w := fmt.Sprintf("thickness file has %d values but the mesh has %d faces", n, scene.FaceCount())
			a.log.Warning(w)
			res.Warnings = append(res.Warnings, w)
		}
	}
	res.State = a.State()
	return res
}

// ChooseFile opens a native file dialog. kind is "mesh", "field" or
// "preset" and selects the filter.
func (a *App) ChooseFile(kind string) (string, error) {
	if a.ctx == nil {
		return "", errors.New("no window")
	}
	var filters []runtime.FileFilter
	switch kind {
	case "mesh":
		filters = []runtime.FileFilter{{DisplayName: "Meshes (*.stl, *.obj)", Pattern: "*.stl;*.obj"}}
	case "field":
		filters = []runtime.FileFilter{{DisplayName: "Thickness (*.txt, *.dat)", Pattern: "*.txt;*.dat"}}
	case "preset":
		filters = []runtime.FileFilter{{DisplayName: "Presets (*.lisp)", Pattern: "*.lisp"}}
	default:
		return "", fmt.Errorf("unknown file kind %q", kind)
	}
	return runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title:   "Open " + kind,
		Filters: filters,
	})
}

// SetStartColor sets the gradient start color from "#rrggbb".
func (a *App) SetStartColor(hex string) error {
	c, err := colormap.ParseHex(hex)
	if err != nil {
		return err
	}
	return a.controller.SetStartColor(c)
}

// SetEndColor sets the gradient end color from "#rrggbb".
func (a *App) SetEndColor(hex string) error {
	c, err := colormap.ParseHex(hex)
	if err != nil {
		return err
	}
	return a.controller.SetEndColor(c)
}

// SetTransparency sets the transparency cutoff. This leaves threshold mode.
func (a *App) SetTransparency(t float64) error {
	return a.controller.SetTransparency(t)
}

// SetBound sets the threshold bound; 0 returns to the gradient.
func (a *App) SetBound(b float64) error {
	return a.controller.SetBound(b)
}

// ApplyPreset evaluates preset source and applies it in one refresh.
func (a *App) ApplyPreset(source string) PresetResult {
	res := PresetResult{Errors: []EvalErrorData{}}

	p, evalErrs, err := a.presets.Evaluate("", source)
	switch {
	case err != nil:
		a.log.Error(fmt.Sprintf("ApplyPreset fatal error: %v", err))
		res.Errors = append(res.Errors, EvalErrorData{Message: err.Error()})
	case len(evalErrs) > 0:
		for _, e := range evalErrs {
			res.Errors = append(res.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
	default:
		res.Name = p.Name
		next, err := p.Params(a.controller.Params())
		if err == nil {
			err = a.controller.ApplyParams(next)
		}
		if err != nil {
			res.Errors = append(res.Errors, EvalErrorData{Message: err.Error()})
		}
	}
	res.State = a.State()
	return res
}

// Inspect reports the thickness of a face picked in the frontend.
func (a *App) Inspect(face int) (InspectResult, error) {
	r, ok, err := a.controller.Inspect(face)
	if err != nil {
		return InspectResult{Face: face}, err
	}
	if !ok {
		return InspectResult{Face: inspect.NoHit}, nil
	}
	return InspectResult{Hit: true, Face: r.Face, Value: r.Value, Text: r.String()}, nil
}

// PickAt resolves a pixel of the Preview image to a face and inspects it.
// Background pixels give a result with Hit false.
func (a *App) PickAt(x, y int) (InspectResult, error) {
	scene := a.renderer.currentScene()
	if scene == nil {
		return InspectResult{Face: inspect.NoHit}, errNoMesh
	}
	face, err := scene.Pick(x, y)
	if err != nil {
		return InspectResult{Face: inspect.NoHit}, err
	}
	if face == inspect.NoHit {
		return InspectResult{Face: inspect.NoHit}, nil
	}
	if face >= a.controller.Field().Len() {
		return InspectResult{Face: face, Text: fmt.Sprintf("face %d: no thickness value", face)}, nil
	}
	return a.Inspect(face)
}

// Preview renders the loaded mesh with the current colors. The PNG bytes
// reach the frontend base64 encoded, ready for a data URL.
func (a *App) Preview() ([]byte, error) {
	scene := a.renderer.currentScene()
	if scene == nil {
		return nil, errNoMesh
	}
	img, err := scene.Render()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveSnapshot renders the loaded mesh with the current colors to a PNG.
func (a *App) SaveSnapshot(path string) error {
	scene := a.renderer.currentScene()
	if scene == nil {
		return errNoMesh
	}
	return scene.SavePNG(path)
}

// State returns the current field range and parameters.
func (a *App) State() ViewState {
	f := a.controller.Field()
	p := a.controller.Params()
	st := ViewState{
		Faces:        f.Len(),
		Min:          f.Min(),
		Max:          f.Max(),
		Unit:         a.cfg.Unit,
		Start:        colormap.Hex(p.Start),
		End:          colormap.Hex(p.End),
		Transparency: p.Transparency,
		Mode:         p.Mode.Kind.String(),
	}
	if p.Mode.Kind == colormap.ModeThreshold {
		st.Bound = p.Mode.Bound
	}
	return st
}
