// Package renderer uploads meshes and line sets to OpenGL and draws them
// with the lit mesh shader and the flat line shader.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/trackforge/internal/engine/lighting"
	"github.com/Faultbox/trackforge/internal/engine/renderer/shaders"
	"github.com/Faultbox/trackforge/internal/engine/shader"
	"github.com/Faultbox/trackforge/internal/scene"
	"github.com/Faultbox/trackforge/pkg/formats"
	"github.com/Faultbox/trackforge/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor math.Vec3
	PointSize  float32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	mesh *shader.Program
	line *shader.Program
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.PointSize <= 0 {
		cfg.PointSize = 10
	}
	r := &Renderer{config: cfg, log: log}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	c := cfg.ClearColor
	gl.ClearColor(c.X, c.Y, c.Z, 1)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	if r.mesh, err = shader.NewProgram(shaders.MeshVertexShader, shaders.MeshFragmentShader); err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	if r.line, err = shader.NewProgram(shaders.LineVertexShader, shaders.LineFragmentShader); err != nil {
		r.mesh.Delete()
		return nil, fmt.Errorf("line shader: %w", err)
	}
	log.Debug("shader programs created",
		zap.Uint32("mesh", r.mesh.ID),
		zap.Uint32("line", r.line.ID),
	)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.mesh.Delete()
	r.line.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the viewport size in pixels.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Aspect returns width / height, or 1 for an empty viewport.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetClearColor changes the background color.
func (r *Renderer) SetClearColor(c math.Vec3) {
	r.config.ClearColor = c
	gl.ClearColor(c.X, c.Y, c.Z, 1)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetFrame uploads the per-frame camera and lighting uniforms.
func (r *Renderer) SetFrame(viewProj math.Mat4, env lighting.Environment) {
	r.mesh.Use()
	r.mesh.SetMat4("uViewProj", viewProj)
	r.mesh.SetVec3("uLightPos", env.Light.Position)
	r.mesh.SetVec3("uLightColor", env.Light.Color)
	r.mesh.SetVec3("uCameraPos", env.CameraPos)
	r.mesh.SetFloat("uAmbient", env.Ambient)
	r.mesh.SetBool("uFogUse", env.Fog.Enabled())
	r.mesh.SetFloat("uFogNear", env.Fog.Near)
	r.mesh.SetFloat("uFogFar", env.Fog.Far)
	r.mesh.SetVec3("uFogColor", env.Fog.Color)

	r.line.Use()
	r.line.SetMat4("uViewProj", viewProj)
}

// MeshStyle is how one DrawMesh call shades its mesh.
type MeshStyle struct {
	Material  formats.Material
	Highlight math.Vec3 // added to the lit color
	Unlit     bool      // draw with the diffuse color only
}

// DrawMesh draws every group of m with the given model matrix.
func (r *Renderer) DrawMesh(m *GPUMesh, model math.Mat4, style MeshStyle) {
	if m == nil || m.indexCount == 0 {
		return
	}
	r.mesh.Use()
	r.mesh.SetMat4("uModel", model)
	r.mesh.SetVec3("uKa", style.Material.Ambient)
	r.mesh.SetVec3("uKd", style.Material.Diffuse)
	r.mesh.SetVec3("uKs", style.Material.Specular)
	r.mesh.SetFloat("uNs", style.Material.Shininess)
	r.mesh.SetVec3("uHighlight", style.Highlight)
	r.mesh.SetBool("uSkipLighting", style.Unlit)

	gl.BindVertexArray(m.vao)
	for _, g := range m.groups {
		gl.DrawElementsWithOffset(gl.TRIANGLES, g.IndexCount, gl.UNSIGNED_INT, uintptr(g.StartIndex*4))
	}
	gl.BindVertexArray(0)
}

// DrawLines draws l as the given primitive in a flat color.
func (r *Renderer) DrawLines(l *Lines, prim Primitive, c scene.Color) {
	if l == nil || l.count == 0 {
		return
	}
	r.line.Use()
	r.line.SetVec4("uColor", c.R, c.G, c.B, c.A)
	if prim == Points {
		gl.PointSize(r.config.PointSize)
	}
	gl.BindVertexArray(l.vao)
	gl.DrawArrays(prim.glMode(), 0, l.count)
	gl.BindVertexArray(0)
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
	return pixels, w, h
}
