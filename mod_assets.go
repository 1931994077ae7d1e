package gekko

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/gogpu/naga"
	"github.com/google/uuid"
)

type AssetId string

type AssetServer struct {
	meshes    map[AssetId]*MeshAsset
	materials map[AssetId]*MaterialAsset
	shaders   fs.FS
	sources   map[ShaderRef]string
	logger    Logger
}

type AssetServerModule struct {
	// Shaders resolves ShaderRef paths.
	Shaders fs.FS
}

// Mesh and Material are component handles. Entities holding equal handles
// share one underlying asset.
type Mesh struct {
	assetId AssetId
}

type Material struct {
	assetId AssetId
}

func (m Mesh) AssetId() AssetId     { return m.assetId }
func (m Material) AssetId() AssetId { return m.assetId }

type MeshVertex struct {
	Position [3]float32 `gekko:"layout" location:"0" format:"float3"`
	Normal   [3]float32 `gekko:"layout" location:"1" format:"float3"`
}

type MeshAsset struct {
	vertices []MeshVertex
	indices  []uint16
}

func NewMeshAsset(vertices []MeshVertex, indices []uint16) MeshAsset {
	return MeshAsset{vertices: vertices, indices: indices}
}

func (m *MeshAsset) Vertices() []MeshVertex { return m.vertices }
func (m *MeshAsset) Indices() []uint16      { return m.indices }

// ShaderRef is a logical shader path resolved against the asset server's shader FS.
type ShaderRef string

// MaterialDef describes a shader-backed surface material. Vertex and
// fragment stages use the vs_main and fs_main entry points of their sources.
type MaterialDef interface {
	VertexShader() ShaderRef
	FragmentShader() ShaderRef
	AlphaMode() AlphaMode
}

type MaterialAsset struct {
	def            MaterialDef
	alphaMode      AlphaMode
	vertexShader   ShaderRef
	fragmentShader ShaderRef
	vertexSource   string
	fragmentSource string
}

func (m *MaterialAsset) Def() MaterialDef { return m.def }

// AlphaMode is the mode the material renders with. It differs from
// Def().AlphaMode() when the material was added WithAlphaMode.
func (m *MaterialAsset) AlphaMode() AlphaMode { return m.alphaMode }

// SharedSource reports whether both stages come from the same shader file.
func (m *MaterialAsset) SharedSource() bool {
	return m.vertexShader == m.fragmentShader
}

func (server *AssetServer) AddMesh(mesh MeshAsset) Mesh {
	id := makeAssetId()
	server.meshes[id] = &mesh
	return Mesh{assetId: id}
}

type materialOptions struct {
	alphaMode    AlphaMode
	hasAlphaMode bool
}

type MaterialOption func(*materialOptions)

// WithAlphaMode registers the material with mode instead of the mode its
// definition reports.
func WithAlphaMode(mode AlphaMode) MaterialOption {
	return func(o *materialOptions) {
		o.alphaMode = mode
		o.hasAlphaMode = true
	}
}

// AddMaterial loads and compiles the definition's shaders. A missing or
// empty source, an invalid alpha mode or a WGSL compile error is returned
// and nothing is registered.
func (server *AssetServer) AddMaterial(def MaterialDef, opts ...MaterialOption) (Material, error) {
	if def == nil {
		return Material{}, errors.New("material definition is nil")
	}

	var o materialOptions
	for _, opt := range opts {
		opt(&o)
	}
	alphaMode := def.AlphaMode()
	if o.hasAlphaMode {
		if o.alphaMode != alphaMode {
			server.logger.Warnf("material %T: configured alpha mode %s overrides %s reported by the definition",
				def, o.alphaMode, alphaMode)
		}
		alphaMode = o.alphaMode
	}
	if err := validateAlphaMode(alphaMode); err != nil {
		return Material{}, err
	}

	vs, fsRef := def.VertexShader(), def.FragmentShader()
	vertexSource, err := server.loadShader(vs)
	if err != nil {
		return Material{}, err
	}
	fragmentSource := vertexSource
	if fsRef != vs {
		if fragmentSource, err = server.loadShader(fsRef); err != nil {
			return Material{}, err
		}
	}

	id := makeAssetId()
	server.materials[id] = &MaterialAsset{
		def:            def,
		alphaMode:      alphaMode,
		vertexShader:   vs,
		fragmentShader: fsRef,
		vertexSource:   vertexSource,
		fragmentSource: fragmentSource,
	}
	return Material{assetId: id}, nil
}

func (server *AssetServer) loadShader(ref ShaderRef) (string, error) {
	if source, ok := server.sources[ref]; ok {
		return source, nil
	}
	if server.shaders == nil {
		return "", fmt.Errorf("shader %q: no shader source configured", ref)
	}

	data, err := fs.ReadFile(server.shaders, string(ref))
	if err != nil {
		return "", fmt.Errorf("shader %q: %w", ref, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", fmt.Errorf("shader %q: empty source", ref)
	}
	if _, err := naga.Compile(string(data)); err != nil {
		if !nagaUnsupported(err) {
			return "", fmt.Errorf("shader %q: compile: %w", ref, err)
		}
		// left to the driver's validation at pipeline creation
		server.logger.Debugf("shader %q: naga cannot validate it: %v", ref, err)
	}

	source := string(data)
	server.sources[ref] = source
	return source, nil
}

// nagaUnsupported reports errors caused by WGSL features naga does not
// implement yet, as opposed to invalid source.
func nagaUnsupported(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported")
}

func (server *AssetServer) Mesh(handle Mesh) (*MeshAsset, bool) {
	m, ok := server.meshes[handle.assetId]
	return m, ok
}

func (server *AssetServer) Material(handle Material) (*MaterialAsset, bool) {
	m, ok := server.materials[handle.assetId]
	return m, ok
}

func (server *AssetServer) MeshCount() int     { return len(server.meshes) }
func (server *AssetServer) MaterialCount() int { return len(server.materials) }

func NewAssetServer(shaders fs.FS) *AssetServer {
	return &AssetServer{
		meshes:    make(map[AssetId]*MeshAsset),
		materials: make(map[AssetId]*MaterialAsset),
		shaders:   shaders,
		sources:   make(map[ShaderRef]string),
		logger:    NewNopLogger(),
	}
}

func (mod AssetServerModule) Install(app *App, cmd *Commands) {
	server := NewAssetServer(mod.Shaders)
	server.logger = app.Logger().Target(LogTargetGpu)
	app.addResources(server)
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
