package gekko

type LightType uint32

const (
	LightTypePoint       LightType = 0
	LightTypeDirectional LightType = 1
	LightTypeSpot        LightType = 2
	LightTypeAmbient     LightType = 3
)

// Illuminance presets in lux.
const (
	LuxMoonlessNight   float32 = 0.0001
	LuxFullMoonNight   float32 = 0.05
	LuxLivingRoom      float32 = 50
	LuxDarkOvercastDay float32 = 100
	LuxOffice          float32 = 320
	LuxOvercastDay     float32 = 1000
	LuxAmbientDaylight float32 = 10000
	LuxFullDaylight    float32 = 20000
	LuxDirectSunlight  float32 = 100000
)

// LightComponent is the ECS component for lights.
// Directional lights shine along the owning transform's Forward().
type LightComponent struct {
	Type           LightType
	Color          [3]float32 // RGB
	Intensity      float32    // lux for directional lights, lumens otherwise
	Range          float32    // For point/spot
	ConeAngle      float32    // Full cone angle in degrees (spot)
	ShadowsEnabled bool
}

func NewDirectionalLight(illuminance float32) LightComponent {
	return LightComponent{
		Type:      LightTypeDirectional,
		Color:     [3]float32{1, 1, 1},
		Intensity: illuminance,
	}
}

// NotShadowCaster keeps an entity out of shadow maps.
type NotShadowCaster struct{}
