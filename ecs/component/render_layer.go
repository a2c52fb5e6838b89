package component

// RenderLayer orders sprite drawing; lower indices are drawn first.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()
